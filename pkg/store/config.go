package store

import (
	"fmt"
	"strings"
)

// Config locates the store on disk.
type Config interface {
	BasePath() string
	Driver() string
}

// OpenKV opens the KV driver named by cfg.
func OpenKV(cfg Config) (KV, error) {
	switch d := strings.ToLower(strings.TrimSpace(cfg.Driver())); d {
	case "", DriverDiskv:
		return NewDiskvKV(cfg.BasePath())
	case DriverSQLite:
		return NewSQLiteKV(cfg.BasePath())
	case DriverMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", d)
	}
}
