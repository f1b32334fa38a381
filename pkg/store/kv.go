package store

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
)

// KV is the key/value surface the outline store is built on. It matches the
// method set of *diskv.Diskv so the diskv driver plugs in directly.
type KV interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
	Erase(key string) error
	KeysPrefix(prefix string, cancel <-chan struct{}) <-chan string
}

// Driver names accepted in configuration.
const (
	DriverDiskv  = "diskv"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

func notFound(key string) error {
	return fmt.Errorf("store: %s: %w", key, fs.ErrNotExist)
}

func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// MemoryKV keeps everything in a map. Used by tests and the memory driver.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV returns an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Read(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, notFound(key)
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (m *MemoryKV) Write(key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(val))
	copy(cp, val)
	m.data[key] = cp
	return nil
}

func (m *MemoryKV) Erase(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return notFound(key)
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) KeysPrefix(prefix string, cancel <-chan struct{}) <-chan string {
	m.mu.RLock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	m.mu.RUnlock()
	sort.Strings(keys)
	return stream(keys, cancel)
}

func stream(keys []string, cancel <-chan struct{}) <-chan string {
	c := make(chan string)
	go func() {
		defer close(c)
		for _, k := range keys {
			select {
			case c <- k:
			case <-cancel:
				return
			}
		}
	}()
	return c
}
