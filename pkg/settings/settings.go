// Package settings loads the carry configuration file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/carry/pkg/keymap"
	"tableflip.dev/carry/pkg/marker"
)

// Version is the current settings schema. Files carrying any other version
// are replaced with the defaults.
const Version = "v1"

const fileName = ".carry" // .yaml is implicit

// Settings is the loaded configuration.
type Settings struct {
	SettingsVersion string            `mapstructure:"settingsVersion" yaml:"settingsVersion"`
	Workflow        string            `mapstructure:"workflow" yaml:"workflow"`
	KeyBindings     map[string]string `mapstructure:"keyBindings" yaml:"keyBindings"`
	Highlight       marker.Delimiters `mapstructure:"highlight" yaml:"highlight"`
	Disabled        bool              `mapstructure:"disabled" yaml:"disabled"`
	Store           StoreSettings     `mapstructure:"store" yaml:"store"`
	Feed            FeedSettings      `mapstructure:"feed" yaml:"feed"`
	Log             LogSettings       `mapstructure:"log" yaml:"log"`

	// File is the config file read, if any.
	File string `mapstructure:"-" yaml:"-"`
	// Reset is set when a stale file was replaced by the defaults.
	Reset bool `mapstructure:"-" yaml:"-"`
}

type StoreSettings struct {
	Path   string `mapstructure:"path" yaml:"path"`
	Driver string `mapstructure:"driver" yaml:"driver"`
}

type FeedSettings struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir     string `mapstructure:"dir" yaml:"dir"`
}

type LogSettings struct {
	Level string `mapstructure:"level" yaml:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("settingsVersion", Version)
	v.SetDefault("workflow", marker.TodoWorkflow.String())
	bindings := map[string]string{}
	for _, a := range keymap.Defaults() {
		bindings[a.Key] = a.Binding
	}
	v.SetDefault("keyBindings", bindings)
	v.SetDefault("highlight.open", marker.DefaultDelimiters.Open)
	v.SetDefault("highlight.close", marker.DefaultDelimiters.Close)
	v.SetDefault("disabled", false)
	v.SetDefault("store.path", "~/.carry.db")
	v.SetDefault("store.driver", "diskv")
	v.SetDefault("feed.enabled", false)
	v.SetDefault("feed.dir", "~/.carry.feed")
	v.SetDefault("log.level", "info")
}

func newViper(paths []string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CARRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(paths) > 0 {
		for _, p := range paths {
			v.AddConfigPath(p)
		}
		return v
	}
	if override := os.Getenv("CARRY_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	return v
}

// Load reads .carry.yaml from paths, or from $CARRY_CONFIG_PATH, the working
// directory and $HOME when no paths are given. A missing file yields the
// defaults.
func Load(paths ...string) (*Settings, error) {
	v := newViper(paths)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("settings: read config: %w", err)
		}
		found = false
	}

	reset := false
	if found && v.GetString("settingsVersion") != Version {
		file := v.ConfigFileUsed()
		v = newViper(paths)
		if err := v.WriteConfigAs(file); err != nil {
			return nil, fmt.Errorf("settings: reset %s: %w", file, err)
		}
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("settings: reread %s: %w", file, err)
		}
		reset = true
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("settings: decode: %w", err)
	}
	s.File = v.ConfigFileUsed()
	s.Reset = reset
	if err := s.expand(); err != nil {
		return nil, err
	}
	if _, err := s.ParsedWorkflow(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) expand() error {
	var err error
	if s.Store.Path, err = homedir.Expand(s.Store.Path); err != nil {
		return fmt.Errorf("settings: store.path: %w", err)
	}
	if s.Feed.Dir, err = homedir.Expand(s.Feed.Dir); err != nil {
		return fmt.Errorf("settings: feed.dir: %w", err)
	}
	return nil
}

// ParsedWorkflow returns the configured workflow.
func (s *Settings) ParsedWorkflow() (marker.Workflow, error) {
	return marker.ParseWorkflow(s.Workflow)
}

// Keymap builds the key bindings with the configured overrides.
func (s *Settings) Keymap() (*keymap.Map, error) {
	return keymap.New(s.KeyBindings)
}

// BasePath implements store.Config.
func (s *Settings) BasePath() string { return s.Store.Path }

// Driver implements store.Config.
func (s *Settings) Driver() string { return s.Store.Driver }
