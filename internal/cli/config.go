package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the assetscope configuration, loaded from a TOML file. Every
// field has a working default so a missing config file is never an error.
type Config struct {
	Source SourceConfig `toml:"source"`
	Store  StoreConfig  `toml:"store"`
	View   ViewConfig   `toml:"view"`
	Serve  ServeConfig  `toml:"serve"`
}

// SourceConfig selects where graphs are loaded from.
type SourceConfig struct {
	// Path to a graph JSON file. Takes precedence when set.
	Path string `toml:"path"`

	Mongo MongoSourceConfig `toml:"mongo"`
}

// MongoSourceConfig configures the MongoDB graph source.
type MongoSourceConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
	Assets   string `toml:"assets_collection"`
	Edges    string `toml:"edges_collection"`
}

// StoreConfig selects the view-state and layout-cache backend.
type StoreConfig struct {
	// Backend is one of "file", "redis", or "memory".
	Backend string `toml:"backend"`
	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`

	Redis RedisStoreConfig `toml:"redis"`
}

// RedisStoreConfig configures the redis store backend.
type RedisStoreConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// ViewConfig holds explorer view defaults.
type ViewConfig struct {
	Width     float64 `toml:"width"`
	Height    float64 `toml:"height"`
	Direction string  `toml:"direction"` // "tb" or "lr"
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{Backend: "file"},
		View:  ViewConfig{Width: 1200, Height: 800, Direction: "tb"},
		Serve: ServeConfig{Addr: ":8487"},
	}
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields DefaultConfig with no error; a
// file that exists but does not parse is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, fmt.Errorf("config file %s does not exist", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// configDir returns the config directory using the XDG convention
// (~/.config/assetscope/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
