package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/format"
)

// Config is the podctl configuration file.
type Config struct {
	ByteOrder   string `toml:"byte_order"`
	Compression string `toml:"compression"`
	LogLevel    string `toml:"log_level"`
	MaxSize     int    `toml:"max_size"`
}

// settings is a validated Config.
type settings struct {
	engine      endian.EndianEngine
	compression format.CompressionType
	level       zerolog.Level
	maxSize     int
}

func defaultConfig() Config {
	return Config{
		ByteOrder:   "native",
		Compression: "zstd",
		LogLevel:    "info",
		MaxSize:     64 << 20,
	}
}

// defaultConfigPath returns $XDG_CONFIG_HOME/podctl/config.toml, falling
// back to ~/.config.
func defaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "podctl", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".config", "podctl", "config.toml"), nil
}

// loadConfig reads path over the defaults. An explicit path must exist; the
// default path is optional.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return cfg, nil //nolint: nilerr // no home directory, no config file
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}

		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

func (c Config) validate() (settings, error) {
	engine, err := endian.ParseEngine(c.ByteOrder)
	if err != nil {
		return settings{}, fmt.Errorf("config byte_order: %w", err)
	}
	compression, err := format.ParseCompression(c.Compression)
	if err != nil {
		return settings{}, fmt.Errorf("config compression: %w", err)
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return settings{}, fmt.Errorf("config log_level: %w", err)
	}
	if c.MaxSize < 0 {
		return settings{}, fmt.Errorf("config max_size: negative value %d", c.MaxSize)
	}

	return settings{engine: engine, compression: compression, level: level, maxSize: c.MaxSize}, nil
}
