// Package config loads runtime settings from a .env file, an optional YAML
// file named by LIGHTGRAPH_CONFIG and LIGHTGRAPH_* environment variables.
// Environment variables win over the file; the file wins over defaults.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lightgraph/lightgraph/pkg/serialization"
)

// FileEnv names the YAML file overlaid on the defaults
const FileEnv = "LIGHTGRAPH_CONFIG"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for the lightgraph binaries
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Host       HostConfig       `yaml:"host"`
	Store      StoreConfig      `yaml:"store"`
	Serializer SerializerConfig `yaml:"serializer"`
	Server     ServerConfig     `yaml:"server"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

type HostConfig struct {
	TickRate    int `yaml:"tick_rate"`    // ticks per second
	Workers     int `yaml:"workers"`      // layers updated in parallel
	FrameBuffer int `yaml:"frame_buffer"` // frames kept for slow consumers
}

type StoreConfig struct {
	Driver string `yaml:"driver"` // memory, sqlite or postgres
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

type SerializerConfig struct {
	Codec       string `yaml:"codec"`
	Compression string `yaml:"compression"`
	EncryptKey  string `yaml:"encrypt_key"` // hex encoded AES key
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		Log:        LogConfig{Level: "info", Format: "text"},
		Host:       HostConfig{TickRate: 30, Workers: 1, FrameBuffer: 64},
		Store:      StoreConfig{Driver: "memory", Table: "scripts"},
		Serializer: SerializerConfig{Codec: "msgpack", Compression: "zstd"},
		Server:     ServerConfig{Addr: ":8080", RequestTimeout: 10 * time.Second},
	}
}

// Load builds the configuration from defaults, the YAML file and the environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Log.Level = getEnvWithDefault("LIGHTGRAPH_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvWithDefault("LIGHTGRAPH_LOG_FORMAT", c.Log.Format)
	c.Host.TickRate = getEnvAsInt("LIGHTGRAPH_TICK_RATE", c.Host.TickRate)
	c.Host.Workers = getEnvAsInt("LIGHTGRAPH_HOST_WORKERS", c.Host.Workers)
	c.Host.FrameBuffer = getEnvAsInt("LIGHTGRAPH_FRAME_BUFFER", c.Host.FrameBuffer)
	c.Store.Driver = getEnvWithDefault("LIGHTGRAPH_STORE_DRIVER", c.Store.Driver)
	c.Store.DSN = getEnvWithDefault("LIGHTGRAPH_STORE_DSN", c.Store.DSN)
	c.Store.Table = getEnvWithDefault("LIGHTGRAPH_STORE_TABLE", c.Store.Table)
	c.Serializer.Codec = getEnvWithDefault("LIGHTGRAPH_CODEC", c.Serializer.Codec)
	c.Serializer.Compression = getEnvWithDefault("LIGHTGRAPH_COMPRESSION", c.Serializer.Compression)
	c.Serializer.EncryptKey = getEnvWithDefault("LIGHTGRAPH_ENCRYPT_KEY", c.Serializer.EncryptKey)
	c.Server.Addr = getEnvWithDefault("LIGHTGRAPH_ADDR", c.Server.Addr)
	c.Server.RequestTimeout = getEnvAsDuration("LIGHTGRAPH_REQUEST_TIMEOUT", c.Server.RequestTimeout)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := c.Log.level(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	if c.Host.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive")
	}
	if c.Host.Workers < 0 || c.Host.FrameBuffer < 0 {
		return fmt.Errorf("host workers and frame buffer must not be negative")
	}
	switch c.Store.Driver {
	case "memory":
	case "sqlite", "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store dsn is required for %s", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if _, err := c.Serializer.Build(); err != nil {
		return err
	}
	return nil
}

// TickInterval is the host tick period
func (h HostConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(h.TickRate)
}

// Build creates the configured serializer
func (s SerializerConfig) Build() (*serialization.Serializer, error) {
	var key []byte
	if s.EncryptKey != "" {
		decoded, err := hex.DecodeString(s.EncryptKey)
		if err != nil {
			return nil, fmt.Errorf("encrypt key must be hex: %w", err)
		}
		switch len(decoded) {
		case 16, 24, 32:
		default:
			return nil, fmt.Errorf("encrypt key must be 16, 24 or 32 bytes, got %d", len(decoded))
		}
		key = decoded
	}
	return serialization.FromNames(s.Codec, s.Compression, key)
}

// NewLogger builds the process logger writing to w
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := l.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return level, fmt.Errorf("unknown log level %q", l.Level)
	}
	return level, nil
}

// Helper functions for environment variable parsing

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
