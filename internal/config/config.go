package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig is the root of the configuration file.
type ClientConfig struct {
	Endpoint string `yaml:"endpoint"`
	Room     string `yaml:"room"`
	UserID   string `yaml:"user_id"`

	// HeartbeatIntervalMs is the keepalive period. A negative value disables the heartbeat.
	HeartbeatIntervalMs   int           `yaml:"heartbeat_interval_ms"`
	HeartbeatFailureLimit int           `yaml:"heartbeat_failure_limit"`
	BackoffBaseMs         int           `yaml:"backoff_base_ms"`
	BackoffCapMs          int           `yaml:"backoff_cap_ms"`
	ConnectTimeout        time.Duration `yaml:"connect_timeout"`
	WriteTimeout          time.Duration `yaml:"write_timeout"`

	Queue   QueueConfig   `yaml:"queue"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// QueueConfig bounds the outbound queue. MaxSize 0 is unbounded.
type QueueConfig struct {
	MaxSize int    `yaml:"max_size"`
	Policy  string `yaml:"policy"` // "drop_oldest" or "drop_newest"
}

// LogConfig selects the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "console" or "json"
}

// MetricsConfig enables the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path"`
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references in data and decodes it.
func Parse(data []byte) (*ClientConfig, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg ClientConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config and applies default values.
func LoadWithDefaults(path string) (*ClientConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*ClientConfig, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
