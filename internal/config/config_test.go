package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nshafer/sigsock"
)

func TestLoad(t *testing.T) {
	yaml := `
endpoint: wss://signal.example.com/ws
room: standup
user_id: 4f1c2e9a
heartbeat_interval_ms: 10000
backoff_base_ms: 500
backoff_cap_ms: 8000
connect_timeout: 3s
write_timeout: 1500ms
queue:
  max_size: 100
  policy: drop_newest
log:
  level: debug
  format: json
metrics:
  addr: ":9100"
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Endpoint != "wss://signal.example.com/ws" {
		t.Errorf("Endpoint = %q, want %q", cfg.Endpoint, "wss://signal.example.com/ws")
	}
	if cfg.Room != "standup" {
		t.Errorf("Room = %q, want %q", cfg.Room, "standup")
	}
	if cfg.ConnectTimeout != 3*time.Second {
		t.Errorf("ConnectTimeout = %v, want %v", cfg.ConnectTimeout, 3*time.Second)
	}
	if cfg.WriteTimeout != 1500*time.Millisecond {
		t.Errorf("WriteTimeout = %v, want %v", cfg.WriteTimeout, 1500*time.Millisecond)
	}
	if cfg.Queue.MaxSize != 100 || cfg.Queue.Policy != "drop_newest" {
		t.Errorf("Queue = %+v, want max_size 100, policy drop_newest", cfg.Queue)
	}
	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":9100")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_SIGNAL_HOST", "signal.internal:8443")

	path := writeTempFile(t, "endpoint: wss://${TEST_SIGNAL_HOST}/ws\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Endpoint != "wss://signal.internal:8443/ws" {
		t.Errorf("Endpoint = %q, want %q", cfg.Endpoint, "wss://signal.internal:8443/ws")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "endpoint: ws://localhost:8080/ws\nmetrics:\n  addr: \":9100\"\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.HeartbeatIntervalMs != DefaultHeartbeatIntervalMs {
		t.Errorf("HeartbeatIntervalMs = %d, want default %d", cfg.HeartbeatIntervalMs, DefaultHeartbeatIntervalMs)
	}
	if cfg.BackoffBaseMs != DefaultBackoffBaseMs {
		t.Errorf("BackoffBaseMs = %d, want default %d", cfg.BackoffBaseMs, DefaultBackoffBaseMs)
	}
	if cfg.BackoffCapMs != DefaultBackoffCapMs {
		t.Errorf("BackoffCapMs = %d, want default %d", cfg.BackoffCapMs, DefaultBackoffCapMs)
	}
	if cfg.Room != DefaultRoom {
		t.Errorf("Room = %q, want default %q", cfg.Room, DefaultRoom)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v, want defaults", cfg.Log)
	}
	if cfg.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want default %v", cfg.WriteTimeout, DefaultWriteTimeout)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want default %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() ClientConfig {
		cfg := ClientConfig{Endpoint: "wss://signal.example.com/ws"}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*ClientConfig)
		wantErr string
	}{
		{
			name:    "missing endpoint",
			modify:  func(c *ClientConfig) { c.Endpoint = "" },
			wantErr: "endpoint is required",
		},
		{
			name:    "http endpoint",
			modify:  func(c *ClientConfig) { c.Endpoint = "https://signal.example.com/ws" },
			wantErr: `endpoint scheme must be ws or wss, got "https"`,
		},
		{
			name:    "cap below base",
			modify:  func(c *ClientConfig) { c.BackoffBaseMs = 2000; c.BackoffCapMs = 1000 },
			wantErr: "backoff_cap_ms (1000) cannot be less than backoff_base_ms (2000)",
		},
		{
			name:    "negative queue size",
			modify:  func(c *ClientConfig) { c.Queue.MaxSize = -1 },
			wantErr: "queue.max_size must be >= 0",
		},
		{
			name:    "unknown queue policy",
			modify:  func(c *ClientConfig) { c.Queue.Policy = "block" },
			wantErr: `queue.policy must be drop_oldest or drop_newest, got "block"`,
		},
		{
			name:    "unknown log format",
			modify:  func(c *ClientConfig) { c.Log.Format = "xml" },
			wantErr: `log.format must be console or json, got "xml"`,
		},
		{
			name:    "negative heartbeat failure limit",
			modify:  func(c *ClientConfig) { c.HeartbeatFailureLimit = -2 },
			wantErr: "heartbeat_failure_limit must be >= 0",
		},
		{
			name:    "negative write timeout",
			modify:  func(c *ClientConfig) { c.WriteTimeout = -time.Second },
			wantErr: "connect_timeout and write_timeout must be >= 0",
		},
		{
			name:    "valid config",
			modify:  func(c *ClientConfig) {},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestApply(t *testing.T) {
	cfg := ClientConfig{
		Endpoint:            "ws://localhost:8080/ws",
		HeartbeatIntervalMs: -1,
		BackoffBaseMs:       250,
		BackoffCapMs:        4000,
		ConnectTimeout:      2 * time.Second,
		WriteTimeout:        750 * time.Millisecond,
		Queue:               QueueConfig{MaxSize: 10, Policy: "drop_newest"},
	}

	s := sigsock.NewSocket("")
	cfg.Apply(s)

	if s.EndPoint != cfg.Endpoint {
		t.Errorf("EndPoint = %q, want %q", s.EndPoint, cfg.Endpoint)
	}
	if s.HeartbeatInterval != 0 {
		t.Errorf("HeartbeatInterval = %v, want 0 (disabled)", s.HeartbeatInterval)
	}
	if s.BackoffBase != 250*time.Millisecond || s.BackoffCap != 4*time.Second {
		t.Errorf("backoff = %v..%v, want 250ms..4s", s.BackoffBase, s.BackoffCap)
	}
	if s.ReconnectAfter(5) != 4*time.Second {
		t.Errorf("ReconnectAfter(5) = %v, want 4s", s.ReconnectAfter(5))
	}
	if s.ConnectTimeout != 2*time.Second || s.WriteTimeout != 750*time.Millisecond {
		t.Errorf("timeouts = %v/%v, want 2s/750ms", s.ConnectTimeout, s.WriteTimeout)
	}
	if s.MaxQueueSize != 10 || s.QueuePolicy != sigsock.QueueDropNewest {
		t.Errorf("queue = %d %v, want 10 drop_newest", s.MaxQueueSize, s.QueuePolicy)
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
