package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHeartbeatIntervalMs = 20000
	DefaultBackoffBaseMs       = 1000
	DefaultBackoffCapMs        = 15000
	DefaultConnectTimeout      = 10 * time.Second
	DefaultWriteTimeout        = 5 * time.Second
	DefaultQueuePolicy         = "drop_oldest"
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "console"
	DefaultMetricsPath         = "/metrics"
	DefaultRoom                = "lobby"
)

// ApplyDefaults fills in every optional field left empty.
func (c *ClientConfig) ApplyDefaults() {
	if c.Room == "" {
		c.Room = DefaultRoom
	}
	if c.HeartbeatIntervalMs == 0 {
		c.HeartbeatIntervalMs = DefaultHeartbeatIntervalMs
	}
	if c.BackoffBaseMs == 0 {
		c.BackoffBaseMs = DefaultBackoffBaseMs
	}
	if c.BackoffCapMs == 0 {
		c.BackoffCapMs = DefaultBackoffCapMs
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}

	if c.Queue.Policy == "" {
		c.Queue.Policy = DefaultQueuePolicy
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	if c.Metrics.Addr != "" && c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
