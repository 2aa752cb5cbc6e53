package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/nshafer/sigsock"
)

// Validate checks that all required fields are set and values are valid.
func (c *ClientConfig) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint is invalid: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("endpoint scheme must be ws or wss, got %q", u.Scheme)
	}

	if c.BackoffBaseMs < 1 {
		return errors.New("backoff_base_ms must be >= 1")
	}
	if c.BackoffCapMs < c.BackoffBaseMs {
		return fmt.Errorf("backoff_cap_ms (%d) cannot be less than backoff_base_ms (%d)", c.BackoffCapMs, c.BackoffBaseMs)
	}
	if c.ConnectTimeout < 0 || c.WriteTimeout < 0 {
		return errors.New("connect_timeout and write_timeout must be >= 0")
	}
	if c.HeartbeatFailureLimit < 0 {
		return errors.New("heartbeat_failure_limit must be >= 0")
	}

	if c.Queue.MaxSize < 0 {
		return errors.New("queue.max_size must be >= 0")
	}
	if _, err := c.QueuePolicy(); err != nil {
		return err
	}

	if _, err := sigsock.ParseLoggerLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}

	return nil
}
