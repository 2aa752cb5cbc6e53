package config

import (
	"fmt"
	"time"

	"github.com/nshafer/sigsock"
)

// QueuePolicy returns the sigsock policy named by queue.policy.
func (c *ClientConfig) QueuePolicy() (sigsock.QueuePolicy, error) {
	switch c.Queue.Policy {
	case "drop_oldest", "":
		return sigsock.QueueDropOldest, nil
	case "drop_newest":
		return sigsock.QueueDropNewest, nil
	}
	return sigsock.QueueDropOldest, fmt.Errorf("queue.policy must be drop_oldest or drop_newest, got %q", c.Queue.Policy)
}

// Apply copies the socket settings onto s. c should already be validated.
func (c *ClientConfig) Apply(s *sigsock.Socket) {
	s.EndPoint = c.Endpoint
	s.HeartbeatInterval = millis(c.HeartbeatIntervalMs)
	s.HeartbeatFailureLimit = c.HeartbeatFailureLimit
	s.BackoffBase = millis(c.BackoffBaseMs)
	s.BackoffCap = millis(c.BackoffCapMs)
	s.ConnectTimeout = c.ConnectTimeout
	s.WriteTimeout = c.WriteTimeout
	s.MaxQueueSize = c.Queue.MaxSize
	s.QueuePolicy, _ = c.QueuePolicy()
}

// millis converts a millisecond setting; negative values become 0, which disables the feature.
func millis(ms int) time.Duration {
	if ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
