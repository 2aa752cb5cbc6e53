package sigsock

import (
	"math"
	"time"
)

const (
	// defaultConnectTimeout is the default handshake timeout
	defaultConnectTimeout = 10 * time.Second

	// defaultWriteTimeout is the default write deadline for a single frame
	defaultWriteTimeout = 5 * time.Second

	// defaultHeartbeat is the default time between heartbeats
	defaultHeartbeat = 20 * time.Second

	// defaultBackoffBase is the delay before the first reconnect attempt
	defaultBackoffBase = 1 * time.Second

	// defaultBackoffCap is the longest delay between reconnect attempts
	defaultBackoffCap = 15 * time.Second
)

// PingType is the type tag of the keepalive message sent by the heartbeat loop.
const PingType = "__ping__"

// backoffDelay returns min(base * 2^tries, limit) without overflowing for large tries.
func backoffDelay(base, limit time.Duration, tries int) time.Duration {
	if base <= 0 {
		return 0
	}
	if tries < 0 {
		tries = 0
	}
	if limit <= 0 {
		limit = math.MaxInt64
	}
	delay := base
	for i := 0; i < tries; i++ {
		if delay >= limit/2 {
			delay = limit
			break
		}
		delay *= 2
	}
	return min(delay, limit)
}
