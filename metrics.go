package sigsock

// Metrics receives counters from a Socket. The metrics package has a Prometheus implementation.
type Metrics interface {
	SetState(state ConnectionState)
	IncrementConnectAttempts()
	IncrementReconnectsScheduled()
	IncrementMessagesSent(msgType string)
	IncrementMessagesReceived(msgType string)
	IncrementHeartbeats()
	IncrementErrors(kind ErrorKind)
	SetQueueLength(n int)
	IncrementDroppedMessages()
}

// NoopMetrics discards everything. It is the default.
type NoopMetrics struct{}

func (m *NoopMetrics) SetState(state ConnectionState)           {}
func (m *NoopMetrics) IncrementConnectAttempts()                {}
func (m *NoopMetrics) IncrementReconnectsScheduled()            {}
func (m *NoopMetrics) IncrementMessagesSent(msgType string)     {}
func (m *NoopMetrics) IncrementMessagesReceived(msgType string) {}
func (m *NoopMetrics) IncrementHeartbeats()                     {}
func (m *NoopMetrics) IncrementErrors(kind ErrorKind)           {}
func (m *NoopMetrics) SetQueueLength(n int)                     {}
func (m *NoopMetrics) IncrementDroppedMessages()                {}
