package sigsock

// ConnectionState is the lifecycle state of a Socket.
type ConnectionState int32

const (
	// StateDisconnected is the initial state, and the state after Close.
	StateDisconnected ConnectionState = iota

	// StateConnecting means a transport exists but has not opened yet.
	StateConnecting

	// StateOpen means the transport is open and messages are written directly.
	StateOpen
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
