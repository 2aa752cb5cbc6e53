package sigsock

import (
	"errors"
	"fmt"
)

var (
	ErrNotConnected    = errors.New("sigsock: transport not connected")
	ErrTransportClosed = errors.New("sigsock: transport closed")
	ErrInvalidMessage  = errors.New("sigsock: invalid message")
)

// ErrorKind classifies the conditions a Socket recovers from.
type ErrorKind int

const (
	TransportOpenFailure ErrorKind = iota + 1
	TransportClosedUnexpectedly
	TransportError
	MalformedMessage
	UnhandledMessageType
	SerializationError
	SendFailure
	HeartbeatSendFailure
	QueueOverflow
	HandlerPanic
)

func (k ErrorKind) String() string {
	switch k {
	case TransportOpenFailure:
		return "transport_open_failure"
	case TransportClosedUnexpectedly:
		return "transport_closed_unexpectedly"
	case TransportError:
		return "transport_error"
	case MalformedMessage:
		return "malformed_message"
	case UnhandledMessageType:
		return "unhandled_message_type"
	case SerializationError:
		return "serialization_error"
	case SendFailure:
		return "send_failure"
	case HeartbeatSendFailure:
		return "heartbeat_send_failure"
	case QueueOverflow:
		return "queue_overflow"
	case HandlerPanic:
		return "handler_panic"
	}
	return "unknown"
}

// Sentinels for errors.Is. An *Error matches the sentinel of the same Kind.
var (
	ErrTransportOpenFailure        = &Error{Kind: TransportOpenFailure}
	ErrTransportClosedUnexpectedly = &Error{Kind: TransportClosedUnexpectedly}
	ErrTransportError              = &Error{Kind: TransportError}
	ErrMalformedMessage            = &Error{Kind: MalformedMessage}
	ErrUnhandledMessageType        = &Error{Kind: UnhandledMessageType}
	ErrSerialization               = &Error{Kind: SerializationError}
	ErrSendFailure                 = &Error{Kind: SendFailure}
	ErrHeartbeatSendFailure        = &Error{Kind: HeartbeatSendFailure}
	ErrQueueOverflow               = &Error{Kind: QueueOverflow}
	ErrHandlerPanic                = &Error{Kind: HandlerPanic}
)

// Error is reported to OnError callbacks. None of these are fatal to the Socket.
type Error struct {
	Kind ErrorKind

	// Type is the message type tag involved, if any.
	Type string

	Err error
}

func newError(kind ErrorKind, msgType string, err error) *Error {
	return &Error{Kind: kind, Type: msgType, Err: err}
}

func (e *Error) Error() string {
	s := "sigsock: " + e.Kind.String()
	if e.Type != "" {
		s += fmt.Sprintf(" (type %q)", e.Type)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Type == "" || t.Type == e.Type)
}

// CloseError carries the close code and reason reported by the transport.
type CloseError struct {
	Code   int
	Reason string
}

func (e *CloseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("closed with code %d", e.Code)
	}
	return fmt.Sprintf("closed with code %d: %s", e.Code, e.Reason)
}
