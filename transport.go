package sigsock

import (
	"net/http"
)

// Transport is one connection attempt to the server. A Transport is used once: after it reports a close it is
// discarded and the Socket asks its TransportFactory for a new one.
type Transport interface {
	// Send writes one frame. It fails if the transport is not open.
	Send(data []byte) error

	// Close closes the transport. It is safe to call more than once and from any goroutine.
	Close() error
}

// TransportHandler receives the events of a Transport. OnTransportClose is delivered at most once and nothing
// follows it. Handlers may be called from any goroutine.
type TransportHandler interface {
	OnTransportOpen()
	OnTransportMessage(data []byte)
	OnTransportClose(code int, reason string)
	OnTransportError(err error)
}

// TransportFactory starts a new Transport to endPoint that reports to handler. It must not block on the
// network; dial failures are reported through handler.OnTransportClose.
type TransportFactory func(endPoint string, requestHeader http.Header, handler TransportHandler) (Transport, error)
