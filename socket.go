package sigsock

import (
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Socket keeps one logical connection to EndPoint alive. It reconnects with exponential backoff after unexpected
// closes, queues messages sent while not open, sends a keepalive ping while open and dispatches inbound
// messages by their type tag.
//
// All Socket state is owned by a serial executor: public methods only post work to it and return immediately,
// and handlers and callbacks run on it one at a time. The exported fields configure the Socket and must not be
// changed after the first call to Connect.
type Socket struct {
	EndPoint      string
	RequestHeader http.Header
	Dialer        *websocket.Dialer
	Logger        Logger
	Metrics       Metrics
	Serializer    Serializer
	Clock         Clock

	// TransportFactory creates the transport for each connection attempt. nil uses a Websocket built from
	// Dialer, ConnectTimeout and WriteTimeout.
	TransportFactory TransportFactory

	ConnectTimeout time.Duration
	WriteTimeout   time.Duration

	// HeartbeatInterval is the time between keepalive pings. 0 disables the heartbeat.
	HeartbeatInterval time.Duration

	// HeartbeatFailureLimit is the number of consecutive failed pings after which the transport is closed and a
	// reconnect scheduled. 0 never gives up on the transport because of pings.
	HeartbeatFailureLimit int

	BackoffBase time.Duration
	BackoffCap  time.Duration

	// ReconnectAfterFunc overrides the exponential backoff computed from BackoffBase and BackoffCap.
	ReconnectAfterFunc func(tries int) time.Duration

	// MaxQueueSize bounds the outbound queue. 0 is unbounded.
	MaxQueueSize int
	QueuePolicy  QueuePolicy

	// private
	exec              *executor
	stateValue        atomic.Int32
	state             ConnectionState
	transport         Transport
	generation        uint64
	queue             outboundQueue
	handlers          handlerTable
	reconnect         *reconnectTimer
	heartbeat         *heartbeat
	heartbeatFailures int
	openCallbacks     []func()
	closeCallbacks    []func(code int, reason string)
	errorCallbacks    []func(err error)
}

func NewSocket(endPoint string) *Socket {
	socket := &Socket{
		EndPoint:          endPoint,
		Dialer:            websocket.DefaultDialer,
		Logger:            NewNoopLogger(),
		Metrics:           &NoopMetrics{},
		Serializer:        NewJSONSerializer(),
		Clock:             RealClock(),
		ConnectTimeout:    defaultConnectTimeout,
		WriteTimeout:      defaultWriteTimeout,
		HeartbeatInterval: defaultHeartbeat,
		BackoffBase:       defaultBackoffBase,
		BackoffCap:        defaultBackoffCap,
		exec:              &executor{},
	}
	socket.reconnect = newReconnectTimer(socket.exec.post, socket.connect, socket.ReconnectAfter)
	socket.heartbeat = newHeartbeat(socket.exec.post, socket.beat)
	return socket
}

// Connect starts connecting in the background. It returns an error only if EndPoint is not a valid URL.
// Connecting while already connecting or open does nothing.
func (s *Socket) Connect() error {
	if _, err := url.Parse(s.EndPoint); err != nil {
		s.Logger.Println(LogError, "socket", err)
		return err
	}
	s.exec.post(s.connect)
	return nil
}

// Close closes the transport and stops reconnecting. Queued messages are kept for the next Connect.
func (s *Socket) Close() error {
	s.exec.post(func() {
		s.reconnect.Stop()
		if s.transport == nil {
			return
		}
		s.Logger.Printf(LogInfo, "socket", "Closing connection to %v", s.EndPoint)
		s.teardown(websocket.CloseNormalClosure, "closed by client", true)
	})
	return nil
}

// Reconnect drops the current transport, if any, and connects again right away with the backoff reset.
func (s *Socket) Reconnect() error {
	if _, err := url.Parse(s.EndPoint); err != nil {
		s.Logger.Println(LogError, "socket", err)
		return err
	}
	s.exec.post(func() {
		s.reconnect.Stop()
		if s.transport != nil {
			s.teardown(websocket.CloseNormalClosure, "reconnecting", true)
		}
		s.reconnect.Reset()
		s.connect()
	})
	return nil
}

// Send writes msg if the socket is open, or queues it until the next time it opens. It returns
// ErrInvalidMessage for a nil message or one without a type; every other failure is reported to OnError.
func (s *Socket) Send(msg *Message) error {
	if msg == nil || msg.Type == "" {
		return ErrInvalidMessage
	}
	s.exec.post(func() { s.send(msg) })
	return nil
}

// OnMessage registers handler for messages of the given type, replacing any previous one. A nil handler
// removes the registration.
func (s *Socket) OnMessage(msgType string, handler MessageHandler) {
	s.exec.post(func() { s.handlers.set(msgType, handler) })
}

// Off removes the handler for the given type.
func (s *Socket) Off(msgType string) {
	s.exec.post(func() { s.handlers.remove(msgType) })
}

// OnUnhandled registers a handler for messages whose type has no handler.
func (s *Socket) OnUnhandled(handler MessageHandler) {
	s.exec.post(func() { s.handlers.unhandled = handler })
}

// OnOpen registers a callback run every time the connection opens, before the queue is drained.
func (s *Socket) OnOpen(callback func()) {
	s.exec.post(func() { s.openCallbacks = append(s.openCallbacks, callback) })
}

// OnClose registers a callback run every time an open connection closes.
func (s *Socket) OnClose(callback func(code int, reason string)) {
	s.exec.post(func() { s.closeCallbacks = append(s.closeCallbacks, callback) })
}

// OnError registers a callback for the recoverable errors the socket runs into. The error is an *Error.
func (s *Socket) OnError(callback func(err error)) {
	s.exec.post(func() { s.errorCallbacks = append(s.errorCallbacks, callback) })
}

// State may be called from any goroutine.
func (s *Socket) State() ConnectionState {
	return ConnectionState(s.stateValue.Load())
}

func (s *Socket) IsConnected() bool {
	return s.State() == StateOpen
}

// ReconnectAfter returns the delay before the given reconnect attempt, counting from 0.
func (s *Socket) ReconnectAfter(tries int) time.Duration {
	if s.ReconnectAfterFunc != nil {
		return s.ReconnectAfterFunc(tries)
	}
	return backoffDelay(s.BackoffBase, s.BackoffCap, tries)
}

func (s *Socket) setState(state ConnectionState) {
	s.state = state
	s.stateValue.Store(int32(state))
	s.Metrics.SetState(state)
}

func (s *Socket) transportFactory() TransportFactory {
	if s.TransportFactory != nil {
		return s.TransportFactory
	}
	return WebsocketFactory(s.Dialer, s.ConnectTimeout, s.WriteTimeout)
}

func (s *Socket) connect() {
	if s.state != StateDisconnected {
		s.Logger.Printf(LogDebug, "socket", "Connect ignored, already %v", s.state)
		return
	}

	// a manual Connect supersedes a pending reconnect
	s.reconnect.Stop()

	s.generation++
	s.setState(StateConnecting)
	s.Metrics.IncrementConnectAttempts()
	s.Logger.Printf(LogInfo, "socket", "Connecting to %v", s.EndPoint)

	transport, err := s.transportFactory()(s.EndPoint, s.RequestHeader, &transportEvents{socket: s, generation: s.generation})
	if err != nil {
		s.setState(StateDisconnected)
		s.report(newError(TransportOpenFailure, "", err))
		s.scheduleReconnect()
		return
	}
	s.transport = transport
}

// current reports whether generation belongs to the transport the socket owns right now.
func (s *Socket) current(generation uint64) bool {
	return s.transport != nil && generation == s.generation
}

func (s *Socket) transportOpened(generation uint64) {
	if !s.current(generation) || s.state != StateConnecting {
		return
	}

	s.setState(StateOpen)
	s.reconnect.Reset()
	s.heartbeatFailures = 0
	s.Logger.Printf(LogInfo, "socket", "Connected to %v", s.EndPoint)

	for _, callback := range s.openCallbacks {
		s.safely("open callback", "", callback)
	}

	s.drain()

	// drain may have lost the transport
	if s.state == StateOpen {
		s.heartbeat.Start(s.Clock, s.HeartbeatInterval)
	}
}

func (s *Socket) transportMessage(generation uint64, data []byte) {
	if !s.current(generation) {
		return
	}

	msg, err := s.Serializer.Decode(data)
	if err != nil {
		s.report(newError(MalformedMessage, "", err))
		return
	}
	s.Metrics.IncrementMessagesReceived(msg.Type)
	s.Logger.Printf(LogDebug, "dispatch", "Received message: %s", data)

	handler, ok := s.handlers.lookup(msg.Type)
	if !ok {
		s.report(newError(UnhandledMessageType, msg.Type, nil))
		if s.handlers.unhandled != nil {
			s.safely("unhandled handler", msg.Type, func() { s.handlers.unhandled(msg) })
		}
		return
	}
	s.safely("handler", msg.Type, func() { handler(msg) })
}

func (s *Socket) transportClosed(generation uint64, code int, reason string) {
	if !s.current(generation) {
		return
	}
	s.teardown(code, reason, false)
}

func (s *Socket) transportError(generation uint64, err error) {
	if !s.current(generation) {
		return
	}
	s.report(newError(TransportError, "", err))
	s.teardown(websocket.CloseAbnormalClosure, err.Error(), false)
}

// teardown releases the current transport and moves to Disconnected. Unless the client asked for it, the loss
// is reported and a reconnect scheduled. Later events from the released transport are ignored.
func (s *Socket) teardown(code int, reason string, userInitiated bool) {
	wasOpen := s.state == StateOpen
	transport := s.transport

	s.heartbeat.Stop()
	s.transport = nil
	s.generation++
	s.setState(StateDisconnected)

	if transport != nil {
		if err := transport.Close(); err != nil {
			s.Logger.Printf(LogDebug, "socket", "Error closing transport: %v", err)
		}
	}

	if wasOpen {
		s.Logger.Printf(LogInfo, "socket", "Disconnected from %v (%d %s)", s.EndPoint, code, reason)
		for _, callback := range s.closeCallbacks {
			s.safely("close callback", "", func() { callback(code, reason) })
		}
	}

	if userInitiated {
		return
	}

	kind := TransportOpenFailure
	if wasOpen {
		kind = TransportClosedUnexpectedly
	}
	s.report(newError(kind, "", &CloseError{Code: code, Reason: reason}))
	s.scheduleReconnect()
}

func (s *Socket) scheduleReconnect() {
	delay, ok := s.reconnect.Schedule(s.Clock)
	if !ok {
		s.Logger.Println(LogDebug, "reconnect", "Reconnect already pending")
		return
	}
	s.Metrics.IncrementReconnectsScheduled()
	s.Logger.Printf(LogInfo, "reconnect", "Reconnecting in %v (attempt %d)", delay, s.reconnect.Tries())
}

func (s *Socket) send(msg *Message) {
	if s.state != StateOpen {
		s.enqueue(msg)
		return
	}
	s.write(msg)
}

func (s *Socket) enqueue(msg *Message) {
	s.Logger.Printf(LogDebug, "queue", "Not open, queueing message %q", msg.Type)
	if dropped := s.queue.push(msg, s.MaxQueueSize, s.QueuePolicy); dropped != nil {
		s.Metrics.IncrementDroppedMessages()
		s.report(newError(QueueOverflow, dropped.Type, fmt.Errorf("queue limit %d reached, %v", s.MaxQueueSize, s.QueuePolicy)))
	}
	s.Metrics.SetQueueLength(s.queue.len())
}

// write encodes and writes msg. A message that cannot be encoded is dropped. If the transport fails the
// message goes back to the head of the queue, the transport is released and false is returned.
func (s *Socket) write(msg *Message) bool {
	data, err := s.Serializer.Encode(msg)
	if err != nil {
		s.report(newError(SerializationError, msg.Type, err))
		return true
	}

	if err := s.transport.Send(data); err != nil {
		s.report(newError(SendFailure, msg.Type, err))
		s.queue.pushFront(msg)
		s.Metrics.SetQueueLength(s.queue.len())
		s.teardown(websocket.CloseAbnormalClosure, err.Error(), false)
		return false
	}

	s.Metrics.IncrementMessagesSent(msg.Type)
	s.Logger.Printf(LogDebug, "socket", "Sent message: %s", data)
	return true
}

func (s *Socket) drain() {
	if s.queue.len() == 0 {
		return
	}
	s.Logger.Printf(LogDebug, "queue", "Sending %d queued messages", s.queue.len())

	for s.state == StateOpen {
		msg, ok := s.queue.pop()
		if !ok {
			break
		}
		if !s.write(msg) {
			break
		}
	}
	s.Metrics.SetQueueLength(s.queue.len())
}

func (s *Socket) beat() {
	if s.state != StateOpen {
		return
	}

	ping := NewMessage(PingType, map[string]any{"ts": s.Clock.Now().UnixMilli()})
	data, err := s.Serializer.Encode(ping)
	if err == nil {
		err = s.transport.Send(data)
	}
	if err != nil {
		s.heartbeatFailures++
		s.report(newError(HeartbeatSendFailure, PingType, err))
		if s.HeartbeatFailureLimit > 0 && s.heartbeatFailures >= s.HeartbeatFailureLimit {
			s.Logger.Printf(LogWarning, "heartbeat", "%d heartbeats failed, dropping connection", s.heartbeatFailures)
			s.teardown(websocket.CloseAbnormalClosure, "heartbeat failed", false)
		}
		return
	}

	s.heartbeatFailures = 0
	s.Metrics.IncrementHeartbeats()
	s.Logger.Println(LogDebug, "heartbeat", "Sent heartbeat")
}

func (s *Socket) report(err *Error) {
	level := LogWarning
	switch err.Kind {
	case UnhandledMessageType:
		level = LogInfo
	case SerializationError, HandlerPanic:
		level = LogError
	}
	s.Logger.Printf(level, logKind(err.Kind), "%v", err)
	s.Metrics.IncrementErrors(err.Kind)

	for _, callback := range s.errorCallbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.Logger.Printf(LogError, "socket", "Error callback panicked: %v", r)
				}
			}()
			callback(err)
		}()
	}
}

// safely runs a user callback, turning a panic into a HandlerPanic error.
func (s *Socket) safely(what string, msgType string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.report(newError(HandlerPanic, msgType, fmt.Errorf("%s panicked: %v", what, r)))
		}
	}()
	fn()
}

func logKind(kind ErrorKind) string {
	switch kind {
	case TransportOpenFailure, TransportClosedUnexpectedly, TransportError:
		return "websocket"
	case HeartbeatSendFailure:
		return "heartbeat"
	case QueueOverflow:
		return "queue"
	case MalformedMessage, UnhandledMessageType, HandlerPanic:
		return "dispatch"
	}
	return "socket"
}

// transportEvents binds the events of one transport to the generation it was created for.
type transportEvents struct {
	socket     *Socket
	generation uint64
}

func (e *transportEvents) OnTransportOpen() {
	e.socket.exec.post(func() { e.socket.transportOpened(e.generation) })
}

func (e *transportEvents) OnTransportMessage(data []byte) {
	e.socket.exec.post(func() { e.socket.transportMessage(e.generation, data) })
}

func (e *transportEvents) OnTransportClose(code int, reason string) {
	e.socket.exec.post(func() { e.socket.transportClosed(e.generation, code, reason) })
}

func (e *transportEvents) OnTransportError(err error) {
	e.socket.exec.post(func() { e.socket.transportError(e.generation, err) })
}
