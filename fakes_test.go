package sigsock

import (
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock only moves when Advance is called. After each timer fires it calls settle, so that work the
// timer posted (and timers that work arms) is done before the next timer is considered.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	settle func()
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(end) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = end
			c.mu.Unlock()
			return
		}
		if next.at.After(c.now) {
			c.now = next.at
		}
		next.fired = true
		c.mu.Unlock()

		next.f()
		if c.settle != nil {
			c.settle()
		}
	}
}

// pending returns the delays, from now, of the timers that have not fired or been stopped.
func (c *fakeClock) pending() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var delays []time.Duration
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			delays = append(delays, t.at.Sub(c.now))
		}
	}
	sort.Slice(delays, func(i, j int) bool { return delays[i] < delays[j] })
	return delays
}

// fakeTransport records what is written to it. Events are produced by the test.
type fakeTransport struct {
	mu       sync.Mutex
	handler  TransportHandler
	endPoint string
	sent     [][]byte
	closed   bool
	sendErr  error
}

func (f *fakeTransport) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrTransportClosed
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, append([]byte(nil), data...))
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeTransport) failSends(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendErr = err
}

// sentTypes decodes everything written so far and returns the type tags in order.
func (f *fakeTransport) sentTypes(t *testing.T) []string {
	t.Helper()
	var types []string
	for _, msg := range f.sentMessages(t) {
		types = append(types, msg.Type)
	}
	return types
}

func (f *fakeTransport) sentMessages(t *testing.T) []*Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var msgs []*Message
	for _, data := range f.sent {
		msg, err := NewJSONSerializer().Decode(data)
		require.NoError(t, err)
		msgs = append(msgs, msg)
	}
	return msgs
}

type fakeDialer struct {
	mu         sync.Mutex
	transports []*fakeTransport
	err        error
}

func (d *fakeDialer) dial(endPoint string, _ http.Header, handler TransportHandler) (Transport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	t := &fakeTransport{handler: handler, endPoint: endPoint}
	d.transports = append(d.transports, t)
	return t, nil
}

func (d *fakeDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.transports)
}

func (d *fakeDialer) last(t *testing.T) *fakeTransport {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	require.NotEmpty(t, d.transports, "no transport was created")
	return d.transports[len(d.transports)-1]
}

type harness struct {
	t      *testing.T
	socket *Socket
	clock  *fakeClock
	dialer *fakeDialer
	errs   []error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		clock:  newFakeClock(),
		dialer: &fakeDialer{},
	}
	s := NewSocket("ws://signal.test/ws")
	s.Clock = h.clock
	s.TransportFactory = h.dialer.dial
	h.clock.settle = s.exec.wait
	h.socket = s

	s.OnError(func(err error) { h.errs = append(h.errs, err) })
	h.settle()
	return h
}

func (h *harness) settle() {
	h.socket.exec.wait()
}

func (h *harness) connect() *fakeTransport {
	h.t.Helper()
	require.NoError(h.t, h.socket.Connect())
	h.settle()
	return h.dialer.last(h.t)
}

func (h *harness) open(tr *fakeTransport) {
	tr.handler.OnTransportOpen()
	h.settle()
}

func (h *harness) receive(tr *fakeTransport, data string) {
	tr.handler.OnTransportMessage([]byte(data))
	h.settle()
}

func (h *harness) drop(tr *fakeTransport, code int, reason string) {
	tr.handler.OnTransportClose(code, reason)
	h.settle()
}

func (h *harness) send(msgType string, fields map[string]any) {
	h.t.Helper()
	require.NoError(h.t, h.socket.Send(NewMessage(msgType, fields)))
	h.settle()
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.settle()
}

// errorKinds returns the kinds of the errors reported so far, read on the executor.
func (h *harness) errorKinds() []ErrorKind {
	h.settle()
	var kinds []ErrorKind
	for _, err := range h.errs {
		kinds = append(kinds, err.(*Error).Kind)
	}
	return kinds
}
