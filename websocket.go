package sigsock

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Websocket is a Transport over a single gorilla/websocket connection. It dials on its own goroutine and then
// reads until the connection fails or is closed.
type Websocket struct {
	dialer         *websocket.Dialer
	handler        TransportHandler
	endPoint       string
	requestHeader  http.Header
	connectTimeout time.Duration
	writeTimeout   time.Duration

	mu        sync.RWMutex
	conn      *websocket.Conn
	closed    bool
	done      chan struct{}
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func NewWebsocket(dialer *websocket.Dialer, endPoint string, requestHeader http.Header, handler TransportHandler) *Websocket {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	return &Websocket{
		dialer:         dialer,
		handler:        handler,
		endPoint:       endPoint,
		requestHeader:  requestHeader,
		connectTimeout: defaultConnectTimeout,
		writeTimeout:   defaultWriteTimeout,
		done:           make(chan struct{}),
	}
}

// WebsocketFactory returns a TransportFactory that starts a Websocket for every connection attempt.
func WebsocketFactory(dialer *websocket.Dialer, connectTimeout, writeTimeout time.Duration) TransportFactory {
	return func(endPoint string, requestHeader http.Header, handler TransportHandler) (Transport, error) {
		w := NewWebsocket(dialer, endPoint, requestHeader, handler)
		if connectTimeout > 0 {
			w.connectTimeout = connectTimeout
		}
		if writeTimeout > 0 {
			w.writeTimeout = writeTimeout
		}
		w.Start()
		return w, nil
	}
}

// Start dials in the background. Events are reported to the handler.
func (w *Websocket) Start() {
	go w.run()
}

func (w *Websocket) Send(data []byte) error {
	w.mu.RLock()
	conn := w.conn
	closed := w.closed
	w.mu.RUnlock()

	if closed {
		return ErrTransportClosed
	}
	if conn == nil {
		return ErrNotConnected
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(w.writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (w *Websocket) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	conn := w.conn
	close(w.done)
	w.mu.Unlock()

	if conn == nil {
		// still dialing; run sees done and reports the close
		return nil
	}

	// attempt to gracefully close the connection by sending a close websocket message
	w.writeMu.Lock()
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	w.writeMu.Unlock()

	return conn.Close()
}

func (w *Websocket) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.conn != nil && !w.closed
}

func (w *Websocket) run() {
	conn, err := w.dial()
	if err != nil {
		w.emitClose(websocket.CloseAbnormalClosure, err.Error())
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		_ = conn.Close()
		w.emitClose(websocket.CloseNormalClosure, "closed")
		return
	}
	w.conn = conn
	w.mu.Unlock()

	w.handler.OnTransportOpen()
	w.reader(conn)
}

func (w *Websocket) dial() (*websocket.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), w.connectTimeout)
	defer cancel()

	go func() {
		select {
		case <-w.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	conn, _, err := w.dialer.DialContext(ctx, w.endPoint, w.requestHeader)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (w *Websocket) reader(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			w.readFailed(err)
			return
		}
		w.handler.OnTransportMessage(data)
	}
}

func (w *Websocket) readFailed(err error) {
	w.mu.RLock()
	closed := w.closed
	w.mu.RUnlock()

	if closed {
		w.emitClose(websocket.CloseNormalClosure, "closed")
		return
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		w.emitClose(closeErr.Code, closeErr.Text)
		return
	}

	// a network failure rather than a close handshake
	if !errors.Is(err, net.ErrClosed) {
		w.handler.OnTransportError(err)
	}
	w.mu.RLock()
	conn := w.conn
	w.mu.RUnlock()
	if conn != nil {
		_ = conn.Close()
	}
	w.emitClose(websocket.CloseAbnormalClosure, err.Error())
}

func (w *Websocket) emitClose(code int, reason string) {
	w.closeOnce.Do(func() {
		w.handler.OnTransportClose(code, reason)
	})
}
