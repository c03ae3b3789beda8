package transport

import (
	"bufio"
	"net"
	"strings"
	"sync"

	ncerr "gochat/internal/errors"
	"gochat/util"
)

// LineTransport implements [Transport] over a net.Conn using
// newline-delimited strings.  Line breaks inside a value are folded to
// spaces so one SendString always produces exactly one line.
type LineTransport struct {
	conn   net.Conn
	logger *util.Logger

	wmu    sync.Mutex
	mu     sync.Mutex
	bound      bool
	closed     bool
	peerClosed bool
	done       chan struct{}
}

// NewLineTransport wraps conn.  No reading happens until [Bind].
func NewLineTransport(conn net.Conn, logger *util.Logger) *LineTransport {
	return &LineTransport{
		conn:   conn,
		logger: logger,
		done:   make(chan struct{}),
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// SendString writes value followed by '\n'.
func (t *LineTransport) SendString(value string) error {
	line := lineBreaks.Replace(value) + "\n"

	t.wmu.Lock()
	defer t.wmu.Unlock()

	if _, err := t.conn.Write([]byte(line)); err != nil {
		return ncerr.Wrap("write", t.remote(), err)
	}
	return nil
}

// Close closes the connection.  A second call returns an error
// wrapping net.ErrClosed.
func (t *LineTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ncerr.Wrap("close", t.remote(), net.ErrClosed)
	}
	t.closed = true
	t.mu.Unlock()

	t.logger.Debug("transport: closing connection to %s", t.remote())
	if err := t.conn.Close(); err != nil {
		return ncerr.Wrap("close", t.remote(), err)
	}
	return nil
}

// Bind starts the reader goroutine that feeds h.  Only the first call
// has any effect.
func (t *LineTransport) Bind(h Handler) {
	t.mu.Lock()
	if t.bound {
		t.mu.Unlock()
		return
	}
	t.bound = true
	t.mu.Unlock()

	go t.readLoop(h)
}

// Done is closed after the reader has delivered OnClosed.
func (t *LineTransport) Done() <-chan struct{} { return t.done }

// PeerClosed reports whether the reader stopped before Close was
// called, i.e. the remote side hung up or the read failed.
func (t *LineTransport) PeerClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.peerClosed
}

func (t *LineTransport) readLoop(h Handler) {
	defer close(t.done)

	buf := util.GetBuf()
	defer util.PutBuf(buf)

	sc := bufio.NewScanner(t.conn)
	sc.Buffer(*buf, util.DefaultBufSize)

	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if h.OnLine == nil {
			continue
		}
		if err := h.OnLine(line); err != nil {
			t.logger.Warn("transport: line handler: %v", err)
		}
	}

	if err := sc.Err(); err != nil && !util.IsClosedErr(err) {
		t.logger.Warn("transport: read from %s: %v", t.remote(), err)
	} else {
		t.logger.Debug("transport: %s closed the channel", t.remote())
	}

	t.mu.Lock()
	t.peerClosed = !t.closed
	t.mu.Unlock()

	if h.OnClosed != nil {
		h.OnClosed()
	}
}

func (t *LineTransport) remote() string {
	if a := t.conn.RemoteAddr(); a != nil {
		return a.String()
	}
	return "?"
}
