package core

import (
	"context"
	"fmt"
	"net"
	"time"

	"gochat/internal/capability"
	ncerr "gochat/internal/errors"
	"gochat/internal/metrics"
	"gochat/internal/retry"
	"gochat/internal/session"
	"gochat/internal/transport"
	"gochat/util"
)

var _ Mode = (*ChatMode)(nil)

// Credentials are the four strings sent on Connect.
type Credentials struct {
	UserName string
	Password string
	Email    string
	Image    string
}

// ChatMode dials a chat server, logs in, and runs a capability on the
// session until it finishes or the server hangs up.
type ChatMode struct {
	Dialer      transport.Dialer
	Capability  capability.Capability
	Network     string
	Address     string
	Credentials Credentials

	// Retry wraps the dial only.  Nil means a single attempt.
	Retry   *retry.Backoff
	Metrics *metrics.Collector
	Logger  *util.Logger
}

// Run connects, logs in and hands the session to the capability.  The
// session is disconnected and the dialer closed when Run returns.
func (m *ChatMode) Run(ctx context.Context) error {
	defer m.Dialer.Close()

	m.Logger.Verbose("connecting to %s (%s)", m.Address, m.Network)

	conn, err := m.dial(ctx)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", m.Address, err)
	}
	m.Logger.Verbose("connected to %s", conn.RemoteAddr())

	tr := transport.NewLineTransport(conn, m.Logger)
	sess, err := session.New(tr,
		session.WithLogger(m.Logger),
		session.WithMetrics(m.Metrics),
	)
	if err != nil {
		conn.Close()
		return err
	}
	defer m.teardown(sess, tr)

	c := m.Credentials
	if err := sess.Connect(c.UserName, c.Password, c.Email, c.Image); err != nil {
		return fmt.Errorf("log in as %q: %w", c.UserName, err)
	}
	m.Logger.Info("logged in to %s as %q", m.Address, c.UserName)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-tr.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	err = m.Capability.Handle(runCtx, sess)
	if ncerr.IsSessionFault(err) {
		m.Logger.Warn("session closed after a failed send; reconnect to continue")
	}

	if err == nil && tr.PeerClosed() {
		m.Logger.Info("server closed the connection")
	}
	return err
}

// dial runs Dialer.Dial under the retry policy.  Errors that
// [ncerr.IsRetryable] rejects end the loop at once.
func (m *ChatMode) dial(ctx context.Context) (net.Conn, error) {
	b := retry.Backoff{MaxAttempts: 1}
	if m.Retry != nil {
		b = *m.Retry
	}
	b.OnRetry = func(attempt int, err error, wait time.Duration) {
		m.Logger.Verbose("dial %s failed (attempt %d): %v; retrying in %v",
			m.Address, attempt, err, wait.Round(time.Millisecond))
	}

	var conn net.Conn
	err := b.Do(ctx, func(int) error {
		c, err := m.Dialer.Dial(ctx, m.Network, m.Address)
		if err != nil {
			if !ncerr.IsRetryable(err) {
				return retry.Permanent(err)
			}
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// teardown disconnects a still-connected session.  After a server
// hangup the session is already disconnected but the socket is still
// open, so the transport is closed directly.
func (m *ChatMode) teardown(sess *session.Session, tr *transport.LineTransport) {
	if sess.IsConnected() {
		if err := sess.Disconnect(); err != nil {
			m.Logger.Debug("disconnect: %v", err)
		}
		return
	}
	if err := tr.Close(); err != nil && !util.IsClosedErr(err) {
		m.Logger.Debug("close: %v", err)
	}
}
