// Package session turns a raw string transport into a chat session.
//
// A Session sends four credential strings on Connect, sends
// (recipient, message) pairs on SendMessage, and pairs inbound strings
// into (sender, message) units for its subscribers.  It owns its
// transport and releases it exactly once.
//
// Sessions never retry and never reconnect.  After Disconnect, or after
// the transport reports that the channel closed, build a new Session.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	ncerr "gochat/internal/errors"
	"gochat/internal/metrics"
	"gochat/internal/transport"
	"gochat/util"
)

// Session is the client side of one chat connection.
//
// All methods are safe for concurrent use.  The internal lock is never
// held across transport I/O or subscriber callbacks, so subscribers may
// call back into the Session.
type Session struct {
	id        string
	transport transport.Transport
	logger    *util.Logger
	metrics   *metrics.Collector

	mu          sync.Mutex
	connected   bool
	userName    string
	password    string
	email       string
	image       string
	state       ReceiverState
	pendingFrom string

	subMu   sync.Mutex
	subs    []subscription
	nextSub uint64
}

// Option configures a Session at construction.
type Option func(*Session)

// WithLogger sets the logger.  The default logger is quiet.
func WithLogger(l *util.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics attaches a metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Session) { s.metrics = c }
}

// New creates a connected Session on t and binds to its notifications.
// It fails with [ncerr.ErrInvalidArgument] when t is nil.
func New(t transport.Transport, opts ...Option) (*Session, error) {
	if t == nil {
		return nil, fmt.Errorf("session: nil transport: %w", ncerr.ErrInvalidArgument)
	}

	s := &Session{
		id:        uuid.NewString(),
		transport: t,
		connected: true,
		state:     ExpectingFrom,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = util.NewLogger(0)
	}
	s.logger = s.logger.Named("session " + s.id[:8])

	t.Bind(transport.Handler{
		OnLine:   s.handleLine,
		OnClosed: s.handleClosed,
	})
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// IsConnected reports whether the session still considers its
// transport usable.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// UserName returns the user name from the last Connect.
func (s *Session) UserName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userName
}

// Password returns the password from the last Connect.
func (s *Session) Password() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.password
}

// Email returns the email from the last Connect.
func (s *Session) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// Image returns the image reference from the last Connect.
func (s *Session) Image() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image
}
