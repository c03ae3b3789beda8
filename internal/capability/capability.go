// Package capability defines what happens over an established chat
// session.  Each Capability encapsulates a single behaviour (the
// interactive console, for now) and operates on a Session rather than
// a raw net.Conn, which keeps capabilities testable and decoupled from
// transport details.
package capability

import (
	"context"

	"gochat/internal/session"
)

// Capability drives a connected session according to a specific
// behaviour.
type Capability interface {
	// Handle runs the capability against the given session.
	// It blocks until the local side is done or the context is
	// cancelled.
	Handle(ctx context.Context, sess *session.Session) error
}
