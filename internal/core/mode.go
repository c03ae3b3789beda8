// Package core is the orchestration layer.  It composes a dialer, the
// line transport, a chat session and a capability into a complete
// client run, and provides a builder that assembles it from a Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  session  →  capability  →  core  →  cmd (CLI)
package core

import "context"

// Mode represents a complete operational mode of gochat.  Each mode
// owns its full lifecycle from connection establishment to teardown.
type Mode interface {
	Run(ctx context.Context) error
}
