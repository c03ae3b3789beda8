// Package transport provides the string-stream channel a chat session
// is built on, and the dialers that open the underlying connections.
//
// A Transport moves whole strings.  What the strings mean (credentials,
// sender/message pairs) is the session layer's job.
package transport

import (
	"context"
	"net"
)

// Transport is a bidirectional string channel.  It reports inbound
// traffic through the Handler passed to Bind.
type Transport interface {
	// SendString writes one string to the peer.  Empty strings are
	// valid and are sent as empty lines.
	SendString(value string) error

	// Close releases the channel.  Calling Close more than once is not
	// guaranteed to succeed.
	Close() error

	// Bind registers the receiver of line and close notifications.
	Bind(h Handler)
}

// Handler receives notifications from a Transport.  Both callbacks run
// on the transport's delivery goroutine, one at a time.
type Handler struct {
	// OnLine is called once per received string.  An error returned
	// here comes from a message subscriber; the transport decides
	// whether to keep reading.
	OnLine func(line string) error

	// OnClosed is called once when the channel goes away.
	OnClosed func()
}

// Dialer opens outbound network connections.  Implementations include
// a plain TCP dialer and an SSH-tunnelled dialer that routes traffic
// through an encrypted gateway.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}
