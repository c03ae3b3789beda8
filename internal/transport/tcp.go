package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	ncerr "gochat/internal/errors"
)

// TCPDialer establishes plain TCP connections to a chat server.
type TCPDialer struct {
	Timeout   time.Duration
	KeepAlive time.Duration // 0 = system default, negative disables
	NoDNS     bool          // refuse host names that are not IP literals
}

// Dial connects to address over TCP.  Failures are returned as
// *ncerr.NetworkError so callers can ask [ncerr.IsRetryable].
func (d *TCPDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	if d.NoDNS {
		host, _, err := net.SplitHostPort(address)
		if err != nil {
			return nil, ncerr.Wrap("dial", address, err)
		}
		if net.ParseIP(host) == nil {
			return nil, fmt.Errorf("cannot parse %q as an IP address (DNS disabled): %w",
				host, ncerr.ErrInvalidArgument)
		}
	}

	dialer := net.Dialer{Timeout: d.Timeout, KeepAlive: d.KeepAlive}
	conn, err := dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, ncerr.Wrap("dial", address, err)
	}
	return conn, nil
}

// Close is a no-op for stateless TCP dialers.
func (d *TCPDialer) Close() error { return nil }
