package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultChatPort is the port chat servers listen on unless told
	// otherwise.
	DefaultChatPort = 5000

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultConnTimeout is the TCP/SSH connection timeout.
	DefaultConnTimeout = 30 * time.Second

	// DefaultDialRetries is how many extra dial attempts the CLI makes
	// before giving up.  The session itself never retries.
	DefaultDialRetries = 2

	// DefaultRetryDelay is the first pause between dial attempts.
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay caps the exponential backoff between dial
	// attempts.
	DefaultMaxRetryDelay = 5 * time.Second
)
