// Package metrics provides lightweight, lock-free counters for tracking
// runtime statistics of a gochat session.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for a chat session.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	stringsSent      atomic.Int64
	linesReceived    atomic.Int64
	messagesSent     atomic.Int64
	messagesReceived atomic.Int64
	disconnects      atomic.Int64
	faultsTotal      atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastFault    time.Time
	lastFaultMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Wire metrics ─────────────────────────────────────────────────────

// StringSent records one string handed to the transport.
func (c *Collector) StringSent() {
	if c == nil {
		return
	}
	c.stringsSent.Add(1)
}

// LineReceived records one string delivered by the transport.
func (c *Collector) LineReceived() {
	if c == nil {
		return
	}
	c.linesReceived.Add(1)
}

// StringsSent returns the number of strings sent.
func (c *Collector) StringsSent() int64 {
	if c == nil {
		return 0
	}
	return c.stringsSent.Load()
}

// LinesReceived returns the number of strings received.
func (c *Collector) LinesReceived() int64 {
	if c == nil {
		return 0
	}
	return c.linesReceived.Load()
}

// ── Message metrics ──────────────────────────────────────────────────

// MessageSent records a completed SendMessage.
func (c *Collector) MessageSent() {
	if c == nil {
		return
	}
	c.messagesSent.Add(1)
}

// MessageReceived records a completed (from, message) pair.
func (c *Collector) MessageReceived() {
	if c == nil {
		return
	}
	c.messagesReceived.Add(1)
}

// MessagesSent returns the number of messages sent.
func (c *Collector) MessagesSent() int64 {
	if c == nil {
		return 0
	}
	return c.messagesSent.Load()
}

// MessagesReceived returns the number of messages received.
func (c *Collector) MessagesReceived() int64 {
	if c == nil {
		return 0
	}
	return c.messagesReceived.Load()
}

// ── Lifecycle metrics ────────────────────────────────────────────────

// Disconnected records a transition to the disconnected state.
func (c *Collector) Disconnected() {
	if c == nil {
		return
	}
	c.disconnects.Add(1)
}

// Disconnects returns the number of disconnect transitions.
func (c *Collector) Disconnects() int64 {
	if c == nil {
		return 0
	}
	return c.disconnects.Load()
}

// RecordFault increments the fault counter and stores the message.
func (c *Collector) RecordFault(msg string) {
	if c == nil {
		return
	}
	c.faultsTotal.Add(1)
	c.mu.Lock()
	c.lastFault = time.Now()
	c.lastFaultMsg = msg
	c.mu.Unlock()
}

// FaultCount returns the total number of faults recorded.
func (c *Collector) FaultCount() int64 {
	if c == nil {
		return 0
	}
	return c.faultsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime           string `json:"uptime"`
	StringsSent      int64  `json:"strings_sent"`
	LinesReceived    int64  `json:"lines_received"`
	MessagesSent     int64  `json:"messages_sent"`
	MessagesReceived int64  `json:"messages_received"`
	Disconnects      int64  `json:"disconnects"`
	FaultsTotal      int64  `json:"faults_total"`
	LastFault        string `json:"last_fault,omitempty"`
	LastFaultMessage string `json:"last_fault_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:           time.Since(c.startTime).Truncate(time.Second).String(),
		StringsSent:      c.stringsSent.Load(),
		LinesReceived:    c.linesReceived.Load(),
		MessagesSent:     c.messagesSent.Load(),
		MessagesReceived: c.messagesReceived.Load(),
		Disconnects:      c.disconnects.Load(),
		FaultsTotal:      c.faultsTotal.Load(),
	}
	if !c.lastFault.IsZero() {
		s.LastFault = c.lastFault.Format(time.RFC3339)
		s.LastFaultMessage = c.lastFaultMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
