package session

import (
	"sync"

	"gochat/internal/transport"
)

// fakeTransport records every call and lets tests raise notifications.
type fakeTransport struct {
	mu       sync.Mutex
	sent     []string
	closes   int
	handler  transport.Handler
	failAt   int   // 1-based send index that fails; 0 = never
	sendErr  error // returned by the failing send
	failAll  bool  // every send fails with sendErr
	closeErr error
}

var _ transport.Transport = (*fakeTransport)(nil)

func (f *fakeTransport) SendString(value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, value)
	if f.failAll || (f.failAt > 0 && len(f.sent) == f.failAt) {
		return f.sendErr
	}
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return f.closeErr
}

func (f *fakeTransport) Bind(h transport.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = h
}

func (f *fakeTransport) line(s string) error {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	return h.OnLine(s)
}

func (f *fakeTransport) closeFromPeer() {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	h.OnClosed()
}

func (f *fakeTransport) sends() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeTransport) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.closes = 0
}
