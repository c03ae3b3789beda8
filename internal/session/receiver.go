package session

// ReceiverState is the position of the inbound pairing parser.
type ReceiverState int

const (
	// ExpectingFrom waits for the sender half of a pair.
	ExpectingFrom ReceiverState = iota
	// ExpectingMessage holds a sender and waits for its message.
	ExpectingMessage
)

func (r ReceiverState) String() string {
	switch r {
	case ExpectingFrom:
		return "expecting-from"
	case ExpectingMessage:
		return "expecting-message"
	default:
		return "unknown"
	}
}

// ReceiverState returns the current parser state.
func (s *Session) ReceiverState() ReceiverState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// handleLine advances the parser by one inbound string.  It runs
// whether or not the session is connected; only the transport stops
// delivery.  Subscriber errors are returned to the transport unchanged.
func (s *Session) handleLine(line string) error {
	s.metrics.LineReceived()

	s.mu.Lock()
	if s.state == ExpectingFrom {
		s.pendingFrom = line
		s.state = ExpectingMessage
		s.mu.Unlock()
		return nil
	}

	msg := Message{From: s.pendingFrom, Text: line}
	s.resetReceiverLocked()
	s.mu.Unlock()

	s.metrics.MessageReceived()
	s.logger.Debug("message from %q", msg.From)
	return s.dispatch(msg)
}

// handleClosed reacts to the transport going away.  The transport is
// already closing, so it is not closed again.
func (s *Session) handleClosed() {
	s.mu.Lock()
	wasConnected := s.connected
	s.closeConnectionLocked()
	s.mu.Unlock()

	if wasConnected {
		s.metrics.Disconnected()
		s.logger.Verbose("channel closed by peer")
	}
}

func (s *Session) resetReceiverLocked() {
	s.state = ExpectingFrom
	s.pendingFrom = ""
}
