package session

import (
	ncerr "gochat/internal/errors"
)

// Connect records the credentials and sends them in order: user name,
// password, email, image.  Empty values are sent as-is.
//
// Connect never marks the session connected.  If a send fails the
// session is disconnected and a [ncerr.SessionError] wrapping the
// transport error is returned.  If closing the transport also fails,
// the close error is returned instead and the send error is dropped.
func (s *Session) Connect(userName, password, email, image string) error {
	s.mu.Lock()
	s.userName = userName
	s.password = password
	s.email = email
	s.image = image
	s.mu.Unlock()

	if s.transport == nil {
		return ncerr.ErrNoTransport
	}

	for _, v := range [...]string{userName, password, email, image} {
		if err := s.send(v); err != nil {
			return s.fault("connect", err)
		}
	}

	s.logger.Verbose("sent credentials for %q", userName)
	return nil
}

// SendMessage sends the recipient followed by the message text.  It
// returns [ncerr.ErrNotConnected] without touching the transport when
// the session is disconnected.  Send failures follow the same rules as
// [Session.Connect].
func (s *Session) SendMessage(to, message string) error {
	if !s.IsConnected() {
		return ncerr.ErrNotConnected
	}

	for _, v := range [...]string{to, message} {
		if err := s.send(v); err != nil {
			return s.fault("send", err)
		}
	}

	s.metrics.MessageSent()
	s.logger.Debug("sent message to %q", to)
	return nil
}

// Disconnect marks the session disconnected, drops any half-received
// pair, and closes the transport.  Calling it again is a no-op.
func (s *Session) Disconnect() error {
	return s.disconnect()
}

func (s *Session) send(v string) error {
	if err := s.transport.SendString(v); err != nil {
		return err
	}
	s.metrics.StringSent()
	return nil
}

// fault runs cleanup after a failed send and picks the error to return.
// A cleanup error replaces sendErr; the two are never joined.
func (s *Session) fault(op string, sendErr error) error {
	s.metrics.RecordFault(sendErr.Error())
	s.logger.Warn("%s failed: %v", op, sendErr)

	if err := s.disconnect(); err != nil {
		s.metrics.RecordFault(err.Error())
		s.logger.Warn("cleanup after %s failed: %v", op, err)
		return err
	}
	return ncerr.WrapSession(op, sendErr)
}

// disconnect is the connected-guarded entry to closeConnection.
func (s *Session) disconnect() error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return nil
	}
	s.closeConnectionLocked()
	s.mu.Unlock()

	s.metrics.Disconnected()
	s.logger.Verbose("disconnecting")
	return s.transport.Close()
}

// closeConnectionLocked flips the session to disconnected and resets the
// receiver.  The caller closes the transport after releasing s.mu.
func (s *Session) closeConnectionLocked() {
	s.connected = false
	s.resetReceiverLocked()
}
