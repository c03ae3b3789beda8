package session

// Message is one received (sender, text) pair.
type Message struct {
	From string
	Text string
}

// Subscriber handles a received message.  A non-nil error stops the
// dispatch of that message and is handed back to the transport.
type Subscriber func(Message) error

type subscription struct {
	id uint64
	fn Subscriber
}

// Subscribe registers fn for received messages and returns a function
// that removes it.  Subscribers run synchronously, in registration
// order, on the transport's delivery goroutine.
func (s *Session) Subscribe(fn Subscriber) (cancel func()) {
	s.subMu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	return func() { s.unsubscribe(id) }
}

func (s *Session) unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// dispatch delivers msg to a snapshot of the subscriber list, so
// subscribers may subscribe or cancel while being called.
func (s *Session) dispatch(msg Message) error {
	s.subMu.Lock()
	snapshot := make([]subscription, len(s.subs))
	copy(snapshot, s.subs)
	s.subMu.Unlock()

	for _, sub := range snapshot {
		if err := sub.fn(msg); err != nil {
			return err
		}
	}
	return nil
}
