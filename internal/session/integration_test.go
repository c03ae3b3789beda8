package session

import (
	"bufio"
	"net"
	"testing"
	"time"

	"gochat/internal/transport"
	"gochat/util"
)

// TestSession_OverLineTransport drives a Session through a real
// LineTransport on an in-memory pipe.
func TestSession_OverLineTransport(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	tr := transport.NewLineTransport(client, util.NewLogger(0))
	s, err := New(tr)
	if err != nil {
		t.Fatal(err)
	}

	received := make(chan Message, 1)
	s.Subscribe(func(m Message) error {
		received <- m
		return nil
	})

	creds := make(chan []string, 1)
	go func() {
		r := bufio.NewReader(server)
		var lines []string
		for i := 0; i < 4; i++ {
			l, err := r.ReadString('\n')
			if err != nil {
				break
			}
			lines = append(lines, l[:len(l)-1])
		}
		creds <- lines
	}()

	if err := s.Connect("Alice", "pass", "a@x.com", "img.png"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	select {
	case got := <-creds:
		want := []string{"Alice", "pass", "a@x.com", "img.png"}
		if !equalStrings(got, want) {
			t.Errorf("server read %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for credentials")
	}

	if _, err := server.Write([]byte("Bob\nHi!\n")); err != nil {
		t.Fatal(err)
	}

	select {
	case m := <-received:
		if m != (Message{From: "Bob", Text: "Hi!"}) {
			t.Errorf("got %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	if err := s.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	select {
	case <-tr.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("reader did not stop after Disconnect")
	}
	if s.IsConnected() {
		t.Error("should be disconnected")
	}
}

// TestSession_PeerHangup verifies a remote close disconnects the session.
func TestSession_PeerHangup(t *testing.T) {
	client, server := net.Pipe()

	tr := transport.NewLineTransport(client, util.NewLogger(0))
	s, err := New(tr)
	if err != nil {
		t.Fatal(err)
	}

	server.Close()

	select {
	case <-tr.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("reader did not observe hangup")
	}
	if s.IsConnected() {
		t.Error("peer hangup should disconnect the session")
	}

	err = s.SendMessage("Bob", "anyone there?")
	if err == nil {
		t.Fatal("expected ErrNotConnected")
	}
	client.Close()
}
