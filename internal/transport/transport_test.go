package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	ncerr "gochat/internal/errors"
	"gochat/tunnel"
	"gochat/util"
)

// TestTCPDialer_Connect verifies that TCPDialer can reach a local
// chat server and read its first line.
func TestTCPDialer_Connect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	// Server: accept, send greeting, close.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("server\n")) //nolint:errcheck
	}()

	d := &TCPDialer{Timeout: 2 * time.Second}
	ctx := context.Background()

	conn, err := d.Dial(ctx, "tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "server\n" {
		t.Errorf("got %q, want %q", got, "server\n")
	}
}

// TestTCPDialer_ContextCancel verifies that a cancelled context stops the dial.
func TestTCPDialer_ContextCancel(t *testing.T) {
	d := &TCPDialer{Timeout: 5 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := d.Dial(ctx, "tcp", "127.0.0.1:1")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

// TestTCPDialer_RefusedIsRetryable verifies a refused dial is reported
// as a retryable network error.
func TestTCPDialer_RefusedIsRetryable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	d := &TCPDialer{Timeout: time.Second}
	_, err = d.Dial(context.Background(), "tcp", addr)
	if err == nil {
		t.Fatal("expected connection refused")
	}
	var ne *ncerr.NetworkError
	if !errors.As(err, &ne) || ne.Op != "dial" || ne.Addr != addr {
		t.Fatalf("err = %#v, want NetworkError{Op: dial}", err)
	}
	if !ncerr.IsRetryable(err) {
		t.Error("refused dial should be retryable")
	}
}

// TestTCPDialer_NoDNS verifies host names are refused when DNS is off.
func TestTCPDialer_NoDNS(t *testing.T) {
	d := &TCPDialer{Timeout: time.Second, NoDNS: true}
	_, err := d.Dial(context.Background(), "tcp", "chat.example.com:5000")
	if !errors.Is(err, ncerr.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if ncerr.IsRetryable(err) {
		t.Error("a DNS refusal must not be retried")
	}
}

// TestTCPDialer_Close verifies Close is a no-op and returns nil.
func TestTCPDialer_Close(t *testing.T) {
	d := &TCPDialer{}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// TestSSHDialer_CloseBeforeDial verifies Close on an unused SSH dialer
// does not touch the tunnel.
func TestSSHDialer_CloseBeforeDial(t *testing.T) {
	d := NewSSHDialer(&tunnel.SSHConfig{Host: "bastion.invalid"}, util.NewLogger(0))
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// fakeTunnel counts connects and closes and forwards over net.Pipe.
type fakeTunnel struct {
	connects, closes int
	alive            bool
}

func (f *fakeTunnel) Connect(context.Context) error {
	f.connects++
	f.alive = true
	return nil
}

func (f *fakeTunnel) Dial(context.Context, string, string) (net.Conn, error) {
	client, server := net.Pipe()
	server.Close()
	return client, nil
}

func (f *fakeTunnel) Close() error {
	f.closes++
	f.alive = false
	return nil
}

func (f *fakeTunnel) IsAlive() bool { return f.alive }

// TestSSHDialer_ReconnectsDroppedTunnel verifies the tunnel is set up
// once and rebuilt only after it drops.
func TestSSHDialer_ReconnectsDroppedTunnel(t *testing.T) {
	ft := &fakeTunnel{}
	d := &SSHDialer{
		tunnel: ft,
		config: &tunnel.SSHConfig{User: "ops", Host: "bastion", Port: 22},
		logger: util.NewLogger(0),
	}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		conn, err := d.Dial(ctx, "tcp", "chat.internal:5000")
		if err != nil {
			t.Fatalf("dial %d: %v", i+1, err)
		}
		conn.Close()
	}
	if ft.connects != 1 {
		t.Errorf("connects = %d, want 1", ft.connects)
	}

	ft.alive = false
	conn, err := d.Dial(ctx, "tcp", "chat.internal:5000")
	if err != nil {
		t.Fatal(err)
	}
	conn.Close()
	if ft.connects != 2 || ft.closes != 1 {
		t.Errorf("connects/closes = %d/%d, want 2/1", ft.connects, ft.closes)
	}

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if ft.closes != 2 {
		t.Errorf("closes = %d, want 2", ft.closes)
	}
}
