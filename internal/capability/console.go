package capability

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gochat/internal/session"
	"gochat/util"
)

// QuitCommand ends the console and disconnects the session.
const QuitCommand = "/quit"

// Console is the interactive chat capability.  Each input line of the
// form "@name message" is sent to name; QuitCommand disconnects.
// Received messages are printed as "from: text".
type Console struct {
	// In and Out default to os.Stdin and os.Stdout when nil.
	In     io.Reader
	Out    io.Writer
	Logger *util.Logger

	mu sync.Mutex
}

// Handle prints incoming messages and sends outgoing ones until the
// input ends, QuitCommand is read, or ctx is cancelled.  A failed send
// ends the console with the session's error.
func (c *Console) Handle(ctx context.Context, sess *session.Session) error {
	if c.Logger == nil {
		c.Logger = util.NewLogger(0)
	}
	unsubscribe := sess.Subscribe(c.print)
	defer unsubscribe()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.in())
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				c.Logger.Verbose("input closed")
				return nil
			}
			quit, err := c.execute(sess, line)
			if err != nil || quit {
				return err
			}
		}
	}
}

// execute runs one input line.  quit reports whether the console
// should stop.
func (c *Console) execute(sess *session.Session, line string) (quit bool, err error) {
	line = strings.TrimRight(line, "\r")
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		return false, nil
	case trimmed == QuitCommand:
		return true, sess.Disconnect()
	case strings.HasPrefix(line, "@"):
		to, text, _ := strings.Cut(line[1:], " ")
		if to == "" {
			c.Logger.Warn("missing recipient; use @name message")
			return false, nil
		}
		if err := sess.SendMessage(to, text); err != nil {
			return true, fmt.Errorf("send to %s: %w", to, err)
		}
		return false, nil
	default:
		c.Logger.Warn("unrecognised input %q; use @name message or %s", trimmed, QuitCommand)
		return false, nil
	}
}

func (c *Console) print(m session.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out(), "%s: %s\n", m.From, m.Text)
	return err
}

func (c *Console) in() io.Reader {
	if c.In != nil {
		return c.In
	}
	return os.Stdin
}

func (c *Console) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}
