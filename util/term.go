package util

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ReadSecret prints prompt to stderr and reads a line from the
// terminal without echo.
func ReadSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", trimPrompt(prompt), err)
	}
	return string(b), nil
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func trimPrompt(p string) string {
	for len(p) > 0 && (p[len(p)-1] == ' ' || p[len(p)-1] == ':') {
		p = p[:len(p)-1]
	}
	return p
}
