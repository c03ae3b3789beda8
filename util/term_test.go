package util

import (
	"bytes"
	"testing"
)

func TestTrimPrompt(t *testing.T) {
	tests := map[string]string{
		"SSH password: ": "SSH password",
		"Chat password:": "Chat password",
		"":               "",
	}
	for in, want := range tests {
		if got := trimPrompt(in); got != want {
			t.Errorf("trimPrompt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsTerminal_NonFile(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is never a terminal")
	}
}
