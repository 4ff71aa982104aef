// Package progress provides terminal capability detection and a spinner shown
// while long steps such as loading commit history run.
package progress

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalCapabilities describes what an output stream supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	// Width is the column count, 0 when unknown.
	Width int
}

// ProgressSymbols holds the symbols used for step results and the spinner.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int // index into spinner.CharSets
}

var (
	unicodeSymbols = ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14} // ⠋ ⠙ ⠹ ⠸ ...
	asciiSymbols   = ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9} // | / - \
)

// fder is satisfied by *os.File.
type fder interface {
	Fd() uintptr
}

// For reports the capabilities of w. Writers that are not terminal files
// (buffers, pipes, redirected output) get plain ASCII output without color.
func For(w io.Writer) TerminalCapabilities {
	return detect(w, os.Getenv)
}

func detect(w io.Writer, getenv func(string) string) TerminalCapabilities {
	var caps TerminalCapabilities
	f, ok := w.(fder)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return caps
	}
	if getenv("TERM") == "dumb" {
		return caps
	}

	caps.IsTTY = true
	caps.SupportsColor = getenv("NO_COLOR") == ""
	caps.SupportsUnicode = !truthy(getenv("RELEASENOTES_ASCII"))
	if width, _, err := term.GetSize(int(f.Fd())); err == nil {
		caps.Width = width
	}
	return caps
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// SelectSymbols returns unicode symbols when the terminal can show them, ASCII otherwise.
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return unicodeSymbols
	}
	return asciiSymbols
}
