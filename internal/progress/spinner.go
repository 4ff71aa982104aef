package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner animates a message while a step runs. On terminals without TTY
// support it degrades to plain start and result lines.
type Spinner struct {
	out     io.Writer
	symbols ProgressSymbols
	animate bool
	spin    *spinner.Spinner
	message string
}

// NewSpinner creates a spinner writing to out.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	return &Spinner{
		out:     out,
		symbols: SelectSymbols(caps),
		animate: caps.IsTTY,
	}
}

// Start begins the animation with message.
func (s *Spinner) Start(message string) {
	s.message = message
	if !s.animate {
		return
	}
	s.spin = spinner.New(spinner.CharSets[s.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(s.out))
	s.spin.Suffix = " " + message
	s.spin.Start()
}

// Success stops the spinner and prints a checkmark line.
func (s *Spinner) Success(detail string) {
	s.finish(s.symbols.Checkmark, detail)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(detail string) {
	s.finish(s.symbols.Failure, detail)
}

func (s *Spinner) finish(symbol, detail string) {
	if s.spin != nil {
		s.spin.Stop()
		s.spin = nil
	}
	line := s.message
	if detail != "" {
		line += " (" + detail + ")"
	}
	fmt.Fprintf(s.out, "%s %s\n", symbol, line)
}
