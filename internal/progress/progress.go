// Package progress provides CLI progress indicators. Output goes to stderr
// so stdout stays clean for piping, and nothing is drawn unless stderr is a
// terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// minItems is the minimum number of items before showing progress.
const minItems = 5

// clearLine blanks the current terminal line.
var clearLine = "\r" + strings.Repeat(" ", 40) + "\r"

func stderrIsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Progress tracks and displays a counted operation, such as validating a
// batch of files.
type Progress struct {
	w       io.Writer
	label   string
	total   int
	current int
	show    bool
}

// New creates a progress reporter on stderr. Totals under minItems are not
// shown.
func New(label string, total int) *Progress {
	return NewTo(os.Stderr, stderrIsTTY(), label, total)
}

// NewTo creates a progress reporter on w. Nothing is written unless tty is
// set.
func NewTo(w io.Writer, tty bool, label string, total int) *Progress {
	return &Progress{
		w:     w,
		label: label,
		total: total,
		show:  tty && total >= minItems,
	}
}

// Increment advances the counter by one and redraws the line.
func (p *Progress) Increment() {
	p.current++
	if !p.show {
		return
	}
	pct := (p.current * 100) / p.total
	fmt.Fprintf(p.w, "\r%s... %d/%d (%d%%)", p.label, p.current, p.total, pct)
}

// Done clears the progress line to make way for final output.
func (p *Progress) Done() {
	if p.show {
		fmt.Fprint(p.w, clearLine)
	}
}

// Spinner shows that an operation of unknown length, such as vacuum, is
// running.
type Spinner struct {
	w       io.Writer
	label   string
	tty     bool
	running bool
}

// NewSpinner creates a spinner on stderr.
func NewSpinner(label string) *Spinner {
	return &Spinner{w: os.Stderr, label: label, tty: stderrIsTTY()}
}

// Start displays the spinner.
func (s *Spinner) Start() {
	if !s.tty {
		return
	}
	s.running = true
	fmt.Fprintf(s.w, "⠋ %s...", s.label)
}

// Stop clears the spinner line.
func (s *Spinner) Stop() {
	if !s.running {
		return
	}
	s.running = false
	fmt.Fprint(s.w, clearLine)
}
