package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/lattice-substrate/f32sweep/sweep"
)

// ProgressPrinter renders progress events. In overwrite mode each event
// backspaces over the previous percentage; otherwise each event is its own
// line. Write errors are kept and reported by Finish.
type ProgressPrinter struct {
	w         io.Writer
	overwrite bool
	prev      int
	started   bool
	err       error
}

// NewProgressPrinter returns a printer writing to w.
func NewProgressPrinter(w io.Writer, overwrite bool) *ProgressPrinter {
	return &ProgressPrinter{w: w, overwrite: overwrite}
}

// IsTerminal reports whether w is a terminal, where overwriting in place
// renders as a single changing line.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Update renders one event. It has the sweep.ProgressFunc signature.
func (p *ProgressPrinter) Update(ev sweep.Progress) {
	if p.err != nil {
		return
	}
	text := fmt.Sprintf("%.2f%%", ev.Percent())
	var err error
	if p.overwrite {
		_, err = io.WriteString(p.w, strings.Repeat("\b", p.prev)+text)
		p.prev = len(text)
	} else {
		_, err = fmt.Fprintf(p.w, "progress %s\n", text)
	}
	p.started = true
	if err != nil {
		p.err = fmt.Errorf("write progress: %w", err)
	}
}

// Finish terminates the overwritten line and returns the first write error.
func (p *ProgressPrinter) Finish() error {
	if p.err == nil && p.overwrite && p.started {
		if _, err := io.WriteString(p.w, "\n"); err != nil {
			p.err = fmt.Errorf("write progress: %w", err)
		}
	}
	return p.err
}
