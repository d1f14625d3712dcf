// Package report renders sweep output: the category summary, the progress
// indicator and the machine-readable evidence record.
package report

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lattice-substrate/f32sweep/f32class"
)

const (
	labelWidth = 11
	countWidth = 13
)

// WriteSummary writes the per-category counts and the total, right-aligned
// with thousands separators.
func WriteSummary(w io.Writer, counts f32class.Counts, total uint64) error {
	p := message.NewPrinter(language.English)
	if err := writef(w, "\nSummary\n=======\n"); err != nil {
		return err
	}
	for _, c := range f32class.Categories {
		if err := writeRow(w, p, c.String(), counts.Get(c)); err != nil {
			return err
		}
	}
	return writeRow(w, p, "Total", total)
}

func writeRow(w io.Writer, p *message.Printer, label string, n uint64) error {
	return writef(w, "%-*s%*s\n", labelWidth, label+":", countWidth, p.Sprintf("%d", n))
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
