// Package f32trip checks that binary32 values survive a trip through decimal
// text: format, parse back, compare.
//
// Finite values must come back bit for bit. NaN must come back as some NaN;
// decimal NaN tokens carry no payload. Converters whose text form has no
// negative zero may return +0 for -0.
package f32trip

import (
	"fmt"
	"math"
)

// Mismatch describes one value that did not survive the round trip.
type Mismatch struct {
	Converter string
	Bits      uint32
	Text      string
	Parsed    uint32
	// Err is the parse error, if the text did not parse at all.
	Err error
}

func (m *Mismatch) Error() string {
	if m.Err != nil {
		return fmt.Sprintf("%s: pattern 0x%08x formatted as %q does not parse: %v", m.Converter, m.Bits, m.Text, m.Err)
	}
	return fmt.Sprintf("%s: pattern 0x%08x formatted as %q parses to 0x%08x", m.Converter, m.Bits, m.Text, m.Parsed)
}

func (m *Mismatch) Unwrap() error {
	return m.Err
}

// Verify formats f with c, parses the text back, and returns a *Mismatch if
// the parsed value is not equivalent to f.
func Verify(c Converter, f float32) error {
	text := c.Format(f)
	parsed, err := c.Parse(text)
	bits := math.Float32bits(f)
	if err != nil {
		return &Mismatch{Converter: c.Name(), Bits: bits, Text: text, Err: err}
	}
	if Equivalent(f, parsed, c.PreservesSignedZero()) {
		return nil
	}
	return &Mismatch{Converter: c.Name(), Bits: bits, Text: text, Parsed: math.Float32bits(parsed)}
}

// Equivalent reports whether parsed is an acceptable round trip of f.
func Equivalent(f, parsed float32, signedZero bool) bool {
	if f != f {
		return parsed != parsed
	}
	if math.Float32bits(f) == math.Float32bits(parsed) {
		return true
	}
	return !signedZero && f == 0 && parsed == 0
}
