package f32trip

import (
	"math"
	"strconv"
	"strings"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/xerrors"

	"github.com/lattice-substrate/f32sweep/f32fmt"
)

// Converter is one binary32 ↔ decimal text path under test.
type Converter interface {
	// Name is the stable registry name.
	Name() string
	// Format returns the decimal text of f. Infinities and NaN use a token
	// that Parse accepts.
	Format(f float32) string
	// Parse reads text produced by Format back into a binary32 value.
	Parse(s string) (float32, error)
	// PreservesSignedZero reports whether -0 survives the round trip with its
	// sign bit.
	PreservesSignedZero() bool
}

// DefaultConverter is the converter used when none is configured.
const DefaultConverter = "strconv"

// Strconv is the platform path: strconv's shortest binary32 formatting and
// binary32 parsing.
type Strconv struct{}

func (Strconv) Name() string { return "strconv" }

func (Strconv) Format(f float32) string { return strconv.FormatFloat(float64(f), 'g', -1, 32) }

func (Strconv) Parse(s string) (float32, error) { return parse32(s) }

func (Strconv) PreservesSignedZero() bool { return true }

// Exact formats with the big-integer shortest digit generator in f32fmt.
type Exact struct{}

func (Exact) Name() string { return "exact" }

func (Exact) Format(f float32) string {
	if tok, ok := specialToken(f); ok {
		return tok
	}
	s, err := f32fmt.FormatFloat32(f)
	if err != nil {
		// Not a number; Verify reports it as a parse failure.
		return err.Error()
	}
	return s
}

func (Exact) Parse(s string) (float32, error) { return parse32(s) }

func (Exact) PreservesSignedZero() bool { return false }

// ES6 widens f to binary64 and formats it with the ES6 Number::toString
// serializer of the cyberphone JCS canonicalizer. The widened value is exact,
// so its shortest binary64 text must still round to f as binary32.
type ES6 struct{}

func (ES6) Name() string { return "es6" }

func (ES6) Format(f float32) string {
	if tok, ok := specialToken(f); ok {
		return tok
	}
	s, err := jsoncanonicalizer.NumberToJSON(float64(f))
	if err != nil {
		// Not a number; Verify reports it as a parse failure.
		return err.Error()
	}
	return s
}

func (ES6) Parse(s string) (float32, error) { return parse32(s) }

func (ES6) PreservesSignedZero() bool { return false }

func specialToken(f float32) (string, bool) {
	switch {
	case f != f:
		return "NaN", true
	case math.IsInf(float64(f), 1):
		return "Infinity", true
	case math.IsInf(float64(f), -1):
		return "-Infinity", true
	}
	return "", false
}

func parse32(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

var registry = map[string]Converter{
	"strconv": Strconv{},
	"exact":   Exact{},
	"es6":     ES6{},
}

// Names returns the registered converter names in sorted order.
func Names() []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}

// Lookup returns the converter registered under name.
func Lookup(name string) (Converter, error) {
	c, ok := registry[strings.TrimSpace(name)]
	if !ok {
		return nil, xerrors.Errorf("unknown converter %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// LookupAll resolves names in order, dropping duplicates. An empty list
// resolves to the default converter.
func LookupAll(names []string) ([]Converter, error) {
	if len(names) == 0 {
		names = []string{DefaultConverter}
	}
	var out []Converter
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		c, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c.Name()]; dup {
			continue
		}
		seen[c.Name()] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
