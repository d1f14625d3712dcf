package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// Range is an inclusive range of binary32 bit patterns, visited in ascending
// unsigned order.
type Range struct {
	First uint32
	Last  uint32
}

// FullRange covers all 2^32 bit patterns.
func FullRange() Range {
	return Range{First: 0, Last: math.MaxUint32}
}

// Len returns the number of patterns in r.
func (r Range) Len() uint64 {
	if r.First > r.Last {
		return 0
	}
	return uint64(r.Last) - uint64(r.First) + 1
}

// IsFull reports whether r covers every bit pattern.
func (r Range) IsFull() bool {
	return r == FullRange()
}

// Validate rejects empty ranges.
func (r Range) Validate() error {
	if r.First > r.Last {
		return xerrors.Errorf("range first 0x%08x is above last 0x%08x", r.First, r.Last)
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("[0x%08x, 0x%08x]", r.First, r.Last)
}

// split divides r into at most n contiguous sub-ranges of near-equal length.
func (r Range) split(n int) []Range {
	total := r.Len()
	if n < 1 {
		n = 1
	}
	if uint64(n) > total {
		n = int(total)
	}
	parts := make([]Range, 0, n)
	start := uint64(r.First)
	for i := 0; i < n; i++ {
		size := total / uint64(n)
		if uint64(i) < total%uint64(n) {
			size++
		}
		parts = append(parts, Range{First: uint32(start), Last: uint32(start + size - 1)})
		start += size
	}
	return parts
}

// ParsePattern parses a bit pattern written in decimal or with a 0x, 0o or
// 0b prefix.
func ParsePattern(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, xerrors.Errorf("invalid bit pattern %q: %w", s, err)
	}
	return uint32(v), nil
}

// ParseRange parses inclusive first and last bit patterns.
func ParseRange(first, last string) (Range, error) {
	f, err := ParsePattern(first)
	if err != nil {
		return Range{}, err
	}
	l, err := ParsePattern(last)
	if err != nil {
		return Range{}, err
	}
	r := Range{First: f, Last: l}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}
