package f32err_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lattice-substrate/f32sweep/f32err"
)

func TestFailureClassExitCodes(t *testing.T) {
	cases := []struct {
		class    f32err.FailureClass
		wantExit int
	}{
		{f32err.CLIUsage, 2},
		{f32err.RoundTripMismatch, 3},
		{f32err.ConsistencyViolation, 4},
		{f32err.InternalIO, 10},
		{f32err.InternalError, 10},
	}
	for _, tc := range cases {
		if got := tc.class.ExitCode(); got != tc.wantExit {
			t.Errorf("%s.ExitCode() = %d, want %d", tc.class, got, tc.wantExit)
		}
	}
}

func TestErrorFormat(t *testing.T) {
	e := f32err.New(f32err.RoundTripMismatch, 0x7f800001, "parsed value differs")
	if e.Error() != "f32err: ROUNDTRIP_MISMATCH at pattern 0x7f800001: parsed value differs" {
		t.Fatalf("unexpected error string: %s", e.Error())
	}
}

func TestErrorFormatNoPattern(t *testing.T) {
	e := f32err.New(f32err.ConsistencyViolation, f32err.NoPattern, "counts do not sum to total")
	if e.Error() != "f32err: CONSISTENCY_VIOLATION: counts do not sum to total" {
		t.Fatalf("unexpected error string: %s", e.Error())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	e := f32err.Wrap(f32err.InternalIO, f32err.NoPattern, "write failed", cause)
	if !errors.Is(e, cause) {
		t.Fatal("Unwrap did not return cause")
	}
	if got := e.Error(); got != "f32err: INTERNAL_IO: write failed: underlying" {
		t.Fatalf("unexpected wrapped error string: %s", got)
	}
}

func TestClassOf(t *testing.T) {
	inner := f32err.New(f32err.RoundTripMismatch, 1, "bad")
	if got := f32err.ClassOf(fmt.Errorf("outer: %w", inner)); got != f32err.RoundTripMismatch {
		t.Fatalf("ClassOf(wrapped) = %s", got)
	}
	if got := f32err.ClassOf(errors.New("plain")); got != f32err.InternalError {
		t.Fatalf("ClassOf(plain) = %s", got)
	}
}
