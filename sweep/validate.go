package sweep

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/lattice-substrate/f32sweep/f32class"
	"github.com/lattice-substrate/f32sweep/f32err"
)

// Fixed cardinalities of the full binary32 encoding space.
const (
	FullZeroCount     = 2
	FullInfiniteCount = 2
	FullNaNCount      = 1<<24 - 2
)

// Validate checks the counters of a completed run against the binary32
// layout. Every violation is reported; any violation means the classifier or
// the driver is broken.
func Validate(res *Result) error {
	if res == nil {
		return f32err.New(f32err.InternalError, f32err.NoPattern, "no result to validate")
	}
	var errs *multierror.Error

	total := res.Range.Len()
	if got := res.Counts.Total(); got != total {
		errs = multierror.Append(errs, fmt.Errorf("counts sum to %d, range holds %d patterns", got, total))
	}

	want := f32class.Expected(res.Range.First, res.Range.Last)
	for _, c := range f32class.Categories {
		if got := res.Counts.Get(c); got != want.Get(c) {
			errs = multierror.Append(errs, fmt.Errorf("%s count is %d, layout gives %d", c, got, want.Get(c)))
		}
	}

	if res.Range.IsFull() {
		fixed := []struct {
			cat  f32class.Category
			want uint64
		}{
			{f32class.Zero, FullZeroCount},
			{f32class.Infinite, FullInfiniteCount},
			{f32class.NaN, FullNaNCount},
		}
		for _, fx := range fixed {
			if got := res.Counts.Get(fx.cat); got != fx.want {
				errs = multierror.Append(errs, fmt.Errorf("full range %s count is %d, want %d", fx.cat, got, fx.want))
			}
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return f32err.Wrap(f32err.ConsistencyViolation, f32err.NoPattern, "post-run checks failed", err)
	}
	return nil
}
