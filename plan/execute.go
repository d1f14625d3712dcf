package plan

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"github.com/lattice-substrate/f32sweep/f32class"
	"github.com/lattice-substrate/f32sweep/f32err"
	"github.com/lattice-substrate/f32sweep/f32trip"
	"github.com/lattice-substrate/f32sweep/sweep"
)

// Outcome is the result of one lane. Result is nil when the lane's sweep
// aborted.
type Outcome struct {
	Lane   *Lane
	Range  sweep.Range
	Result *sweep.Result
	Err    error
}

// Execute runs the lanes of p in id order with base as the default options.
// It stops at the first failing lane and returns the outcomes so far along
// with that lane's error.
func Execute(ctx context.Context, p *Plan, base sweep.Options) ([]Outcome, error) {
	var outcomes []Outcome
	for _, lane := range p.Ordered() {
		out := runLane(ctx, lane, base)
		outcomes = append(outcomes, out)
		if out.Err != nil {
			return outcomes, out.Err
		}
	}
	return outcomes, nil
}

func runLane(ctx context.Context, lane *Lane, base sweep.Options) Outcome {
	out := Outcome{Lane: lane}
	r, err := lane.Range()
	if err != nil {
		out.Err = f32err.Wrap(f32err.CLIUsage, f32err.NoPattern, "lane "+lane.ID, err)
		return out
	}
	out.Range = r

	opts := base
	if len(lane.Converters) > 0 {
		cs, err := f32trip.LookupAll(lane.Converters)
		if err != nil {
			out.Err = f32err.Wrap(f32err.CLIUsage, f32err.NoPattern, "lane "+lane.ID, err)
			return out
		}
		opts.Converters = cs
	}
	if lane.Workers > 0 {
		opts.Workers = lane.Workers
	}

	res, err := sweep.Run(ctx, r, opts)
	if err != nil {
		out.Err = err
		return out
	}
	out.Result = res
	if err := sweep.Validate(res); err != nil {
		out.Err = err
		return out
	}
	out.Err = lane.Check(res.Counts)
	if base.Logger != nil {
		entry := base.Logger.WithFields(log.Fields{"lane": lane.ID, "range": r.String()})
		if out.Err != nil {
			entry.WithError(out.Err).Error("lane failed")
		} else {
			entry.Info("lane passed")
		}
	}
	return out
}

// Check compares counts against the lane's expectations. Every differing
// category is reported.
func (l *Lane) Check(counts f32class.Counts) error {
	var errs *multierror.Error
	for _, cat := range f32class.Categories {
		want, ok := l.Expect[cat.String()]
		if !ok {
			continue
		}
		if got := counts.Get(cat); got != want {
			errs = multierror.Append(errs, fmt.Errorf("%s count is %d, expected %d", cat, got, want))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return f32err.Wrap(f32err.ConsistencyViolation, f32err.NoPattern, "lane "+l.ID+" counts differ from expect", err)
	}
	return nil
}
