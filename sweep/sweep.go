// Package sweep drives the exhaustive binary32 enumeration: every bit pattern
// in a range is reinterpreted as a float32, classified, and pushed through the
// configured round-trip converters.
//
// A run moves from not started to running to either completed or aborted.
// The first round-trip mismatch aborts the run; there is no resume.
package sweep

import (
	"context"
	"io"
	"math"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/lattice-substrate/f32sweep/f32class"
	"github.com/lattice-substrate/f32sweep/f32err"
	"github.com/lattice-substrate/f32sweep/f32trip"
)

// Options configures a run.
type Options struct {
	// Converters are verified for every pattern, in order. Empty means the
	// default converter.
	Converters []f32trip.Converter
	// Workers is the number of goroutines sharing the range. Values below 1
	// mean 1.
	Workers int
	// Progress, if set, receives progress events.
	Progress ProgressFunc
	// Logger receives lifecycle lines at Info and, when Debug is enabled, one
	// diagnostic line per pattern. Nil discards everything.
	Logger *log.Logger
}

// Result is the outcome of a completed run.
type Result struct {
	Range      Range
	Counts     f32class.Counts
	Converters []string
	Workers    int
	Elapsed    time.Duration
}

// Run enumerates r. It returns an *f32err.Error of class ROUNDTRIP_MISMATCH
// for the first pattern that does not survive a converter's round trip.
func Run(ctx context.Context, r Range, opts Options) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, f32err.Wrap(f32err.CLIUsage, f32err.NoPattern, "invalid range", err)
	}
	converters := opts.Converters
	if len(converters) == 0 {
		c, err := f32trip.Lookup(f32trip.DefaultConverter)
		if err != nil {
			return nil, f32err.Wrap(f32err.InternalError, f32err.NoPattern, "default converter", err)
		}
		converters = []f32trip.Converter{c}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New()
		logger.SetOutput(io.Discard)
	}

	parts := r.split(opts.Workers)
	names := make([]string, len(converters))
	for i, c := range converters {
		names[i] = c.Name()
	}

	logger.WithFields(log.Fields{
		"range":      r.String(),
		"patterns":   r.Len(),
		"converters": names,
		"workers":    len(parts),
	}).Info("sweep started")

	start := time.Now()
	tr := newTracker(r.Len(), opts.Progress)
	counts := make([]f32class.Counts, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		i, part := i, part
		w := &worker{
			converters: converters,
			logger:     logger,
			debug:      logger.IsLevelEnabled(log.DebugLevel),
			tracker:    tr,
			every:      reportInterval(r.Len()),
		}
		g.Go(func() error {
			return w.run(gctx, part, &counts[i])
		})
	}
	if err := g.Wait(); err != nil {
		logger.WithError(err).WithField("processed", tr.processed()).Error("sweep aborted")
		return nil, err
	}

	res := &Result{
		Range:      r,
		Converters: names,
		Workers:    len(parts),
		Elapsed:    time.Since(start),
	}
	for _, c := range counts {
		res.Counts = res.Counts.Merge(c)
	}
	logger.WithFields(log.Fields{
		"patterns": res.Counts.Total(),
		"elapsed":  res.Elapsed.Round(time.Millisecond).String(),
	}).Info("sweep completed")
	return res, nil
}

type worker struct {
	converters []f32trip.Converter
	logger     *log.Logger
	debug      bool
	tracker    *tracker
	every      uint64
}

// run processes part into counts. Counts are owned by this worker only.
func (w *worker) run(ctx context.Context, part Range, counts *f32class.Counts) error {
	var pending uint64
	last := uint64(part.Last)
	for b := uint64(part.First); b <= last; b++ {
		bits := uint32(b)
		f := math.Float32frombits(bits)
		if w.debug {
			w.logger.Debugf("%d: bits %b: float %s", int32(bits), bits, strconv.FormatFloat(float64(f), 'g', -1, 32))
		}

		counts.Add(f32class.Classify(f))

		for _, c := range w.converters {
			if err := f32trip.Verify(c, f); err != nil {
				return f32err.Wrap(f32err.RoundTripMismatch, int64(bits), "round trip failed", err)
			}
		}

		if pending++; pending == w.every {
			w.tracker.advance(pending)
			pending = 0
			if err := ctx.Err(); err != nil {
				return xerrors.Errorf("worker %s stopped: %w", part, err)
			}
		}
	}
	w.tracker.advance(pending)
	return nil
}
