// Command f32sweep enumerates binary32 bit patterns, classifies every value
// and checks that each survives a decimal text round trip.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lattice-substrate/f32sweep/f32err"
	"github.com/lattice-substrate/f32sweep/f32trip"
	"github.com/lattice-substrate/f32sweep/plan"
	"github.com/lattice-substrate/f32sweep/report"
	"github.com/lattice-substrate/f32sweep/sweep"
)

const (
	exitSuccess = 0
	logLevelEnv = "F32SWEEP_LOG_LEVEL"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return writeClassifiedError(stderr, err)
	}
	return exitSuccess
}

type options struct {
	first      string
	last       string
	converters []string
	workers    int
	verbose    bool
	logLevel   string
	noProgress bool
	json       bool
}

func newRootCommand(stdout io.Writer, stderr io.Writer) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "f32sweep",
		Short: "Exhaustively classify and round-trip binary32 values",
		Long: "f32sweep visits every bit pattern in [--first, --last], classifies the\n" +
			"float32 it encodes and checks that formatting it as decimal text and\n" +
			"parsing it back gives the same value. The first failure aborts the run.",
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd.Context(), o, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return f32err.Wrap(f32err.CLIUsage, f32err.NoPattern, "invalid arguments", err)
	})

	fs := root.Flags()
	fs.StringVar(&o.first, "first", "0x00000000", "first bit pattern, decimal or 0x hex")
	fs.StringVar(&o.last, "last", "0xffffffff", "last bit pattern (inclusive), decimal or 0x hex")

	pfs := root.PersistentFlags()
	pfs.StringSliceVarP(&o.converters, "converter", "c", []string{f32trip.DefaultConverter},
		"round-trip converter to verify, repeatable ("+strings.Join(f32trip.Names(), ", ")+")")
	pfs.IntVarP(&o.workers, "workers", "j", 1, "goroutines sharing the range")
	pfs.BoolVarP(&o.verbose, "verbose", "v", false, "log one diagnostic line per pattern")
	pfs.StringVar(&o.logLevel, "log-level", envOr(logLevelEnv, "info"), "log level (env "+logLevelEnv+")")
	pfs.BoolVar(&o.noProgress, "no-progress", false, "do not print progress")
	pfs.BoolVar(&o.json, "json", false, "print canonical JSON evidence on stdout")

	root.AddCommand(newPlanCommand(o, stdout, stderr), newConvertersCommand(stdout))
	return root
}

func newPlanCommand(o *options, stdout io.Writer, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "plan FILE",
		Short: "Run the lanes of a plan file and check their expected counts",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), o, args[0], stdout, stderr)
		},
	}
}

func newConvertersCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "converters",
		Short: "List the available round-trip converters",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			for _, name := range f32trip.Names() {
				if err := writeLine(stdout, name); err != nil {
					return f32err.Wrap(f32err.InternalIO, f32err.NoPattern, "list converters", err)
				}
			}
			return nil
		},
	}
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return f32err.Wrap(f32err.CLIUsage, f32err.NoPattern, "invalid arguments", err)
		}
		return nil
	}
}

// baseOptions resolves the flags shared by every sweeping command.
func (o *options) baseOptions(stderr io.Writer) (sweep.Options, error) {
	converters, err := f32trip.LookupAll(o.converters)
	if err != nil {
		return sweep.Options{}, f32err.Wrap(f32err.CLIUsage, f32err.NoPattern, "invalid converter", err)
	}
	if o.workers < 1 {
		return sweep.Options{}, f32err.New(f32err.CLIUsage, f32err.NoPattern, fmt.Sprintf("workers must be >= 1, got %d", o.workers))
	}
	logger, err := newLogger(stderr, o.logLevel, o.verbose)
	if err != nil {
		return sweep.Options{}, err
	}
	return sweep.Options{Converters: converters, Workers: o.workers, Logger: logger}, nil
}

func newLogger(w io.Writer, level string, verbose bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, f32err.Wrap(f32err.CLIUsage, f32err.NoPattern, "invalid log level", err)
	}
	if verbose {
		lvl = log.DebugLevel
	}
	logger := log.New()
	logger.SetOutput(w)
	logger.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	logger.SetLevel(lvl)
	return logger, nil
}

func runSweep(ctx context.Context, o *options, stdout io.Writer, stderr io.Writer) error {
	r, err := sweep.ParseRange(o.first, o.last)
	if err != nil {
		return f32err.Wrap(f32err.CLIUsage, f32err.NoPattern, "invalid range", err)
	}
	opts, err := o.baseOptions(stderr)
	if err != nil {
		return err
	}

	var printer *report.ProgressPrinter
	if !o.noProgress {
		w := stdout
		if o.json {
			w = stderr
		}
		printer = report.NewProgressPrinter(w, report.IsTerminal(w))
		opts.Progress = printer.Update
	}

	res, runErr := sweep.Run(ctx, r, opts)
	if printer != nil {
		if err := printer.Finish(); err != nil && runErr == nil {
			return f32err.Wrap(f32err.InternalIO, f32err.NoPattern, "progress", err)
		}
	}
	if runErr == nil {
		runErr = sweep.Validate(res)
	}

	if o.json {
		ev := report.NewEvidence(r, converterNames(opts), res, runErr)
		if err := writeEvidence(stdout, ev); err != nil {
			return err
		}
		return runErr
	}
	if res != nil {
		if err := report.WriteSummary(stdout, res.Counts, res.Counts.Total()); err != nil {
			return f32err.Wrap(f32err.InternalIO, f32err.NoPattern, "summary", err)
		}
	}
	return runErr
}

func runPlan(ctx context.Context, o *options, path string, stdout io.Writer, stderr io.Writer) error {
	p, err := plan.Load(path)
	if err != nil {
		return f32err.Wrap(f32err.CLIUsage, f32err.NoPattern, "invalid plan", err)
	}
	base, err := o.baseOptions(stderr)
	if err != nil {
		return err
	}

	outcomes, runErr := plan.Execute(ctx, p, base)
	for i := range outcomes {
		out := &outcomes[i]
		if o.json {
			ev := report.NewEvidence(out.Range, laneConverters(out, base), out.Result, out.Err)
			ev.Lane = out.Lane.ID
			if err := writeEvidence(stdout, ev); err != nil {
				return err
			}
			continue
		}
		if err := writef(stdout, "\nLane %s %s\n", out.Lane.ID, out.Range); err != nil {
			return f32err.Wrap(f32err.InternalIO, f32err.NoPattern, "lane header", err)
		}
		if out.Result != nil {
			if err := report.WriteSummary(stdout, out.Result.Counts, out.Result.Counts.Total()); err != nil {
				return f32err.Wrap(f32err.InternalIO, f32err.NoPattern, "summary", err)
			}
		}
	}
	return runErr
}

func laneConverters(out *plan.Outcome, base sweep.Options) []string {
	if len(out.Lane.Converters) > 0 {
		return out.Lane.Converters
	}
	return converterNames(base)
}

func converterNames(opts sweep.Options) []string {
	names := make([]string, len(opts.Converters))
	for i, c := range opts.Converters {
		names[i] = c.Name()
	}
	return names
}

func writeEvidence(w io.Writer, ev *report.Evidence) error {
	raw, err := ev.Canonical(true)
	if err != nil {
		return f32err.Wrap(f32err.InternalError, f32err.NoPattern, "evidence", err)
	}
	if err := writef(w, "%s\n", raw); err != nil {
		return f32err.Wrap(f32err.InternalIO, f32err.NoPattern, "evidence", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func writeClassifiedError(stderr io.Writer, err error) int {
	class := f32err.ClassOf(err)
	if werr := writef(stderr, "error: %v\n", err); werr != nil {
		return f32err.InternalIO.ExitCode()
	}
	return class.ExitCode()
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
