// Command f32sweep-gate runs the repository's required verification gates in order.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/spf13/pflag"
)

type gateStep struct {
	label string
	name  string
	args  []string
}

type commandRunner interface {
	Run(ctx context.Context, name string, args []string, stdout io.Writer, stderr io.Writer) error
}

type realRunner struct{}

var requiredGateSteps = []gateStep{
	{label: "go vet", name: "go", args: []string{"vet", "./..."}},
	{label: "unit tests", name: "go", args: []string{"test", "./...", "-count=1", "-timeout=20m"}},
	{label: "race tests", name: "go", args: []string{"test", "./...", "-race", "-count=1", "-timeout=25m"}},
	{label: "conformance", name: "go", args: []string{"test", "./conformance", "-count=1", "-timeout=10m", "-v"}},
	{label: "plan regression", name: "go", args: []string{"run", "./cmd/f32sweep", "plan", "plans/ci.json", "--no-progress"}},
}

func fullSweepStep(workers int) gateStep {
	return gateStep{
		label: "full-range sweep",
		name:  "go",
		args: []string{"run", "./cmd/f32sweep", "--no-progress",
			"-j", strconv.Itoa(workers), "-c", "strconv", "-c", "exact", "-c", "es6"},
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, realRunner{}))
}

func run(args []string, stdout, stderr io.Writer, runner commandRunner) int {
	fs := pflag.NewFlagSet("f32sweep-gate", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	full := fs.Bool("full", false, "also sweep all 2^32 patterns with every converter")
	workers := fs.IntP("workers", "j", runtime.NumCPU(), "workers for the full-range sweep")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			if err := writeUsage(stdout, fs); err != nil {
				return 1
			}
			return 0
		}
		if err := writef(stderr, "error: %v\n", err); err != nil {
			return 1
		}
		if err := writeUsage(stderr, fs); err != nil {
			return 1
		}
		return 2
	}
	if fs.NArg() > 0 {
		if err := writef(stderr, "error: unknown argument %q\n", fs.Arg(0)); err != nil {
			return 1
		}
		return 2
	}

	steps := append([]gateStep(nil), requiredGateSteps...)
	if *full {
		steps = append(steps, fullSweepStep(*workers))
	}

	ctx := context.Background()
	for i, step := range steps {
		if err := writef(stdout, "[%d/%d] %s\n", i+1, len(steps), step.label); err != nil {
			return 1
		}
		if err := runner.Run(ctx, step.name, step.args, stdout, stderr); err != nil {
			if writeErr := writef(stderr, "gate failed: %s: %v\n", step.label, err); writeErr != nil {
				return 1
			}
			return 1
		}
	}

	if err := writeLine(stdout, "all gates passed"); err != nil {
		return 1
	}
	return 0
}

func (realRunner) Run(ctx context.Context, name string, args []string, stdout io.Writer, stderr io.Writer) error {
	// #nosec G204 -- command and args are fixed repository gate invocations.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}

func writeUsage(w io.Writer, fs *pflag.FlagSet) error {
	if err := writeLine(w, "usage: go run ./cmd/f32sweep-gate [--full] [-j N]"); err != nil {
		return err
	}
	if err := writeLine(w, "runs: vet, tests, race, conformance, plan regression"); err != nil {
		return err
	}
	return writef(w, "%s", fs.FlagUsages())
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
