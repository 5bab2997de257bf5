package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/unlock/batch"
	"github.com/katalvlaran/unlock/machine"
)

// ErrCheckFailed is returned when --check finds a wrong sample answer.
var ErrCheckFailed = errors.New("unlock: sample check failed")

//go:embed sample.txt
var sample string

// Expected answers for sample.txt.
const (
	sampleToggle     = 7
	sampleAccumulate = 33
)

type part uint8

const (
	partToggle part = 1 << iota
	partAccumulate
)

func newSolveCmd(a *app, p part) *cobra.Command {
	cmd := &cobra.Command{
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer func() {
				if err := a.teardown(cmd.Context()); err != nil {
					a.log.Warn("metrics shutdown", slog.Any("error", err))
				}
			}()
			return a.run(cmd, p, args[0])
		},
	}
	switch p {
	case partToggle:
		cmd.Use = "toggle FILE"
		cmd.Short = "Minimum presses to light every diagram (part 1)"
	case partAccumulate:
		cmd.Use = "accumulate FILE"
		cmd.Short = "Minimum presses to reach every joltage target (part 2)"
	default:
		cmd.Use = "solve FILE"
		cmd.Short = "Run both parts"
	}
	cmd.Long = cmd.Short + ".\n\nFILE holds one machine per line; use - for stdin."

	return cmd
}

func (a *app) run(cmd *cobra.Command, p part, path string) error {
	if a.check {
		if err := a.checkSample(cmd, p); err != nil {
			return err
		}
	}

	machines, err := readMachines(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}
	a.log.Debug("parsed input", slog.String("path", path), slog.Int("machines", len(machines)))

	out := cmd.OutOrStdout()
	if p&partToggle != 0 {
		if err := a.part(cmd, out, 1, batch.Toggle, machines); err != nil {
			return err
		}
	}
	if p&partAccumulate != 0 {
		if err := a.part(cmd, out, 2, batch.Accumulate, machines); err != nil {
			return err
		}
	}
	solved, failed := a.progress.Counts()
	a.log.Debug("done", slog.Int64("solved", solved), slog.Int64("failed", failed))

	return nil
}

type batchFunc func(ctx context.Context, machines []*machine.Machine, opts ...batch.Option) (batch.Summary, error)

func (a *app) part(cmd *cobra.Command, out io.Writer, n int, fn batchFunc, machines []*machine.Machine) error {
	opts := append(a.cfg.BatchOptions(), batch.WithObserver(a.observer))
	start := time.Now()
	sum, err := fn(cmd.Context(), machines, opts...)
	elapsed := time.Since(start)
	if err != nil {
		a.log.Error("batch incomplete",
			slog.String("kind", string(sum.Kind)),
			slog.Int("solved", sum.Solved),
			slog.Int("failed", len(sum.Failed())),
			slog.Int("partial_total", sum.Total),
		)
		return err
	}

	fmt.Fprintf(out, "Part %d: %d\n", n, sum.Total)
	fmt.Fprintf(out, "Part %d took %v\n", n, elapsed)

	return nil
}

// checkSample solves the embedded sample quietly and compares the totals.
func (a *app) checkSample(cmd *cobra.Command, p part) error {
	machines, err := machine.Parse(strings.NewReader(sample))
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	opts := a.cfg.BatchOptions()

	if p&partToggle != 0 {
		sum, err := batch.Toggle(ctx, machines, opts...)
		if err != nil {
			return fmt.Errorf("%w: part 1: %w", ErrCheckFailed, err)
		}
		if sum.Total != sampleToggle {
			return fmt.Errorf("%w: part 1 got %d, want %d", ErrCheckFailed, sum.Total, sampleToggle)
		}
	}
	if p&partAccumulate != 0 {
		sum, err := batch.Accumulate(ctx, machines, opts...)
		if err != nil {
			return fmt.Errorf("%w: part 2: %w", ErrCheckFailed, err)
		}
		if sum.Total != sampleAccumulate {
			return fmt.Errorf("%w: part 2 got %d, want %d", ErrCheckFailed, sum.Total, sampleAccumulate)
		}
	}
	a.log.Info("sample check passed")

	return nil
}

func readMachines(stdin io.Reader, path string) ([]*machine.Machine, error) {
	if path == "-" {
		return machine.Parse(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return machine.Parse(f)
}
