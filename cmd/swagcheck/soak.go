package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/thesyncim/swaglabs/pkg/scenario"
	"github.com/thesyncim/swaglabs/pkg/swaglabs"
)

// SoakResult contains the results of a soak run.
type SoakResult struct {
	Duration   time.Duration
	Iterations int
	Passes     map[string]int
	Failures   map[string]int
	Status     string
}

func newSoakResult() *SoakResult {
	return &SoakResult{
		Passes:   make(map[string]int),
		Failures: make(map[string]int),
		Status:   "PASS",
	}
}

func (r *SoakResult) record(outcomes []scenario.Outcome) (passed, failed int) {
	r.Iterations++
	for _, o := range outcomes {
		if o.Passed() {
			r.Passes[o.Scenario]++
			passed++
			continue
		}
		r.Failures[o.Scenario]++
		r.Status = "FAIL"
		failed++
	}
	return passed, failed
}

// completed drops the outcomes that only failed because ctx was cancelled
// underneath them. An interrupted soak reports what it actually observed.
func completed(ctx context.Context, outcomes []scenario.Outcome) []scenario.Outcome {
	if ctx.Err() == nil {
		return outcomes
	}
	kept := outcomes[:0:0]
	for _, o := range outcomes {
		if o.Passed() || !errors.Is(o.Err, ctx.Err()) {
			kept = append(kept, o)
		}
	}
	return kept
}

func newSoakCmd(a *app) *cobra.Command {
	var (
		duration time.Duration
		interval time.Duration
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "soak [scenario...]",
		Short: "Repeat the scenarios for a while and report flakiness",
		Long: `Run the named scenarios (default all) over and over until --duration
has elapsed or the process is interrupted, pausing --interval between
iterations. At least one iteration always runs. A summary with passes and
failures per scenario is printed at the end; the exit status is 1 if any
run failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scs, err := swaglabs.Lookup(a.cfg.Site(), args...)
			if err != nil {
				return err
			}
			if parallel < 1 {
				return fmt.Errorf("--parallel must be at least 1, got %d", parallel)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Swag Labs Soak Run\n")
			fmt.Fprintf(out, "==================\n")
			fmt.Fprintf(out, "Duration:  %v\n", duration)
			fmt.Fprintf(out, "Interval:  %v\n", interval)
			fmt.Fprintf(out, "Scenarios: %d\n", len(scs))
			fmt.Fprintf(out, "\n")

			result := a.soak(cmd.Context(), out, scs, duration, interval, parallel)
			printSummary(out, result)
			if result.Status != "PASS" {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", time.Hour, "how long to keep iterating (e.g., 10m, 24h)")
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "pause between iterations")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "scenarios to run at once")
	return cmd
}

func (a *app) soak(ctx context.Context, out io.Writer, scs []scenario.Scenario, duration, interval time.Duration, parallel int) *SoakResult {
	result := newSoakResult()
	recent := scenario.NewWindow(scenario.DefaultWindowConfig())
	start := time.Now()

	for {
		outcomes := completed(ctx, a.runSuite(ctx, scs, parallel))
		passed, failed := result.record(outcomes)
		now := time.Now()
		for _, o := range outcomes {
			recent.Record(o, now)
		}
		rate, _ := recent.FailureRate(now)
		elapsed := now.Sub(start)
		fmt.Fprintf(out, "[%s] Iteration %d: %d passed, %d failed, recent failure rate %.0f%%\n",
			formatDuration(elapsed), result.Iterations, passed, failed, rate*100)

		if elapsed >= duration || ctx.Err() != nil {
			break
		}
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			fmt.Fprintf(out, "\nInterrupted, shutting down...\n")
		case <-timer.C:
		}
		if ctx.Err() != nil {
			break
		}
	}

	result.Duration = time.Since(start)
	return result
}

func printSummary(out io.Writer, result *SoakResult) {
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "Soak Run Complete\n")
	fmt.Fprintf(out, "=================\n")
	fmt.Fprintf(out, "Duration:   %v\n", result.Duration.Round(time.Second))
	fmt.Fprintf(out, "Iterations: %d\n", result.Iterations)
	fmt.Fprintf(out, "Status:     %s\n", result.Status)
	fmt.Fprintf(out, "\n")

	names := make([]string, 0, len(result.Passes)+len(result.Failures))
	seen := make(map[string]bool)
	for _, m := range []map[string]int{result.Passes, result.Failures} {
		for name := range m {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	fmt.Fprintf(out, "Per scenario:\n")
	for _, name := range names {
		fmt.Fprintf(out, "  %-30s passed %d, failed %d\n", name, result.Passes[name], result.Failures[name])
	}
}

func formatDuration(d time.Duration) string {
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
