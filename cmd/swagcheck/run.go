package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/thesyncim/swaglabs/pkg/browser"
	"github.com/thesyncim/swaglabs/pkg/scenario"
	"github.com/thesyncim/swaglabs/pkg/swaglabs"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, sc := range swaglabs.All(a.cfg.Site()) {
				fmt.Fprintf(out, "%-30s %s\n", sc.Name, sc.Description)
			}
			return nil
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print the browser binary that sessions will launch",
		Long: `Resolve the browser binary the same way session provisioning does:
SWAG_BROWSER_BIN if set, then a system Chrome or Chromium, then a managed
download.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bin, err := browser.ResolveBrowser(a.cfg.BrowserBin)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bin)
			return nil
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Run scenarios, each in a fresh browser session",
		Long: `Run the named scenarios (all of them when none are named). Every
scenario gets its own browser and profile, which are removed afterwards.
One line per outcome is printed; the exit status is 1 if any failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scs, err := swaglabs.Lookup(a.cfg.Site(), args...)
			if err != nil {
				return err
			}
			if parallel < 1 {
				return fmt.Errorf("--parallel must be at least 1, got %d", parallel)
			}
			outcomes := a.runSuite(cmd.Context(), scs, parallel)
			if printOutcomes(cmd.OutOrStdout(), outcomes) > 0 {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "scenarios to run at once")
	return cmd
}

// runSuite runs scs with at most parallel sessions alive at a time. Outcomes
// keep the order of scs.
func (a *app) runSuite(ctx context.Context, scs []scenario.Scenario, parallel int) []scenario.Outcome {
	runner := a.cfg.Runner(a.logger)
	outcomes := make([]scenario.Outcome, len(scs))

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, sc := range scs {
		g.Go(func() error {
			outcomes[i] = a.runOne(ctx, runner, sc)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (a *app) runOne(ctx context.Context, runner *scenario.Runner, sc scenario.Scenario) scenario.Outcome {
	opts := append([]browser.Option{browser.WithLogger(a.logger)}, a.provisionOpts...)
	p, err := browser.NewProvisioner(a.cfg.Browser(), opts...)
	if err != nil {
		return scenario.Outcome{Scenario: sc.Name, Step: "provision", Err: err}
	}
	s, err := p.Acquire(ctx)
	if err != nil {
		return scenario.Outcome{Scenario: sc.Name, Step: "provision", Err: err}
	}
	defer func() {
		if err := s.Release(); err != nil {
			a.logger.Warn("release failed", "session", s.ID, "err", err)
		}
	}()
	return runner.Run(ctx, s.Page(), sc, s.ID)
}

// printOutcomes writes one line per outcome and returns the failure count.
func printOutcomes(w io.Writer, outcomes []scenario.Outcome) int {
	failed := 0
	for _, o := range outcomes {
		fmt.Fprintln(w, o)
		if !o.Passed() {
			failed++
		}
	}
	fmt.Fprintf(w, "%d passed, %d failed\n", len(outcomes)-failed, failed)
	return failed
}
