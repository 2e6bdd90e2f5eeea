// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/songbase/envireament/internal/app/launch"
	"github.com/songbase/envireament/internal/issue"
	"github.com/songbase/envireament/internal/locate"
	"github.com/songbase/envireament/internal/watch"
)

type testFlagValues struct {
	verboseOutput bool
	watch         bool
}

func newTestCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &testFlagValues{}

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the EnviREAment test suite",
		Long: `Run enhanced_test_runner.lua with the configured Lua interpreter.

With --watch (or auto_run_tests in the configuration) the tests run once and
then again every time a watched file changes, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []launch.Option
			if flags.verboseOutput {
				extra = append(extra, launch.WithVerboseOutput(true))
			}
			s, err := app.newSession(cmd.Context(), rootFlags, extra...)
			if err != nil {
				return err
			}
			if flags.watch || s.cfg.AutoRunTests {
				return s.watchTests(cmd.Context())
			}
			return s.run(cmd.Context(), locate.KindTestRunner)
		},
	}

	cmd.Flags().BoolVar(&flags.verboseOutput, "verbose-output", false, "pass --verbose to the test runner")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "re-run the tests when files change")
	return cmd
}

// run resolves kind, starts it and waits for the outcome. A missing target
// renders its issue and exits with status 1.
func (s *session) run(ctx context.Context, kind locate.Kind) error {
	plan, err := s.service.Plan(ctx, kind, s.root)
	if err != nil {
		if errors.Is(err, launch.ErrTargetNotFound) {
			s.app.renderIssue(notFoundIssue(kind), s.cfg.UI.ColorScheme)
			return &ExitError{Code: 1}
		}
		return err
	}
	return s.await(s.service.Start(plan, s.sink()), issue.LuaNotFoundId)
}

// watchTests runs the tests once and then on every batch of changes. Each
// run resolves the runner again so an install made while watching is picked
// up. Failed runs are reported and watching continues.
func (s *session) watchTests(ctx context.Context) error {
	out := s.app.stdout
	rerun := func(ctx context.Context) {
		if err := s.run(ctx, locate.KindTestRunner); err != nil {
			var exitErr *ExitError
			if !errors.As(err, &exitErr) || exitErr.Err != nil {
				fmt.Fprintf(s.app.stderr, "%s %v\n", WarningStyle.Render("!"), err)
			}
		}
	}

	w, err := watch.New(watch.Config{
		Root:        s.root,
		Patterns:    s.cfg.Watch.Patterns,
		Ignore:      s.cfg.Watch.Ignore,
		Debounce:    s.cfg.Watch.Debounce.OrDefault(watch.DefaultDebounce),
		ClearScreen: s.cfg.Watch.ClearScreen,
		Stdout:      out,
		Logger:      s.logger.WithPrefix("watch"),
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(out, "%s Detected %d change(s), re-running tests...\n", CmdStyle.Render("→"), len(changed))
			rerun(ctx)
			fmt.Fprintf(out, "\n%s Watching for changes...\n\n", CmdStyle.Render("→"))
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	rerun(ctx)
	fmt.Fprintf(out, "\n%s Watching %s for changes (Ctrl+C to stop)...\n\n", CmdStyle.Render("→"), s.root)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func notFoundIssue(kind locate.Kind) issue.Id {
	if kind == locate.KindDemo {
		return issue.DemoNotFoundId
	}
	return issue.TestRunnerNotFoundId
}
