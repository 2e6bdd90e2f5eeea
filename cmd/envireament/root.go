// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for envireament.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/songbase/envireament/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	workspace  string
	configPath string
	verbose    bool
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "envireament",
		Short: "Run EnviREAment Lua tests and demos outside REAPER",
		Long: TitleStyle.Render("envireament") + SubtitleStyle.Render(" - run REAPER Lua scripts in a virtual environment") + `

envireament finds the EnviREAment test runner for your workspace and runs it
with a Lua interpreter. The runner is looked up in the workspace, then in
node_modules/envireament, then in the installed envireament Python package.

` + SubtitleStyle.Render("Examples:") + `
  envireament test                  Run the test suite
  envireament test --watch          Re-run the tests whenever a Lua file changes
  envireament demo                  Run the bundled demo
  envireament status                Show what was found in this workspace
  envireament install --via pip     Install the EnviREAment package`,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.workspace, "workspace", "w", "", "workspace directory (default is the current directory)")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/envireament/config.cue)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newTestCommand(app, flags),
		newDemoCommand(app, flags),
		newInstallCommand(app, flags),
		newStatusCommand(app, flags),
		newDocsCommand(app, flags),
		newConfigCommand(app, flags),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI and exits with the status of the last child process
// when a command fails. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code.ProcessStatus())
		}
		os.Exit(1)
	}
}

// handleError prints command errors. Silent exit errors print nothing and
// actionable errors are shown with their suggestions.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, errors.New(formatErrorForDisplay(err, false)))
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own Format; verbose mode adds the error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
