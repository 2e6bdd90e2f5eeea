// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/songbase/envireament/internal/app/launch"
	"github.com/songbase/envireament/internal/config"
	"github.com/songbase/envireament/internal/issue"
	"github.com/songbase/envireament/internal/locate"
	"github.com/songbase/envireament/internal/runner"
	"github.com/songbase/envireament/internal/workspace"
)

const loggerPrefix = "envireament"

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and builds a
	// session from it.
	App struct {
		Config   config.Provider
		resolver launch.Resolver
		starter  launch.Starter
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp; a nil Resolver
	// or Starter is built from the loaded configuration on each invocation.
	Dependencies struct {
		Config   config.Provider
		Resolver launch.Resolver
		Starter  launch.Starter
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// session is everything one command invocation needs once the workspace
	// and configuration are known.
	session struct {
		app     *App
		cfg     *config.Config
		root    string
		verbose bool
		logger  *log.Logger
		service *launch.Service
	}
)

// NewApp creates the CLI application.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config:   deps.Config,
		resolver: deps.Resolver,
		starter:  deps.Starter,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}

// newSession resolves the workspace, loads its configuration and builds the
// resolver, runner and launch service. extra is applied after the options
// derived from the configuration. Failures are rendered as catalogued issues
// and returned as an ExitError.
func (a *App) newSession(ctx context.Context, flags *rootFlagValues, extra ...launch.Option) (*session, error) {
	root, err := workspace.Resolve(flags.workspace)
	if err != nil {
		a.renderIssue(issue.WorkspaceNotFoundId, config.ColorSchemeAuto)
		return nil, &ExitError{Code: 1, Err: issue.NewErrorContext().
			WithOperation("open workspace").
			WithResource(flags.workspace).
			WithSuggestion("Pass an existing directory with --workspace").
			Wrap(err).
			BuildError()}
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath, WorkspaceDir: root})
	if err != nil {
		a.renderIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		return nil, &ExitError{Code: 1, Err: err}
	}

	s := &session{app: a, cfg: cfg, root: root, verbose: flags.verbose || cfg.UI.Verbose}
	s.logger = log.NewWithOptions(a.stderr, log.Options{Prefix: loggerPrefix})
	if s.verbose {
		s.logger.SetLevel(log.DebugLevel)
	}
	s.logger.Debug("session", "workspace", root, "shell", cfg.Shell, "lua_path", cfg.LuaPath)

	resolver := a.resolver
	if resolver == nil {
		probe := locate.NewProbe(cfg.Probe.PythonPath, cfg.Probe.Package, cfg.Probe.Timeout.OrDefault(locate.DefaultProbeTimeout))
		resolver = locate.NewResolver(
			locate.WithProbe(probe),
			locate.WithPackage(cfg.Probe.Package),
			locate.WithLogger(s.logger.WithPrefix("resolver")),
		)
	}

	starter := a.starter
	if starter == nil {
		starter = runner.New(
			runner.WithMode(runner.Mode(cfg.Shell)),
			runner.WithNotifier(runner.NewLogNotifier(s.logger)),
			runner.WithLogger(s.logger.WithPrefix("runner")),
		)
	}

	opts := []launch.Option{
		launch.WithLuaPath(cfg.LuaPath),
		launch.WithVerboseOutput(cfg.VerboseOutput),
		launch.WithPackage(cfg.Probe.Package),
		launch.WithLogger(s.logger),
	}
	s.service = launch.NewService(resolver, starter, append(opts, extra...)...)
	return s, nil
}

// sink returns the output surface for child processes.
func (s *session) sink() runner.Sink {
	return runner.NewWriterSink(s.app.stdout)
}

// await waits for task and converts its outcome into the command's error.
// A non-zero exit becomes a silent ExitError carrying the child's code; a
// launch failure renders an issue first. missingProgram is the issue shown
// when the program itself could not be found.
func (s *session) await(task *runner.Task, missingProgram issue.Id) error {
	o := task.Wait()
	switch o.Kind {
	case runner.OutcomeSuccess:
		return nil
	case runner.OutcomeNonZeroExit:
		s.logger.Debug("command failed", "exit_code", o.ExitCode)
		return &ExitError{Code: o.ExitCode}
	default:
		s.app.renderIssue(launchIssue(o.Err, missingProgram), s.cfg.UI.ColorScheme)
		return &ExitError{Code: 1, Err: fmt.Errorf("launch failed: %w", o.Err)}
	}
}

// launchIssue picks the issue for a launch failure from its cause.
func launchIssue(err error, missingProgram issue.Id) issue.Id {
	var lookErr *exec.Error
	switch {
	case errors.Is(err, runner.ErrShellNotFound):
		return issue.ShellNotFoundId
	case errors.As(err, &lookErr):
		return missingProgram
	default:
		return issue.ScriptExecutionFailedId
	}
}

// renderIssue writes the catalogued issue to stderr. Rendering problems fall
// back to the raw markdown.
func (a *App) renderIssue(id issue.Id, scheme config.ColorScheme) {
	is := issue.Get(id)
	if is == nil {
		return
	}
	rendered, err := is.Render(string(scheme))
	if err != nil {
		rendered = is.Markdown()
	}
	fmt.Fprint(a.stderr, rendered)
}
