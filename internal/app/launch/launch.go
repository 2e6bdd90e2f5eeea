// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/songbase/envireament/internal/locate"
	"github.com/songbase/envireament/internal/runner"
)

const (
	// DefaultLuaPath is the interpreter used when none is configured.
	DefaultLuaPath = "lua"
	// VerboseFlag is passed to the test runner when verbose output is on.
	VerboseFlag = "--verbose"
)

// ErrTargetNotFound is wrapped by NotFoundError.
var ErrTargetNotFound = errors.New("target not found")

type (
	// Resolver finds scripts in a workspace.
	Resolver interface {
		Resolve(ctx context.Context, kind locate.Kind, root string) (locate.Match, bool)
	}

	// Starter launches a request and returns its task.
	Starter interface {
		Run(req runner.Request) *runner.Task
	}

	// dialecter is implemented by starters that know which shell syntax
	// their command lines are read in. *runner.Runner is one.
	dialecter interface {
		Dialect() runner.Dialect
	}

	// Service plans and starts test and demo runs.
	Service struct {
		resolver      Resolver
		starter       Starter
		luaPath       string
		verboseOutput bool
		pkg           string
		dialect       runner.Dialect
		hasDialect    bool
		logger        *log.Logger
	}

	// Option configures a Service.
	Option func(*Service)

	// Plan is a resolved, ready-to-run command.
	Plan struct {
		Kind    locate.Kind
		Match   locate.Match
		Command string
		Dir     string
	}

	// NotFoundError reports that no candidate produced the target.
	NotFoundError struct {
		Kind locate.Kind
		Root string
	}
)

// WithLuaPath sets the Lua interpreter.
func WithLuaPath(path string) Option {
	return func(s *Service) { s.luaPath = path }
}

// WithVerboseOutput makes test runs pass VerboseFlag.
func WithVerboseOutput(on bool) Option {
	return func(s *Service) { s.verboseOutput = on }
}

// WithPackage sets the package name used by Install.
func WithPackage(pkg string) Option {
	return func(s *Service) { s.pkg = pkg }
}

// WithDialect fixes the shell syntax of built command lines. Without it the
// starter's own dialect is used when it reports one, and POSIX otherwise.
func WithDialect(d runner.Dialect) Option {
	return func(s *Service) {
		s.dialect = d
		s.hasDialect = true
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a Service.
func NewService(resolver Resolver, starter Starter, opts ...Option) *Service {
	s := &Service{resolver: resolver, starter: starter}
	for _, opt := range opts {
		opt(s)
	}
	if strings.TrimSpace(s.luaPath) == "" {
		s.luaPath = DefaultLuaPath
	}
	if s.pkg == "" {
		s.pkg = locate.DefaultPackage
	}
	if d, ok := starter.(dialecter); ok && !s.hasDialect {
		s.dialect = d.Dialect()
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return s
}

// Plan resolves kind in the workspace at root and builds its command line.
// Test runs get VerboseFlag when verbose output is enabled.
func (s *Service) Plan(ctx context.Context, kind locate.Kind, root string) (Plan, error) {
	if ok, errs := kind.IsValid(); !ok {
		return Plan{}, errs[0]
	}

	match, ok := s.resolver.Resolve(ctx, kind, root)
	if !ok {
		return Plan{}, &NotFoundError{Kind: kind, Root: root}
	}

	var args []string
	if kind == locate.KindTestRunner && s.verboseOutput {
		args = append(args, VerboseFlag)
	}
	cmd, err := BuildCommand(s.dialect, s.luaPath, match.Path, args...)
	if err != nil {
		return Plan{}, err
	}

	s.logger.Debug("planned", "kind", kind, "source", match.Source, "command", cmd)
	return Plan{Kind: kind, Match: match, Command: cmd, Dir: root}, nil
}

// Start announces the plan on sink and starts it.
func (s *Service) Start(p Plan, sink runner.Sink) *runner.Task {
	sink.AppendLine(fmt.Sprintf("Running EnviREAment %s: %s", label(p.Kind), p.Command))
	return s.starter.Run(runner.NewRequest(p.Command, p.Dir, sink))
}

// BuildCommand returns the command line running script with the Lua
// interpreter program. program is used as written, so it may name a wrapper
// or carry flags; script and args are quoted for dialect d.
func BuildCommand(d runner.Dialect, program, script string, args ...string) (string, error) {
	cmd, err := d.CommandLine(program, append([]string{script}, args...)...)
	if err != nil {
		return "", fmt.Errorf("build command for %s: %w", script, err)
	}
	return cmd, nil
}

func label(kind locate.Kind) string {
	if kind == locate.KindDemo {
		return "demo"
	}
	return "tests"
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in %s", e.Kind, e.Root)
}

// Unwrap returns ErrTargetNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrTargetNotFound }
