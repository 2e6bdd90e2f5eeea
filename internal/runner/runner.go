// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// Runner modes.
const (
	// ModeNative hands the command line to the host shell.
	ModeNative Mode = "native"
	// ModeVirtual interprets the command line with the embedded mvdan/sh shell.
	ModeVirtual Mode = "virtual"
)

// Status lines appended to the sink and the matching notifications.
const (
	successLine       = "\n✅ Command completed successfully"
	successNotice     = "EnviREAment command completed successfully"
	failureLineFormat = "\n❌ Command failed with exit code %d"
	failureNotice     = "EnviREAment command failed with exit code %d"
	launchErrorLine   = "\n❌ Command error: %s"
	launchErrorNotice = "EnviREAment command error: %s"
)

const defaultLoggerLabel = "runner"

// ErrInvalidMode is returned for an unknown Mode value.
var ErrInvalidMode = errors.New("invalid runner mode")

type (
	// Mode selects how a command line is executed.
	Mode string

	// Request is an immutable execution request: a command line, the directory
	// it runs in, and the sink its output goes to.
	Request struct {
		command string
		dir     string
		sink    Sink
	}

	// Runner launches command lines. A Runner holds no per-execution state and
	// may be used for any number of concurrent Run calls.
	Runner struct {
		mode              Mode
		shell             string
		shellArgsOverride []string
		notifier          Notifier
		logger            *log.Logger
	}

	// Option configures a Runner.
	Option func(*Runner)

	// Task is the handle of one execution. Its Outcome becomes available once
	// the process has exited and the final status line has reached the sink.
	Task struct {
		done    chan struct{}
		outcome Outcome
	}
)

// IsValid reports whether the mode is one of the known modes.
func (m Mode) IsValid() (bool, []error) {
	switch m {
	case ModeNative, ModeVirtual:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q (expected %q or %q)", ErrInvalidMode, string(m), ModeNative, ModeVirtual)}
	}
}

// NewRequest creates a request. An empty dir runs in the current directory;
// a nil sink discards output.
func NewRequest(command, dir string, sink Sink) Request {
	if sink == nil {
		sink = discardSink{}
	}
	return Request{command: command, dir: dir, sink: sink}
}

// Command returns the command line.
func (r Request) Command() string { return r.command }

// Dir returns the working directory.
func (r Request) Dir() string { return r.dir }

// Sink returns the output sink.
func (r Request) Sink() Sink { return r.sink }

// WithMode selects native or virtual execution.
func WithMode(mode Mode) Option {
	return func(r *Runner) { r.mode = mode }
}

// WithShell overrides the host shell and, optionally, the arguments placed
// before the command line.
func WithShell(shell string, args ...string) Option {
	return func(r *Runner) {
		r.shell = shell
		r.shellArgsOverride = slices.Clone(args)
	}
}

// WithNotifier sets where completion notifications go.
func WithNotifier(n Notifier) Option {
	return func(r *Runner) { r.notifier = n }
}

// WithLogger sets the debug logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// New creates a Runner. Without options it runs natively, discards
// notifications, and logs nothing.
func New(opts ...Option) *Runner {
	r := &Runner{mode: ModeNative}
	for _, opt := range opts {
		opt(r)
	}
	if r.notifier == nil {
		r.notifier = nopNotifier{}
	}
	if r.logger == nil {
		r.logger = log.NewWithOptions(io.Discard, log.Options{Prefix: defaultLoggerLabel})
	}
	return r
}

// Mode returns the configured mode.
func (r *Runner) Mode() Mode { return r.mode }

// Run starts the request and returns immediately. Output is streamed to the
// request's sink as it arrives; when the process ends a status line is
// appended and the notifier is called. There is no timeout and no way to
// cancel a started task.
func (r *Runner) Run(req Request) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.outcome = r.execute(req)
		r.report(req.sink, t.outcome)
	}()
	return t
}

// Done is closed once the outcome is available.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task has finished and returns its outcome.
func (t *Task) Wait() Outcome {
	<-t.done
	return t.outcome
}

func (r *Runner) execute(req Request) Outcome {
	r.logger.Debug("starting command", "command", req.command, "dir", req.dir, "mode", r.mode)

	sink := newLockedSink(req.sink)
	if err := checkDir(req.dir); err != nil {
		return launchFailure(err)
	}

	var outcome Outcome
	switch r.mode {
	case ModeVirtual:
		prog, err := parseCommand(req.command)
		if err != nil {
			return launchFailure(err)
		}
		if err := checkProgram(prog, req.dir); err != nil {
			return launchFailure(err)
		}
		outcome = r.executeVirtual(req, prog, sink)
	default:
		outcome = r.executeNative(req, sink)
	}

	r.logger.Debug("command finished", "command", req.command, "outcome", outcome.Kind, "exit_code", outcome.ExitCode)
	return outcome
}

// executeNative runs the command line through the host shell.
func (r *Runner) executeNative(req Request, sink *lockedSink) Outcome {
	shell, err := r.findShell()
	if err != nil {
		return launchFailure(err)
	}

	if r.posixShell(shell) {
		prog, err := parseCommand(req.command)
		if err != nil {
			return launchFailure(err)
		}
		if err := checkProgram(prog, req.dir); err != nil {
			return launchFailure(err)
		}
	}

	args := append(slices.Clone(r.shellArgs(shell)), req.command)
	cmd := exec.Command(shell, args...)
	cmd.Dir = req.dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return launchFailure(fmt.Errorf("stdout pipe: %w", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return launchFailure(fmt.Errorf("stderr pipe: %w", err))
	}

	if err := cmd.Start(); err != nil {
		return launchFailure(err)
	}

	// Both pipes must be drained before Wait closes them.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		forward(stdout, sink.Append)
	}()
	go func() {
		defer wg.Done()
		forward(stderr, sink.appendError)
	}()
	wg.Wait()

	return outcomeFromWait(cmd.Wait())
}

// outcomeFromWait converts the error of exec.Cmd.Wait into an Outcome.
func outcomeFromWait(err error) Outcome {
	if err == nil {
		return successOutcome()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitOutcome(ExitCode(exitErr.ExitCode()), nil)
	}
	return exitOutcome(1, err)
}

// report appends the terminal status line and fires the notification.
func (r *Runner) report(sink Sink, o Outcome) {
	switch o.Kind {
	case OutcomeSuccess:
		sink.AppendLine(successLine)
		r.notifier.Info(successNotice)
	case OutcomeNonZeroExit:
		sink.AppendLine(fmt.Sprintf(failureLineFormat, o.ExitCode))
		r.notifier.Error(fmt.Sprintf(failureNotice, o.ExitCode))
	case OutcomeLaunchFailure:
		sink.AppendLine(fmt.Sprintf(launchErrorLine, o.Err))
		r.notifier.Error(fmt.Sprintf(launchErrorNotice, o.Err))
	}
}
