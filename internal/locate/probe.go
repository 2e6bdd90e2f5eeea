// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultInterpreter is the Python interpreter used to probe the package.
	DefaultInterpreter = "python3"
	// DefaultProbeTimeout bounds a single probe.
	DefaultProbeTimeout = 5 * time.Second

	// probeWaitDelay caps how long we wait for the probe's pipes after it is
	// killed, in case it left a grandchild holding them open.
	probeWaitDelay = 250 * time.Millisecond
)

var (
	// ErrProbeTimeout is returned when the probe did not finish in time.
	ErrProbeTimeout = errors.New("probe timed out")
	// ErrUnusableOutput is returned when the probe printed something other
	// than a single absolute path.
	ErrUnusableOutput = errors.New("unusable probe output")
)

type (
	// Probe asks an installed Python package where its files live by running
	// a one-line script through an interpreter.
	Probe struct {
		interpreter string
		pkg         string
		timeout     time.Duration
		run         commandFunc
	}

	// commandFunc runs a program and returns its standard output.
	commandFunc func(ctx context.Context, name string, args ...string) ([]byte, error)
)

// NewProbe creates a probe. Empty or zero arguments fall back to
// DefaultInterpreter, DefaultPackage and DefaultProbeTimeout.
func NewProbe(interpreter, pkg string, timeout time.Duration) *Probe {
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}
	if pkg == "" {
		pkg = DefaultPackage
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Probe{
		interpreter: interpreter,
		pkg:         pkg,
		timeout:     timeout,
		run:         runCommand,
	}
}

// Interpreter returns the interpreter the probe runs.
func (p *Probe) Interpreter() string { return p.interpreter }

// Timeout returns the probe's time bound.
func (p *Probe) Timeout() time.Duration { return p.timeout }

// Script returns the one-line program that prints the location reported by fn.
func (p *Probe) Script(fn string) string {
	return fmt.Sprintf("import %s; print(%s.%s())", p.pkg, p.pkg, fn)
}

// Dir runs the probe for fn and returns the directory it reports. When parent
// is set the printed path is a file and its directory is returned.
func (p *Probe) Dir(ctx context.Context, fn string, parent bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.run(ctx, p.interpreter, "-c", p.Script(fn))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrProbeTimeout, p.timeout)
		}
		return "", fmt.Errorf("probe %s: %w", p.interpreter, err)
	}

	path, err := parseProbeOutput(out)
	if err != nil {
		return "", err
	}
	if parent {
		return filepath.Dir(path), nil
	}
	return path, nil
}

// parseProbeOutput accepts exactly one non-empty line holding an absolute
// path. Partial or noisy output is rejected rather than guessed at.
func parseProbeOutput(out []byte) (string, error) {
	text := strings.TrimSpace(string(out))
	switch {
	case text == "":
		return "", fmt.Errorf("%w: empty", ErrUnusableOutput)
	case strings.ContainsAny(text, "\r\n"):
		return "", fmt.Errorf("%w: more than one line", ErrUnusableOutput)
	case !filepath.IsAbs(text):
		return "", fmt.Errorf("%w: %q is not an absolute path", ErrUnusableOutput, text)
	}
	return filepath.Clean(text), nil
}

// runCommand runs name directly (no shell) and returns stdout. Stderr is
// discarded.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = io.Discard
	cmd.WaitDelay = probeWaitDelay
	return cmd.Output()
}
