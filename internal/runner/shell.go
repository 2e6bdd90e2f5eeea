// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"os"
	"os/exec"
	goruntime "runtime"
)

// ErrShellNotFound is returned when no host shell can be located.
var ErrShellNotFound = errors.New("no shell found")

// findShell determines which shell runs native commands.
func (r *Runner) findShell() (string, error) {
	if r.shell != "" {
		return r.shell, nil
	}

	switch goruntime.GOOS {
	case "windows":
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		if cmd, err := exec.LookPath("cmd"); err == nil {
			return cmd, nil
		}
		return "", ErrShellNotFound
	default:
		// Command lines are built with POSIX quoting, so prefer sh over the
		// user's login shell, which may be fish or something else entirely.
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		if bash, err := exec.LookPath("bash"); err == nil {
			return bash, nil
		}
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell, nil
		}
		return "", ErrShellNotFound
	}
}

// shellArgs returns the arguments placed before the command string.
func (r *Runner) shellArgs(shell string) []string {
	if len(r.shellArgsOverride) > 0 {
		return r.shellArgsOverride
	}

	switch dialectOf(shell) {
	case DialectCmd:
		return []string{"/d", "/s", "/c"}
	case DialectPowerShell:
		return []string{"-NoProfile", "-Command"}
	default:
		return []string{"-c"}
	}
}

// posixShell reports whether native commands go through a POSIX shell, which
// is when they can be checked with the bash parser before launch.
func (r *Runner) posixShell(shell string) bool {
	args := r.shellArgs(shell)
	return len(args) > 0 && args[len(args)-1] == "-c"
}
