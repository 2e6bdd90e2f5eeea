// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const (
	// DialectPOSIX is sh, bash and the virtual shell.
	DialectPOSIX Dialect = iota
	// DialectCmd is cmd.exe.
	DialectCmd
	// DialectPowerShell is Windows PowerShell and pwsh.
	DialectPowerShell
)

// ErrUnquotable is returned for a word the dialect has no way to quote.
var ErrUnquotable = errors.New("word cannot be quoted")

// Dialect is the command-line syntax of the shell a Runner hands commands to.
type Dialect int

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectCmd:
		return "cmd"
	case DialectPowerShell:
		return "powershell"
	default:
		return "posix"
	}
}

// Quote returns s as a single word. Words made only of safe characters are
// returned unchanged.
func (d Dialect) Quote(s string) (string, error) {
	switch d {
	case DialectCmd:
		if strings.ContainsAny(s, "\"\r\n") {
			return "", fmt.Errorf("%w for cmd: %q", ErrUnquotable, s)
		}
		if plainWord(s) {
			return s, nil
		}
		return `"` + s + `"`, nil
	case DialectPowerShell:
		if plainWord(s) {
			return s, nil
		}
		return "'" + strings.ReplaceAll(s, "'", "''") + "'", nil
	default:
		return syntax.Quote(s, syntax.LangPOSIX)
	}
}

// CommandLine joins program and args. program is inserted as written so a
// configured interpreter may carry its own flags; each arg is quoted.
// PowerShell needs the call operator to run a program followed by quoted
// words.
func (d Dialect) CommandLine(program string, args ...string) (string, error) {
	words := make([]string, 0, len(args)+1)
	words = append(words, program)
	for _, a := range args {
		q, err := d.Quote(a)
		if err != nil {
			return "", err
		}
		words = append(words, q)
	}
	line := strings.Join(words, " ")
	if d == DialectPowerShell {
		line = "& " + line
	}
	return line, nil
}

// plainWord reports whether s needs no quoting in cmd or PowerShell.
func plainWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune(`-_./\:`, r):
		default:
			return false
		}
	}
	return true
}

// dialectOf maps a shell executable to its dialect.
func dialectOf(shell string) Dialect {
	switch shellBase(shell) {
	case "cmd":
		return DialectCmd
	case "powershell", "pwsh":
		return DialectPowerShell
	default:
		return DialectPOSIX
	}
}

// shellBase is the lower-cased executable name without directory or .exe.
// Backslashes are stripped too so Windows paths work on any host.
func shellBase(shell string) string {
	base := filepath.Base(shell)
	if i := strings.LastIndex(base, "\\"); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(strings.ToLower(base), ".exe")
}

// Dialect returns the syntax command lines must be written in for this
// Runner. Virtual mode, and a host without any shell, use POSIX.
func (r *Runner) Dialect() Dialect {
	if r.mode == ModeVirtual {
		return DialectPOSIX
	}
	shell, err := r.findShell()
	if err != nil {
		return DialectPOSIX
	}
	return dialectOf(shell)
}
