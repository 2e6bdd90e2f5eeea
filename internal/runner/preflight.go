// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ErrEmptyCommand is returned for a command line with nothing to run.
var ErrEmptyCommand = errors.New("empty command")

// checkDir verifies the working directory exists. An empty dir means the
// current directory and always passes.
func checkDir(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("working directory %q is not a directory", dir)
	}
	return nil
}

// parseCommand parses a command line with the bash grammar.
func parseCommand(command string) (*syntax.File, error) {
	if strings.TrimSpace(command) == "" {
		return nil, ErrEmptyCommand
	}
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}
	return file, nil
}

// checkProgram looks up the program the command line starts with. Only a
// literal leading word is checked; anything built from expansions, and shell
// builtins, is left to the shell.
func checkProgram(file *syntax.File, dir string) error {
	name := leadingProgram(file)
	if name == "" || interp.IsBuiltin(name) || shellRewrites(name) {
		return nil
	}
	if strings.ContainsRune(name, '/') && !filepath.IsAbs(name) && dir != "" {
		name = filepath.Join(dir, name)
	}
	if _, err := exec.LookPath(name); err != nil && !errors.Is(err, exec.ErrDot) {
		return err
	}
	return nil
}

// shellRewrites reports whether the shell changes the word before running it:
// tilde expansion and backslash escapes both survive in the raw literal.
func shellRewrites(name string) bool {
	return strings.HasPrefix(name, "~") || strings.ContainsRune(name, '\\')
}

// leadingProgram returns the literal program name of the first simple command,
// or "" when there is none.
func leadingProgram(file *syntax.File) string {
	if len(file.Stmts) == 0 {
		return ""
	}
	call, ok := file.Stmts[0].Cmd.(*syntax.CallExpr)
	if !ok || len(call.Args) == 0 {
		return ""
	}
	return call.Args[0].Lit()
}
