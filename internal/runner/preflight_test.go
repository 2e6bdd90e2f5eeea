// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"os"
	"path/filepath"
	goruntime "runtime"
	"testing"
)

func TestLeadingProgram(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		want    string
	}{
		{`lua "/tmp/enhanced_test_runner.lua" --verbose`, "lua"},
		{`/usr/bin/env lua main.lua`, "/usr/bin/env"},
		{`LUA_PATH=./?.lua lua main.lua`, "lua"},
		{`$LUA main.lua`, ""},
		{`"$(which lua)" main.lua`, ""},
		{`FOO=bar`, ""},
		{`if true; then lua; fi`, ""},
		{`cd sub && lua main.lua`, ""},
	}

	for _, tt := range tests {
		file, err := parseCommand(tt.command)
		if err != nil {
			t.Fatalf("parseCommand(%q): %v", tt.command, err)
		}
		if got := leadingProgram(file); got != tt.want {
			t.Errorf("leadingProgram(%q) = %q, want %q", tt.command, got, tt.want)
		}
	}
}

func TestParseCommandEmpty(t *testing.T) {
	t.Parallel()

	if _, err := parseCommand(" \t\n"); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("parseCommand(blank) error = %v, want ErrEmptyCommand", err)
	}
}

func TestCheckProgramRelativeToWorkDir(t *testing.T) {
	t.Parallel()
	if goruntime.GOOS == "windows" {
		t.Skip("executable bit is not meaningful on Windows")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "run.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	file, err := parseCommand("./run.sh --flag")
	if err != nil {
		t.Fatalf("parseCommand: %v", err)
	}
	if err := checkProgram(file, dir); err != nil {
		t.Errorf("checkProgram with existing relative script: %v", err)
	}
	if err := checkProgram(file, t.TempDir()); err == nil {
		t.Error("checkProgram resolved ./run.sh in a directory that does not contain it")
	}
}

func TestCheckProgramLeavesShellRewritesToTheShell(t *testing.T) {
	t.Parallel()

	// Neither word exists as written, but the shell turns both into a
	// program it can run.
	for _, command := range []string{"~/bin/tool --flag", `\ls -l`, `/usr/bin/l\s`} {
		file, err := parseCommand(command)
		if err != nil {
			t.Fatalf("parseCommand(%q): %v", command, err)
		}
		if err := checkProgram(file, t.TempDir()); err != nil {
			t.Errorf("checkProgram(%q) = %v, want nil", command, err)
		}
	}
}

func TestCheckDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := checkDir(""); err != nil {
		t.Errorf("checkDir(\"\") = %v, want nil", err)
	}
	if err := checkDir(dir); err != nil {
		t.Errorf("checkDir(dir) = %v, want nil", err)
	}
	if err := checkDir(file); err == nil {
		t.Error("checkDir(file) = nil, want error")
	}
	if err := checkDir(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("checkDir(missing) = %v, want os.ErrNotExist", err)
	}
}
