// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/songbase/envireament/internal/testutil"
)

func TestProbeScript(t *testing.T) {
	t.Parallel()

	p := NewProbe("", "", 0)
	if got, want := p.Script("get_examples_dir"), "import envireament; print(envireament.get_examples_dir())"; got != want {
		t.Errorf("Script() = %q, want %q", got, want)
	}
	if p.Interpreter() != DefaultInterpreter {
		t.Errorf("Interpreter() = %q, want %q", p.Interpreter(), DefaultInterpreter)
	}
	if p.Timeout() != DefaultProbeTimeout {
		t.Errorf("Timeout() = %s, want %s", p.Timeout(), DefaultProbeTimeout)
	}
}

func TestParseProbeOutput(t *testing.T) {
	t.Parallel()

	abs := filepath.Join(t.TempDir(), "examples")
	tests := []struct {
		name    string
		out     string
		want    string
		wantErr bool
	}{
		{"trailing newline", abs + "\n", abs, false},
		{"surrounding space", "  " + abs + " \r\n", abs, false},
		{"empty", "", "", true},
		{"blank", "\n\n", "", true},
		{"multi line", abs + "\n" + abs, "", true},
		{"relative", "examples\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseProbeOutput([]byte(tt.out))
			if tt.wantErr {
				if !errors.Is(err, ErrUnusableOutput) {
					t.Errorf("parseProbeOutput(%q) error = %v, want ErrUnusableOutput", tt.out, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseProbeOutput(%q) error = %v", tt.out, err)
			}
			if got != tt.want {
				t.Errorf("parseProbeOutput(%q) = %q, want %q", tt.out, got, tt.want)
			}
		})
	}
}

func TestProbeRunsInterpreter(t *testing.T) {
	bin := t.TempDir()
	pkgDir := t.TempDir()
	// Prints the installed location only when asked the expected question.
	python := testutil.FakeProgram(t, bin, "python3",
		`[ "$1" = "-c" ] && [ "$2" = "import envireament; print(envireament.get_virtual_reaper_path())" ] || exit 2
printf '%s\n' '`+filepath.Join(pkgDir, "virtual_reaper.lua")+`'`)

	dir, err := NewProbe(python, "", time.Second).Dir(context.Background(), "get_virtual_reaper_path", true)
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if dir != pkgDir {
		t.Errorf("Dir() = %q, want %q", dir, pkgDir)
	}
}

func TestProbeNonZeroExit(t *testing.T) {
	python := testutil.FakeProgram(t, t.TempDir(), "python3", `echo "ModuleNotFoundError" >&2; exit 1`)

	_, err := NewProbe(python, "", time.Second).Dir(context.Background(), "get_examples_dir", false)
	if err == nil {
		t.Fatal("Dir() error = nil for a failing interpreter")
	}
	if errors.Is(err, ErrProbeTimeout) {
		t.Errorf("Dir() error = %v, want a process error, not a timeout", err)
	}
}

func TestProbeTimeout(t *testing.T) {
	python := testutil.FakeProgram(t, t.TempDir(), "python3", `exec sleep 5`)

	start := time.Now()
	_, err := NewProbe(python, "", 100*time.Millisecond).Dir(context.Background(), "get_examples_dir", false)
	if !errors.Is(err, ErrProbeTimeout) {
		t.Fatalf("Dir() error = %v, want ErrProbeTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("probe took %s, want it bounded by the timeout", elapsed)
	}
}

func TestProbeMissingInterpreterIsAMiss(t *testing.T) {
	t.Parallel()

	probe := NewProbe(filepath.Join(t.TempDir(), "no-such-python"), "", time.Second)
	r := NewResolver(WithProbe(probe))
	if match, ok := r.Resolve(context.Background(), KindDemo, t.TempDir()); ok {
		t.Errorf("Resolve() = %+v, want not found", match)
	}
}
