// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/songbase/envireament/internal/testutil"
)

// stubProbe returns a probe whose interpreter is replaced by fn.
func stubProbe(fn commandFunc) *Probe {
	p := NewProbe("python3", DefaultPackage, time.Second)
	p.run = fn
	return p
}

// printing returns a command stub that prints out and records each call.
func printing(out string, calls *int) commandFunc {
	return func(context.Context, string, ...string) ([]byte, error) {
		*calls++
		return []byte(out), nil
	}
}

func failing(calls *int) commandFunc {
	return func(context.Context, string, ...string) ([]byte, error) {
		*calls++
		return nil, errors.New("exit status 1")
	}
}

// layout creates the files a test asks for and returns the workspace root and
// a separate package directory standing in for the installed Python package.
type layout struct {
	workspace bool
	npm       bool
	pkg       bool
}

func (l layout) build(t *testing.T, kind Kind) (root, pkgDir string) {
	t.Helper()
	target, err := TargetFor(kind)
	if err != nil {
		t.Fatal(err)
	}
	root = t.TempDir()
	pkgDir = t.TempDir()
	rel := filepath.ToSlash(target.RelPath())
	if l.workspace {
		testutil.WriteFile(t, root, rel, "-- workspace")
	}
	if l.npm {
		testutil.WriteFile(t, root, "node_modules/envireament/"+rel, "-- npm")
	}
	if l.pkg {
		testutil.WriteFile(t, pkgDir, target.FileName(), "-- python")
	}
	return root, pkgDir
}

// probeOutput is what the Python package prints for kind when installed at dir.
func probeOutput(kind Kind, dir string) string {
	if kind == KindTestRunner {
		return filepath.Join(dir, "virtual_reaper.lua") + "\n"
	}
	return dir + "\n"
}

func TestResolvePrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		layout     layout
		wantOK     bool
		wantSource Source
		wantProbe  bool
	}{
		{"workspace wins over everything", layout{true, true, true}, true, SourceWorkspace, false},
		{"workspace only", layout{true, false, false}, true, SourceWorkspace, false},
		{"npm wins over python package", layout{false, true, true}, true, SourceDependency, false},
		{"python package", layout{false, false, true}, true, SourcePackage, true},
		{"nothing installed", layout{}, false, "", true},
	}

	for _, kind := range []Kind{KindTestRunner, KindDemo} {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s/%s", kind, tt.name), func(t *testing.T) {
				t.Parallel()

				root, pkgDir := tt.layout.build(t, kind)
				calls := 0
				r := NewResolver(WithProbe(stubProbe(printing(probeOutput(kind, pkgDir), &calls))))

				match, ok := r.Resolve(context.Background(), kind, root)
				if ok != tt.wantOK {
					t.Fatalf("Resolve() ok = %v, want %v", ok, tt.wantOK)
				}
				if (calls > 0) != tt.wantProbe {
					t.Errorf("probe called %d times, want called = %v", calls, tt.wantProbe)
				}
				if !ok {
					return
				}
				if match.Source != tt.wantSource {
					t.Errorf("Source = %q, want %q", match.Source, tt.wantSource)
				}
				data, err := os.ReadFile(match.Path)
				if err != nil {
					t.Fatalf("matched path unreadable: %v", err)
				}
				wantContent := map[Source]string{
					SourceWorkspace:  "-- workspace",
					SourceDependency: "-- npm",
					SourcePackage:    "-- python",
				}[tt.wantSource]
				if string(data) != wantContent {
					t.Errorf("matched %q holding %q, want content %q", match.Path, data, wantContent)
				}
			})
		}
	}
}

func TestResolveProbePaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	pkgDir := t.TempDir()
	testutil.WriteFile(t, pkgDir, "enhanced_test_runner.lua", "")
	testutil.WriteFile(t, pkgDir, "examples/main.lua", "")

	calls := 0
	// The test runner probe prints a file; its parent directory is used.
	r := NewResolver(WithProbe(stubProbe(printing(filepath.Join(pkgDir, "virtual_reaper.lua")+"\n", &calls))))
	match, ok := r.Resolve(context.Background(), KindTestRunner, root)
	if !ok {
		t.Fatal("test runner not resolved")
	}
	if want := filepath.Join(pkgDir, "enhanced_test_runner.lua"); match.Path != want {
		t.Errorf("Path = %q, want %q", match.Path, want)
	}

	// The demo probe prints the examples directory itself.
	examples := filepath.Join(pkgDir, "examples")
	r = NewResolver(WithProbe(stubProbe(printing(examples+"\n", &calls))))
	match, ok = r.Resolve(context.Background(), KindDemo, root)
	if !ok {
		t.Fatal("demo not resolved")
	}
	if want := filepath.Join(examples, "main.lua"); match.Path != want {
		t.Errorf("Path = %q, want %q", match.Path, want)
	}
}

func TestResolveProbeFailuresAreMisses(t *testing.T) {
	t.Parallel()

	pkgDir := t.TempDir()
	testutil.WriteFile(t, pkgDir, "enhanced_test_runner.lua", "")
	usable := filepath.Join(pkgDir, "virtual_reaper.lua")

	tests := []struct {
		name string
		run  func(calls *int) commandFunc
	}{
		{"non-zero exit", failing},
		{"empty output", func(c *int) commandFunc { return printing("  \n", c) }},
		{"two lines", func(c *int) commandFunc { return printing(usable + "\n" + usable + "\n", c) }},
		{"relative path", func(c *int) commandFunc { return printing("virtual_reaper.lua\n", c) }},
		{"path without runner", func(c *int) commandFunc { return printing(filepath.Join(t.TempDir(), "x.lua"), c) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calls := 0
			r := NewResolver(WithProbe(stubProbe(tt.run(&calls))))
			if match, ok := r.Resolve(context.Background(), KindTestRunner, t.TempDir()); ok {
				t.Errorf("Resolve() = %+v, want not found", match)
			}
			if calls != 1 {
				t.Errorf("probe called %d times, want exactly 1", calls)
			}
		})
	}
}

func TestResolveDirectoryIsNotAMatch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteFile(t, root, "enhanced_test_runner.lua/keep", "")
	calls := 0
	r := NewResolver(WithProbe(stubProbe(failing(&calls))))

	if match, ok := r.Resolve(context.Background(), KindTestRunner, root); ok {
		t.Errorf("Resolve() = %+v, want not found for a directory", match)
	}
}

func TestResolveInvalidKind(t *testing.T) {
	t.Parallel()

	if _, ok := NewResolver().Resolve(context.Background(), Kind("unknown"), t.TempDir()); ok {
		t.Error("Resolve() ok = true for an unknown kind")
	}
}

func TestResolveNotCached(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	calls := 0
	r := NewResolver(WithProbe(stubProbe(failing(&calls))))

	if _, ok := r.Resolve(context.Background(), KindDemo, root); ok {
		t.Fatal("resolved before the file existed")
	}
	testutil.WriteFile(t, root, "examples/main.lua", "")
	match, ok := r.Resolve(context.Background(), KindDemo, root)
	if !ok || match.Source != SourceWorkspace {
		t.Errorf("Resolve() = %+v, %v after creating the file", match, ok)
	}
}

func TestFirstShortCircuits(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteFile(t, root, "b.lua", "")
	probe := stubProbe(func(context.Context, string, ...string) ([]byte, error) {
		t.Error("probe candidate consulted after an earlier match")
		return nil, nil
	})

	var missed []Source
	match, ok := First(context.Background(), root, []Candidate{
		FileCandidate(SourceWorkspace, "a.lua"),
		FileCandidate(SourceDependency, "b.lua"),
		ProbeCandidate(probe, targets[KindDemo]),
	}, func(c Candidate, _ error) { missed = append(missed, c.Source()) })

	if !ok || match.Source != SourceDependency {
		t.Fatalf("First() = %+v, %v", match, ok)
	}
	if len(missed) != 1 || missed[0] != SourceWorkspace {
		t.Errorf("missed = %v, want [workspace]", missed)
	}
}

func TestCandidatesOrder(t *testing.T) {
	t.Parallel()

	cands, err := NewResolver().Candidates(KindTestRunner)
	if err != nil {
		t.Fatal(err)
	}
	want := []Source{SourceWorkspace, SourceDependency, SourcePackage}
	if len(cands) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(cands), len(want))
	}
	for i, c := range cands {
		if c.Source() != want[i] {
			t.Errorf("candidate %d source = %q, want %q", i, c.Source(), want[i])
		}
	}
}
