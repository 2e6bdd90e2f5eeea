// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/fang"

	"github.com/songbase/envireament/internal/config"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of the runner's
// forwarders and the logger.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testConfig returns defaults with lua_path set and a Python interpreter that
// does not exist, so the package probe always misses.
func testConfig(t *testing.T, lua string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.LuaPath = lua
	cfg.Probe.PythonPath = filepath.Join(t.TempDir(), "no-python")
	return cfg
}

// runCLI executes the command tree with args against cfg.
func runCLI(t *testing.T, cfg *config.Config, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut syncBuffer
	err = execCLI(context.Background(), cfg, &out, &errOut, args...)
	return out.String(), errOut.String(), err
}

func execCLI(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, args ...string) error {
	app := NewApp(Dependencies{
		Config: config.StaticProvider{Config: cfg},
		Stdout: stdout,
		Stderr: stderr,
	})
	root := NewRootCommand(app)
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-03-01T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-03-01T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		// Test binaries report Main.Version == "(devel)".
		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestExitError(t *testing.T) {
	t.Parallel()

	silent := &ExitError{Code: 3}
	if got := silent.Error(); got != "exit status 3" {
		t.Errorf("Error() = %q, want %q", got, "exit status 3")
	}
	if silent.Unwrap() != nil {
		t.Error("Unwrap() of silent ExitError should be nil")
	}

	cause := errors.New("boom")
	wrapped := &ExitError{Code: 1, Err: cause}
	if got := wrapped.Error(); got != "boom" {
		t.Errorf("Error() = %q, want %q", got, "boom")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is(wrapped, cause) = false")
	}
}

func TestHandleErrorSilent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handleError(&buf, fang.Styles{}, &ExitError{Code: 2})
	if buf.Len() != 0 {
		t.Errorf("silent ExitError printed %q", buf.String())
	}

	handleError(&buf, fang.Styles{}, errors.New("something broke"))
	if !bytes.Contains(buf.Bytes(), []byte("something broke")) {
		t.Errorf("handleError output = %q, want the error message", buf.String())
	}
}

func TestRootCommandTree(t *testing.T) {
	t.Parallel()

	root := NewRootCommand(NewApp(Dependencies{Config: config.StaticProvider{}}))
	for _, name := range []string{"test", "demo", "install", "status", "docs", "config"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("subcommand %q not registered (err=%v)", name, err)
		}
	}
	for _, flag := range []string{"workspace", "config", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}
