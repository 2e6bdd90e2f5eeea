// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileCreatesParents(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := WriteFile(t, root, "node_modules/envireament/examples/main.lua", "print('hi')")

	want := filepath.Join(root, "node_modules", "envireament", "examples", "main.lua")
	if path != want {
		t.Fatalf("WriteFile() = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "print('hi')" {
		t.Errorf("content = %q", data)
	}
}

func TestFakeProgramRuns(t *testing.T) {
	dir := t.TempDir()
	prog := FakeProgram(t, dir, "fake-python", `printf '%s\n' "$2"`)

	out, err := exec.Command(prog, "-c", "import envireament").Output()
	if err != nil {
		t.Fatalf("running fake program: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "import envireament" {
		t.Errorf("output = %q, want %q", got, "import envireament")
	}
}

func TestMustUnsetenvRestores(t *testing.T) {
	const key = "ENVIREAMENT_TESTUTIL_PROBE"

	t.Cleanup(MustSetenv(t, key, "before"))

	restore := MustUnsetenv(t, key)
	if _, ok := os.LookupEnv(key); ok {
		t.Fatalf("%s still set after MustUnsetenv", key)
	}
	restore()

	if got := os.Getenv(key); got != "before" {
		t.Errorf("%s = %q after restore, want %q", key, got, "before")
	}
}

func TestMustChdir(t *testing.T) {
	dir := t.TempDir()
	original, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	restore := MustChdir(t, dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	resolvedDir, _ := filepath.EvalSymlinks(dir)
	resolvedWd, _ := filepath.EvalSymlinks(wd)
	if resolvedWd != resolvedDir {
		t.Errorf("cwd = %q, want %q", resolvedWd, resolvedDir)
	}

	restore()
	if wd, _ := os.Getwd(); wd != original {
		t.Errorf("cwd after restore = %q, want %q", wd, original)
	}
}
