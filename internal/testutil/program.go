// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os/exec"
	"runtime"
	"testing"
)

// FakeProgram writes a POSIX shell script named name into dir and returns its
// path. The script body runs under /bin/sh. The test is skipped on Windows or
// when no sh is available, since the fake could not be executed.
//
// Callers should not use t.Parallel: a fork from another goroutine can still
// hold the new file open for writing and exec then fails with ETXTBSY.
func FakeProgram(t testing.TB, dir, name, body string) string {
	t.Helper()
	RequirePOSIXShell(t)
	return WriteExecutable(t, dir, name, "#!/bin/sh\n"+body+"\n")
}

// RequirePOSIXShell skips the test unless sh can be found on PATH.
func RequirePOSIXShell(t testing.TB) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping: POSIX shell scripts are not executable on Windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("skipping: sh not found on PATH")
	}
}
