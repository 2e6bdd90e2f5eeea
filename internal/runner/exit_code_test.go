// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"testing"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code    ExitCode
		valid   bool
		success bool
		status  int
	}{
		{0, true, true, 0},
		{1, true, false, 1},
		{127, true, false, 127},
		{255, true, false, 255},
		{-1, false, false, 1},
		{256, false, false, 1},
	}

	for _, tt := range tests {
		valid, errs := tt.code.IsValid()
		if valid != tt.valid {
			t.Errorf("ExitCode(%d).IsValid() = %v, want %v", tt.code, valid, tt.valid)
		}
		if !valid && !errors.Is(errs[0], ErrInvalidExitCode) {
			t.Errorf("ExitCode(%d) error = %v, want ErrInvalidExitCode", tt.code, errs[0])
		}
		if got := tt.code.IsSuccess(); got != tt.success {
			t.Errorf("ExitCode(%d).IsSuccess() = %v, want %v", tt.code, got, tt.success)
		}
		if got := tt.code.ProcessStatus(); got != tt.status {
			t.Errorf("ExitCode(%d).ProcessStatus() = %d, want %d", tt.code, got, tt.status)
		}
	}
}

func TestOutcomeKindString(t *testing.T) {
	t.Parallel()

	if OutcomeLaunchFailure.String() != "launch failure" {
		t.Errorf("OutcomeLaunchFailure.String() = %q", OutcomeLaunchFailure.String())
	}
	if OutcomeKind(42).String() != "outcome(42)" {
		t.Errorf("unknown kind String() = %q", OutcomeKind(42).String())
	}
}
