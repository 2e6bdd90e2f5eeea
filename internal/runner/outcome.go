// SPDX-License-Identifier: MPL-2.0

package runner

import "fmt"

// Outcome kinds. Exactly one is delivered per Task.
const (
	// OutcomeSuccess means the process ran and exited with code 0.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeNonZeroExit means the process ran and exited with a non-zero code.
	OutcomeNonZeroExit
	// OutcomeLaunchFailure means the process never started.
	OutcomeLaunchFailure
)

type (
	// OutcomeKind discriminates the three ways an execution can end.
	OutcomeKind int

	// Outcome is the result of one execution.
	Outcome struct {
		// Kind says which of the three outcomes this is.
		Kind OutcomeKind
		// ExitCode is the process exit status. It is 0 for OutcomeSuccess and
		// fixed at 1 for OutcomeLaunchFailure.
		ExitCode ExitCode
		// Err is the launch error for OutcomeLaunchFailure. For OutcomeNonZeroExit
		// it is set only when the exit status could not be read from the process.
		Err error
	}
)

// String returns a short lowercase name for the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeNonZeroExit:
		return "non-zero exit"
	case OutcomeLaunchFailure:
		return "launch failure"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Success returns true if the process ran and exited with code 0.
func (o Outcome) Success() bool {
	return o.Kind == OutcomeSuccess
}

// Launched returns true if the process actually started.
func (o Outcome) Launched() bool {
	return o.Kind != OutcomeLaunchFailure
}

func successOutcome() Outcome {
	return Outcome{Kind: OutcomeSuccess}
}

func exitOutcome(code ExitCode, err error) Outcome {
	if code.IsSuccess() && err == nil {
		return successOutcome()
	}
	if code.IsSuccess() {
		code = 1
	}
	return Outcome{Kind: OutcomeNonZeroExit, ExitCode: code, Err: err}
}

func launchFailure(err error) Outcome {
	return Outcome{Kind: OutcomeLaunchFailure, ExitCode: 1, Err: err}
}
