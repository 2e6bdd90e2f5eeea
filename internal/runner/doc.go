// SPDX-License-Identifier: MPL-2.0

// Package runner executes a shell command line as a child process and streams
// its output into a Sink.
//
// Run is fire-and-forget: it returns a Task immediately and reports completion
// through the request's Sink and the Runner's Notifier. The Task carries the
// single Outcome of the execution (success, non-zero exit, or launch failure)
// for callers that need to wait on it.
//
// Two modes are available:
//   - native: the command is handed to the host shell (sh/bash, PowerShell/cmd on Windows)
//   - virtual: the command is interpreted in-process by mvdan/sh
//
// Before anything is spawned the command is checked for problems that mean it
// can never run (missing working directory, unparsable command line, unknown
// program). Those are reported as launch failures rather than as exit codes.
package runner
