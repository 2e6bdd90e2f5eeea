// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for the user. The catalogue holds Markdown guidance for the
// failures people hit most often (no test runner, no Lua, no shell) and renders
// it for the terminal with glamour.
package issue
