// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs an action when Lua sources in a workspace change.
//
// Every directory under the root is registered with fsnotify. Events whose
// path matches the watch patterns (and none of the ignore patterns) are
// collected until the debounce window is quiet, then the action receives the
// set of changed paths. A change that lands while the action is still running
// is kept and retried after another debounce period.
package watch
