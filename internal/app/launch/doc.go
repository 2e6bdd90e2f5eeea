// SPDX-License-Identifier: MPL-2.0

// Package launch turns a workspace and a target kind into a running Lua
// command. It sits between the CLI and the locate and runner packages: it
// resolves the script, builds the command line, announces it on the sink and
// hands it to the runner.
package launch
