// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Besides environment and directory helpers (MustSetenv, MustChdir, SetHomeDir)
// it can lay out fake workspaces and fake interpreters (WriteFile,
// WriteExecutable, FakeProgram) so resolver and runner tests never depend on a
// real Lua or Python installation.
package testutil
