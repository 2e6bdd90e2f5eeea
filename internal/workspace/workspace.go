// SPDX-License-Identifier: MPL-2.0

// Package workspace resolves the project directory the CLI operates on and
// answers simple questions about its contents.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// LuaPattern selects Lua sources anywhere in a workspace.
const LuaPattern = "**/*.lua"

var (
	// ErrNotFound is returned when the workspace path does not exist.
	ErrNotFound = errors.New("workspace not found")
	// ErrNotDirectory is returned when the workspace path is a file.
	ErrNotDirectory = errors.New("workspace is not a directory")

	errLimitReached = errors.New("limit reached")
)

// Resolve returns the absolute, cleaned form of path after checking that it
// is an existing directory. An empty path means the working directory.
func Resolve(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve workspace %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, abs)
		}
		return "", fmt.Errorf("stat workspace: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	return abs, nil
}

// Name is the display name of the workspace at root.
func Name(root string) string {
	return filepath.Base(root)
}

// CountFiles counts regular files under root matching pattern, skipping any
// path matched by an ignore pattern. When limit is positive and more than
// limit files match, the walk stops and CountFiles returns limit and true.
func CountFiles(root, pattern string, ignore []string, limit int) (int, bool, error) {
	if !doublestar.ValidatePattern(pattern) {
		return 0, false, fmt.Errorf("invalid pattern %q", pattern)
	}

	count := 0
	err := doublestar.GlobWalk(os.DirFS(root), pattern, func(path string, d fs.DirEntry) error {
		for _, ig := range ignore {
			if ok, _ := doublestar.Match(ig, path); ok {
				return nil
			}
		}
		if d.IsDir() {
			return nil
		}
		count++
		if limit > 0 && count > limit {
			return errLimitReached
		}
		return nil
	}, doublestar.WithFailOnIOErrors())
	if errors.Is(err, errLimitReached) {
		return limit, true, nil
	}
	if err != nil {
		return count, false, fmt.Errorf("count %s in %s: %w", pattern, root, err)
	}
	return count, false, nil
}
