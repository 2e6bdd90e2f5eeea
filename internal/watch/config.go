// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// ErrInvalidPattern is returned for a glob doublestar cannot parse.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// builtinIgnores are never watched: VCS metadata, installed dependencies,
// bytecode caches and editor swap files.
var builtinIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/.venv/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

type (
	// ChangeFunc is called with the workspace-relative, slash-separated paths
	// that changed since the previous call.
	ChangeFunc func(ctx context.Context, changed []string) error

	// Config describes what to watch and what to do on change.
	Config struct {
		// Root is the directory to watch. Empty means the working directory.
		Root string
		// Patterns select the files that trigger OnChange. Empty selects all.
		Patterns []string
		// Ignore is merged with the built-in ignore list.
		Ignore   []string
		Debounce time.Duration
		// ClearScreen writes an ANSI clear sequence to Stdout before OnChange.
		ClearScreen bool
		OnChange    ChangeFunc
		Stdout      io.Writer
		Logger      *log.Logger
	}
)

// Validate checks every watch and ignore pattern.
func (c Config) Validate() error {
	var errs []error
	for _, p := range c.Patterns {
		if !doublestar.ValidatePattern(p) || p == "" {
			errs = append(errs, fmt.Errorf("%w: watch pattern %q", ErrInvalidPattern, p))
		}
	}
	for _, p := range c.Ignore {
		if !doublestar.ValidatePattern(p) || p == "" {
			errs = append(errs, fmt.Errorf("%w: ignore pattern %q", ErrInvalidPattern, p))
		}
	}
	return errors.Join(errs...)
}

// BuiltinIgnores returns a copy of the patterns that are always ignored.
func BuiltinIgnores() []string {
	return append([]string(nil), builtinIgnores...)
}

// matcher decides which relative paths are interesting.
type matcher struct {
	patterns []string
	ignores  []string
}

func newMatcher(patterns, ignore []string) matcher {
	return matcher{
		patterns: patterns,
		ignores:  append(BuiltinIgnores(), ignore...),
	}
}

func (m matcher) ignored(rel string) bool {
	return matchAny(m.ignores, rel) || matchAny(m.ignores, rel+"/")
}

func (m matcher) selected(rel string) bool {
	if m.ignored(rel) {
		return false
	}
	return len(m.patterns) == 0 || matchAny(m.patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
