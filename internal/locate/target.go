// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"errors"
	"fmt"
	"path/filepath"
)

const (
	// KindTestRunner selects the Lua test runner.
	KindTestRunner Kind = "test-runner"
	// KindDemo selects the demo application.
	KindDemo Kind = "demo"

	// DefaultPackage is the package name used for the npm directory and the
	// Python import.
	DefaultPackage = "envireament"

	// dependencyDir is where npm installs packages inside a workspace.
	dependencyDir = "node_modules"
)

// ErrInvalidKind is returned for an unknown Kind.
var ErrInvalidKind = errors.New("invalid target kind")

type (
	// Kind identifies which script to locate.
	Kind string

	// Target describes where a script lives relative to a package root and how
	// the Python package reports its location.
	Target struct {
		Kind Kind
		// Path is the script path relative to the package root.
		Path []string
		// ProbeFunc is the package-level function printing the location.
		ProbeFunc string
		// ProbeParent is set when ProbeFunc prints a file next to the target
		// rather than the directory holding it.
		ProbeParent bool
	}
)

var targets = map[Kind]Target{
	KindTestRunner: {
		Kind:        KindTestRunner,
		Path:        []string{"enhanced_test_runner.lua"},
		ProbeFunc:   "get_virtual_reaper_path",
		ProbeParent: true,
	},
	KindDemo: {
		Kind:      KindDemo,
		Path:      []string{"examples", "main.lua"},
		ProbeFunc: "get_examples_dir",
	},
}

// IsValid reports whether k names a known target.
func (k Kind) IsValid() (bool, []error) {
	if _, ok := targets[k]; ok {
		return true, nil
	}
	return false, []error{fmt.Errorf("%w: %q", ErrInvalidKind, string(k))}
}

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// TargetFor returns the target conventions for k.
func TargetFor(k Kind) (Target, error) {
	t, ok := targets[k]
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidKind, string(k))
	}
	return t, nil
}

// FileName is the script's base name.
func (t Target) FileName() string {
	return t.Path[len(t.Path)-1]
}

// RelPath is the script path relative to a package root.
func (t Target) RelPath() string {
	return filepath.Join(t.Path...)
}
