// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Candidate sources, in the order the resolver tries them.
const (
	SourceWorkspace  Source = "workspace"
	SourceDependency Source = "node_modules"
	SourcePackage    Source = "python package"
)

// ErrMiss marks a candidate that did not produce an existing file.
var ErrMiss = errors.New("not found")

type (
	// Source names where a match came from.
	Source string

	// Candidate is one place a script may live. Locate returns the path of an
	// existing file or an error wrapping ErrMiss explaining why not.
	Candidate interface {
		Source() Source
		Locate(ctx context.Context, root string) (string, error)
	}

	// Match is a located script.
	Match struct {
		Path   string
		Source Source
	}

	// fileCandidate checks a fixed path below the workspace root.
	fileCandidate struct {
		source Source
		rel    []string
	}

	// probeCandidate asks the Python package for a directory and checks for
	// the target file inside it.
	probeCandidate struct {
		probe  *Probe
		target Target
	}
)

// FileCandidate returns a candidate for root/rel... tagged with source.
func FileCandidate(source Source, rel ...string) Candidate {
	return &fileCandidate{source: source, rel: rel}
}

// ProbeCandidate returns a candidate that locates target through probe.
func ProbeCandidate(probe *Probe, target Target) Candidate {
	return &probeCandidate{probe: probe, target: target}
}

func (c *fileCandidate) Source() Source { return c.source }

func (c *fileCandidate) Locate(_ context.Context, root string) (string, error) {
	path := filepath.Join(append([]string{root}, c.rel...)...)
	return existingFile(path)
}

func (c *probeCandidate) Source() Source { return SourcePackage }

func (c *probeCandidate) Locate(ctx context.Context, _ string) (string, error) {
	dir, err := c.probe.Dir(ctx, c.target.ProbeFunc, c.target.ProbeParent)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMiss, err)
	}
	return existingFile(filepath.Join(dir, c.target.FileName()))
}

// existingFile returns path if it names a regular file (or a link to one).
func existingFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMiss, path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrMiss, path)
	}
	return path, nil
}

// First tries candidates left to right and returns the first match. Later
// candidates are not consulted once one matches. onMiss, if non-nil, is called
// for every candidate that missed.
func First(ctx context.Context, root string, candidates []Candidate, onMiss func(Candidate, error)) (Match, bool) {
	for _, c := range candidates {
		path, err := c.Locate(ctx, root)
		if err == nil {
			return Match{Path: path, Source: c.Source()}, true
		}
		if onMiss != nil {
			onMiss(c, err)
		}
	}
	return Match{}, false
}
