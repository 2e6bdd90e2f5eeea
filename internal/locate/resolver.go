// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

type (
	// Resolver locates target scripts for a workspace.
	Resolver struct {
		pkg    string
		probe  *Probe
		logger *log.Logger
	}

	// Option configures a Resolver.
	Option func(*Resolver)
)

// WithProbe sets the probe used by the last candidate.
func WithProbe(p *Probe) Option {
	return func(r *Resolver) { r.probe = p }
}

// WithPackage sets the npm package directory name.
func WithPackage(pkg string) Option {
	return func(r *Resolver) { r.pkg = pkg }
}

// WithLogger sets the logger that traces candidate misses at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver creates a Resolver with the default probe and package name
// unless overridden.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.pkg == "" {
		r.pkg = DefaultPackage
	}
	if r.probe == nil {
		r.probe = NewProbe("", r.pkg, 0)
	}
	if r.logger == nil {
		r.logger = log.NewWithOptions(io.Discard, log.Options{Prefix: "resolver"})
	}
	return r
}

// Candidates returns the ordered candidate list for kind.
func (r *Resolver) Candidates(kind Kind) ([]Candidate, error) {
	t, err := TargetFor(kind)
	if err != nil {
		return nil, err
	}
	return []Candidate{
		FileCandidate(SourceWorkspace, t.Path...),
		FileCandidate(SourceDependency, append([]string{dependencyDir, r.pkg}, t.Path...)...),
		ProbeCandidate(r.probe, t),
	}, nil
}

// Resolve returns the first existing location of kind for the workspace at
// root. It reports false when no candidate matched; it never fails.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, root string) (Match, bool) {
	candidates, err := r.Candidates(kind)
	if err != nil {
		r.logger.Error("cannot resolve", "kind", kind, "err", err)
		return Match{}, false
	}

	match, ok := First(ctx, root, candidates, func(c Candidate, err error) {
		r.logger.Debug("candidate missed", "kind", kind, "source", c.Source(), "reason", err)
	})
	if ok {
		r.logger.Debug("resolved", "kind", kind, "source", match.Source, "path", match.Path)
	} else {
		r.logger.Debug("no candidate matched", "kind", kind, "root", root)
	}
	return match, ok
}
