// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"

	"github.com/songbase/envireament/internal/locate"
	"github.com/songbase/envireament/internal/workspace"
)

// luaFileLimit caps the Lua file count reported by Status.
const luaFileLimit = 10

// Report summarizes what is available in a workspace.
type Report struct {
	Workspace string
	Root      string

	TestRunner      locate.Match
	HasTestRunner   bool
	Demo            locate.Match
	HasDemo         bool
	LuaFiles        int
	// LuaFilesCapped is set when more than LuaFiles sources exist.
	LuaFilesCapped  bool
	LuaFilesCountOK bool
}

// Status resolves both targets and counts Lua sources, skipping installed
// dependencies. More than ten sources are reported as ten with LuaFilesCapped
// set. A failed count leaves LuaFilesCountOK unset.
func (s *Service) Status(ctx context.Context, root string) Report {
	r := Report{Workspace: workspace.Name(root), Root: root}
	r.TestRunner, r.HasTestRunner = s.resolver.Resolve(ctx, locate.KindTestRunner, root)
	r.Demo, r.HasDemo = s.resolver.Resolve(ctx, locate.KindDemo, root)

	n, capped, err := workspace.CountFiles(root, workspace.LuaPattern, []string{"node_modules/**", ".git/**"}, luaFileLimit)
	if err != nil {
		s.logger.Warn("cannot count Lua files", "root", root, "err", err)
		return r
	}
	r.LuaFiles, r.LuaFilesCapped, r.LuaFilesCountOK = n, capped, true
	return r
}
