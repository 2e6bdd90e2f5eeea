// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/songbase/envireament/internal/app/launch"
	"github.com/songbase/envireament/internal/locate"
)

func newStatusCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what EnviREAment finds in the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			writeStatus(app.stdout, s.service.Status(cmd.Context(), s.root))
			return nil
		},
	}
}

// writeStatus prints the report, followed by where each script was found.
func writeStatus(w io.Writer, r launch.Report) {
	venv := "❌ Not found"
	if r.HasTestRunner {
		venv = "✅ Available"
	}
	lua := "unknown"
	switch {
	case r.LuaFilesCountOK && r.LuaFilesCapped:
		lua = fmt.Sprintf("%d+ found", r.LuaFiles)
	case r.LuaFilesCountOK:
		lua = fmt.Sprintf("%d found", r.LuaFiles)
	}

	fmt.Fprintln(w, "EnviREAment Status:")
	fmt.Fprintf(w, "• Virtual Environment: %s\n", venv)
	fmt.Fprintf(w, "• Lua Files: %s\n", lua)
	fmt.Fprintf(w, "• Workspace: %s\n", r.Workspace)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("Test runner:"), location(r.TestRunner, r.HasTestRunner))
	fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("Demo:"), location(r.Demo, r.HasDemo))
}

func location(m locate.Match, ok bool) string {
	if !ok {
		return WarningStyle.Render("not found")
	}
	return fmt.Sprintf("%s (%s)", CmdStyle.Render(m.Path), m.Source)
}
