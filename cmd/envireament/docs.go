// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/songbase/envireament/internal/config"
	"github.com/songbase/envireament/internal/issue"
)

const usageGuide = `
# EnviREAment

Run REAPER Lua scripts and their tests without REAPER.

## Getting started
1. Install the package: ` + "`envireament install --via pip`" + ` (or ` + "`--via npm`" + `)
2. Check the workspace: ` + "`envireament status`" + `
3. Run the tests: ` + "`envireament test`" + `

## Where the test runner is found
1. ` + "`enhanced_test_runner.lua`" + ` in the workspace root
2. ` + "`node_modules/envireament/enhanced_test_runner.lua`" + `
3. The installed ` + "`envireament`" + ` Python package

## Configuration
Settings live in ` + "`config.cue`" + ` in the user config directory or in
` + "`envireament.cue`" + ` in the workspace. Every key can be overridden with an
` + "`ENVIREAMENT_`" + ` environment variable, e.g. ` + "`ENVIREAMENT_LUA_PATH=luajit`" + `.
`

func newDocsCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "Show the EnviREAment usage guide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scheme := config.ColorSchemeAuto
			if cfg, err := app.Config.Load(cmd.Context(), loadOptions(rootFlags)); err == nil {
				scheme = cfg.UI.ColorScheme
			}

			out, err := glamour.Render(usageGuide, string(scheme))
			if err != nil {
				out = usageGuide
			}
			fmt.Fprint(app.stdout, out)
			fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("Documentation:"), CmdStyle.Render(string(issue.DocsURL)))
			return nil
		},
	}
}
