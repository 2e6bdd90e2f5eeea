// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/songbase/envireament/internal/locate"
)

func newDemoCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the EnviREAment demo",
		Long:  `Run examples/main.lua from the workspace, node_modules/envireament or the installed Python package.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			return s.run(cmd.Context(), locate.KindDemo)
		},
	}
}
