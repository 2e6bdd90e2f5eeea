// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/songbase/envireament/internal/app/launch"
	"github.com/songbase/envireament/internal/issue"
)

func newInstallCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var via string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the EnviREAment package",
		Long: `Install EnviREAment with pip or npm.

The command runs in the workspace directory, so an npm install lands in its
node_modules folder where the test runner is looked up.`,
		Example: `  envireament install --via pip
  envireament install --via npm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			method := launch.InstallMethod(via)
			if ok, errs := method.IsValid(); !ok {
				return errs[0]
			}
			s, err := app.newSession(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			task, err := s.service.Install(method, s.root, s.sink())
			if err != nil {
				return err
			}
			return s.await(task, issue.ScriptExecutionFailedId)
		},
	}

	cmd.Flags().StringVar(&via, "via", string(launch.InstallPip), "package manager to use (pip or npm)")
	return cmd
}
