// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/songbase/envireament/internal/config"
	"github.com/songbase/envireament/internal/issue"
	"github.com/songbase/envireament/internal/workspace"
)

// newConfigCommand creates the `envireament config` command tree.
// Subcommands that read configuration use the App's config provider.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage envireament configuration",
		Long: `Manage envireament configuration.

Configuration is read from the first file found of:
  - the file given with --config
  - the user config file:
      Linux: ~/.config/envireament/config.cue
      macOS: ~/Library/Application Support/envireament/config.cue
      Windows: %APPDATA%\envireament\config.cue
  - envireament.cue in the workspace

ENVIREAMENT_* environment variables override any file value.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, rootFlags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app.stdout, rootFlags)
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), app, rootFlags)
			if err != nil {
				return err
			}
			out, err := config.Dump(cfg, config.Format(format))
			if err != nil {
				return err
			}
			_, err = app.stdout.Write(out)
			return err
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", string(config.FormatCUE), "output format ("+formatList()+")")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

// loadConfig loads the configuration for the workspace named by the root
// flags. A workspace that cannot be resolved only disables the workspace file.
func loadConfig(ctx context.Context, app *App, rootFlags *rootFlagValues) (*config.Config, error) {
	cfg, err := app.Config.Load(ctx, loadOptions(rootFlags))
	if err != nil {
		app.renderIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		return nil, err
	}
	return cfg, nil
}

func loadOptions(rootFlags *rootFlagValues) config.LoadOptions {
	opts := config.LoadOptions{ConfigFilePath: rootFlags.configPath}
	if root, err := workspace.Resolve(rootFlags.workspace); err == nil {
		opts.WorkspaceDir = root
	}
	return opts
}

func showConfig(ctx context.Context, app *App, rootFlags *rootFlagValues) error {
	cfg, err := loadConfig(ctx, app, rootFlags)
	if err != nil {
		return err
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	source := SubtitleStyle.Render("(using defaults)")
	if path, findErr := config.FindConfigFile(loadOptions(rootFlags)); findErr == nil && path != "" {
		source = path
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), source)
	fmt.Fprintln(w)

	value := func(indent, key string, v any) {
		fmt.Fprintf(w, "%s%s: %s\n", indent, keyStyle.Render(key), valueStyle.Render(fmt.Sprint(v)))
	}

	value("", "lua_path", cfg.LuaPath)
	value("", "verbose_output", cfg.VerboseOutput)
	value("", "auto_run_tests", cfg.AutoRunTests)
	value("", "shell", cfg.Shell)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("probe"))
	value("  ", "python_path", cfg.Probe.PythonPath)
	value("  ", "package", cfg.Probe.Package)
	value("  ", "timeout", cfg.Probe.Timeout)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("watch"))
	value("  ", "patterns", strings.Join(cfg.Watch.Patterns, ", "))
	if len(cfg.Watch.Ignore) == 0 {
		fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render("ignore"), SubtitleStyle.Render("(none configured)"))
	} else {
		value("  ", "ignore", strings.Join(cfg.Watch.Ignore, ", "))
	}
	value("  ", "debounce", cfg.Watch.Debounce)
	value("  ", "clear_screen", cfg.Watch.ClearScreen)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	value("  ", "color_scheme", cfg.UI.ColorScheme)
	value("  ", "verbose", cfg.UI.Verbose)
	return nil
}

func initConfig(w io.Writer) error {
	path, created, err := config.CreateDefaultConfig("")
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(w, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(w, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(w io.Writer, rootFlags *rootFlagValues) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)

	path, err := config.FindConfigFile(loadOptions(rootFlags))
	if err != nil {
		return err
	}
	if path == "" {
		path = "(none, using defaults)"
	}
	fmt.Fprintf(w, "Config file: %s\n", path)
	return nil
}

func formatList() string {
	names := make([]string, 0, len(config.Formats()))
	for _, f := range config.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
