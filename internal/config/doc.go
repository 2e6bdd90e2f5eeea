// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is read from the first file found among: the path given with
// --config, config.cue in the user configuration directory
// (~/.config/envireament on Linux, ~/Library/Application Support/envireament on
// macOS, %APPDATA%\envireament on Windows) and envireament.cue in the workspace.
// Missing files mean defaults. Values can be overridden with ENVIREAMENT_*
// environment variables (ENVIREAMENT_LUA_PATH, ENVIREAMENT_PROBE_TIMEOUT, ...).
//
// Files are validated against the embedded #Config schema (config_schema.cue)
// before they are merged into Viper.
package config
