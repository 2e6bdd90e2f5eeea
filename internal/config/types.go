// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ShellNative launches commands through the host shell.
	ShellNative ShellMode = "native"
	// ShellVirtual runs commands in the embedded mvdan/sh interpreter.
	ShellVirtual ShellMode = "virtual"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidShellMode is returned when a ShellMode value is not recognized.
	ErrInvalidShellMode = errors.New("invalid shell mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidDuration is returned for a duration that does not parse or is
	// out of range.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidLuaPath is returned when lua_path is blank.
	ErrInvalidLuaPath = errors.New("invalid lua path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ShellMode selects how commands are launched.
	ShellMode string

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// Duration is a time.ParseDuration string such as "5s" or "500ms". It is
	// kept as text so the config round-trips through CUE, TOML and YAML
	// unchanged.
	Duration string

	// InvalidValueError reports a field holding an unusable value. It wraps
	// one of the ErrInvalid* sentinels.
	InvalidValueError struct {
		Field string
		Value string
		Err   error
	}

	// InvalidConfigError collects every field-level problem of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// LuaPath is the Lua interpreter (name on PATH or absolute path).
		LuaPath string `json:"lua_path" mapstructure:"lua_path" toml:"lua_path" yaml:"lua_path"`
		// VerboseOutput passes --verbose to the test runner.
		VerboseOutput bool `json:"verbose_output" mapstructure:"verbose_output" toml:"verbose_output" yaml:"verbose_output"`
		// AutoRunTests re-runs the tests on file changes.
		AutoRunTests bool        `json:"auto_run_tests" mapstructure:"auto_run_tests" toml:"auto_run_tests" yaml:"auto_run_tests"`
		Shell        ShellMode   `json:"shell" mapstructure:"shell" toml:"shell" yaml:"shell"`
		Probe        ProbeConfig `json:"probe" mapstructure:"probe" toml:"probe" yaml:"probe"`
		Watch        WatchConfig `json:"watch" mapstructure:"watch" toml:"watch" yaml:"watch"`
		UI           UIConfig    `json:"ui" mapstructure:"ui" toml:"ui" yaml:"ui"`
	}

	// ProbeConfig controls how the installed Python package is asked for its
	// location.
	ProbeConfig struct {
		PythonPath string   `json:"python_path" mapstructure:"python_path" toml:"python_path" yaml:"python_path"`
		Package    string   `json:"package" mapstructure:"package" toml:"package" yaml:"package"`
		Timeout    Duration `json:"timeout" mapstructure:"timeout" toml:"timeout" yaml:"timeout"`
	}

	// WatchConfig controls auto-run on change.
	WatchConfig struct {
		Patterns    []string `json:"patterns" mapstructure:"patterns" toml:"patterns" yaml:"patterns"`
		Ignore      []string `json:"ignore" mapstructure:"ignore" toml:"ignore" yaml:"ignore"`
		Debounce    Duration `json:"debounce" mapstructure:"debounce" toml:"debounce" yaml:"debounce"`
		ClearScreen bool     `json:"clear_screen" mapstructure:"clear_screen" toml:"clear_screen" yaml:"clear_screen"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme" yaml:"color_scheme"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose" yaml:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LuaPath: "lua",
		Shell:   ShellNative,
		Probe: ProbeConfig{
			PythonPath: "python3",
			Package:    "envireament",
			Timeout:    "5s",
		},
		Watch: WatchConfig{
			Patterns: []string{"**/*.lua"},
			Ignore:   []string{},
			Debounce: "500ms",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// IsValid returns whether the ShellMode is a recognized value.
func (m ShellMode) IsValid() (bool, []error) {
	switch m {
	case ShellNative, ShellVirtual:
		return true, nil
	default:
		return false, []error{&InvalidValueError{Field: "shell", Value: string(m), Err: ErrInvalidShellMode}}
	}
}

// String returns the string representation of the ShellMode.
func (m ShellMode) String() string { return string(m) }

// IsValid returns whether the ColorScheme is a recognized value.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidValueError{Field: "ui.color_scheme", Value: string(c), Err: ErrInvalidColorScheme}}
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// Parse returns the duration. Negative values are rejected.
func (d Duration) Parse() (time.Duration, error) {
	v, err := time.ParseDuration(strings.TrimSpace(string(d)))
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidDuration, string(d), err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w %q: must not be negative", ErrInvalidDuration, string(d))
	}
	return v, nil
}

// OrDefault returns the parsed duration, or def when it is unset or invalid.
func (d Duration) OrDefault(def time.Duration) time.Duration {
	v, err := d.Parse()
	if err != nil || v == 0 {
		return def
	}
	return v
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.LuaPath) == "" {
		errs = append(errs, &InvalidValueError{Field: "lua_path", Value: c.LuaPath, Err: ErrInvalidLuaPath})
	}
	if ok, fieldErrs := c.Shell.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if v, err := c.Probe.Timeout.Parse(); err != nil || v == 0 {
		errs = append(errs, &InvalidValueError{Field: "probe.timeout", Value: string(c.Probe.Timeout), Err: ErrInvalidDuration})
	}
	if _, err := c.Watch.Debounce.Parse(); err != nil {
		errs = append(errs, &InvalidValueError{Field: "watch.debounce", Value: string(c.Watch.Debounce), Err: ErrInvalidDuration})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidValueError.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %v %q", e.Field, e.Err, e.Value)
}

// Unwrap returns the sentinel for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return e.Err }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is().
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
