// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

func TestShellModeIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode ShellMode
		want bool
	}{
		{ShellNative, true},
		{ShellVirtual, true},
		{"", false},
		{"container", false},
		{"NATIVE", false},
	}
	for _, tt := range tests {
		ok, errs := tt.mode.IsValid()
		if ok != tt.want {
			t.Errorf("ShellMode(%q).IsValid() = %v, want %v", tt.mode, ok, tt.want)
		}
		if !ok && !errors.Is(errs[0], ErrInvalidShellMode) {
			t.Errorf("ShellMode(%q) error = %v, want ErrInvalidShellMode", tt.mode, errs[0])
		}
	}
}

func TestColorSchemeIsValid(t *testing.T) {
	t.Parallel()

	for _, c := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if ok, _ := c.IsValid(); !ok {
			t.Errorf("ColorScheme(%q) should be valid", c)
		}
	}
	ok, errs := ColorScheme("solarized").IsValid()
	if ok || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("ColorScheme(solarized).IsValid() = %v, %v", ok, errs)
	}
}

func TestDurationParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      Duration
		want    time.Duration
		wantErr bool
	}{
		{"5s", 5 * time.Second, false},
		{" 250ms ", 250 * time.Millisecond, false},
		{"0", 0, false},
		{"", 0, true},
		{"soon", 0, true},
		{"-1s", 0, true},
	}
	for _, tt := range tests {
		got, err := tt.in.Parse()
		if (err != nil) != tt.wantErr {
			t.Errorf("Duration(%q).Parse() error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("Duration(%q).Parse() error = %v, want ErrInvalidDuration", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Duration(%q).Parse() = %s, want %s", tt.in, got, tt.want)
		}
	}

	if got := Duration("bogus").OrDefault(time.Second); got != time.Second {
		t.Errorf("OrDefault() = %s, want 1s", got)
	}
}

func TestConfigIsValidCollectsEveryField(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.LuaPath = "  "
	cfg.Shell = "container"
	cfg.Probe.Timeout = "0s"
	cfg.Watch.Debounce = "later"

	ok, errs := cfg.IsValid()
	if ok {
		t.Fatal("IsValid() = true")
	}
	var invalid *InvalidConfigError
	if !errors.As(errs[0], &invalid) {
		t.Fatalf("error %T is not *InvalidConfigError", errs[0])
	}
	if len(invalid.FieldErrors) != 4 {
		t.Errorf("got %d field errors, want 4: %v", len(invalid.FieldErrors), invalid)
	}
	for _, target := range []error{ErrInvalidConfig, ErrInvalidLuaPath, ErrInvalidShellMode, ErrInvalidDuration} {
		if !errors.Is(errs[0], target) {
			t.Errorf("error does not wrap %v", target)
		}
	}
}

func TestDump(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.LuaPath = "luajit"

	out, err := Dump(cfg, FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	var fromTOML Config
	if err := toml.Unmarshal(out, &fromTOML); err != nil {
		t.Fatalf("toml output does not parse: %v\n%s", err, out)
	}
	if fromTOML.LuaPath != "luajit" || fromTOML.Probe.Timeout != "5s" {
		t.Errorf("toml round trip = %+v", fromTOML)
	}

	out, err = Dump(cfg, FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML Config
	if err := yaml.Unmarshal(out, &fromYAML); err != nil {
		t.Fatalf("yaml output does not parse: %v\n%s", err, out)
	}
	if fromYAML.LuaPath != "luajit" || fromYAML.Watch.Debounce != "500ms" {
		t.Errorf("yaml round trip = %+v", fromYAML)
	}

	out, err = Dump(cfg, FormatCUE)
	if err != nil || !strings.Contains(string(out), `lua_path:       "luajit"`) {
		t.Errorf("cue output = %s, %v", out, err)
	}

	if _, err := Dump(cfg, "json"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Dump(json) error = %v, want ErrInvalidFormat", err)
	}
}

func TestFormatCUEErrorPath(t *testing.T) {
	t.Parallel()

	if got := cuePath([]string{"watch", "patterns", "0"}); got != "watch.patterns[0]" {
		t.Errorf("cuePath() = %q", got)
	}
	if got := cuePath(nil); got != "" {
		t.Errorf("cuePath(nil) = %q", got)
	}
}
