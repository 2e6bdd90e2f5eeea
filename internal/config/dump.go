// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Formats accepted by Dump.
const (
	FormatCUE  Format = "cue"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrInvalidFormat is returned for an unknown dump format.
var ErrInvalidFormat = errors.New("invalid format")

// Format names a serialization for Dump.
type Format string

// Formats returns the supported formats in display order.
func Formats() []Format {
	return []Format{FormatCUE, FormatTOML, FormatYAML}
}

// Dump serializes cfg in the requested format.
func Dump(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatCUE, "":
		return []byte(GenerateCUE(cfg)), nil
	case FormatTOML:
		out, err := toml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return out, nil
	case FormatYAML:
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w %q (want cue, toml or yaml)", ErrInvalidFormat, string(format))
	}
}
