// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"errors"
	"fmt"

	"github.com/songbase/envireament/internal/runner"
)

const (
	// InstallPip installs the Python package.
	InstallPip InstallMethod = "pip"
	// InstallNpm installs the npm package into the workspace.
	InstallNpm InstallMethod = "npm"
)

// ErrInvalidInstallMethod is returned for an unknown InstallMethod.
var ErrInvalidInstallMethod = errors.New("invalid install method")

// InstallMethod selects the package manager used by Install.
type InstallMethod string

// IsValid returns whether the method is pip or npm.
func (m InstallMethod) IsValid() (bool, []error) {
	switch m {
	case InstallPip, InstallNpm:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w %q (want pip or npm)", ErrInvalidInstallMethod, string(m))}
	}
}

// String returns the method name.
func (m InstallMethod) String() string { return string(m) }

// InstallCommand returns the command line installing the package with m.
func (s *Service) InstallCommand(m InstallMethod) (string, error) {
	if ok, errs := m.IsValid(); !ok {
		return "", errs[0]
	}
	return s.dialect.CommandLine(string(m), "install", s.pkg)
}

// Install runs the package manager in the workspace at root.
func (s *Service) Install(m InstallMethod, root string, sink runner.Sink) (*runner.Task, error) {
	cmd, err := s.InstallCommand(m)
	if err != nil {
		return nil, err
	}
	sink.AppendLine(fmt.Sprintf("Installing EnviREAment: %s", cmd))
	return s.starter.Run(runner.NewRequest(cmd, root, sink)), nil
}
