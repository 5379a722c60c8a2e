/*
 * manifest.go, part of qeplotter.
 *
 * Copyright 2024 Şuayb Yıldız
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package qe

import (
	"fmt"
	"runtime/debug"
	"strings"

	"golang.org/x/mod/semver"
)

// Requirement is a library qeplotter depends on at run time.
type Requirement struct {
	Path    string `json:"path" yaml:"path"`
	Role    string `json:"role" yaml:"role"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"` //filled by Resolve
}

// Manifest is the package metadata of qeplotter.
type Manifest struct {
	Name        string        `json:"name" yaml:"name"`
	Version     string        `json:"version" yaml:"version"`
	Description string        `json:"description" yaml:"description"`
	Author      string        `json:"author" yaml:"author"`
	URL         string        `json:"url" yaml:"url"`
	Classifiers []string      `json:"classifiers" yaml:"classifiers"`
	Requires    []Requirement `json:"requires" yaml:"requires"`
}

// Roles of the required libraries
const (
	RoleNumeric  = "numeric"
	RolePlotting = "plotting"
)

// Version is the version of qeplotter
const Version = "0.1.0"

// PackageManifest returns the metadata of qeplotter.
func PackageManifest() Manifest {
	return Manifest{
		Name:        "qeplotter",
		Version:     Version,
		Description: "Quantum ESPRESSO band structure and DOS plotting tool",
		Author:      "Şuayb Yıldız",
		URL:         "https://github.com/shubics/QEPlotter",
		Classifiers: []string{
			"Programming Language :: Go",
			"Operating System :: OS Independent",
		},
		Requires: []Requirement{
			{Path: "gonum.org/v1/gonum", Role: RoleNumeric},
			{Path: "gonum.org/v1/plot", Role: RolePlotting},
		},
	}
}

// Validate checks that the name is a non-empty lowercase string, that the version is a valid
// semantic version, and that there is exactly one requirement for each role, with no repeated paths.
func (M Manifest) Validate() error {
	if M.Name == "" || strings.ToLower(M.Name) != M.Name || strings.ContainsAny(M.Name, " \t") {
		return newError(ErrFormat, 0, "Manifest.Validate", "invalid package name %q", M.Name)
	}
	v := "v" + M.Version
	if !semver.IsValid(v) || semver.Canonical(v) != v {
		return newError(ErrFormat, 0, "Manifest.Validate", "version %q is not a full semantic version", M.Version)
	}
	paths := make(map[string]bool)
	roles := make(map[string]int)
	for _, r := range M.Requires {
		if r.Path == "" {
			return newError(ErrFormat, 0, "Manifest.Validate", "requirement with empty path")
		}
		if paths[r.Path] {
			return newError(ErrFormat, 0, "Manifest.Validate", "requirement %s listed twice", r.Path)
		}
		paths[r.Path] = true
		roles[r.Role]++
	}
	for _, role := range []string{RoleNumeric, RolePlotting} {
		if roles[role] != 1 {
			return newError(ErrFormat, 0, "Manifest.Validate", "%d requirements with role %s, 1 expected", roles[role], role)
		}
	}
	if len(roles) != 2 {
		return newError(ErrFormat, 0, "Manifest.Validate", "unknown requirement roles")
	}
	return nil
}

// Resolve fills the version of each requirement from the build information of the
// running binary. Requirements not found in the build information (or all of them,
// if the binary has no build information) are left without version.
func (M *Manifest) Resolve() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	M.resolveFrom(info.Deps)
}

func (M *Manifest) resolveFrom(deps []*debug.Module) {
	for i, r := range M.Requires {
		for _, d := range deps {
			if d.Path != r.Path {
				continue
			}
			if d.Replace != nil {
				d = d.Replace
			}
			M.Requires[i].Version = d.Version
			break
		}
	}
}

func (M Manifest) String() string {
	return fmt.Sprintf("%s %s", M.Name, M.Version)
}
