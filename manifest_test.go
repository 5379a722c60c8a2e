/*
 * manifest_test.go, part of qeplotter.
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
	"errors"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageManifest(t *testing.T) {
	m := PackageManifest()
	require.NoError(t, m.Validate())
	assert.Equal(t, "qeplotter", m.Name)
	assert.Equal(t, "0.1.0", m.Version)
	assert.Equal(t, "Quantum ESPRESSO band structure and DOS plotting tool", m.Description)
	assert.Equal(t, "https://github.com/shubics/QEPlotter", m.URL)
	assert.NotEmpty(t, m.Author)
	assert.Contains(t, m.Classifiers, "Operating System :: OS Independent")
	require.Len(t, m.Requires, 2)
	assert.Equal(t, "gonum.org/v1/gonum", m.Requires[0].Path)
	assert.Equal(t, RoleNumeric, m.Requires[0].Role)
	assert.Equal(t, "gonum.org/v1/plot", m.Requires[1].Path)
	assert.Equal(t, RolePlotting, m.Requires[1].Role)
	assert.Equal(t, "qeplotter 0.1.0", m.String())
}

func TestManifestValidate(t *testing.T) {
	cases := []struct {
		name   string
		change func(m *Manifest)
	}{
		{"empty name", func(m *Manifest) { m.Name = "" }},
		{"upper-case name", func(m *Manifest) { m.Name = "QEPlotter" }},
		{"name with spaces", func(m *Manifest) { m.Name = "qe plotter" }},
		{"short version", func(m *Manifest) { m.Version = "0.1" }},
		{"bad version", func(m *Manifest) { m.Version = "zero" }},
		{"prefixed version", func(m *Manifest) { m.Version = "v0.1.0" }},
		{"duplicated path", func(m *Manifest) { m.Requires[1].Path = m.Requires[0].Path }},
		{"empty path", func(m *Manifest) { m.Requires[0].Path = "" }},
		{"missing role", func(m *Manifest) { m.Requires = m.Requires[:1] }},
		{"two numeric", func(m *Manifest) {
			m.Requires = append(m.Requires, Requirement{Path: "github.com/other/num", Role: RoleNumeric})
		}},
		{"unknown role", func(m *Manifest) {
			m.Requires = append(m.Requires, Requirement{Path: "github.com/other/docs", Role: "docs"})
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := PackageManifest()
			c.change(&m)
			err := m.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat))
		})
	}
	m := PackageManifest()
	m.Version = "1.0.0-rc.1"
	assert.NoError(t, m.Validate())
}

func TestManifestResolve(t *testing.T) {
	m := PackageManifest()
	m.resolveFrom([]*debug.Module{
		{Path: "github.com/rs/zerolog", Version: "v1.34.0"},
		{Path: "gonum.org/v1/gonum", Version: "v0.15.1"},
		{Path: "gonum.org/v1/plot", Version: "v0.14.0", Replace: &debug.Module{Path: "../plot", Version: "v0.14.1"}},
	})
	assert.Equal(t, "v0.15.1", m.Requires[0].Version)
	assert.Equal(t, "v0.14.1", m.Requires[1].Version)

	m = PackageManifest()
	m.resolveFrom(nil)
	assert.Empty(t, m.Requires[0].Version)
	//a resolved manifest is still valid
	m.Resolve()
	assert.NoError(t, m.Validate())
}
