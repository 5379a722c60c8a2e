/*
 * dos_test.go, part of qeplotter.
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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestReadDOS(t *testing.T) {
	D, err := ReadDOS("test/si.dos")
	require.NoError(t, err)
	assert.Equal(t, 5, D.Len())
	assert.False(t, D.Spin())
	assert.True(t, D.HasFermi)
	assert.Equal(t, 2.0, D.Fermi)
	assert.Equal(t, []float64{0, 1, 2, 1, 0}, D.Up)
	assert.Equal(t, []float64{0, 0.5, 2, 3.5, 4}, D.Int)
	assert.Equal(t, 2.0, D.Max())
	assert.InDelta(t, 2.0, D.Integrate(D.Fermi), 1e-9)
	assert.InDelta(t, 4.0, D.Integrate(100), 1e-9)
	assert.Equal(t, 0.0, D.Integrate(-1))
	//between grid points
	assert.InDelta(t, 0.125, D.Integrate(0.5), 1e-9)
	assert.InDelta(t, 1.125, D.Integrate(1.5), 1e-9)
}

func TestParseDOSSpin(t *testing.T) {
	in := `#  E (eV)  dosup(E)   dosdw(E)  Int dos(E) EFermi =   -1.500 eV
  -2.000  0.1000E+01  0.2000E+01  0.0000E+00
  -1.000  0.3000E+01  0.4000E+01  0.5000E+01
`
	D, err := ParseDOS(strings.NewReader(in))
	require.NoError(t, err)
	assert.True(t, D.Spin())
	assert.Equal(t, -1.5, D.Fermi)
	assert.Equal(t, []float64{1, 3}, D.Up)
	assert.Equal(t, []float64{2, 4}, D.Down)
	assert.Equal(t, []float64{0, 5}, D.Int)
	assert.Equal(t, []float64{3, 7}, D.Total())
}

func TestParseDOSErrors(t *testing.T) {
	_, err := ParseDOS(strings.NewReader("# E (eV) dos(E)\n"))
	assert.True(t, errors.Is(err, ErrNoData))
	_, err = ParseDOS(strings.NewReader("# E (eV) dos(E) Int dos(E)\n 1.0 2.0\n"))
	assert.True(t, errors.Is(err, ErrFormat))
	_, err = ParseDOS(strings.NewReader("1.0 x\n"))
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestHeaderColumns(t *testing.T) {
	cols := headerColumns("#  E (eV)  dosup(E)   dosdw(E)  Int dos(E) EFermi =   -1.500 eV")
	assert.Equal(t, []string{"E", "dosup(E)", "dosdw(E)", "Int dos(E)"}, cols)
	c := parseDOSHeader("#  E (eV)  dosup(E)   dosdw(E)  Int dos(E) EFermi =   -1.500 eV")
	assert.Equal(t, dosColumns{energy: 0, up: 1, down: 2, integ: 3}, c)
}

func TestDOSShiftWindow(t *testing.T) {
	D, err := ReadDOS("test/si.dos")
	require.NoError(t, err)
	D.Shift(D.Fermi)
	assert.Equal(t, 0.0, D.Fermi)
	assert.Equal(t, []float64{-2, -1, 0, 1, 2}, D.E)
	W := D.Window(-1, 1)
	assert.Equal(t, []float64{-1, 0, 1}, W.E)
	assert.Equal(t, []float64{1, 2, 1}, W.Up)
	assert.Nil(t, W.Down)
	assert.Equal(t, 0, D.Window(10, 20).Len())
	//the original is not modified
	assert.Equal(t, 5, D.Len())
}

func TestSmoothConservesArea(t *testing.T) {
	n := 401
	D := &DOS{E: make([]float64, n), Up: make([]float64, n)}
	floats.Span(D.E, -10, 10)
	D.Up[n/2] = 20 //a spike with area 1 (step is 0.05)
	S := D.Smooth(0.5)
	assert.InDelta(t, D.Integrate(10), S.Integrate(10), 1e-6)
	assert.InDelta(t, 1.0, S.Integrate(10), 1e-6)
	assert.Less(t, S.Max(), D.Max())
	//the peak stays in place
	assert.Equal(t, n/2, floats.MaxIdx(S.Up))
	//no smoothing returns an equal copy
	C := D.Smooth(0)
	assert.Equal(t, D.Up, C.Up)
	C.Up[0] = 5
	assert.Equal(t, 0.0, D.Up[0])
}

func TestGaussianKernel(t *testing.T) {
	k := gaussianKernel(0.25, 0.5)
	assert.Len(t, k, 5)
	assert.InDelta(t, 1.0, floats.Sum(k), 1e-12)
	assert.Equal(t, 2, floats.MaxIdx(k))
	assert.InDelta(t, k[0], k[4], 1e-15)
}

func TestFromBands(t *testing.T) {
	B, err := ReadBands("test/si.bands.dat.gnu")
	require.NoError(t, err)
	B.SetFermi(0)
	D, err := FromBands(B, 0.01, 0.05)
	require.NoError(t, err)
	assert.True(t, D.HasFermi)
	assert.InDelta(t, float64(B.NBands()), D.Integrate(D.E[D.Len()-1]), 1e-3)
	//only the valence band lies below the Fermi level
	assert.InDelta(t, 1.0, D.Integrate(0), 1e-3)

	_, err = FromBands(B, 0, 0.1)
	assert.True(t, errors.Is(err, ErrFormat))
}
