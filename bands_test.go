/*
 * bands_test.go, part of qeplotter.
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
)

func TestReadBandsGnu(t *testing.T) {
	B, err := ReadBands("test/si.bands.dat.gnu")
	require.NoError(t, err)
	assert.Equal(t, 4, B.NKpoints())
	assert.Equal(t, 2, B.NBands())
	assert.Equal(t, []float64{0, 0.5, 1, 1.5}, B.K)
	assert.Equal(t, []float64{1.5, 1.0, 1.1, 0.7}, B.Band(1))
	lo, hi := B.Span()
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 1.5, hi)
}

func TestParseBandsGnuMismatch(t *testing.T) {
	in := "0.0 -1.0\n0.5 -0.5\n\n0.0 1.0\n0.6 1.5\n"
	_, err := ParseBandsGnu(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMismatch))

	in = "0.0 -1.0\n0.5 -0.5\n\n0.0 1.0\n"
	_, err = ParseBandsGnu(strings.NewReader(in))
	assert.True(t, errors.Is(err, ErrMismatch))
}

func TestParseBandsGnuBadNumber(t *testing.T) {
	_, err := ParseBandsGnu(strings.NewReader("0.0 -1.0\n0.5 abc\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormat))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line())
}

func TestReadFilband(t *testing.T) {
	B, err := ReadBands("test/si.filband")
	require.NoError(t, err)
	assert.Equal(t, 3, B.NKpoints())
	assert.Equal(t, 2, B.NBands())
	assert.InDeltaSlice(t, []float64{0, 0.8660, 1.5731}, B.K, 1e-4)
	//the second line of energies has the numbers glued together.
	assert.InDeltaSlice(t, []float64{6.2039, -10.1234, 5.0}, B.Band(1), 1e-9)
}

func TestParseFilbandShort(t *testing.T) {
	in := " &plot nbnd=   2, nks=     2 /\n 0 0 0\n -1.0 1.0\n"
	_, err := ParseFilband(strings.NewReader(in))
	assert.True(t, errors.Is(err, ErrNoData))
	_, err = ParseFilband(strings.NewReader("no header here\n"))
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestPathCoordinatesJump(t *testing.T) {
	kpts := [][3]float64{{0, 0, 0}, {0.1, 0, 0}, {0.2, 0, 0}, {5, 0, 0}, {5.1, 0, 0}}
	x := PathCoordinates(kpts)
	assert.InDeltaSlice(t, []float64{0, 0.1, 0.2, 0.2, 0.3}, x, 1e-9)
	assert.Equal(t, []float64{0}, PathCoordinates(kpts[:1]))
}

func TestHighSymmetryAndLabels(t *testing.T) {
	B, err := ReadBands("test/si.filband")
	require.NoError(t, err)
	B.Ticks, err = ReadHighSymmetry("test/si.bands.out")
	require.NoError(t, err)
	require.Len(t, B.Ticks, 3)
	assert.Equal(t, [3]float64{0.5, -0.5, 0}, B.Ticks[2].K)
	assert.InDelta(t, 0.8660, B.Ticks[1].X, 1e-9)

	labels, err := ReadKPathLabels("test/si.bands.in")
	require.NoError(t, err)
	assert.Equal(t, []string{"Γ", "L", ""}, labels)
	B.ApplyLabels(labels)
	assert.Equal(t, "Γ", B.Ticks[0].Label)
	assert.Equal(t, "L", B.Ticks[1].Label)
	assert.Equal(t, "", B.Ticks[2].Label)

	_, err = ParseHighSymmetry(strings.NewReader("nothing\n"))
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestParseKPathLabelsErrors(t *testing.T) {
	_, err := ParseKPathLabels(strings.NewReader("&control\n/\n"))
	assert.True(t, errors.Is(err, ErrNoData))
	_, err = ParseKPathLabels(strings.NewReader("K_POINTS crystal_b\n3\n0 0 0 10 !G\n"))
	assert.True(t, errors.Is(err, ErrNoData))
	_, err = ParseKPathLabels(strings.NewReader("K_POINTS crystal_b\nthree\n"))
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestNormalizeLabel(t *testing.T) {
	for _, l := range []string{"G", "Gamma", "GAMMA", "gamma", "\\Gamma"} {
		assert.Equal(t, "Γ", NormalizeLabel(l), l)
	}
	assert.Equal(t, "X", NormalizeLabel("X"))
}

func TestSplitFields(t *testing.T) {
	assert.Equal(t, []string{"-12.345", "-13.456"}, splitFields("-12.345-13.456"))
	assert.Equal(t, []string{"1.0E-03", "-2.0D-01", "3"}, splitFields(" 1.0E-03-2.0D-01  3"))
	assert.Empty(t, splitFields("   "))
}

func TestNewBands(t *testing.T) {
	_, err := NewBands(nil, nil)
	assert.True(t, errors.Is(err, ErrNoData))
	_, err = NewBands([]float64{0, 1}, [][]float64{{1}})
	assert.True(t, errors.Is(err, ErrMismatch))
	_, err = NewBands([]float64{1, 0}, [][]float64{{1, 2}})
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestShiftAndWindow(t *testing.T) {
	B, err := NewBands([]float64{0, 1}, [][]float64{{-5, -4}, {-1, 0}, {2, 3}})
	require.NoError(t, err)
	B.SetFermi(1)
	B.Shift(1)
	assert.Equal(t, 0.0, B.Fermi)
	assert.Equal(t, []float64{-2, -1}, B.Band(1))
	assert.Equal(t, []int{1, 2}, B.Window(-1.5, 1.5))

	//no point inside the window, but the line crosses it
	C, err := NewBands([]float64{0, 1, 2}, [][]float64{{-3, 3, -3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, C.Window(-1, 1))
}

func TestGap(t *testing.T) {
	B, err := ReadBands("test/si.bands.dat.gnu")
	require.NoError(t, err)
	_, err = B.Gap()
	assert.True(t, errors.Is(err, ErrNoFermi))

	B.SetFermi(0)
	g, err := B.Gap()
	require.NoError(t, err)
	assert.False(t, g.Metal)
	assert.False(t, g.Direct)
	assert.InDelta(t, 0.9, g.Value, 1e-9)
	assert.Equal(t, -0.2, g.VBM)
	assert.Equal(t, 0.7, g.CBM)
	assert.Equal(t, 2, g.VBMK)
	assert.Equal(t, 3, g.CBMK)
	assert.Equal(t, 0, g.VBand)
	assert.Equal(t, 1, g.CBand)
	assert.Contains(t, g.String(), "indirect gap 0.9000 eV")

	B.SetFermi(1.2)
	g, err = B.Gap()
	require.NoError(t, err)
	assert.True(t, g.Metal)
	assert.Equal(t, 0.0, g.Value)
	assert.Contains(t, g.String(), "metal")

	B.SetFermi(10)
	_, err = B.Gap()
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestDirectGap(t *testing.T) {
	B, err := NewBands([]float64{0, 1, 2}, [][]float64{{-2, -1, -3}, {2, 1, 3}})
	require.NoError(t, err)
	B.SetFermi(0)
	g, err := B.Gap()
	require.NoError(t, err)
	assert.True(t, g.Direct)
	assert.Equal(t, 2.0, g.Value)
	assert.Equal(t, 1, g.VBMK)
}
