/*
 * bands.go, part of qeplotter.
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
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Spin channels
const (
	SpinNone = iota
	SpinUp
	SpinDown
)

// HighSymPoint is a labeled point in the k-path.
type HighSymPoint struct {
	K     [3]float64 //cartesian, in units of 2pi/alat
	X     float64    //coordinate along the path, same units as Bands.K
	Label string
}

// Bands contains a band structure. E has one row per k-point and one column per band.
// K holds the coordinate of each k-point along the path, and is non-decreasing.
type Bands struct {
	K        []float64
	E        *mat.Dense
	Spin     int
	Fermi    float64
	HasFermi bool
	Ticks    []HighSymPoint
}

// NewBands returns a Bands with the given path coordinates and energies.
// energies[i] is the band i, and must have len(k) points.
func NewBands(k []float64, energies [][]float64) (*Bands, error) {
	if len(k) == 0 || len(energies) == 0 {
		return nil, newError(ErrNoData, 0, "NewBands", "empty band structure")
	}
	E := mat.NewDense(len(k), len(energies), nil)
	for j, band := range energies {
		if len(band) != len(k) {
			return nil, newError(ErrMismatch, 0, "NewBands", "band %d has %d points, %d expected", j, len(band), len(k))
		}
		E.SetCol(j, band)
	}
	for i := 1; i < len(k); i++ {
		if k[i] < k[i-1] {
			return nil, newError(ErrFormat, 0, "NewBands", "path coordinate decreases at point %d", i)
		}
	}
	return &Bands{K: k, E: E}, nil
}

// NKpoints returns the number of k-points
func (B *Bands) NKpoints() int {
	r, _ := B.E.Dims()
	return r
}

// NBands returns the number of bands
func (B *Bands) NBands() int {
	_, c := B.E.Dims()
	return c
}

// Band returns a copy of the energies of band i.
func (B *Bands) Band(i int) []float64 {
	return mat.Col(nil, i, B.E)
}

// SetFermi sets the Fermi energy
func (B *Bands) SetFermi(ef float64) {
	B.Fermi = ef
	B.HasFermi = true
}

// Shift subtracts e0 from all the energies, including the Fermi energy.
func (B *Bands) Shift(e0 float64) {
	B.E.Apply(func(i, j int, v float64) float64 { return v - e0 }, B.E)
	if B.HasFermi {
		B.Fermi -= e0
	}
}

// Window returns the indexes of the bands whose energy span overlaps [emin, emax].
// A band that jumps across the window between two k-points is included, since its
// line crosses the window.
func (B *Bands) Window(emin, emax float64) []int {
	ret := make([]int, 0, B.NBands())
	for j := 0; j < B.NBands(); j++ {
		band := B.Band(j)
		if floats.Max(band) >= emin && floats.Min(band) <= emax {
			ret = append(ret, j)
		}
	}
	return ret
}

// Span returns the lowest and highest energy in the band structure.
func (B *Bands) Span() (float64, float64) {
	raw := B.E.RawMatrix()
	if raw.Stride == raw.Cols {
		return floats.Min(raw.Data[:raw.Rows*raw.Cols]), floats.Max(raw.Data[:raw.Rows*raw.Cols])
	}
	min, max := math.Inf(1), math.Inf(-1)
	for j := 0; j < B.NBands(); j++ {
		band := B.Band(j)
		min = math.Min(min, floats.Min(band))
		max = math.Max(max, floats.Max(band))
	}
	return min, max
}

// ApplyLabels sets the labels of the high-symmetry points, in order.
// Extra labels are ignored, missing ones leave the points unlabeled.
func (B *Bands) ApplyLabels(labels []string) {
	for i := range B.Ticks {
		if i >= len(labels) {
			break
		}
		B.Ticks[i].Label = labels[i]
	}
}

// Gap contains the information on the band gap of a band structure.
type Gap struct {
	Value  float64
	VBM    float64
	CBM    float64
	VBMK   int //index of the k-point of the VBM
	CBMK   int
	VBand  int //index of the band containing the VBM
	CBand  int
	Direct bool
	Metal  bool
}

func (G Gap) String() string {
	if G.Metal {
		return "metal (bands cross the Fermi level)"
	}
	kind := "indirect"
	if G.Direct {
		kind = "direct"
	}
	return fmt.Sprintf("%s gap %.4f eV (VBM %.4f eV at k %d, CBM %.4f eV at k %d)", kind, G.Value, G.VBM, G.VBMK, G.CBM, G.CBMK)
}

// Gap obtains the band gap. The VBM is the highest energy at or below the Fermi energy and
// the CBM the lowest above it. If any band has energies on both sides of the Fermi level,
// the system is reported as a metal, with zero gap.
// Returns ErrNoFermi if no Fermi energy is set.
func (B *Bands) Gap() (Gap, error) {
	var g Gap
	if !B.HasFermi {
		return g, newError(ErrNoFermi, 0, "Gap", "can't get a gap")
	}
	g.VBM = math.Inf(-1)
	g.CBM = math.Inf(1)
	for j := 0; j < B.NBands(); j++ {
		band := B.Band(j)
		lo, hi := floats.Min(band), floats.Max(band)
		if lo <= B.Fermi && hi > B.Fermi {
			g.Metal = true
			g.VBM, g.CBM = B.Fermi, B.Fermi
			g.VBand, g.CBand = j, j
			return g, nil
		}
		if hi <= B.Fermi && hi > g.VBM {
			g.VBM = hi
			g.VBand = j
			g.VBMK = floats.MaxIdx(band)
		}
		if lo > B.Fermi && lo < g.CBM {
			g.CBM = lo
			g.CBand = j
			g.CBMK = floats.MinIdx(band)
		}
	}
	if math.IsInf(g.VBM, 0) || math.IsInf(g.CBM, 0) {
		return g, newError(ErrNoData, 0, "Gap", "all bands are on the same side of the Fermi level")
	}
	g.Value = g.CBM - g.VBM
	g.Direct = g.VBMK == g.CBMK
	return g, nil
}
