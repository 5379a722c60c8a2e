/*
 * histogram.go, part of qeplotter.
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
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Dividers returns the bin edges, spaced by step, needed to cover [lo, hi].
// The last edge is strictly above hi.
func Dividers(lo, hi, step float64) []float64 {
	n := int(math.Floor((hi-lo)/step)) + 2
	d := make([]float64, n)
	floats.Span(d, lo, lo+float64(n-1)*step)
	//(hi-lo)/step can round down by one when hi-lo is a multiple of step.
	for d[len(d)-1] <= hi {
		d = append(d, d[len(d)-1]+step)
	}
	return d
}

// HistogramDOS computes a DOS from the eigenvalues in B by counting them in bins of width step,
// without broadening. Each k-point has the same weight. The energy of each point is the center
// of its bin, and the DOS is in states/eV, so its integral equals the number of bands.
func HistogramDOS(B *Bands, step float64) (*DOS, error) {
	if step <= 0 {
		return nil, newError(ErrFormat, 0, "HistogramDOS", "step must be positive")
	}
	raw := B.E.RawMatrix()
	data := make([]float64, 0, raw.Rows*raw.Cols)
	for r := 0; r < raw.Rows; r++ {
		data = append(data, raw.Data[r*raw.Stride:r*raw.Stride+raw.Cols]...)
	}
	//stat.Histogram needs sorted data within the dividers.
	sort.Float64s(data)
	div := Dividers(data[0], data[len(data)-1], step)
	counts := stat.Histogram(nil, div, data, nil)
	D := &DOS{
		E:        make([]float64, len(counts)),
		Up:       counts,
		Fermi:    B.Fermi,
		HasFermi: B.HasFermi,
	}
	for i := range D.E {
		D.E[i] = (div[i] + div[i+1]) / 2
	}
	floats.Scale(1/(step*float64(B.NKpoints())), D.Up)
	return D, nil
}
