/*
 * bandsio.go, part of qeplotter.
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
	"bufio"
	"bytes"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// two k-grids are considered equal if they differ in less than this.
const kTolerance = 1e-4

// a step in the k-path longer than this many times the median step is taken as a discontinuity.
const jumpFactor = 5.0

// ReadBands reads a band structure from the file name, which can be in the
// filband format or in the bands.dat.gnu format. The format is guessed from the content.
func ReadBands(name string) (*Bands, error) {
	return readWith(name, "ReadBands", func(r io.Reader) (*Bands, error) {
		br := bufio.NewReader(r)
		head, _ := br.Peek(512) //a short file is fine, an empty one will fail later.
		if bytes.Contains(head, []byte("&plot")) {
			return ParseFilband(br)
		}
		return ParseBandsGnu(br)
	})
}

// ReadBandsGnu reads a band structure in the gnuplot format written by bands.x (the .gnu file).
func ReadBandsGnu(name string) (*Bands, error) {
	return readWith(name, "ReadBandsGnu", ParseBandsGnu)
}

// ParseBandsGnu parses a band structure in the gnuplot format written by bands.x:
// two columns (path coordinate and energy), one block per band, blocks separated by blank lines.
// All blocks must have the same k-points.
func ParseBandsGnu(r io.Reader) (*Bands, error) {
	var k []float64
	energies := make([][]float64, 0, 32)
	var current []float64
	var currentk []float64
	closeBlock := func(line int) error {
		if len(current) == 0 {
			return nil
		}
		if k == nil {
			k = currentk
		} else {
			if len(currentk) != len(k) {
				return newError(ErrMismatch, line, "ParseBandsGnu", "band %d has %d points, %d expected", len(energies)+1, len(currentk), len(k))
			}
			for i, v := range currentk {
				if math.Abs(v-k[i]) > kTolerance {
					return newError(ErrMismatch, line, "ParseBandsGnu", "band %d doesn't share the k-path of the first band", len(energies)+1)
				}
			}
		}
		energies = append(energies, current)
		current = nil
		currentk = nil
		return nil
	}
	s := bufio.NewScanner(r)
	var ln int
	for s.Scan() {
		ln++
		line := strings.TrimSpace(s.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			if err := closeBlock(ln); err != nil {
				return nil, err
			}
			continue
		}
		fields := splitFields(line)
		if len(fields) < 2 {
			return nil, newError(ErrFormat, ln, "ParseBandsGnu", "expected 2 columns, found %d", len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, newError(ErrFormat, ln, "ParseBandsGnu", "can't read k coordinate %q", fields[0])
		}
		e, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, newError(ErrFormat, ln, "ParseBandsGnu", "can't read energy %q", fields[1])
		}
		currentk = append(currentk, x)
		current = append(current, e)
	}
	if err := s.Err(); err != nil {
		return nil, newError(err, ln, "ParseBandsGnu", "read failed")
	}
	if err := closeBlock(ln); err != nil {
		return nil, err
	}
	B, err := NewBands(k, energies)
	if err != nil {
		return nil, errDecorate(err, "ParseBandsGnu")
	}
	return B, nil
}

var plotHeader = regexp.MustCompile(`nbnd\s*=\s*(\d+)\s*,\s*nks\s*=\s*(\d+)`)

// ReadFilband reads a band structure in the filband format of bands.x.
func ReadFilband(name string) (*Bands, error) {
	return readWith(name, "ReadFilband", ParseFilband)
}

// ParseFilband parses a band structure in the filband format of bands.x:
// a "&plot nbnd=N, nks=M /" header followed, for each k-point, by its 3 cartesian
// coordinates and its N energies, spread over as many lines as needed.
// The path coordinate is the accumulated distance between consecutive k-points.
// A step much longer than the typical one is taken as a discontinuity in the path and adds nothing.
func ParseFilband(r io.Reader) (*Bands, error) {
	s := bufio.NewScanner(r)
	var ln int
	nbnd, nks := -1, -1
	for s.Scan() {
		ln++
		m := plotHeader.FindStringSubmatch(s.Text())
		if m == nil {
			continue
		}
		nbnd, _ = strconv.Atoi(m[1])
		nks, _ = strconv.Atoi(m[2])
		break
	}
	if nbnd <= 0 || nks <= 0 {
		return nil, newError(ErrFormat, ln, "ParseFilband", "no valid &plot header found")
	}
	per := 3 + nbnd
	vals := make([]float64, 0, per*nks)
	for s.Scan() {
		ln++
		for _, f := range splitFields(s.Text()) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, newError(ErrFormat, ln, "ParseFilband", "can't read number %q", f)
			}
			vals = append(vals, v)
		}
		if len(vals) >= per*nks {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, newError(err, ln, "ParseFilband", "read failed")
	}
	if len(vals) < per*nks {
		return nil, newError(ErrNoData, ln, "ParseFilband", "expected %d k-points with %d bands, file ends after %d numbers", nks, nbnd, len(vals))
	}
	kpts := make([][3]float64, nks)
	energies := make([][]float64, nbnd)
	for j := range energies {
		energies[j] = make([]float64, nks)
	}
	for i := 0; i < nks; i++ {
		block := vals[i*per : (i+1)*per]
		copy(kpts[i][:], block[:3])
		for j, e := range block[3:] {
			energies[j][i] = e
		}
	}
	B, err := NewBands(PathCoordinates(kpts), energies)
	if err != nil {
		return nil, errDecorate(err, "ParseFilband")
	}
	return B, nil
}

func kdist(a, b [3]float64) float64 {
	return math.Sqrt((a[0]-b[0])*(a[0]-b[0]) + (a[1]-b[1])*(a[1]-b[1]) + (a[2]-b[2])*(a[2]-b[2]))
}

// PathCoordinates returns the accumulated distance along the path kpts. A step longer than
// jumpFactor times the median step is a discontinuity, and adds zero distance.
func PathCoordinates(kpts [][3]float64) []float64 {
	x := make([]float64, len(kpts))
	if len(kpts) < 2 {
		return x
	}
	steps := make([]float64, len(kpts)-1)
	for i := 1; i < len(kpts); i++ {
		steps[i-1] = kdist(kpts[i], kpts[i-1])
	}
	sorted := append([]float64(nil), steps...)
	sort.Float64s(sorted)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	for i, st := range steps {
		if median > 0 && st > jumpFactor*median {
			st = 0
		}
		x[i+1] = x[i] + st
	}
	return x
}

// ReadHighSymmetry reads the high-symmetry points from the standard output of bands.x.
func ReadHighSymmetry(name string) ([]HighSymPoint, error) {
	return readWith(name, "ReadHighSymmetry", ParseHighSymmetry)
}

// ParseHighSymmetry parses lines like
//
//	high-symmetry point:  0.5000 0.5000 0.5000   x coordinate   0.8660
func ParseHighSymmetry(r io.Reader) ([]HighSymPoint, error) {
	const mark = "high-symmetry point:"
	const xmark = "x coordinate"
	ret := make([]HighSymPoint, 0, 8)
	s := bufio.NewScanner(r)
	var ln int
	for s.Scan() {
		ln++
		line := s.Text()
		i := strings.Index(line, mark)
		if i < 0 {
			continue
		}
		line = line[i+len(mark):]
		j := strings.Index(line, xmark)
		if j < 0 {
			return nil, newError(ErrFormat, ln, "ParseHighSymmetry", "no x coordinate")
		}
		var p HighSymPoint
		kf := splitFields(line[:j])
		if len(kf) != 3 {
			return nil, newError(ErrFormat, ln, "ParseHighSymmetry", "expected 3 k components, found %d", len(kf))
		}
		for c, v := range kf {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, newError(ErrFormat, ln, "ParseHighSymmetry", "can't read k component %q", v)
			}
			p.K[c] = f
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(line[j+len(xmark):]), 64)
		if err != nil {
			return nil, newError(ErrFormat, ln, "ParseHighSymmetry", "can't read x coordinate")
		}
		p.X = x
		ret = append(ret, p)
	}
	if err := s.Err(); err != nil {
		return nil, newError(err, ln, "ParseHighSymmetry", "read failed")
	}
	if len(ret) == 0 {
		return nil, newError(ErrNoData, 0, "ParseHighSymmetry", "no high-symmetry points found")
	}
	return ret, nil
}

// ReadKPathLabels reads the labels of the k-path from a pw.x input.
func ReadKPathLabels(name string) ([]string, error) {
	return readWith(name, "ReadKPathLabels", ParseKPathLabels)
}

// ParseKPathLabels obtains the labels of the points in the K_POINTS card of a pw.x input.
// Labels are given as comments after each point, as in "0.5 0.5 0.5 20 !L".
// The returned slice has one element per point, empty if the point has no label.
// G, Gamma and GAMMA are all returned as Γ.
func ParseKPathLabels(r io.Reader) ([]string, error) {
	s := bufio.NewScanner(r)
	var ln int
	found := false
	for s.Scan() {
		ln++
		f := strings.Fields(s.Text())
		if len(f) > 0 && strings.EqualFold(f[0], "K_POINTS") {
			found = true
			break
		}
	}
	if !found {
		return nil, newError(ErrNoData, ln, "ParseKPathLabels", "no K_POINTS card")
	}
	n := -1
	for s.Scan() {
		ln++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		var err error
		n, err = strconv.Atoi(strings.Fields(line)[0])
		if err != nil || n <= 0 {
			return nil, newError(ErrFormat, ln, "ParseKPathLabels", "can't read the number of k-points")
		}
		break
	}
	if n < 0 {
		return nil, newError(ErrNoData, ln, "ParseKPathLabels", "K_POINTS card is empty")
	}
	labels := make([]string, 0, n)
	for len(labels) < n && s.Scan() {
		ln++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		var label string
		if i := strings.IndexAny(line, "!#"); i >= 0 {
			label = NormalizeLabel(strings.TrimSpace(line[i+1:]))
		}
		labels = append(labels, label)
	}
	if len(labels) < n {
		return nil, newError(ErrNoData, ln, "ParseKPathLabels", "%d k-points announced, %d found", n, len(labels))
	}
	return labels, nil
}

// NormalizeLabel returns the usual symbol for the Gamma point, and l unchanged otherwise.
func NormalizeLabel(l string) string {
	switch l {
	case "G", "Gamma", "GAMMA", "gamma", "\\Gamma":
		return "Γ"
	}
	return l
}

// splitFields works like strings.Fields, but also separates numbers written by Fortran
// without a space between them, as in "-12.345-13.456".
func splitFields(line string) []string {
	ret := make([]string, 0, 10)
	for _, f := range strings.Fields(line) {
		start := 0
		for i := 1; i < len(f); i++ {
			if f[i] != '-' {
				continue
			}
			prev := f[i-1]
			if prev == 'e' || prev == 'E' || prev == 'd' || prev == 'D' {
				continue
			}
			ret = append(ret, f[start:i])
			start = i
		}
		ret = append(ret, f[start:])
	}
	return ret
}
