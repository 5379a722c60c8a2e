/*
 * dos.go, part of qeplotter.
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
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// DOS is a density of states. Down is nil if the calculation is not spin-polarized,
// in which case Up holds the total DOS. Int is the integrated DOS, if available.
type DOS struct {
	E        []float64
	Up       []float64
	Down     []float64
	Int      []float64
	Fermi    float64
	HasFermi bool
}

// Spin returns true if the DOS is spin-polarized
func (D *DOS) Spin() bool {
	return D.Down != nil
}

// Len returns the number of energy points
func (D *DOS) Len() int {
	return len(D.E)
}

// Total returns the total DOS (Up plus Down, or Up if not spin-polarized).
func (D *DOS) Total() []float64 {
	ret := append([]float64(nil), D.Up...)
	if D.Down != nil {
		floats.Add(ret, D.Down)
	}
	return ret
}

// Copy returns a deep copy of the DOS.
func (D *DOS) Copy() *DOS {
	ret := &DOS{Fermi: D.Fermi, HasFermi: D.HasFermi}
	ret.E = append([]float64(nil), D.E...)
	ret.Up = append([]float64(nil), D.Up...)
	if D.Down != nil {
		ret.Down = append([]float64(nil), D.Down...)
	}
	if D.Int != nil {
		ret.Int = append([]float64(nil), D.Int...)
	}
	return ret
}

// SetFermi sets the Fermi energy
func (D *DOS) SetFermi(ef float64) {
	D.Fermi = ef
	D.HasFermi = true
}

// Shift subtracts e0 from the energies, including the Fermi energy.
func (D *DOS) Shift(e0 float64) {
	floats.AddConst(-e0, D.E)
	if D.HasFermi {
		D.Fermi -= e0
	}
}

// Window returns a new DOS containing only the points with energy in [emin, emax].
func (D *DOS) Window(emin, emax float64) *DOS {
	lo, hi := -1, -1
	for i, e := range D.E {
		if e >= emin && lo < 0 {
			lo = i
		}
		if e <= emax {
			hi = i
		}
	}
	ret := &DOS{Fermi: D.Fermi, HasFermi: D.HasFermi}
	if lo < 0 || hi < lo {
		return ret
	}
	cut := func(s []float64) []float64 {
		if s == nil {
			return nil
		}
		return append([]float64(nil), s[lo:hi+1]...)
	}
	ret.E = cut(D.E)
	ret.Up = cut(D.Up)
	ret.Down = cut(D.Down)
	ret.Int = cut(D.Int)
	return ret
}

// Max returns the largest value of the total DOS.
func (D *DOS) Max() float64 {
	if len(D.Up) == 0 {
		return 0
	}
	return floats.Max(D.Total())
}

// Integrate returns the integral of the total DOS from the lowest energy up to emax,
// using the trapezoidal rule. The DOS is interpolated linearly between the last grid
// point below emax and the next one.
func (D *DOS) Integrate(emax float64) float64 {
	total := D.Total()
	n := 0
	for n < len(D.E) && D.E[n] <= emax {
		n++
	}
	if n == 0 {
		return 0
	}
	var ret float64
	if n >= 2 {
		ret = integrate.Trapezoidal(D.E[:n], total[:n])
	}
	if n < len(D.E) && emax > D.E[n-1] {
		x0, x1 := D.E[n-1], D.E[n]
		y0 := total[n-1]
		y := y0 + (total[n]-y0)*(emax-x0)/(x1-x0)
		ret += (emax - x0) * (y0 + y) / 2
	}
	return ret
}

// Smooth returns a copy of the DOS broadened with a Gaussian of standard deviation sigma (eV).
// The energy grid is assumed to be uniform. A sigma <= 0 returns an unchanged copy.
func (D *DOS) Smooth(sigma float64) *DOS {
	ret := D.Copy()
	if sigma <= 0 || len(D.E) < 2 {
		return ret
	}
	step := (D.E[len(D.E)-1] - D.E[0]) / float64(len(D.E)-1)
	if step <= 0 {
		return ret
	}
	kernel := gaussianKernel(sigma, step)
	ret.Up = convolve(D.Up, kernel)
	if D.Down != nil {
		ret.Down = convolve(D.Down, kernel)
	}
	return ret
}

// gaussianKernel returns a normalized (sum == 1) discrete Gaussian, sampled with step,
// reaching 4 sigma on each side.
func gaussianKernel(sigma, step float64) []float64 {
	half := int(math.Ceil(4 * sigma / step))
	k := make([]float64, 2*half+1)
	for i := range k {
		x := float64(i-half) * step
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(k), k)
	return k
}

func convolve(data, kernel []float64) []float64 {
	half := len(kernel) / 2
	ret := make([]float64, len(data))
	for i := range data {
		for j, w := range kernel {
			idx := i + j - half
			if idx < 0 || idx >= len(data) {
				continue
			}
			ret[i] += w * data[idx]
		}
	}
	return ret
}

// FromBands computes a DOS from the eigenvalues in B, placing a normalized Gaussian of width
// sigma on each eigenvalue, on a grid with the given step, and averaging over k-points.
// The integral of the result over the whole grid equals the number of bands.
// The k-points are weighted equally, so this is only an approximation for paths.
func FromBands(B *Bands, step, sigma float64) (*DOS, error) {
	if step <= 0 || sigma <= 0 {
		return nil, newError(ErrFormat, 0, "FromBands", "step and sigma must be positive")
	}
	lo, hi := B.Span()
	lo -= 5 * sigma
	hi += 5 * sigma
	n := int(math.Ceil((hi-lo)/step)) + 1
	D := &DOS{E: make([]float64, n), Up: make([]float64, n), Fermi: B.Fermi, HasFermi: B.HasFermi}
	floats.Span(D.E, lo, lo+float64(n-1)*step)
	norm := 1 / (sigma * math.Sqrt(2*math.Pi) * float64(B.NKpoints()))
	raw := B.E.RawMatrix()
	for r := 0; r < raw.Rows; r++ {
		for _, ev := range raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols] {
			first := int(math.Max(0, math.Floor((ev-lo-5*sigma)/step)))
			last := int(math.Min(float64(n-1), math.Ceil((ev-lo+5*sigma)/step)))
			for i := first; i <= last; i++ {
				x := D.E[i] - ev
				D.Up[i] += norm * math.Exp(-x*x/(2*sigma*sigma))
			}
		}
	}
	return D, nil
}

var efermiHeader = regexp.MustCompile(`EFermi\s*=\s*([-+0-9.eE]+)`)

// ReadDOS reads a DOS from the output of dos.x, or the pdos_tot file from projwfc.x.
func ReadDOS(name string) (*DOS, error) {
	return readWith(name, "ReadDOS", ParseDOS)
}

// ParseDOS parses a DOS in the format of dos.x. The header line gives the
// meaning of the columns, and the Fermi energy, if present:
//
//	#  E (eV)   dos(E)     Int dos(E) EFermi =    6.885 eV
//	#  E (eV)  dosup(E)   dosdw(E)  Int dos(E) EFermi =    6.885 eV
//
// The pdos_tot files from projwfc.x, with dos(E) and pdos(E) columns (or their up/dw
// versions) are also accepted. In that case Up and Down hold the DOS, and the projected
// DOS is discarded.
func ParseDOS(r io.Reader) (*DOS, error) {
	D := new(DOS)
	cols := dosColumns{energy: 0, up: 1, down: -1, integ: -1}
	s := bufio.NewScanner(r)
	var ln int
	for s.Scan() {
		ln++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if m := efermiHeader.FindStringSubmatch(line); m != nil {
				ef, err := strconv.ParseFloat(m[1], 64)
				if err != nil {
					return nil, newError(ErrFormat, ln, "ParseDOS", "can't read Fermi energy %q", m[1])
				}
				D.Fermi = ef
				D.HasFermi = true
			}
			if strings.Contains(line, "(E)") {
				cols = parseDOSHeader(line)
			}
			continue
		}
		fields := splitFields(line)
		if len(fields) <= cols.max() {
			return nil, newError(ErrFormat, ln, "ParseDOS", "expected at least %d columns, found %d", cols.max()+1, len(fields))
		}
		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, newError(ErrFormat, ln, "ParseDOS", "can't read number %q", f)
			}
			vals[i] = v
		}
		D.E = append(D.E, vals[cols.energy])
		D.Up = append(D.Up, vals[cols.up])
		if cols.down >= 0 {
			D.Down = append(D.Down, vals[cols.down])
		}
		if cols.integ >= 0 {
			D.Int = append(D.Int, vals[cols.integ])
		}
	}
	if err := s.Err(); err != nil {
		return nil, newError(err, ln, "ParseDOS", "read failed")
	}
	if len(D.E) == 0 {
		return nil, newError(ErrNoData, ln, "ParseDOS", "no DOS data found")
	}
	return D, nil
}

type dosColumns struct {
	energy, up, down, integ int
}

func (c dosColumns) max() int {
	m := c.energy
	for _, v := range []int{c.up, c.down, c.integ} {
		if v > m {
			m = v
		}
	}
	return m
}

// parseDOSHeader finds the meaning of each column from the header. Column names end with "(E)",
// except the energy, which is always the first column.
func parseDOSHeader(line string) dosColumns {
	c := dosColumns{energy: 0, up: 1, down: -1, integ: -1}
	names := headerColumns(line)
	for i, n := range names {
		switch {
		case n == "dos(E)" || n == "dosup(E)" || n == "ldos(E)" || n == "ldosup(E)":
			c.up = i
		case n == "dosdw(E)" || n == "ldosdw(E)":
			c.down = i
		case n == "Int dos(E)":
			c.integ = i
		}
	}
	return c
}

// headerColumns returns the names of the columns of a dos.x or projwfc.x header.
// The first column (energy) is always named "E". "Int dos(E)" is kept as one name.
func headerColumns(line string) []string {
	line = strings.TrimLeft(line, "# ")
	if i := strings.Index(line, "EFermi"); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	ret := []string{"E"}
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if !strings.HasSuffix(f, "(E)") {
			if f == "Int" && i+1 < len(fields) {
				ret = append(ret, "Int "+fields[i+1])
				i++
			}
			continue
		}
		ret = append(ret, f)
	}
	return ret
}
