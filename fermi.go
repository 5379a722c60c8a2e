/*
 * fermi.go, part of qeplotter.
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
	"strconv"
	"strings"
)

// Fermi contains the reference energy read from a pw.x output.
// For spin-polarized calculations with two Fermi energies, Up and Down are set
// and Energy is their average. For insulators with fixed occupations, HOMO and
// LUMO (when available) are set, and Energy is the midgap, or the HOMO if there
// is no LUMO.
type Fermi struct {
	Energy   float64
	Up, Down float64
	HOMO     float64
	LUMO     float64
	TwoSpins bool
	HasHOMO  bool
	HasLUMO  bool
}

// ReadFermi reads the Fermi energy from a pw.x output.
func ReadFermi(name string) (Fermi, error) {
	return readWith(name, "ReadFermi", ParseFermi)
}

// ParseFermi scans a pw.x output and returns the last reference energy found.
func ParseFermi(r io.Reader) (Fermi, error) {
	var ret Fermi
	var found bool
	s := bufio.NewScanner(r)
	var ln int
	for s.Scan() {
		ln++
		line := s.Text()
		var f Fermi
		var err error
		switch {
		case strings.Contains(line, "the Fermi energy is"):
			f.Energy, err = firstNumber(line, "is")
		case strings.Contains(line, "Fermi energies are"):
			var v []float64
			v, err = numbersAfter(line, "are", 2)
			if err == nil {
				f.Up, f.Down, f.TwoSpins = v[0], v[1], true
				f.Energy = (v[0] + v[1]) / 2
			}
		case strings.Contains(line, "highest occupied, lowest unoccupied level"):
			var v []float64
			v, err = numbersAfter(line, ":", 2)
			if err == nil {
				f.HOMO, f.LUMO, f.HasHOMO, f.HasLUMO = v[0], v[1], true, true
				f.Energy = (v[0] + v[1]) / 2
			}
		case strings.Contains(line, "highest occupied level"):
			f.HOMO, err = firstNumber(line, ":")
			f.HasHOMO = true
			f.Energy = f.HOMO
		default:
			continue
		}
		if err != nil {
			return ret, newError(err, ln, "ParseFermi", "can't read reference energy")
		}
		ret = f
		found = true
	}
	if err := s.Err(); err != nil {
		return ret, newError(err, ln, "ParseFermi", "read failed")
	}
	if !found {
		return ret, newError(ErrNoFermi, 0, "ParseFermi", "no Fermi energy or HOMO level in output")
	}
	return ret, nil
}

func firstNumber(line, after string) (float64, error) {
	v, err := numbersAfter(line, after, 1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// numbersAfter reads n numbers following the first occurrence of after in line.
func numbersAfter(line, after string, n int) ([]float64, error) {
	i := strings.Index(line, after)
	if i < 0 {
		return nil, ErrFormat
	}
	ret := make([]float64, 0, n)
	for _, f := range splitFields(line[i+len(after):]) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue //units, mostly
		}
		ret = append(ret, v)
		if len(ret) == n {
			return ret, nil
		}
	}
	return nil, ErrFormat
}
