/*
 * pdos.go, part of qeplotter.
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
	"context"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// PDOSChannel is the DOS projected on one atomic wavefunction of one atom, as written
// by projwfc.x in a file such as "si.pdos_atm#1(Si)_wfc#2(p)".
type PDOSChannel struct {
	File    string
	Atom    int    //1-based, as in the file name
	Element string //as in the file name
	Wfc     int
	Orbital string  //s, p, d or f
	J       float64 //total angular momentum in spin-orbit calculations, 0 otherwise.
	//LDOS holds the sum over the magnetic quantum numbers, with its Fermi level unset.
	LDOS *DOS
	//M holds the m-resolved components, in the order of the file, named as in MNames.
	M      [][]float64
	MNames []string
}

var pdosName = regexp.MustCompile(`pdos_atm#(\d+)\(([^)]+)\)_wfc#(\d+)\(([spdf])(?:_j([0-9.]+))?\)$`)

// ParsePDOSName decodes the name of a projwfc.x file (without directory) into a channel
// with no data. Compression extensions are ignored.
func ParsePDOSName(name string) (*PDOSChannel, error) {
	base := BaseName(name)
	m := pdosName.FindStringSubmatch(base)
	if m == nil {
		return nil, newError(ErrFormat, 0, "ParsePDOSName", "%q is not a projwfc.x PDOS file name", base)
	}
	c := &PDOSChannel{File: name, Element: m[2], Orbital: m[4]}
	c.Atom, _ = strconv.Atoi(m[1])
	c.Wfc, _ = strconv.Atoi(m[3])
	if m[5] != "" {
		j, err := strconv.ParseFloat(m[5], 64)
		if err != nil {
			return nil, newError(ErrFormat, 0, "ParsePDOSName", "can't read j value %q", m[5])
		}
		c.J = j
	}
	return c, nil
}

// Label returns a short name for the channel, as "Si1-p" or "Pt2-d5/2".
func (c *PDOSChannel) Label() string {
	if c.J == 0 {
		return fmt.Sprintf("%s%d-%s", c.Element, c.Atom, c.Orbital)
	}
	return fmt.Sprintf("%s%d-%s%d/2", c.Element, c.Atom, c.Orbital, int(math.Round(2*c.J)))
}

// ReadPDOSFile reads a single projwfc.x PDOS file. Its name must follow the projwfc.x convention.
func ReadPDOSFile(name string) (*PDOSChannel, error) {
	c, err := ParsePDOSName(name)
	if err != nil {
		return nil, errFile(err, name, "ReadPDOSFile")
	}
	return readWith(name, "ReadPDOSFile", func(r io.Reader) (*PDOSChannel, error) {
		if err := c.parse(r); err != nil {
			return nil, err
		}
		return c, nil
	})
}

// parse fills the channel with the data in r. The header gives the columns:
//
//	#E (eV)  ldos(E)   pz(E)    px(E)    py(E)
//	#E (eV)  ldosup(E) ldosdw(E) pdos1up(E) pdos1dw(E) ...
func (c *PDOSChannel) parse(r io.Reader) error {
	var names []string
	ldosUp, ldosDown := 1, -1
	c.LDOS = new(DOS)
	s := bufio.NewScanner(r)
	var ln int
	for s.Scan() {
		ln++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			names = headerColumns(line)
			for i, n := range names {
				switch n {
				case "ldos(E)", "ldosup(E)":
					ldosUp = i
				case "ldosdw(E)":
					ldosDown = i
				}
			}
			continue
		}
		fields := splitFields(line)
		if names == nil {
			//no header. Energy, ldos, and whatever is left is m-resolved.
			names = make([]string, len(fields))
			names[0], names[1] = "E", "ldos(E)"
			for i := 2; i < len(fields); i++ {
				names[i] = fmt.Sprintf("pdos%d(E)", i-1)
			}
		}
		if len(fields) != len(names) {
			return newError(ErrFormat, ln, "PDOSChannel.parse", "expected %d columns, found %d", len(names), len(fields))
		}
		if c.M == nil {
			for i, n := range names {
				if i != 0 && i != ldosUp && i != ldosDown {
					c.MNames = append(c.MNames, strings.TrimSuffix(n, "(E)"))
				}
			}
			c.M = make([][]float64, len(c.MNames))
		}
		m := 0
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return newError(ErrFormat, ln, "PDOSChannel.parse", "can't read number %q", f)
			}
			switch i {
			case 0:
				c.LDOS.E = append(c.LDOS.E, v)
			case ldosUp:
				c.LDOS.Up = append(c.LDOS.Up, v)
			case ldosDown:
				c.LDOS.Down = append(c.LDOS.Down, v)
			default:
				c.M[m] = append(c.M[m], v)
				m++
			}
		}
	}
	if err := s.Err(); err != nil {
		return newError(err, ln, "PDOSChannel.parse", "read failed")
	}
	if len(c.LDOS.E) == 0 {
		return newError(ErrNoData, ln, "PDOSChannel.parse", "no PDOS data found")
	}
	return nil
}

// PDOSSet is a set of projected DOS channels that share an energy grid.
type PDOSSet struct {
	Channels []*PDOSChannel
	Fermi    float64
	HasFermi bool
}

// ReadPDOSDir reads all the projwfc.x PDOS files in dir whose names start with prefix
// (any prefix if empty). Files are read concurrently. Channels are sorted by atom and
// then by wavefunction index. All the channels must share the energy grid.
func ReadPDOSDir(ctx context.Context, dir, prefix string) (*PDOSSet, error) {
	pattern := "*"
	if prefix != "" {
		pattern = prefix + ".*"
	}
	names, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, newError(err, 0, "ReadPDOSDir", "bad prefix %q", prefix)
	}
	files := make([]string, 0, len(names))
	for _, n := range names {
		if pdosName.MatchString(BaseName(n)) {
			files = append(files, n)
		}
	}
	if len(files) == 0 {
		return nil, newError(ErrNoData, 0, "ReadPDOSDir", "no PDOS files in %s with prefix %q", dir, prefix)
	}
	channels := make([]*PDOSChannel, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := ReadPDOSFile(name)
			if err != nil {
				return err
			}
			channels[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errDecorate(err, "ReadPDOSDir")
	}
	log.Debug().Int("files", len(files)).Str("dir", dir).Msg("PDOS files read")
	S, err := NewPDOSSet(channels)
	if err != nil {
		return nil, errDecorate(err, "ReadPDOSDir")
	}
	return S, nil
}

// NewPDOSSet builds a set from the given channels, checking that they share an energy grid
// and a spin treatment. The channels are sorted by atom and wavefunction.
func NewPDOSSet(channels []*PDOSChannel) (*PDOSSet, error) {
	if len(channels) == 0 {
		return nil, newError(ErrNoData, 0, "NewPDOSSet", "no channels")
	}
	sort.SliceStable(channels, func(i, j int) bool {
		if channels[i].Atom != channels[j].Atom {
			return channels[i].Atom < channels[j].Atom
		}
		return channels[i].Wfc < channels[j].Wfc
	})
	ref := channels[0].LDOS
	for _, c := range channels[1:] {
		if c.LDOS.Spin() != ref.Spin() {
			return nil, newError(ErrMismatch, 0, "NewPDOSSet", "%s and %s differ in spin", channels[0].File, c.File)
		}
		if len(c.LDOS.E) != len(ref.E) || !floats.EqualApprox(c.LDOS.E, ref.E, 1e-6) {
			return nil, newError(ErrMismatch, 0, "NewPDOSSet", "%s and %s have different energy grids", channels[0].File, c.File)
		}
	}
	return &PDOSSet{Channels: channels}, nil
}

// E returns the energy grid shared by all channels.
func (S *PDOSSet) E() []float64 {
	return S.Channels[0].LDOS.E
}

// SetFermi sets the Fermi energy of the set.
func (S *PDOSSet) SetFermi(ef float64) {
	S.Fermi = ef
	S.HasFermi = true
}

// Shift subtracts e0 from the energies of all channels, and from the Fermi energy.
func (S *PDOSSet) Shift(e0 float64) {
	for _, c := range S.Channels {
		c.LDOS.Shift(e0)
	}
	if S.HasFermi {
		S.Fermi -= e0
	}
}

// GroupBy indicates how to put together the channels of a PDOSSet
type GroupBy int

const (
	ByElement GroupBy = iota
	ByOrbital         //element and orbital, as "Si-p"
	ByAtom            //atom index and element, as "Si1"
	ByChannel         //no grouping
)

func (g GroupBy) String() string {
	switch g {
	case ByElement:
		return "element"
	case ByOrbital:
		return "orbital"
	case ByAtom:
		return "atom"
	case ByChannel:
		return "channel"
	}
	return fmt.Sprintf("GroupBy(%d)", int(g))
}

// ParseGroupBy is the inverse of GroupBy.String.
func ParseGroupBy(s string) (GroupBy, error) {
	for _, g := range []GroupBy{ByElement, ByOrbital, ByAtom, ByChannel} {
		if strings.EqualFold(s, g.String()) {
			return g, nil
		}
	}
	return ByElement, newError(ErrFormat, 0, "ParseGroupBy", "unknown grouping %q", s)
}

func (g GroupBy) key(c *PDOSChannel) string {
	switch g {
	case ByOrbital:
		return c.Element + "-" + c.Orbital
	case ByAtom:
		return fmt.Sprintf("%s%d", c.Element, c.Atom)
	case ByChannel:
		return c.Label()
	}
	return c.Element
}

// PDOSGroup is the sum of several PDOS channels.
type PDOSGroup struct {
	Name string
	DOS  *DOS
}

// Group sums the channels according to by. Groups are returned in the order in which they
// first appear among the (sorted) channels. Each group's DOS carries the Fermi energy of the set.
func (S *PDOSSet) Group(by GroupBy) []PDOSGroup {
	ret := make([]PDOSGroup, 0, 8)
	index := make(map[string]int)
	for _, c := range S.Channels {
		k := by.key(c)
		i, ok := index[k]
		if !ok {
			d := &DOS{
				E:        append([]float64(nil), c.LDOS.E...),
				Up:       make([]float64, len(c.LDOS.E)),
				Fermi:    S.Fermi,
				HasFermi: S.HasFermi,
			}
			if c.LDOS.Spin() {
				d.Down = make([]float64, len(c.LDOS.E))
			}
			ret = append(ret, PDOSGroup{Name: k, DOS: d})
			i = len(ret) - 1
			index[k] = i
		}
		floats.Add(ret[i].DOS.Up, c.LDOS.Up)
		if c.LDOS.Spin() {
			floats.Add(ret[i].DOS.Down, c.LDOS.Down)
		}
	}
	return ret
}

// Sum returns the sum of all channels.
func (S *PDOSSet) Sum() *DOS {
	d := &DOS{
		E:        append([]float64(nil), S.E()...),
		Up:       make([]float64, len(S.E())),
		Fermi:    S.Fermi,
		HasFermi: S.HasFermi,
	}
	if S.Channels[0].LDOS.Spin() {
		d.Down = make([]float64, len(S.E()))
	}
	for _, c := range S.Channels {
		floats.Add(d.Up, c.LDOS.Up)
		if d.Down != nil {
			floats.Add(d.Down, c.LDOS.Down)
		}
	}
	return d
}

// Select returns a new set with the channels for which keep returns true.
func (S *PDOSSet) Select(keep func(*PDOSChannel) bool) (*PDOSSet, error) {
	sel := make([]*PDOSChannel, 0, len(S.Channels))
	for _, c := range S.Channels {
		if keep(c) {
			sel = append(sel, c)
		}
	}
	if len(sel) == 0 {
		return nil, newError(ErrNoData, 0, "PDOSSet.Select", "no channel selected")
	}
	return &PDOSSet{Channels: sel, Fermi: S.Fermi, HasFermi: S.HasFermi}, nil
}

// Elements returns the elements present in the set, in order of appearance.
func (S *PDOSSet) Elements() []string {
	ret := make([]string, 0, 4)
	for _, c := range S.Channels {
		if !isInString(ret, c.Element) {
			ret = append(ret, c.Element)
		}
	}
	return ret
}

// isInString returns true if test is in container, false otherwise.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
