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

package qeplot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	qe "github.com/shubics/qeplotter"
)

// curve returns the points for a DOS curve, with energy in X (or Y if horizontal).
// The values are multiplied by sign.
func curve(e, v []float64, sign float64, horizontal bool) plotter.XYs {
	pts := make(plotter.XYs, len(e))
	for i := range e {
		if horizontal {
			pts[i].X, pts[i].Y = sign*v[i], e[i]
		} else {
			pts[i].X, pts[i].Y = e[i], sign*v[i]
		}
	}
	return pts
}

// area closes a curve against the zero line, for filling.
func area(pts plotter.XYs, horizontal bool) plotter.XYs {
	if len(pts) == 0 {
		return pts
	}
	ret := make(plotter.XYs, 0, len(pts)+2)
	ret = append(ret, pts...)
	last, first := pts[len(pts)-1], pts[0]
	if horizontal {
		ret = append(ret, plotter.XY{X: 0, Y: last.Y}, plotter.XY{X: 0, Y: first.Y})
	} else {
		ret = append(ret, plotter.XY{X: last.X, Y: 0}, plotter.XY{X: first.X, Y: 0})
	}
	return ret
}

// addDOS adds the curves of d to p, with color c. Spin down, if present, is drawn with negative values.
// Returns the plotter of the first curve, for legends.
func addDOS(p *plot.Plot, o Options, d *qe.DOS, c color.Color) (*plotter.Line, error) {
	var first *plotter.Line
	channels := [][]float64{d.Up}
	if d.Spin() {
		channels = append(channels, d.Down)
	}
	for i, ch := range channels {
		sign := 1.0
		if i == 1 {
			sign = -1
		}
		pts := curve(d.E, ch, sign, o.Horizontal)
		if o.Fill {
			poly, err := plotter.NewPolygon(area(pts, o.Horizontal))
			if err != nil {
				return nil, err
			}
			poly.Color = Fade(c, 0.3)
			poly.LineStyle.Width = 0
			p.Add(poly)
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Width = o.width()
		l.LineStyle.Color = c
		p.Add(l)
		if first == nil {
			first = l
		}
	}
	return first, nil
}

// setDOSAxes sets the ranges and labels of a DOS plot. dmax is the largest DOS value,
// spin indicates that negative values are needed.
func setDOSAxes(p *plot.Plot, o Options, e []float64, dmax float64, spin bool) {
	emin, emax := floats.Min(e), floats.Max(e)
	if o.window() {
		emin, emax = o.EMin, o.EMax
	}
	if o.DOSMax > 0 {
		dmax = o.DOSMax
	} else {
		dmax *= 1.05
	}
	dmin := 0.0
	if spin {
		dmin = -dmax
	}
	energy, dos := &p.X, &p.Y
	if o.Horizontal {
		energy, dos = &p.Y, &p.X
	}
	energy.Min, energy.Max = emin, emax
	energy.Label.Text = o.energyLabel()
	dos.Min, dos.Max = dmin, dmax
	dos.Label.Text = "DOS (states/eV)"
}

// maxIn returns the largest value of the given channels, within the energy window if there is one.
func maxIn(o Options, ds ...*qe.DOS) float64 {
	var m float64
	for _, d := range ds {
		w := d
		if o.window() {
			w = d.Window(o.EMin, o.EMax)
		}
		for _, ch := range [][]float64{w.Up, w.Down} {
			if len(ch) > 0 {
				m = math.Max(m, floats.Max(ch))
			}
		}
	}
	if m == 0 {
		m = 1
	}
	return m
}

// DOS returns a plot of the density of states d.
func DOS(o Options, d *qe.DOS) (*plot.Plot, error) {
	if d == nil || d.Len() == 0 {
		return nil, fmt.Errorf("qeplot.DOS: empty DOS")
	}
	p := basicPlot(o.Title)
	if _, err := addDOS(p, o, d, o.color()); err != nil {
		return nil, err
	}
	setDOSAxes(p, o, d.E, maxIn(o, d), d.Spin())
	if err := fermiDOS(p, o, d); err != nil {
		return nil, err
	}
	return p, nil
}

func fermiDOS(p *plot.Plot, o Options, d *qe.DOS) error {
	if !o.ShowFermi || !d.HasFermi {
		return nil
	}
	energy := p.X
	if o.Horizontal {
		energy = p.Y
	}
	//outside the window, the line would stretch the axis.
	if d.Fermi < energy.Min || d.Fermi > energy.Max {
		return nil
	}
	if o.Horizontal {
		return fermiLine(p, d.Fermi, p.X.Min, p.X.Max, false)
	}
	return fermiLine(p, d.Fermi, p.Y.Min, p.Y.Max, true)
}

// PDOS returns a plot of the projected densities of states in groups, each with its own color
// and legend entry. If total is not nil, it is drawn first, in the main color.
func PDOS(o Options, total *qe.DOS, groups []qe.PDOSGroup) (*plot.Plot, error) {
	if len(groups) == 0 && total == nil {
		return nil, fmt.Errorf("qeplot.PDOS: nothing to plot")
	}
	p := basicPlot(o.Title)
	all := make([]*qe.DOS, 0, len(groups)+1)
	var ref *qe.DOS
	if total != nil {
		l, err := addDOS(p, Options{Horizontal: o.Horizontal, LineWidth: o.LineWidth}, total, o.color())
		if err != nil {
			return nil, err
		}
		if o.Legend {
			p.Legend.Add("total", l)
		}
		all = append(all, total)
		ref = total
	}
	for i, g := range groups {
		l, err := addDOS(p, o, g.DOS, Palette(i, len(groups)))
		if err != nil {
			return nil, err
		}
		if o.Legend {
			p.Legend.Add(g.Name, l)
		}
		all = append(all, g.DOS)
		if ref == nil {
			ref = g.DOS
		}
	}
	setDOSAxes(p, o, ref.E, maxIn(o, all...), ref.Spin())
	if err := fermiDOS(p, o, ref); err != nil {
		return nil, err
	}
	p.Legend.Top = true
	return p, nil
}
