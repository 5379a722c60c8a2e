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

package qeplot

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	qe "github.com/shubics/qeplotter"
)

func basicPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	return p
}

// Bands returns a plot of one or more band structures, which must share the k-path.
// With two band structures (spin up and spin down), the second is drawn dashed, with DownColor.
// The high-symmetry points of the first band structure, if any, are marked with vertical lines
// and used as ticks in the X axis. Only the bands within the energy window are drawn.
func Bands(o Options, bands ...*qe.Bands) (*plot.Plot, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("qeplot.Bands: no band structure given")
	}
	for i, b := range bands {
		if b == nil {
			return nil, fmt.Errorf("qeplot.Bands: band structure %d is nil", i)
		}
	}
	ref := bands[0]
	p := basicPlot(o.Title)
	p.Y.Label.Text = o.energyLabel()
	xmin, xmax := ref.K[0], ref.K[len(ref.K)-1]
	var ymin, ymax float64
	if o.window() {
		ymin, ymax = o.EMin, o.EMax
	} else {
		ymin, ymax = ref.Span()
		for _, b := range bands[1:] {
			lo, hi := b.Span()
			ymin = math.Min(ymin, lo)
			ymax = math.Max(ymax, hi)
		}
	}
	for n, b := range bands {
		if b.NKpoints() != ref.NKpoints() {
			return nil, fmt.Errorf("qeplot.Bands: band structure %d has %d k-points, %d expected", n, b.NKpoints(), ref.NKpoints())
		}
		idx := b.Window(ymin, ymax)
		for i, j := range idx {
			l, err := plotter.NewLine(xys(b.K, b.Band(j)))
			if err != nil {
				return nil, err
			}
			l.LineStyle.Width = o.width()
			l.LineStyle.Color = o.color()
			if n > 0 {
				l.LineStyle.Color = o.downColor()
				l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			}
			p.Add(l)
			if i == 0 && len(bands) > 1 && o.Legend {
				name := "spin up"
				if n > 0 {
					name = "spin down"
				}
				p.Legend.Add(name, l)
			}
		}
	}
	if err := addTicks(p, ref, ymin, ymax); err != nil {
		return nil, err
	}
	if o.ShowFermi && ref.HasFermi {
		if err := fermiLine(p, ref.Fermi, xmin, xmax, false); err != nil {
			return nil, err
		}
	}
	//Add widens the axes to fit the data, so the ranges go last.
	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = ymin, ymax
	p.Legend.Top = true
	return p, nil
}

// addTicks marks the high-symmetry points of b with lines from ymin to ymax. Points that
// coincide (a discontinuity in the path) get a joint label, such as "X|U".
func addTicks(p *plot.Plot, b *qe.Bands, ymin, ymax float64) error {
	if len(b.Ticks) == 0 {
		return nil
	}
	ticks := make([]plot.Tick, 0, len(b.Ticks))
	for _, t := range b.Ticks {
		if n := len(ticks); n > 0 && t.X-ticks[n-1].Value < 1e-5 {
			if t.Label != "" && t.Label != ticks[n-1].Label {
				ticks[n-1].Label += "|" + t.Label
			}
			continue
		}
		ticks = append(ticks, plot.Tick{Value: t.X, Label: t.Label})
		l, err := plotter.NewLine(plotter.XYs{{X: t.X, Y: ymin}, {X: t.X, Y: ymax}})
		if err != nil {
			return err
		}
		l.LineStyle.Width = vg.Points(0.5)
		l.LineStyle.Color = gray
		p.Add(l)
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	return nil
}

// fermiLine draws a dashed line at the Fermi energy ef, spanning from min to max in the other
// axis. If vertical is true, the energy is in the X axis.
func fermiLine(p *plot.Plot, ef, min, max float64, vertical bool) error {
	pts := plotter.XYs{{X: min, Y: ef}, {X: max, Y: ef}}
	if vertical {
		pts = plotter.XYs{{X: ef, Y: min}, {X: ef, Y: max}}
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Width = vg.Points(0.8)
	l.LineStyle.Color = blue
	l.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(l)
	return nil
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}
