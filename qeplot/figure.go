/*
 * figure.go, part of qeplotter.
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
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	qe "github.com/shubics/qeplotter"
)

// Figure is a band structure with a DOS panel to its right, sharing the energy axis.
type Figure struct {
	Bands *plot.Plot
	DOS   *plot.Plot
	//DOSFraction is the part of the total width taken by the DOS panel.
	DOSFraction float64
}

// BandsDOS builds a Figure from the band structure b, and either a total DOS, a set of PDOS groups,
// or both. If o has no energy window, the range of the bands is used for both panels.
func BandsDOS(o Options, b *qe.Bands, total *qe.DOS, groups []qe.PDOSGroup) (*Figure, error) {
	if b == nil {
		return nil, fmt.Errorf("qeplot.BandsDOS: no band structure given")
	}
	if !o.window() {
		o.EMin, o.EMax = b.Span()
	}
	bp, err := Bands(o, b)
	if err != nil {
		return nil, err
	}
	do := o
	do.Horizontal = true
	do.Title = ""
	if o.Title != "" {
		do.Title = "DOS"
	}
	var dp *plot.Plot
	if len(groups) > 0 {
		dp, err = PDOS(do, total, groups)
	} else {
		dp, err = DOS(do, total)
	}
	if err != nil {
		return nil, err
	}
	dp.HideY()
	dp.Y.Label.Text = ""
	dp.X.Label.Text = ""
	bp.X.Label.Text = ""
	return &Figure{Bands: bp, DOS: dp, DOSFraction: 0.3}, nil
}

// Draw draws the figure on c.
func (F *Figure) Draw(c draw.Canvas) {
	frac := F.DOSFraction
	if frac <= 0 || frac >= 1 {
		frac = 0.3
	}
	w := c.Max.X - c.Min.X
	gap := 2 * vg.Millimeter
	left := draw.Crop(c, 0, -(w*vg.Length(frac) + gap/2), 0, 0)
	right := draw.Crop(c, w*vg.Length(1-frac)+gap/2, 0, 0, 0)
	F.Bands.Draw(left)
	F.DOS.Draw(right)
}

// Save writes the figure to file, with a format given by the extension of the name.
func (F *Figure) Save(w, h vg.Length, name string) error {
	return save(w, h, name, F.Draw)
}

// Save writes a plot to a file. The format is given by the extension of the name:
// png, svg, pdf, eps, jpg, jpeg, tif or tiff.
func Save(p *plot.Plot, w, h vg.Length, name string) error {
	return save(w, h, name, p.Draw)
}

func save(w, h vg.Length, name string, drawer func(draw.Canvas)) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if format == "" {
		return fmt.Errorf("qeplot: no format extension in file name %q", name)
	}
	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return err
	}
	drawer(draw.New(c))
	return writeFile(name, c)
}
