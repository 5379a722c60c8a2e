/*
 * options.go, part of qeplotter.
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
	"image/color"

	"gonum.org/v1/plot/vg"
)

// Options controls the looks of the plots. The zero value is usable, but DefaultOptions
// gives nicer results.
type Options struct {
	Title string
	//Energy window. If EMin >= EMax, the range is taken from the data.
	EMin, EMax float64
	//EnergyLabel is the label of the energy axis.
	EnergyLabel string
	//ShowFermi draws a dashed line at the Fermi energy, if known.
	ShowFermi bool
	//LineWidth in points.
	LineWidth float64
	//Color for band lines and the total DOS. Nil means black.
	Color color.Color
	//DownColor is used for the spin-down channel. Nil means red.
	DownColor color.Color
	//Fill fills the area under DOS curves.
	Fill bool
	//Horizontal puts the energy in the Y axis of DOS plots, so they can be placed beside band structures.
	Horizontal bool
	Legend     bool
	//DOSMax is the maximum of the DOS axis. If <= 0, it's taken from the data.
	DOSMax float64
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		EnergyLabel: "E (eV)",
		ShowFermi:   true,
		LineWidth:   1.2,
		Color:       black,
		DownColor:   red,
		Legend:      true,
	}
}

func (o Options) window() bool {
	return o.EMin < o.EMax
}

func (o Options) width() vg.Length {
	if o.LineWidth <= 0 {
		return vg.Points(1)
	}
	return vg.Points(o.LineWidth)
}

func (o Options) color() color.Color {
	if o.Color == nil {
		return black
	}
	return o.Color
}

func (o Options) downColor() color.Color {
	if o.DownColor == nil {
		return red
	}
	return o.DownColor
}

func (o Options) energyLabel() string {
	if o.EnergyLabel == "" {
		return "E (eV)"
	}
	return o.EnergyLabel
}
