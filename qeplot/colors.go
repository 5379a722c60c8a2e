/*
 * colors.go, part of qeplotter.
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
	"math"

	"gonum.org/v1/plot/palette"
)

// hsv returns the opaque color with hue h (degrees), value v and saturation s (0-1).
func hsv(h, v, s float64) color.RGBA {
	c := palette.HSVA{H: math.Mod(h, 360) / 360, S: s, V: v, A: 1}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// Palette returns the color for the element key out of steps, going around the hue wheel
// and skipping the yellows, which are hard to see on white.
func Palette(key, steps int) color.RGBA {
	if steps < 1 {
		steps = 1
	}
	norm := 300.0 / float64(steps)
	hp := float64(key)*norm + 20.0
	var h float64
	if hp < 45 {
		h = hp - 20.0
	} else {
		h = hp + 30.0
	}
	return hsv(h, 0.85, 0.9)
}

// Fade returns c with its alpha set to a (0-1). The color components are premultiplied,
// as image/color requires.
func Fade(c color.Color, a float64) color.RGBA {
	r, g, b, _ := c.RGBA()
	alpha := math.Max(0, math.Min(1, a))
	return color.RGBA{
		R: uint8(float64(r>>8) * alpha),
		G: uint8(float64(g>>8) * alpha),
		B: uint8(float64(b>>8) * alpha),
		A: uint8(255 * alpha),
	}
}

var (
	black = color.RGBA{A: 255}
	gray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	red   = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	blue  = color.RGBA{R: 30, G: 60, B: 200, A: 255}
)

// ParseColor reads a color in the #rrggbb or #rgb format, or one of a few names.
func ParseColor(s string) (color.RGBA, bool) {
	switch s {
	case "black":
		return black, true
	case "gray", "grey":
		return gray, true
	case "red":
		return red, true
	case "blue":
		return blue, true
	}
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, false
	}
	var v [3]uint8
	for i := range v {
		hi, ok1 := hexDigit(hex[2*i])
		lo, ok2 := hexDigit(hex[2*i+1])
		if !ok1 || !ok2 {
			return color.RGBA{}, false
		}
		v[i] = hi<<4 | lo
	}
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: 255}, true
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
