package sink

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	arrowLength = 10 // arrowhead length at stroke width 2
	arrowSpread = 0.5
	dashOn      = 6
	dashOff     = 4
)

// parseColor parses #RGB and #RRGGBB colours.
func parseColor(s string) (color.NRGBA, bool) {
	if len(s) == 0 || s[0] != '#' {
		return color.NRGBA{}, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

// arrowHead returns the triangle drawn at the end of a line from 'from' to
// 'to'. It reports false for zero-length lines.
func arrowHead(from, to r2.Vec, width float64) ([3]r2.Vec, bool) {
	d := r2.Sub(to, from)
	n := r2.Norm(d)
	if n < 1e-6 {
		return [3]r2.Vec{}, false
	}
	u := r2.Scale(1/n, d)
	size := arrowLength * math.Max(width, 1) / 2
	base := r2.Sub(to, r2.Scale(size, u))
	perp := r2.Vec{X: -u.Y, Y: u.X}
	side := r2.Scale(size*arrowSpread, perp)
	return [3]r2.Vec{to, r2.Add(base, side), r2.Sub(base, side)}, true
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
