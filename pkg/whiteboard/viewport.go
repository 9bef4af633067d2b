package whiteboard

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Zoom limits and step factors.
const (
	MinZoom     = 0.1
	MaxZoom     = 3.0
	DefaultZoom = 1.0

	// WheelZoomIn and WheelZoomOut are applied per wheel tick.
	WheelZoomIn  = 1.1
	WheelZoomOut = 0.9

	// ButtonZoomStep is the toolbar zoom-in factor; zoom-out divides by it.
	ButtonZoomStep = 1.2
)

// ScreenToLogical converts a screen point to logical canvas coordinates.
func ScreenToLogical(screen, pan r2.Vec, zoom float64) r2.Vec {
	return r2.Scale(1/zoom, r2.Sub(screen, pan))
}

// LogicalToScreen converts a logical canvas point to screen coordinates.
func LogicalToScreen(logical, pan r2.Vec, zoom float64) r2.Vec {
	return r2.Add(r2.Scale(zoom, logical), pan)
}

// ClampZoom limits z to [MinZoom, MaxZoom]. NaN maps to DefaultZoom.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return DefaultZoom
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Viewport is the mapping between screen and logical coordinates:
//
//	screen = pan + logical*zoom
//
// The zero value is not usable; start from NewViewport.
type Viewport struct {
	Zoom float64
	Pan  r2.Vec
}

// NewViewport returns the identity viewport.
func NewViewport() Viewport {
	return Viewport{Zoom: DefaultZoom}
}

// ToLogical maps a screen point through the viewport.
func (v Viewport) ToLogical(screen r2.Vec) r2.Vec {
	return ScreenToLogical(screen, v.Pan, v.Zoom)
}

// ToScreen maps a logical point through the viewport.
func (v Viewport) ToScreen(logical r2.Vec) r2.Vec {
	return LogicalToScreen(logical, v.Pan, v.Zoom)
}

// SetZoom stores z clamped to the allowed range.
func (v *Viewport) SetZoom(z float64) {
	v.Zoom = ClampZoom(z)
}

// PanBy adds delta to the pan offset. Pan is unconstrained.
func (v *Viewport) PanBy(delta r2.Vec) {
	v.Pan = r2.Add(v.Pan, delta)
}

// Wheel applies one wheel tick. Negative deltaY zooms in, positive zooms
// out, zero is ignored. Zoom is anchored at the canvas origin, so pan is
// left untouched.
func (v *Viewport) Wheel(deltaY float64) {
	switch {
	case deltaY < 0:
		v.SetZoom(v.Zoom * WheelZoomIn)
	case deltaY > 0:
		v.SetZoom(v.Zoom * WheelZoomOut)
	}
}

// ZoomIn applies the toolbar zoom-in step.
func (v *Viewport) ZoomIn() {
	v.SetZoom(v.Zoom * ButtonZoomStep)
}

// ZoomOut applies the toolbar zoom-out step.
func (v *Viewport) ZoomOut() {
	v.SetZoom(v.Zoom / ButtonZoomStep)
}

// Reset restores zoom 1 and pan (0,0).
func (v *Viewport) Reset() {
	*v = NewViewport()
}

// Percent returns the zoom as a rounded percentage, as shown by the zoom
// indicator.
func (v Viewport) Percent() int {
	return int(math.Round(v.Zoom * 100))
}

// VisibleArea returns the logical rectangle shown on a canvas of the given
// screen size.
func (v Viewport) VisibleArea(size r2.Vec) r2.Box {
	lo := v.ToLogical(r2.Vec{})
	hi := v.ToLogical(size)
	return r2.NewBox(lo.X, lo.Y, hi.X, hi.Y)
}
