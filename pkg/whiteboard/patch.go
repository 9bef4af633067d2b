package whiteboard

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/visualnotes/visualnotes/pkg/errors"
)

// Patch is a partial set of element fields, as sent by the properties
// panel. Nil fields are left unchanged. Fields that do not apply to the
// element's kind are ignored.
//
// For paths and arrows, X and Y move the whole geometry and Width and
// Height are ignored.
type Patch struct {
	X, Y          *float64
	Width, Height *float64

	Title       *string   // card
	Description *string   // card
	Tags        *[]string // card
	Text        *string   // sticky, text
	Color       *string   // sticky, path, arrow
	FontSize    *float64  // text
	FontWeight  *string   // text
	StrokeWidth *float64  // path, arrow

	X1, Y1, X2, Y2 *float64 // arrow
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v, for building patches.
func String(v string) *string { return &v }

// Strings returns a pointer to a copy of v, for building patches.
func Strings(v ...string) *[]string {
	cp := append([]string{}, v...)
	return &cp
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Validate checks the values carried by p, independent of the target kind.
func (p Patch) Validate() error {
	for name, v := range map[string]*float64{"x": p.X, "y": p.Y, "x1": p.X1, "y1": p.Y1, "x2": p.X2, "y2": p.Y2} {
		if v != nil {
			if err := errors.ValidateCoordinate(name, *v); err != nil {
				return err
			}
		}
	}
	for name, v := range map[string]*float64{"width": p.Width, "height": p.Height, "fontSize": p.FontSize, "strokeWidth": p.StrokeWidth} {
		if v != nil {
			if err := errors.ValidateDimension(name, *v); err != nil {
				return err
			}
		}
	}
	if p.Color != nil {
		if err := errors.ValidateColor(*p.Color); err != nil {
			return err
		}
	}
	return nil
}

// apply merges p into e, which must own its content.
func (p Patch) apply(e *Element) {
	switch c := e.Content.(type) {
	case *CardContent:
		setString(&c.Title, p.Title)
		setString(&c.Description, p.Description)
		if p.Tags != nil {
			c.Tags = append([]string{}, (*p.Tags)...)
		}
	case *StickyContent:
		setString(&c.Text, p.Text)
		setString(&c.Color, p.Color)
	case *TextContent:
		setString(&c.Text, p.Text)
		setFloat(&c.FontSize, p.FontSize)
		setString(&c.FontWeight, p.FontWeight)
	case *PathContent:
		setString(&c.Color, p.Color)
		setFloat(&c.StrokeWidth, p.StrokeWidth)
	case *ArrowContent:
		setString(&c.Color, p.Color)
		setFloat(&c.StrokeWidth, p.StrokeWidth)
		setFloat(&c.X1, p.X1)
		setFloat(&c.Y1, p.Y1)
		setFloat(&c.X2, p.X2)
		setFloat(&c.Y2, p.Y2)
	}

	switch e.Content.(type) {
	case *PathContent, *ArrowContent:
		e.syncBounds()
		var delta r2.Vec
		if p.X != nil {
			delta.X = *p.X - e.X
		}
		if p.Y != nil {
			delta.Y = *p.Y - e.Y
		}
		if delta != (r2.Vec{}) {
			e.translate(delta)
		}
	default:
		setFloat(&e.X, p.X)
		setFloat(&e.Y, p.Y)
		setFloat(&e.Width, p.Width)
		setFloat(&e.Height, p.Height)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
