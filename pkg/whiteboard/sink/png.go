package sink

import (
	"bytes"
	"image"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
	faces map[faceKey]font.Face
}

type faceKey struct {
	size       float64
	bold, mono bool
}

// WithScale sets the PNG scale factor (default 1). Use 2 for high-DPI output.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

type fontSet struct {
	regular, bold, mono *truetype.Font
}

var loadFonts = sync.OnceValues(func() (fontSet, error) {
	var fs fontSet
	var err error
	if fs.regular, err = truetype.Parse(goregular.TTF); err != nil {
		return fs, err
	}
	if fs.bold, err = truetype.Parse(gobold.TTF); err != nil {
		return fs, err
	}
	fs.mono, err = truetype.Parse(gomono.TTF)
	return fs, err
})

// RenderPNG rasterises the frame with the Go fonts.
func RenderPNG(f display.Frame, opts ...PNGOption) ([]byte, error) {
	img, err := RenderImage(f, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RenderImage rasterises the frame into an image. The desktop editor paints
// it directly.
func RenderImage(f display.Frame, opts ...PNGOption) (image.Image, error) {
	r := pngRenderer{scale: 1, faces: make(map[faceKey]font.Face)}
	for _, opt := range opts {
		opt(&r)
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "load fonts")
	}

	w, h := int(f.Width*r.scale+0.5), int(f.Height*r.scale+0.5)
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "empty frame %gx%g", f.Width, f.Height)
	}
	dc := gg.NewContext(w, h)
	if c, ok := parseColor(f.Background); ok {
		dc.SetColor(c)
		dc.Clear()
	}

	for _, op := range f.Ops {
		r.draw(dc, fonts, op)
	}
	return dc.Image(), nil
}

func (r *pngRenderer) draw(dc *gg.Context, fonts fontSet, op display.Op) {
	s := r.scale
	switch o := op.(type) {
	case *display.Rect:
		size := o.Box.Size()
		path := func() {
			x, y, w, h := o.Box.Min.X*s, o.Box.Min.Y*s, size.X*s, size.Y*s
			if o.Radius > 0 {
				dc.DrawRoundedRectangle(x, y, w, h, o.Radius*s)
			} else {
				dc.DrawRectangle(x, y, w, h)
			}
		}
		if setColor(dc, o.Fill, o.Alpha()) {
			path()
			dc.Fill()
		}
		if r.setStroke(dc, o.Style) {
			path()
			dc.Stroke()
			dc.SetDash()
		}

	case *display.Line:
		if r.setStroke(dc, o.Style) {
			dc.DrawLine(o.From.X*s, o.From.Y*s, o.To.X*s, o.To.Y*s)
			dc.Stroke()
			dc.SetDash()
		}
		if head, ok := arrowHead(o.From, o.To, o.StrokeWidth); o.Arrowhead && ok && setColor(dc, o.Stroke, o.Alpha()) {
			dc.MoveTo(head[0].X*s, head[0].Y*s)
			dc.LineTo(head[1].X*s, head[1].Y*s)
			dc.LineTo(head[2].X*s, head[2].Y*s)
			dc.ClosePath()
			dc.Fill()
		}

	case *display.Polyline:
		if len(o.Points) < 2 || !r.setStroke(dc, o.Style) {
			return
		}
		dc.SetLineCapRound()
		dc.SetLineJoinRound()
		dc.MoveTo(o.Points[0].X*s, o.Points[0].Y*s)
		for _, p := range o.Points[1:] {
			dc.LineTo(p.X*s, p.Y*s)
		}
		dc.Stroke()
		dc.SetDash()

	case *display.Text:
		if o.Size <= 0 || !setColor(dc, o.Color, 1) {
			return
		}
		dc.SetFontFace(r.face(fonts, faceKey{size: o.Size * s, bold: o.Bold, mono: o.Mono}))
		dc.DrawString(o.Value, o.Pos.X*s, (o.Pos.Y+o.Size)*s)
	}
}

func (r *pngRenderer) setStroke(dc *gg.Context, st display.Style) bool {
	if st.StrokeWidth <= 0 || !setColor(dc, st.Stroke, st.Alpha()) {
		return false
	}
	dc.SetLineWidth(st.StrokeWidth * r.scale)
	if st.Dashed {
		dc.SetDash(dashOn*r.scale, dashOff*r.scale)
	}
	return true
}

func (r *pngRenderer) face(fonts fontSet, k faceKey) font.Face {
	if f, ok := r.faces[k]; ok {
		return f
	}
	ttf := fonts.regular
	switch {
	case k.mono:
		ttf = fonts.mono
	case k.bold:
		ttf = fonts.bold
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: k.size, DPI: 72, Hinting: font.HintingFull})
	r.faces[k] = f
	return f
}

func setColor(dc *gg.Context, hex string, alpha float64) bool {
	c, ok := parseColor(hex)
	if !ok {
		return false
	}
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(alpha*255+0.5))
	return true
}
