package sink

import (
	"bytes"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
)

// pdfEpoch is stamped into every document so equal frames give equal bytes.
var pdfEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	title string
}

// WithPDFTitle sets the document title metadata.
func WithPDFTitle(t string) PDFOption { return func(r *pdfRenderer) { r.title = t } }

// RenderPDF writes the frame as a single-page vector PDF whose page size
// equals the frame size in points. Text uses the core Helvetica and Courier
// fonts.
func RenderPDF(f display.Frame, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "empty frame %gx%g", f.Width, f.Height)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: f.Width, Ht: f.Height},
	})
	pdf.SetCreationDate(pdfEpoch)
	pdf.SetModificationDate(pdfEpoch)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if r.title != "" {
		pdf.SetTitle(r.title, true)
	}
	pdf.AddPage()

	if c, ok := parseColor(f.Background); ok {
		pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		pdf.Rect(0, 0, f.Width, f.Height, "F")
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, op := range f.Ops {
		drawPDF(pdf, tr, op)
	}

	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "build pdf")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "write pdf")
	}
	return buf.Bytes(), nil
}

func drawPDF(pdf *gofpdf.Fpdf, tr func(string) string, op display.Op) {
	switch o := op.(type) {
	case *display.Rect:
		size := o.Box.Size()
		style := pdfStyle(pdf, o.Style)
		if style == "" {
			return
		}
		withAlpha(pdf, o.Alpha(), func() {
			if o.Radius > 0 {
				pdf.RoundedRect(o.Box.Min.X, o.Box.Min.Y, size.X, size.Y, o.Radius, "1234", style)
			} else {
				pdf.Rect(o.Box.Min.X, o.Box.Min.Y, size.X, size.Y, style)
			}
		})
		resetDash(pdf, o.Style)

	case *display.Line:
		withAlpha(pdf, o.Alpha(), func() {
			if pdfStyle(pdf, display.Style{Stroke: o.Stroke, StrokeWidth: o.StrokeWidth, Dashed: o.Dashed}) != "" {
				pdf.Line(o.From.X, o.From.Y, o.To.X, o.To.Y)
				resetDash(pdf, o.Style)
			}
			head, ok := arrowHead(o.From, o.To, o.StrokeWidth)
			if !o.Arrowhead || !ok || pdfStyle(pdf, display.Style{Fill: o.Stroke}) == "" {
				return
			}
			pts := make([]gofpdf.PointType, len(head))
			for i, p := range head {
				pts[i] = gofpdf.PointType{X: p.X, Y: p.Y}
			}
			pdf.Polygon(pts, "F")
		})

	case *display.Polyline:
		if len(o.Points) < 2 || pdfStyle(pdf, display.Style{Stroke: o.Stroke, StrokeWidth: o.StrokeWidth, Dashed: o.Dashed}) == "" {
			return
		}
		withAlpha(pdf, o.Alpha(), func() {
			pdf.SetLineCapStyle("round")
			pdf.SetLineJoinStyle("round")
			pdf.MoveTo(o.Points[0].X, o.Points[0].Y)
			for _, p := range o.Points[1:] {
				pdf.LineTo(p.X, p.Y)
			}
			pdf.DrawPath("D")
			pdf.SetLineCapStyle("butt")
			pdf.SetLineJoinStyle("miter")
		})
		resetDash(pdf, o.Style)

	case *display.Text:
		c, ok := parseColor(o.Color)
		if !ok || o.Size <= 0 {
			return
		}
		family, style := "Helvetica", ""
		if o.Mono {
			family = "Courier"
		}
		if o.Bold {
			style = "B"
		}
		pdf.SetFont(family, style, o.Size)
		pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
		pdf.Text(o.Pos.X, o.Pos.Y+o.Size, tr(o.Value))
	}
}

// pdfStyle sets the fill and draw state for s and returns the gofpdf style
// string, or "" when nothing would be painted.
func pdfStyle(pdf *gofpdf.Fpdf, s display.Style) string {
	style := ""
	if c, ok := parseColor(s.Fill); ok {
		pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		style += "F"
	}
	if c, ok := parseColor(s.Stroke); ok && s.StrokeWidth > 0 {
		pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		pdf.SetLineWidth(s.StrokeWidth)
		if s.Dashed {
			pdf.SetDashPattern([]float64{dashOn, dashOff}, 0)
		}
		style = "D" + style
	}
	return style
}

func resetDash(pdf *gofpdf.Fpdf, s display.Style) {
	if s.Dashed {
		pdf.SetDashPattern([]float64{}, 0)
	}
}

func withAlpha(pdf *gofpdf.Fpdf, alpha float64, fn func()) {
	if alpha >= 1 {
		fn()
		return
	}
	pdf.SetAlpha(alpha, "Normal")
	fn()
	pdf.SetAlpha(1, "Normal")
}
