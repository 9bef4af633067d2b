package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
)

const (
	defaultFontFamily = "Inter, system-ui, sans-serif"
	monoFontFamily    = "ui-monospace, SFMono-Regular, Menlo, monospace"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title      string
	fontFamily string
}

// WithTitle embeds a <title> element.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithFontFamily overrides the CSS font-family of proportional text.
func WithFontFamily(f string) SVGOption { return func(r *svgRenderer) { r.fontFamily = f } }

// RenderSVG writes the frame as a standalone SVG document. Each layer is a
// <g class="layer-NAME"> group and element shapes carry data-element.
func RenderSVG(f display.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{fontFamily: defaultFontFamily}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(f.Width), num(f.Height), num(f.Width), num(f.Height))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	if f.Background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(f.Background))
	}

	open := display.Layer(-1)
	for _, op := range f.Ops {
		if l := display.LayerOf(op); l != open {
			if open >= 0 {
				buf.WriteString("  </g>\n")
			}
			fmt.Fprintf(&buf, `  <g class="layer-%s">`+"\n", l)
			open = l
		}
		r.writeOp(&buf, op)
	}
	if open >= 0 {
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) writeOp(buf *bytes.Buffer, op display.Op) {
	buf.WriteString("    ")
	switch o := op.(type) {
	case *display.Rect:
		size := o.Box.Size()
		fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s"`,
			num(o.Box.Min.X), num(o.Box.Min.Y), num(size.X), num(size.Y))
		if o.Radius > 0 {
			fmt.Fprintf(buf, ` rx="%s"`, num(o.Radius))
		}
		writeStyle(buf, o.Style)
		writeElement(buf, o.ElementID)
		buf.WriteString("/>\n")

	case *display.Line:
		fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s"`,
			num(o.From.X), num(o.From.Y), num(o.To.X), num(o.To.Y))
		writeStyle(buf, display.Style{Stroke: o.Stroke, StrokeWidth: o.StrokeWidth, Opacity: o.Opacity, Dashed: o.Dashed})
		buf.WriteString(` stroke-linecap="round"`)
		writeElement(buf, o.ElementID)
		buf.WriteString("/>\n")
		if head, ok := arrowHead(o.From, o.To, o.StrokeWidth); o.Arrowhead && ok {
			buf.WriteString("    ")
			fmt.Fprintf(buf, `<polygon points="%s"`, points(head[:]))
			writeStyle(buf, display.Style{Fill: o.Stroke, Opacity: o.Opacity})
			writeElement(buf, o.ElementID)
			buf.WriteString("/>\n")
		}

	case *display.Polyline:
		fmt.Fprintf(buf, `<polyline points="%s"`, points(o.Points))
		writeStyle(buf, display.Style{Stroke: o.Stroke, StrokeWidth: o.StrokeWidth, Opacity: o.Opacity, Dashed: o.Dashed})
		buf.WriteString(` stroke-linecap="round" stroke-linejoin="round"`)
		writeElement(buf, o.ElementID)
		buf.WriteString("/>\n")

	case *display.Text:
		family := r.fontFamily
		if o.Mono {
			family = monoFontFamily
		}
		fmt.Fprintf(buf, `<text x="%s" y="%s" font-family="%s" font-size="%s"`,
			num(o.Pos.X), num(o.Pos.Y+o.Size), escapeXML(family), num(o.Size))
		if o.Bold {
			buf.WriteString(` font-weight="bold"`)
		}
		fmt.Fprintf(buf, ` fill="%s"`, escapeXML(o.Color))
		writeElement(buf, o.ElementID)
		fmt.Fprintf(buf, ">%s</text>\n", escapeXML(o.Value))
	}
}

func writeStyle(buf *bytes.Buffer, s display.Style) {
	fill := "none"
	if s.Fill != "" {
		fill = s.Fill
	}
	fmt.Fprintf(buf, ` fill="%s"`, escapeXML(fill))
	if s.Stroke != "" && s.StrokeWidth > 0 {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%s"`, escapeXML(s.Stroke), num(s.StrokeWidth))
		if s.Dashed {
			fmt.Fprintf(buf, ` stroke-dasharray="%d %d"`, dashOn, dashOff)
		}
	}
	if a := s.Alpha(); a < 1 {
		fmt.Fprintf(buf, ` opacity="%s"`, num(a))
	}
}

func writeElement(buf *bytes.Buffer, id string) {
	if id != "" {
		fmt.Fprintf(buf, ` data-element="%s"`, escapeXML(id))
	}
}

func points(pts []r2.Vec) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
