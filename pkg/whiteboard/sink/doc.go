// Package sink turns a [display.Frame] into output formats.
//
// # Formats
//
//   - SVG: [RenderSVG], one <g> group per layer
//   - PNG: [RenderPNG], rasterised with gg and the Go fonts
//   - PDF: [RenderPDF], a single vector page sized to the frame
//   - JSON: [RenderJSON], the display list with an "op" discriminator
//   - TXT: [RenderText], a box-drawing character grid, also used by the
//     terminal board
//
// Every renderer takes functional options:
//
//	frame := display.Build(board.Scene())
//	svg := sink.RenderSVG(frame, sink.WithTitle(board.Title()))
//	png, err := sink.RenderPNG(frame, sink.WithScale(2))
//
// Renderers never modify the frame and are safe to call concurrently.
// Colours that are not #RGB or #RRGGBB are skipped by the raster and PDF
// sinks and passed through by SVG and JSON.
package sink
