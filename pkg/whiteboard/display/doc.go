// Package display implements the render pass of the whiteboard: it turns a
// [whiteboard.Scene] into a [Frame], an ordered list of drawing operations
// in screen coordinates.
//
// # Layers
//
// A frame lists its operations in this order:
//
//   - grid: lines every 20 logical units, so density follows the zoom
//   - elements: each element mapped through the viewport, in z-order, with
//     a dashed outline around the selected one
//   - draft: the stroke being drawn, as an open polyline
//   - minimap: every element's bounds at 1/10 scale, plus the visible area
//   - overlay: the zoom percentage
//
// Frames are toolkit neutral. The sink package renders them to SVG, PNG,
// PDF, JSON and text; the desktop and terminal front ends draw them
// directly.
//
//	frame := display.Build(board.Scene(),
//	    display.WithSize(1280, 800),
//	    display.WithTheme(display.Dark),
//	)
package display
