// Package io provides JSON import and export for whiteboard scenes.
//
// # JSON Format
//
//	{
//	  "title": "Research Framework",
//	  "viewport": {"zoom": 1, "pan": {"x": 0, "y": 0}},
//	  "elements": [
//	    {"id": "1", "type": "card", "x": 200, "y": 150, "width": 280, "height": 180,
//	     "content": {"title": "Research Methodology", "description": "...", "tags": ["Research"]}},
//	    {"id": "3", "type": "sticky", "x": 350, "y": 400, "width": 200, "height": 120,
//	     "content": {"text": "Remember to validate findings", "color": "#FEF3C7"}},
//	    {"id": "5", "type": "arrow", "x": 480, "y": 240, "width": 70, "height": 40,
//	     "content": {"x1": 480, "y1": 240, "x2": 550, "y2": 280, "strokeWidth": 2, "color": "#4A9B8E"}}
//	  ]
//	}
//
// Element content depends on "type":
//
//   - card: title, description, tags
//   - sticky: text, color
//   - text: text, fontSize, fontWeight
//   - path: points (array of {x, y}), strokeWidth, color
//   - arrow: x1, y1, x2, y2, strokeWidth, color
//
// Elements keep their order, which is also their z-order. For paths and
// arrows the box fields are derived from the geometry on import.
//
// # Import and Export
//
// Use [ImportJSON] and [ExportJSON] for files and [ReadJSON] and
// [WriteJSON] for streams:
//
//	scene, err := io.ImportJSON("board.json")
//	b := whiteboard.New(whiteboard.WithScene(scene))
//	...
//	err = io.ExportJSON("board.json", b.Scene())
//
// [FileSaver] plugs the export into the board's asynchronous save.
package io
