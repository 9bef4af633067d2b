package io

import "github.com/visualnotes/visualnotes/pkg/whiteboard"

// Sample returns a small research board with every kind of element except
// a freehand path. It backs `visualnotes new --sample` and the tests.
func Sample() whiteboard.Scene {
	return whiteboard.Scene{
		Title:    "Research Framework",
		Viewport: whiteboard.NewViewport(),
		Tool:     whiteboard.ToolSelect,
		Elements: []whiteboard.Element{
			{ID: "1", X: 200, Y: 150, Width: 280, Height: 180, Content: &whiteboard.CardContent{
				Title: "Research Methodology",
				Description: "Key principles for conducting systematic research:\n\n" +
					"• Define clear research questions\n• Choose appropriate methodology\n" +
					"• Ensure data validity and reliability\n• Document all procedures",
				Tags: []string{"Research", "Methodology"},
			}},
			{ID: "2", X: 550, Y: 200, Width: 280, Height: 160, Content: &whiteboard.CardContent{
				Title: "Data Collection Methods",
				Description: "Primary data collection approaches:\n\n" +
					"• Surveys and questionnaires\n• Interviews (structured/unstructured)\n" +
					"• Observations\n• Experiments",
				Tags: []string{"Data", "Collection"},
			}},
			{ID: "3", X: 350, Y: 400, Width: 200, Height: 120, Content: &whiteboard.StickyContent{
				Text:  "Remember to validate findings with multiple sources",
				Color: whiteboard.DefaultStickyColor,
			}},
			{ID: "4", X: 150, Y: 50, Width: 400, Height: 60, Content: &whiteboard.TextContent{
				Text: "Research Framework Overview", FontSize: 24, FontWeight: "bold",
			}},
			{ID: "5", X: 480, Y: 240, Width: 70, Height: 40, Content: &whiteboard.ArrowContent{
				X1: 480, Y1: 240, X2: 550, Y2: 280,
				StrokeWidth: whiteboard.DefaultStrokeWidth, Color: whiteboard.DefaultArrowColor,
			}},
		},
	}
}
