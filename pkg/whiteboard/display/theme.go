package display

import (
	"github.com/visualnotes/visualnotes/pkg/errors"
)

// Theme is the colour palette of a frame.
type Theme struct {
	Name string

	Background  string
	Grid        string
	GridOpacity float64

	CardFill   string
	CardBorder string
	CardInner  string
	CardTitle  string
	CardText   string
	TagFill    string
	TagText    string

	StickyBorder string
	StickyText   string
	Text         string
	Draft        string
	Selection    string

	PanelFill     string
	PanelBorder   string
	PanelText     string
	MinimapFill   string
	MinimapMarker string
}

// Light is the default palette.
var Light = Theme{
	Name:          "light",
	Background:    "#F9FAFB",
	Grid:          "#E5E7EB",
	GridOpacity:   0.2,
	CardFill:      "#F0FDF4",
	CardBorder:    "#BBF7D0",
	CardInner:     "#FFFFFF",
	CardTitle:     "#111827",
	CardText:      "#6B7280",
	TagFill:       "#E6F3F1",
	TagText:       "#4A9B8E",
	StickyBorder:  "#FCD34D",
	StickyText:    "#1F2937",
	Text:          "#111827",
	Draft:         "#000000",
	Selection:     "#3B82F6",
	PanelFill:     "#FFFFFF",
	PanelBorder:   "#E5E7EB",
	PanelText:     "#6B7280",
	MinimapFill:   "#F3F4F6",
	MinimapMarker: "#4A9B8E",
}

// Dark is a palette for dark backgrounds.
var Dark = Theme{
	Name:          "dark",
	Background:    "#111827",
	Grid:          "#374151",
	GridOpacity:   0.4,
	CardFill:      "#064E3B",
	CardBorder:    "#065F46",
	CardInner:     "#1F2937",
	CardTitle:     "#F9FAFB",
	CardText:      "#D1D5DB",
	TagFill:       "#134E4A",
	TagText:       "#5EEAD4",
	StickyBorder:  "#B45309",
	StickyText:    "#1F2937",
	Text:          "#F9FAFB",
	Draft:         "#F9FAFB",
	Selection:     "#60A5FA",
	PanelFill:     "#1F2937",
	PanelBorder:   "#374151",
	PanelText:     "#D1D5DB",
	MinimapFill:   "#111827",
	MinimapMarker: "#5EEAD4",
}

// Themes lists the built-in palettes.
func Themes() []Theme { return []Theme{Light, Dark} }

// ThemeByName returns the built-in palette with the given name.
func ThemeByName(name string) (Theme, error) {
	for _, t := range Themes() {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, errors.New(errors.ErrCodeInvalidInput, "unknown theme %q (want light or dark)", name)
}
