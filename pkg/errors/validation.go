package errors

import (
	"math"
	"regexp"
	"unicode"
)

// MaxTitleLength is the longest board title accepted.
const MaxTitleLength = 200

// ValidateTitle validates a board title.
//
// The validation rules are intentionally conservative:
//   - No control characters (titles end up in file names and headers)
//   - Maximum length of MaxTitleLength characters
//
// An empty title is allowed; callers substitute a default.
func ValidateTitle(title string) error {
	if len([]rune(title)) > MaxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", MaxTitleLength)
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}
	return nil
}

// hexColorRegex matches #RGB and #RRGGBB colours.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a CSS-style hex colour such as "#FEF3C7".
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color %q (want #RGB or #RRGGBB)", color)
	}
	return nil
}

// ValidateDimension validates a size, font size or stroke width.
// Values must be finite and not negative.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidElement, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidElement, "%s cannot be negative (got %g)", name, v)
	}
	return nil
}

// ValidateCoordinate validates a logical coordinate. Any finite value is allowed.
func ValidateCoordinate(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidElement, "%s must be a finite number", name)
	}
	return nil
}
