package view

import "math"

// Glyph is one star position in a rating display.
type Glyph string

const (
	GlyphFull  Glyph = "full"
	GlyphHalf  Glyph = "half"
	GlyphEmpty Glyph = "empty"
)

// Stars renders a rating in [0,5] as exactly 5 glyphs: floor(rating) full
// stars, one half star iff the fractional part is non-zero, the remainder
// empty. Out-of-range input is clamped.
func Stars(rating float64) [5]Glyph {
	if rating < 0 || math.IsNaN(rating) {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}

	full := int(math.Floor(rating))
	half := rating-math.Floor(rating) > 0

	var out [5]Glyph
	for i := 0; i < 5; i++ {
		switch {
		case i < full:
			out[i] = GlyphFull
		case i == full && half:
			out[i] = GlyphHalf
		default:
			out[i] = GlyphEmpty
		}
	}
	return out
}
