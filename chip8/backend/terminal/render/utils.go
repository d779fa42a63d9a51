package render

// HalfBlock returns the glyph that shows two vertically stacked pixels in a
// single terminal cell, drawn in the foreground color.
func HalfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	default:
		return ' '
	}
}
