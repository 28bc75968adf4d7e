package textpack

import "golang.org/x/text/width"

// DisplayWidth estimates the number of monospace cells a label occupies,
// counting each East Asian Wide or Fullwidth rune as two cells and every
// other rune as one. Used to budget glyph-cell columns before shaping,
// e.g. when truncating debug labels rendered alongside a packed atlas.
func DisplayWidth(label string) int {
	total := 0
	for _, r := range label {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			total += 2
		default:
			total++
		}
	}
	return total
}

// TruncateToWidth returns the longest prefix of label whose DisplayWidth
// does not exceed maxWidth.
func TruncateToWidth(label string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	used := 0
	for i, r := range label {
		w := 1
		if k := width.LookupRune(r).Kind(); k == width.EastAsianWide || k == width.EastAsianFullwidth {
			w = 2
		}
		if used+w > maxWidth {
			return label[:i]
		}
		used += w
	}
	return label
}
