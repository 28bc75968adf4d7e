// Package textpack shapes runs of text with go-text/typesetting and packs
// each shaped glyph's pixel cell into one or more atlaspack.Atlas regions.
// It computes and packs cell rectangles only -- no MSDF or bitmap
// rendering is performed here, mirroring the core allocator's own
// abstinence from pixel I/O.
package textpack

import (
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Glyph is one shaped glyph ready for atlas packing.
type Glyph struct {
	GlyphID uint32
	Cluster int
	Advance fixed.Int26_6
	XOffset fixed.Int26_6
	YOffset fixed.Int26_6

	// CellWidth and CellHeight are the pixel dimensions to reserve for
	// this glyph's rendered cell, including Padding on every edge.
	CellWidth, CellHeight int
}

// Shaper shapes text runs into positioned glyphs using go-text/typesetting's
// HarfBuzz implementation.
type Shaper struct {
	face *font.Face

	// Padding added to every edge of a glyph's packed cell, so adjacent
	// glyphs don't bleed into each other when later rasterized.
	Padding int

	// CellSize is the fallback glyph cell edge length in pixels, used
	// when a precise per-glyph bounding box isn't available. Typesetting
	// gives advances and offsets but not a rendered bitmap size, so
	// callers size cells from their own rendered glyph bounds; CellSize
	// is the default when they don't.
	CellSize int
}

// NewShaper creates a Shaper backed by a parsed go-text font.Font.
func NewShaper(f *font.Font, padding, cellSize int) *Shaper {
	return &Shaper{
		face:     font.NewFace(f),
		Padding:  padding,
		CellSize: cellSize,
	}
}

// Shape shapes text at the given point size and returns one Glyph per
// shaped glyph, in logical (shaped) order.
func (s *Shaper) Shape(text string, sizePt float64) []Glyph {
	if text == "" {
		return nil
	}
	runes := []rune(text)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      s.face,
		Size:      floatToFixed(sizePt),
		Language:  language.NewLanguage("en"),
	}

	shaper := &shaping.HarfbuzzShaper{}
	output := shaper.Shape(input)

	glyphs := make([]Glyph, 0, len(output.Glyphs))
	for _, g := range output.Glyphs {
		cell := s.CellSize
		if cell <= 0 {
			cell = int(sizePt) + 1
		}
		glyphs = append(glyphs, Glyph{
			GlyphID:    uint32(g.GlyphID),
			Cluster:    g.TextIndex(),
			Advance:    g.Advance,
			XOffset:    g.XOffset,
			YOffset:    g.YOffset,
			CellWidth:  cell + 2*s.Padding,
			CellHeight: cell + 2*s.Padding,
		})
	}
	return glyphs
}

// floatToFixed converts a float64 point size to fixed.Int26_6, the same
// 6-fractional-bit convention go-text/typesetting expects.
func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}
