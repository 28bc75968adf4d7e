// Package imagepack decodes real images, packs one cell per image into an
// atlaspack.Atlas, and composites them into a single RGBA buffer --
// pairing allocation with pixel upload the way
// gogpu-gg/internal/gpu/atlas.go's TextureAtlas.AllocateAndUpload does,
// but against a plain in-memory image instead of a GPU texture.
package imagepack

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"

	ximgdraw "golang.org/x/image/draw"

	"github.com/gogpu/atlaspack"
)

// Sheet packs decoded images into a single composited RGBA buffer backed
// by an atlaspack.Atlas.
type Sheet struct {
	atlas *atlaspack.Atlas
	dst   *image.RGBA
	// Scaler resamples a source image to its allocated cell size. The
	// default is ximgdraw.BiLinear; set to nil before packing any image
	// whose source size should be copied unscaled (same size as its cell).
	Scaler ximgdraw.Scaler
}

// NewSheet creates a Sheet backed by a width x height atlas.
func NewSheet(width, height int, opts ...atlaspack.Option) (*Sheet, error) {
	a, err := atlaspack.New(width, height, opts...)
	if err != nil {
		return nil, err
	}
	return &Sheet{
		atlas:  a,
		dst:    image.NewRGBA(image.Rect(0, 0, width, height)),
		Scaler: ximgdraw.BiLinear,
	}, nil
}

// Pack decodes an image (PNG or JPEG) from r, allocates a cell sized to
// the caller-supplied cellWidth x cellHeight, and composites the decoded
// image into that cell, scaling it if its source size differs.
func (s *Sheet) Pack(r io.Reader, cellWidth, cellHeight int) (atlaspack.Allocation, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return atlaspack.Allocation{}, fmt.Errorf("imagepack: decode: %w", err)
	}

	alloc, err := s.atlas.Allocate(cellWidth, cellHeight)
	if err != nil {
		return atlaspack.Allocation{}, fmt.Errorf("imagepack: allocate %dx%d cell: %w", cellWidth, cellHeight, err)
	}

	dstRect := image.Rect(
		alloc.Rectangle.Min.X, alloc.Rectangle.Min.Y,
		alloc.Rectangle.Max.X, alloc.Rectangle.Max.Y,
	)

	srcBounds := src.Bounds()
	if s.Scaler != nil && (srcBounds.Dx() != cellWidth || srcBounds.Dy() != cellHeight) {
		s.Scaler.Scale(s.dst, dstRect, src, srcBounds, ximgdraw.Over, nil)
	} else {
		draw.Draw(s.dst, dstRect, src, srcBounds.Min, draw.Over)
	}

	return alloc, nil
}

// Release frees a previously packed cell. The composited pixels remain in
// the sheet's buffer; callers that care should clear them before reusing
// the freed space.
func (s *Sheet) Release(id atlaspack.AllocId) error {
	return s.atlas.Deallocate(id)
}

// Image returns the sheet's composited RGBA buffer.
func (s *Sheet) Image() *image.RGBA { return s.dst }

// Atlas returns the underlying allocator, for introspection.
func (s *Sheet) Atlas() *atlaspack.Atlas { return s.atlas }
