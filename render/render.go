// Package render draws an atlaspack.Atlas's current occupancy to a PNG
// image, as the closest library-backed analog available to this module's
// teacher for a visual snapshot of atlas state.
package render

import (
	"fmt"

	"github.com/gogpu/gg"

	"github.com/gogpu/atlaspack"
)

// Colors used to distinguish free space from live allocations in the
// rendered snapshot.
var (
	FreeColor      = gg.RGBA{R: 0.92, G: 0.92, B: 0.92, A: 1}
	AllocatedColor = gg.RGBA{R: 0.25, G: 0.55, B: 0.95, A: 1}
	BorderColor    = gg.RGBA{R: 0.1, G: 0.1, B: 0.1, A: 1}
)

// Snapshot draws every free and allocated rectangle of a to a new
// gg.Context sized to match the atlas, and saves it as a PNG at path.
func Snapshot(a *atlaspack.Atlas, path string) error {
	w, h := a.Size()
	dc := gg.NewContext(w, h)

	dc.SetRGBA(FreeColor.R, FreeColor.G, FreeColor.B, FreeColor.A)
	dc.Clear()

	dc.SetLineWidth(1)

	a.ForEachFree(func(rect atlaspack.Rectangle) {
		drawRect(dc, rect, FreeColor)
	})
	a.ForEachAllocated(func(_ atlaspack.AllocId, rect atlaspack.Rectangle) {
		drawRect(dc, rect, AllocatedColor)
	})

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("render: save snapshot to %s: %w", path, err)
	}
	return nil
}

func drawRect(dc *gg.Context, rect atlaspack.Rectangle, fill gg.RGBA) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Width()), float64(rect.Height())

	dc.SetRGBA(fill.R, fill.G, fill.B, fill.A)
	dc.DrawRectangle(x, y, w, h)
	dc.FillPreserve()
	dc.SetRGBA(BorderColor.R, BorderColor.G, BorderColor.B, BorderColor.A)
	dc.Stroke()
}
