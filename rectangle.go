package atlaspack

import (
	"fmt"

	"github.com/gogpu/atlaspack/internal/geom"
	"github.com/gogpu/atlaspack/internal/handle"
)

// Rectangle is an axis-aligned region using the inclusive-exclusive
// convention: it covers [Min.X, Max.X) by [Min.Y, Max.Y).
type Rectangle = geom.Rectangle

// NewRectangle builds a Rectangle from explicit corner coordinates.
func NewRectangle(x0, y0, x1, y1 int) Rectangle {
	return geom.New(x0, y0, x1, y1)
}

// AllocId is a stable, generation-tagged handle identifying one Allocated
// leaf. It is returned by Allocate and consumed by Deallocate and Get.
// Using an AllocId after its leaf has been deallocated, or after a
// Rearrange, fails with ErrInvalidHandle rather than returning stale data.
type AllocId struct {
	h handle.Handle
}

// IsZero reports whether id is the zero AllocId, which no Allocate call
// ever returns.
func (id AllocId) IsZero() bool { return id.h.IsZero() }

// Index and Generation expose the underlying handle's slot index and
// generation tag, for persistence and diagnostics. They do not bypass the
// liveness check performed by Get/Deallocate.
func (id AllocId) Index() uint32      { return id.h.Index() }
func (id AllocId) Generation() uint32 { return id.h.Generation() }

func (id AllocId) String() string {
	return fmt.Sprintf("AllocId(%s)", id.h)
}
