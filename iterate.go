package atlaspack

import (
	"fmt"

	"github.com/gogpu/atlaspack/internal/guillotine"
	"github.com/gogpu/atlaspack/internal/handle"
)

// Get returns the rectangle of the Allocated leaf referenced by id. It
// fails with ErrInvalidHandle if id is stale or unknown.
func (a *Atlas) Get(id AllocId) (Rectangle, error) {
	n, ok := a.tree.Get(id.h)
	if !ok || n.Kind() != guillotine.Allocated {
		return Rectangle{}, fmt.Errorf("%w: %v", ErrInvalidHandle, id)
	}
	return n.Rect(), nil
}

// ForEachAllocated calls fn once for every live allocation, in a
// depth-first pre-order that is stable for a given atlas state but
// otherwise unspecified.
func (a *Atlas) ForEachAllocated(fn func(id AllocId, rect Rectangle)) {
	a.tree.Walk(func(h handle.Handle, n guillotine.Node) {
		if n.Kind() == guillotine.Allocated {
			fn(AllocId{h: h}, n.Rect())
		}
	})
}

// ForEachFree calls fn once for every Free leaf, in the same DFS order as
// ForEachAllocated.
func (a *Atlas) ForEachFree(fn func(rect Rectangle)) {
	a.tree.Walk(func(_ handle.Handle, n guillotine.Node) {
		if n.Kind() == guillotine.Free {
			fn(n.Rect())
		}
	})
}

// Stats summarizes the atlas's current occupancy.
type Stats struct {
	AllocCount       int
	UsedArea         int
	FreeArea         int
	LargestFreeArea  int
	LargestFreeRect  Rectangle
}

// Stats computes introspection data by walking the tree once. It is O(N)
// in the number of live nodes.
func (a *Atlas) Stats() Stats {
	var s Stats
	a.tree.Walk(func(_ handle.Handle, n guillotine.Node) {
		switch n.Kind() {
		case guillotine.Allocated:
			s.AllocCount++
			s.UsedArea += n.Rect().Area()
		case guillotine.Free:
			area := n.Rect().Area()
			s.FreeArea += area
			if area > s.LargestFreeArea {
				s.LargestFreeArea = area
				s.LargestFreeRect = n.Rect()
			}
		}
	})
	return s
}
