package atlaspack

import (
	"fmt"
	"sort"

	"github.com/gogpu/atlaspack/internal/freelist"
	"github.com/gogpu/atlaspack/internal/geom"
	"github.com/gogpu/atlaspack/internal/guillotine"
	"github.com/gogpu/atlaspack/internal/handle"
)

// Grow enlarges the atlas to newWidth x newHeight, which must be greater
// than or equal to the current size on both axes. It wraps the existing
// root in up to two new Container levels -- one per grown axis -- each
// holding a fresh Free leaf covering the newly added strip. Existing
// AllocIds and rectangles are unaffected.
func (a *Atlas) Grow(newWidth, newHeight int) error {
	w, h := a.Size()
	if newWidth < w || newHeight < h {
		return fmt.Errorf("%w: grow target %dx%d is smaller than current size %dx%d", ErrDoesNotFit, newWidth, newHeight, w, h)
	}
	if newWidth == w && newHeight == h {
		return nil
	}

	if newWidth > w {
		_, newLeaf, err := a.tree.WrapRoot(guillotine.Vertical, geom.New(0, 0, newWidth, h))
		if err != nil {
			return fmt.Errorf("%w: %v", errInvariant, err)
		}
		if err := indexFree(a.tree, a.index, newLeaf); err != nil {
			return err
		}
		w = newWidth
	}
	if newHeight > h {
		_, newLeaf, err := a.tree.WrapRoot(guillotine.Horizontal, geom.New(0, 0, w, newHeight))
		if err != nil {
			return fmt.Errorf("%w: %v", errInvariant, err)
		}
		if err := indexFree(a.tree, a.index, newLeaf); err != nil {
			return err
		}
	}

	Logger().Debug("atlaspack: grew", "width", newWidth, "height", newHeight)
	return nil
}

// Shrink reduces the atlas to newWidth x newHeight. It fails with
// ErrDoesNotFit, leaving the atlas entirely unchanged, if newWidth or
// newHeight is non-positive or if any existing allocation would extend
// beyond the new bounds.
func (a *Atlas) Shrink(newWidth, newHeight int) error {
	if newWidth <= 0 || newHeight <= 0 {
		return fmt.Errorf("%w: shrink target %dx%d must be positive", ErrDoesNotFit, newWidth, newHeight)
	}
	bounds := geom.New(0, 0, newWidth, newHeight)

	var violation error
	a.tree.Walk(func(_ handle.Handle, n guillotine.Node) {
		if violation != nil || n.Kind() != guillotine.Allocated {
			return
		}
		r := n.Rect()
		if r.Max.X > bounds.Max.X || r.Max.Y > bounds.Max.Y {
			violation = fmt.Errorf("%w: allocated rectangle %v extends beyond %v", ErrDoesNotFit, r, bounds)
		}
	})
	if violation != nil {
		return violation
	}

	if err := a.tree.ClipToBounds(bounds); err != nil {
		return fmt.Errorf("%w: %v", errInvariant, err)
	}

	// Free leaf sizes and positions may have changed; the cheapest correct
	// fix is to rebuild the free-list index from the clipped tree.
	newIndex := freelist.New(a.opts.thresholds())
	a.tree.Walk(func(h handle.Handle, n guillotine.Node) {
		if n.Kind() == guillotine.Free {
			_ = indexFree(a.tree, newIndex, h)
		}
	})
	a.index = newIndex

	Logger().Debug("atlaspack: shrank", "width", newWidth, "height", newHeight)
	return nil
}

// Remap describes how Rearrange moved one surviving allocation.
type Remap struct {
	Old       AllocId
	New       AllocId
	Rectangle Rectangle
}

// ChangeList is the result of a Rearrange.
type ChangeList struct {
	Remapped []Remap
	Failed   []AllocId
}

// Rearrange discards the atlas's internal tree and rebuilds it by
// re-allocating every live rectangle (largest max(w,h) first, ties by area
// descending) into a fresh root of the same size. All existing AllocIds
// become invalid; the returned ChangeList maps each surviving old id to
// its new id and rectangle, and lists any that no longer fit.
func (a *Atlas) Rearrange() (ChangeList, error) {
	w, h := a.Size()
	return a.rearrange(w, h)
}

// RearrangeTo behaves like Rearrange but additionally resizes the atlas.
// If newWidth/newHeight are greater than or equal to the current size and
// every item fit before, every item is guaranteed to fit after.
func (a *Atlas) RearrangeTo(newWidth, newHeight int) (ChangeList, error) {
	return a.rearrange(newWidth, newHeight)
}

type liveItem struct {
	old  AllocId
	w, h int
}

func (a *Atlas) rearrange(newWidth, newHeight int) (ChangeList, error) {
	var items []liveItem
	a.tree.Walk(func(h handle.Handle, n guillotine.Node) {
		if n.Kind() == guillotine.Allocated {
			r := n.Rect()
			items = append(items, liveItem{old: AllocId{h: h}, w: r.Width(), h: r.Height()})
		}
	})

	sort.Slice(items, func(i, j int) bool {
		mi, mj := max(items[i].w, items[i].h), max(items[j].w, items[j].h)
		if mi != mj {
			return mi > mj
		}
		return items[i].w*items[i].h > items[j].w*items[j].h
	})

	newTree := guillotine.New(geom.New(0, 0, newWidth, newHeight))
	newIndex := freelist.New(a.opts.thresholds())
	if err := indexFree(newTree, newIndex, newTree.Root()); err != nil {
		return ChangeList{}, err
	}

	var cl ChangeList
	for _, item := range items {
		leaf, err := allocateRaw(newTree, newIndex, a.opts, item.w, item.h)
		if err != nil {
			cl.Failed = append(cl.Failed, item.old)
			continue
		}
		n, _ := newTree.Get(leaf)
		cl.Remapped = append(cl.Remapped, Remap{
			Old:       item.old,
			New:       AllocId{h: leaf},
			Rectangle: n.Rect(),
		})
	}

	a.tree = newTree
	a.index = newIndex

	Logger().Debug("atlaspack: rearranged", "remapped", len(cl.Remapped), "failed", len(cl.Failed))
	return cl, nil
}
