package atlaspack

import (
	"fmt"

	"github.com/gogpu/atlaspack/internal/guillotine"
)

// Deallocate releases the rectangle referenced by id, coalescing it with
// sibling free space as far up the tree as possible. It fails with
// ErrInvalidHandle if id is stale or was never issued by this atlas.
func (a *Atlas) Deallocate(id AllocId) error {
	n, ok := a.tree.Get(id.h)
	if !ok || n.Kind() != guillotine.Allocated {
		Logger().Warn("atlaspack: deallocate with stale or unknown handle", "id", id.String())
		return fmt.Errorf("%w: %v", ErrInvalidHandle, id)
	}

	if err := a.tree.MarkFree(id.h); err != nil {
		return fmt.Errorf("%w: %v", errInvariant, err)
	}
	if err := indexFree(a.tree, a.index, id.h); err != nil {
		return err
	}

	current := id.h
	for {
		if a.tree.IsRoot(current) {
			break
		}
		cn, ok := a.tree.Get(current)
		if !ok {
			return fmt.Errorf("%w: deallocate lost track of %v", errInvariant, current)
		}
		parent := cn.Parent()
		pn, ok := a.tree.Get(parent)
		if !ok {
			return fmt.Errorf("%w: missing parent %v during coalesce", errInvariant, parent)
		}
		first, second := pn.Children()
		fn, fok := a.tree.Get(first)
		sn, sok := a.tree.Get(second)
		if !fok || !sok || fn.Kind() != guillotine.Free || sn.Kind() != guillotine.Free {
			break
		}

		if err := removeFromIndex(a.tree, a.index, first); err != nil {
			return err
		}
		if err := removeFromIndex(a.tree, a.index, second); err != nil {
			return err
		}
		merged, err := a.tree.MergeContainer(parent)
		if err != nil {
			return fmt.Errorf("%w: %v", errInvariant, err)
		}
		if err := indexFree(a.tree, a.index, merged); err != nil {
			return err
		}
		current = merged
	}

	Logger().Debug("atlaspack: deallocated", "id", id.String())
	return nil
}
