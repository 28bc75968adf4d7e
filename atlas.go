// Package atlaspack implements a dynamic 2D rectangle allocator: a
// guillotine-split binary tree over a fixed-size region that packs
// axis-aligned rectangles, supports deallocation with sibling coalescing,
// and can grow, shrink, or fully repack its contents.
//
// The zero value of Atlas is not usable; construct one with New. Atlas is
// not safe for concurrent use -- callers serialize access externally, the
// same way gogpu/gg's TextureAtlas wraps its own allocator in a mutex.
package atlaspack

import (
	"fmt"

	"github.com/gogpu/atlaspack/internal/freelist"
	"github.com/gogpu/atlaspack/internal/geom"
	"github.com/gogpu/atlaspack/internal/guillotine"
)

// Atlas packs rectangles into a fixed-size region.
type Atlas struct {
	opts  options
	tree  *guillotine.Tree
	index *freelist.Index
}

// New constructs an Atlas of the given size. width and height must be
// positive.
func New(width, height int, opts ...Option) (*Atlas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: atlas size %dx%d must be positive", ErrNotEnoughSpace, width, height)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	rect := geom.New(0, 0, width, height)
	tree := guillotine.New(rect)
	index := freelist.New(o.thresholds())
	if err := indexFree(tree, index, tree.Root()); err != nil {
		return nil, err
	}

	return &Atlas{opts: o, tree: tree, index: index}, nil
}

// Size returns the atlas's current (width, height).
func (a *Atlas) Size() (width, height int) {
	r := a.tree.Size()
	return r.Width(), r.Height()
}

// IsEmpty reports whether the atlas holds no live allocations.
func (a *Atlas) IsEmpty() bool {
	root, _ := a.tree.Get(a.tree.Root())
	return root.Kind() == guillotine.Free
}
