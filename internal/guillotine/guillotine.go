// Package guillotine implements the binary partitioning tree used by the
// atlas allocator: a rectangle is recursively split along an axis into two
// children, and siblings that are both free can be merged back into one.
//
// Splitting and merging are the only structural mutators; everything else
// (free-list bucketing, split heuristics, deallocation order) is the
// allocator engine's job.
package guillotine

import (
	"errors"
	"fmt"

	"github.com/gogpu/atlaspack/internal/geom"
	"github.com/gogpu/atlaspack/internal/handle"
)

// ErrInvariant signals that the tree was asked to perform an operation that
// would break one of its structural invariants. It should never surface
// through the public atlaspack API; seeing it means the engine above this
// package called a mutator incorrectly.
var ErrInvariant = errors.New("guillotine: internal invariant violation")

// Axis identifies which dimension a Container splits along.
type Axis int

const (
	// Horizontal splits a rectangle with a horizontal cut line, producing a
	// top child and a bottom child that share the same X range.
	Horizontal Axis = iota
	// Vertical splits a rectangle with a vertical cut line, producing a
	// left child and a right child that share the same Y range.
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "Vertical"
	}
	return "Horizontal"
}

// Kind identifies what a Node represents.
type Kind int

const (
	Free Kind = iota
	Allocated
	Container
)

func (k Kind) String() string {
	switch k {
	case Free:
		return "Free"
	case Allocated:
		return "Allocated"
	case Container:
		return "Container"
	default:
		return "Unknown"
	}
}

// Node is exactly one of a Free leaf, an Allocated leaf, or a Container, per
// the Kind tag. Fields not meaningful for the current Kind are left zeroed.
type Node struct {
	kind   Kind
	rect   geom.Rectangle
	parent handle.Handle

	// Free-leaf bucket membership, maintained by the engine's free-list
	// index. -1 means "not currently indexed".
	bucket    int
	bucketPos int

	// Container fields.
	axis          Axis
	first, second handle.Handle
}

// Rect returns the node's rectangle.
func (n Node) Rect() geom.Rectangle { return n.rect }

// Kind returns the node's kind.
func (n Node) Kind() Kind { return n.kind }

// Parent returns the node's parent handle (zero for the root).
func (n Node) Parent() handle.Handle { return n.parent }

// Bucket returns the free-list bucket index and position cached on a Free
// leaf, or (-1, -1) if the leaf is not currently indexed.
func (n Node) Bucket() (bucket, pos int) { return n.bucket, n.bucketPos }

// Axis returns the split axis of a Container node.
func (n Node) Axis() Axis { return n.axis }

// Children returns a Container's two child handles.
func (n Node) Children() (first, second handle.Handle) { return n.first, n.second }

// Tree is a guillotine partitioning tree over a fixed-size rectangle,
// stored in a generation-tagged node arena so that handles (including the
// allocator engine's AllocIds) stay stable across splits and merges.
type Tree struct {
	arena handle.Arena[Node]
	root  handle.Handle
}

// New creates a tree whose root is a single Free leaf covering size.
func New(size geom.Rectangle) *Tree {
	t := &Tree{}
	t.root = t.arena.Insert(Node{kind: Free, rect: size, bucket: -1, bucketPos: -1})
	return t
}

// Root returns the handle of the tree's root node.
func (t *Tree) Root() handle.Handle { return t.root }

// Size returns the root's rectangle, i.e. the atlas bounds. It returns the
// zero Rectangle if the root handle doesn't resolve, rather than
// dereferencing a nil node.
func (t *Tree) Size() geom.Rectangle {
	n, ok := t.arena.Get(t.root)
	if !ok {
		return geom.Rectangle{}
	}
	return n.rect
}

// Get returns a copy of the node referenced by h.
func (t *Tree) Get(h handle.Handle) (Node, bool) {
	n, ok := t.arena.Get(h)
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// IsRoot reports whether h is the tree's root handle.
func (t *Tree) IsRoot(h handle.Handle) bool { return h == t.root }

// SetBucket updates the cached free-list bucket/position on a Free leaf.
// Pass (-1, -1) to clear it.
func (t *Tree) SetBucket(h handle.Handle, bucket, pos int) error {
	n, ok := t.arena.Get(h)
	if !ok {
		return fmt.Errorf("%w: SetBucket on missing handle %v", ErrInvariant, h)
	}
	n.bucket, n.bucketPos = bucket, pos
	return nil
}

// MarkAllocated converts a Free leaf into an Allocated leaf in place, so its
// handle (and therefore the AllocId derived from it) never changes.
func (t *Tree) MarkAllocated(h handle.Handle) error {
	n, ok := t.arena.Get(h)
	if !ok || n.kind != Free {
		return fmt.Errorf("%w: MarkAllocated on non-free node %v", ErrInvariant, h)
	}
	n.kind = Allocated
	n.bucket, n.bucketPos = -1, -1
	return nil
}

// MarkFree converts an Allocated leaf back into a Free leaf in place.
func (t *Tree) MarkFree(h handle.Handle) error {
	n, ok := t.arena.Get(h)
	if !ok || n.kind != Allocated {
		return fmt.Errorf("%w: MarkFree on non-allocated node %v", ErrInvariant, h)
	}
	n.kind = Free
	n.bucket, n.bucketPos = -1, -1
	return nil
}

// SplitLeaf replaces the Free leaf at h with a Container holding two new
// Free children sized by axis and offset. To minimize arena churn, h's own
// slot is reused for the first child; only the container and the second
// child get fresh handles.
//
// offset is measured from the rectangle's origin corner along the split
// dimension (height for Horizontal, width for Vertical) and must lie
// strictly between 0 and that dimension.
func (t *Tree) SplitLeaf(h handle.Handle, axis Axis, offset int) (container, first, second handle.Handle, err error) {
	n, ok := t.arena.Get(h)
	if !ok || n.kind != Free {
		return handle.Handle{}, handle.Handle{}, handle.Handle{}, fmt.Errorf("%w: SplitLeaf on non-free node %v", ErrInvariant, h)
	}
	rect := n.rect
	parent := n.parent

	var rect1, rect2 geom.Rectangle
	switch axis {
	case Horizontal:
		if offset <= 0 || offset >= rect.Height() {
			return handle.Handle{}, handle.Handle{}, handle.Handle{}, fmt.Errorf("%w: horizontal offset %d out of range for height %d", ErrInvariant, offset, rect.Height())
		}
		rect1 = geom.New(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+offset)
		rect2 = geom.New(rect.Min.X, rect.Min.Y+offset, rect.Max.X, rect.Max.Y)
	case Vertical:
		if offset <= 0 || offset >= rect.Width() {
			return handle.Handle{}, handle.Handle{}, handle.Handle{}, fmt.Errorf("%w: vertical offset %d out of range for width %d", ErrInvariant, offset, rect.Width())
		}
		rect1 = geom.New(rect.Min.X, rect.Min.Y, rect.Min.X+offset, rect.Max.Y)
		rect2 = geom.New(rect.Min.X+offset, rect.Min.Y, rect.Max.X, rect.Max.Y)
	default:
		return handle.Handle{}, handle.Handle{}, handle.Handle{}, fmt.Errorf("%w: unknown axis %v", ErrInvariant, axis)
	}

	containerHandle := t.arena.Insert(Node{kind: Container, rect: rect, parent: parent, axis: axis})
	secondHandle := t.arena.Insert(Node{kind: Free, rect: rect2, parent: containerHandle, bucket: -1, bucketPos: -1})

	// Reuse h's slot for the first child. The inserts above may have moved
	// the arena's storage, so the node is looked up again.
	n, _ = t.arena.Get(h)
	n.kind = Free
	n.rect = rect1
	n.parent = containerHandle
	n.bucket, n.bucketPos = -1, -1

	c, _ := t.arena.Get(containerHandle)
	c.first, c.second = h, secondHandle

	if parent.IsZero() {
		t.root = containerHandle
	} else {
		p, ok := t.arena.Get(parent)
		if !ok {
			return handle.Handle{}, handle.Handle{}, handle.Handle{}, fmt.Errorf("%w: missing parent %v during split", ErrInvariant, parent)
		}
		switch h {
		case p.first:
			p.first = containerHandle
		case p.second:
			p.second = containerHandle
		default:
			return handle.Handle{}, handle.Handle{}, handle.Handle{}, fmt.Errorf("%w: parent %v does not reference child %v", ErrInvariant, parent, h)
		}
	}

	return containerHandle, h, secondHandle, nil
}

// MergeContainer requires both children of the container at h to be Free
// leaves. It collapses the container into a single Free leaf covering the
// container's rectangle, reusing the container's own slot as the merged
// leaf's handle, and frees both children's slots.
func (t *Tree) MergeContainer(h handle.Handle) (merged handle.Handle, err error) {
	n, ok := t.arena.Get(h)
	if !ok || n.kind != Container {
		return handle.Handle{}, fmt.Errorf("%w: MergeContainer on non-container node %v", ErrInvariant, h)
	}
	first, second := n.first, n.second
	fn, fok := t.arena.Get(first)
	sn, sok := t.arena.Get(second)
	if !fok || !sok || fn.kind != Free || sn.kind != Free {
		return handle.Handle{}, fmt.Errorf("%w: MergeContainer requires two free children", ErrInvariant)
	}

	t.arena.Remove(first)
	t.arena.Remove(second)

	n.kind = Free
	n.axis = 0
	n.first, n.second = handle.Handle{}, handle.Handle{}
	n.bucket, n.bucketPos = -1, -1
	return h, nil
}

// Walk performs a stable pre-order DFS over every node in the tree.
func (t *Tree) Walk(fn func(h handle.Handle, n Node)) {
	t.walk(t.root, fn)
}

func (t *Tree) walk(h handle.Handle, fn func(handle.Handle, Node)) {
	n, ok := t.arena.Get(h)
	if !ok {
		return
	}
	fn(h, *n)
	if n.kind == Container {
		t.walk(n.first, fn)
		t.walk(n.second, fn)
	}
}

// WrapRoot grows the tree by replacing the root with a new Container whose
// first child is the existing root (re-parented, rectangle unchanged) and
// whose second child is a fresh Free leaf covering the newly added strip.
// newSize must extend the root's rectangle along axis only; the other
// dimension must be unchanged.
func (t *Tree) WrapRoot(axis Axis, newSize geom.Rectangle) (newRoot, newFreeLeaf handle.Handle, err error) {
	oldRoot, ok := t.arena.Get(t.root)
	if !ok {
		return handle.Handle{}, handle.Handle{}, fmt.Errorf("%w: missing root", ErrInvariant)
	}
	oldRect := oldRoot.rect

	var offset int
	var rect2 geom.Rectangle
	switch axis {
	case Vertical:
		if oldRect.Height() != newSize.Height() {
			return handle.Handle{}, handle.Handle{}, fmt.Errorf("%w: WrapRoot(Vertical) requires unchanged height", ErrInvariant)
		}
		offset = oldRect.Width()
		rect2 = geom.New(newSize.Min.X+offset, newSize.Min.Y, newSize.Max.X, newSize.Max.Y)
	case Horizontal:
		if oldRect.Width() != newSize.Width() {
			return handle.Handle{}, handle.Handle{}, fmt.Errorf("%w: WrapRoot(Horizontal) requires unchanged width", ErrInvariant)
		}
		offset = oldRect.Height()
		rect2 = geom.New(newSize.Min.X, newSize.Min.Y+offset, newSize.Max.X, newSize.Max.Y)
	default:
		return handle.Handle{}, handle.Handle{}, fmt.Errorf("%w: unknown axis %v", ErrInvariant, axis)
	}

	containerHandle := t.arena.Insert(Node{kind: Container, rect: newSize, axis: axis})
	secondHandle := t.arena.Insert(Node{kind: Free, rect: rect2, parent: containerHandle, bucket: -1, bucketPos: -1})

	oldRoot, _ = t.arena.Get(t.root)
	oldRoot.parent = containerHandle
	c, _ := t.arena.Get(containerHandle)
	c.first, c.second = t.root, secondHandle

	t.root = containerHandle
	return containerHandle, secondHandle, nil
}

// ClipToBounds shrinks the tree in place to the given bounds (which must
// share the root's origin and be no larger on either axis), preserving the
// handle of every surviving leaf -- Allocated leaves in particular keep
// their identity, since AllocIds must remain valid across Shrink. Any Free
// subtree that falls entirely outside bounds is dropped; a Container whose
// one child survives collapses, promoting the surviving child into its own
// place in the grandparent (never by relocating the survivor's own slot).
//
// Callers must verify beforehand that no Allocated rectangle lies outside
// bounds; ClipToBounds treats that case as an invariant violation. Either
// way, nothing is mutated unless the whole clip is known to succeed first
// -- checkClip runs a read-only dry run so a failing or root-dropping clip
// never leaves t.root pointing at a removed node.
func (t *Tree) ClipToBounds(bounds geom.Rectangle) error {
	survives, err := t.checkClip(t.root, bounds)
	if err != nil {
		return err
	}
	if !survives {
		return fmt.Errorf("%w: root fully outside shrink bounds", ErrInvariant)
	}

	newRoot, ok, err := t.clip(t.root, bounds)
	if err != nil || !ok {
		return fmt.Errorf("%w: clip mutation disagreed with its own dry run", ErrInvariant)
	}
	if root, rok := t.arena.Get(newRoot); rok {
		root.parent = handle.Handle{}
	}
	t.root = newRoot
	return nil
}

// checkClip reports, without mutating the tree, whether the subtree at h
// would survive clipping to bounds at all, or returns an error if doing so
// would cut into an Allocated rectangle. ClipToBounds runs this over the
// whole tree before clip performs any mutation, so a clip that cannot
// fully succeed -- including the degenerate case where the root itself
// wouldn't survive -- never partially mutates the tree first.
func (t *Tree) checkClip(h handle.Handle, bounds geom.Rectangle) (bool, error) {
	n, ok := t.arena.Get(h)
	if !ok {
		return false, fmt.Errorf("%w: checkClip on missing node %v", ErrInvariant, h)
	}
	clipped := n.rect.Intersect(bounds)

	if n.kind != Container {
		if n.kind == Allocated && clipped != n.rect {
			return false, fmt.Errorf("%w: allocated rectangle %v extends beyond shrink bounds %v", ErrInvariant, n.rect, bounds)
		}
		if !clipped.Valid() {
			return false, nil
		}
		return true, nil
	}

	firstOK, err := t.checkClip(n.first, bounds)
	if err != nil {
		return false, err
	}
	secondOK, err := t.checkClip(n.second, bounds)
	if err != nil {
		return false, err
	}
	return firstOK || secondOK, nil
}

// clip returns (survivorHandle, true, nil) if any part of the subtree at h
// survives clipping to bounds, or (zero, false, nil) if it's fully dropped.
// Callers must have already confirmed success via checkClip: clip mutates
// (and removes dropped nodes from) the tree as it goes, so it must never
// run on a clip that might still fail partway through.
func (t *Tree) clip(h handle.Handle, bounds geom.Rectangle) (handle.Handle, bool, error) {
	n, ok := t.arena.Get(h)
	if !ok {
		return handle.Handle{}, false, fmt.Errorf("%w: clip on missing node %v", ErrInvariant, h)
	}
	clipped := n.rect.Intersect(bounds)

	if n.kind != Container {
		if !clipped.Valid() {
			if n.kind == Allocated {
				return handle.Handle{}, false, fmt.Errorf("%w: allocated rectangle %v falls outside shrink bounds %v", ErrInvariant, n.rect, bounds)
			}
			t.arena.Remove(h)
			return handle.Handle{}, false, nil
		}
		n.rect = clipped
		return h, true, nil
	}

	firstSurvivor, firstOK, err := t.clip(n.first, bounds)
	if err != nil {
		return handle.Handle{}, false, err
	}
	secondSurvivor, secondOK, err := t.clip(n.second, bounds)
	if err != nil {
		return handle.Handle{}, false, err
	}

	switch {
	case firstOK && secondOK:
		n.rect = clipped
		n.first, n.second = firstSurvivor, secondSurvivor
		return h, true, nil
	case firstOK:
		survivor, _ := t.arena.Get(firstSurvivor)
		survivor.parent = n.parent
		t.arena.Remove(h)
		return firstSurvivor, true, nil
	case secondOK:
		survivor, _ := t.arena.Get(secondSurvivor)
		survivor.parent = n.parent
		t.arena.Remove(h)
		return secondSurvivor, true, nil
	default:
		t.arena.Remove(h)
		return handle.Handle{}, false, nil
	}
}

// Len returns the number of live nodes (leaves and containers) in the tree.
func (t *Tree) Len() int { return t.arena.Len() }
