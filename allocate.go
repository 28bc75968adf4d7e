package atlaspack

import (
	"fmt"

	"github.com/gogpu/atlaspack/internal/freelist"
	"github.com/gogpu/atlaspack/internal/geom"
	"github.com/gogpu/atlaspack/internal/guillotine"
	"github.com/gogpu/atlaspack/internal/handle"
)

// Allocation is the result of a successful Allocate call.
type Allocation struct {
	ID        AllocId
	Rectangle Rectangle
}

// Allocate reserves a rectangle of the requested size, rounded up to the
// configured alignment, and returns the handle and rectangle actually
// reserved. It fails with ErrNotEnoughSpace if no free leaf (after
// rounding) can accommodate the request, or if either requested dimension
// is non-positive.
func (a *Atlas) Allocate(width, height int) (Allocation, error) {
	if width <= 0 || height <= 0 {
		return Allocation{}, fmt.Errorf("%w: requested size %dx%d must be positive", ErrNotEnoughSpace, width, height)
	}
	w, h := a.opts.alignUp(width, height)

	atlasW, atlasH := a.Size()
	if w > atlasW || h > atlasH {
		return Allocation{}, fmt.Errorf("%w: requested %dx%d (aligned) exceeds atlas size %dx%d", ErrNotEnoughSpace, w, h, atlasW, atlasH)
	}

	leaf, err := allocateRaw(a.tree, a.index, a.opts, w, h)
	if err != nil {
		Logger().Warn("atlaspack: allocation failed", "width", w, "height", h, "err", err)
		return Allocation{}, err
	}

	n, ok := a.tree.Get(leaf)
	if !ok {
		return Allocation{}, fmt.Errorf("%w: allocated leaf vanished", errInvariant)
	}

	Logger().Debug("atlaspack: allocated", "width", w, "height", h, "rect", n.Rect().String())
	return Allocation{ID: AllocId{h: leaf}, Rectangle: n.Rect()}, nil
}

// allocateRaw runs the free-list lookup and guillotine split against an
// arbitrary (tree, index) pair, so both Atlas.Allocate and Rearrange's
// repack (which builds a fresh tree/index before swapping it in) can share
// identical allocation logic.
func allocateRaw(tree *guillotine.Tree, index *freelist.Index, o options, w, h int) (handle.Handle, error) {
	leaf, found := pickFreeLeaf(tree, index, w, h)
	if !found {
		return handle.Handle{}, fmt.Errorf("%w: no free leaf fits %dx%d", ErrNotEnoughSpace, w, h)
	}
	if err := removeFromIndex(tree, index, leaf); err != nil {
		return handle.Handle{}, err
	}
	return applySplit(tree, index, leaf, w, h)
}

// pickFreeLeaf finds the best-fit free leaf for a w x h request: the
// smallest-waste leaf in the lowest-indexed non-empty bucket (starting from
// the bucket whose threshold covers min(w,h), the smallest minimum-edge any
// fitting leaf could possibly have) that contains any fit.
func pickFreeLeaf(tree *guillotine.Tree, index *freelist.Index, w, h int) (handle.Handle, bool) {
	start := index.BucketFor(min(w, h))
	for b := start; b < index.NumBuckets(); b++ {
		var best handle.Handle
		bestWaste := -1
		for _, cand := range index.Bucket(b) {
			n, ok := tree.Get(cand)
			if !ok {
				continue
			}
			r := n.Rect()
			if r.Width() < w || r.Height() < h {
				continue
			}
			waste := r.Area() - w*h
			if bestWaste < 0 || waste < bestWaste {
				bestWaste = waste
				best = cand
			}
		}
		if bestWaste >= 0 {
			return best, true
		}
	}
	return handle.Handle{}, false
}

// applySplit allocates the requested w x h rectangle out of the free leaf
// at h0, performing zero, one, or two guillotine splits per spec step 5-6,
// and indexes any leftover free leaves. It returns the handle of the final
// Allocated leaf.
func applySplit(tree *guillotine.Tree, index *freelist.Index, h0 handle.Handle, w, h int) (handle.Handle, error) {
	n, ok := tree.Get(h0)
	if !ok {
		return handle.Handle{}, fmt.Errorf("%w: applySplit on missing leaf %v", errInvariant, h0)
	}
	rect := n.Rect()
	W, H := rect.Width(), rect.Height()

	switch {
	case W == w && H == h:
		if err := tree.MarkAllocated(h0); err != nil {
			return handle.Handle{}, fmt.Errorf("%w: %v", errInvariant, err)
		}
		return h0, nil

	case W == w:
		// Only room to split along height.
		_, first, second, err := tree.SplitLeaf(h0, guillotine.Horizontal, h)
		if err != nil {
			return handle.Handle{}, fmt.Errorf("%w: %v", errInvariant, err)
		}
		if err := tree.MarkAllocated(first); err != nil {
			return handle.Handle{}, fmt.Errorf("%w: %v", errInvariant, err)
		}
		if err := indexFree(tree, index, second); err != nil {
			return handle.Handle{}, err
		}
		return first, nil

	case H == h:
		// Only room to split along width.
		_, first, second, err := tree.SplitLeaf(h0, guillotine.Vertical, w)
		if err != nil {
			return handle.Handle{}, fmt.Errorf("%w: %v", errInvariant, err)
		}
		if err := tree.MarkAllocated(first); err != nil {
			return handle.Handle{}, fmt.Errorf("%w: %v", errInvariant, err)
		}
		if err := indexFree(tree, index, second); err != nil {
			return handle.Handle{}, err
		}
		return first, nil

	default:
		return applyDoubleSplit(tree, index, h0, rect, w, h)
	}
}

// applyDoubleSplit handles the general case where both axes have leftover
// space, choosing between the Horizontal-then-Vertical (HV) and
// Vertical-then-Horizontal (VH) candidate splits via the
// shorter-axis-leftover heuristic.
func applyDoubleSplit(tree *guillotine.Tree, index *freelist.Index, h0 handle.Handle, rect geom.Rectangle, w, h int) (handle.Handle, error) {
	W, H := rect.Width(), rect.Height()
	atlasSize := tree.Size()
	atlasLonger := max(atlasSize.Width(), atlasSize.Height())

	// HV: split Horizontal at h (top strip height h, full width), then
	// split the top strip Vertical at w.
	hvBig := geom.New(0, 0, W, H-h)    // bottom strip, full width
	hvSmall := geom.New(0, 0, W-w, h)  // leftover beside the alloc in the top strip
	hvScore, hvLonger := residualScore(hvBig, hvSmall)

	// VH: split Vertical at w (left strip width w, full height), then
	// split the left strip Horizontal at h.
	vhBig := geom.New(0, 0, W-w, H)    // right strip, full height
	vhSmall := geom.New(0, 0, w, H-h)  // leftover below the alloc in the left strip
	vhScore, vhLonger := residualScore(vhBig, vhSmall)

	useHV := hvScore > vhScore
	if hvScore == vhScore {
		// Tie-break toward preserving the atlas's longer dimension.
		hvMatches := hvLonger == atlasLonger
		vhMatches := vhLonger == atlasLonger
		useHV = hvMatches || !vhMatches
	}

	if useHV {
		return splitHV(tree, index, h0, h, w)
	}
	return splitVH(tree, index, h0, w, h)
}

// residualScore returns the shorter-axis-leftover score (the minimum edge
// of whichever residual rectangle has the larger area) and that
// rectangle's longer edge, for tie-breaking.
func residualScore(big, small geom.Rectangle) (score, longerEdge int) {
	winner := big
	if small.Area() > big.Area() {
		winner = small
	}
	return winner.MinEdge(), max(winner.Width(), winner.Height())
}

func splitHV(tree *guillotine.Tree, index *freelist.Index, h0 handle.Handle, h, w int) (handle.Handle, error) {
	_, top, bottom, err := tree.SplitLeaf(h0, guillotine.Horizontal, h)
	if err != nil {
		return handle.Handle{}, fmt.Errorf("%w: %v", errInvariant, err)
	}
	if err := indexFree(tree, index, bottom); err != nil {
		return handle.Handle{}, err
	}
	_, alloc, rightOfTop, err := tree.SplitLeaf(top, guillotine.Vertical, w)
	if err != nil {
		return handle.Handle{}, fmt.Errorf("%w: %v", errInvariant, err)
	}
	if err := tree.MarkAllocated(alloc); err != nil {
		return handle.Handle{}, fmt.Errorf("%w: %v", errInvariant, err)
	}
	if err := indexFree(tree, index, rightOfTop); err != nil {
		return handle.Handle{}, err
	}
	return alloc, nil
}

func splitVH(tree *guillotine.Tree, index *freelist.Index, h0 handle.Handle, w, h int) (handle.Handle, error) {
	_, left, right, err := tree.SplitLeaf(h0, guillotine.Vertical, w)
	if err != nil {
		return handle.Handle{}, fmt.Errorf("%w: %v", errInvariant, err)
	}
	if err := indexFree(tree, index, right); err != nil {
		return handle.Handle{}, err
	}
	_, alloc, belowLeft, err := tree.SplitLeaf(left, guillotine.Horizontal, h)
	if err != nil {
		return handle.Handle{}, fmt.Errorf("%w: %v", errInvariant, err)
	}
	if err := tree.MarkAllocated(alloc); err != nil {
		return handle.Handle{}, fmt.Errorf("%w: %v", errInvariant, err)
	}
	if err := indexFree(tree, index, belowLeft); err != nil {
		return handle.Handle{}, err
	}
	return alloc, nil
}

// indexFree inserts a Free leaf into the appropriate bucket and caches its
// bucket/position on the node.
func indexFree(tree *guillotine.Tree, index *freelist.Index, leaf handle.Handle) error {
	n, ok := tree.Get(leaf)
	if !ok {
		return fmt.Errorf("%w: indexFree on missing leaf %v", errInvariant, leaf)
	}
	b := index.BucketFor(n.Rect().MinEdge())
	pos := index.Insert(b, leaf)
	if err := tree.SetBucket(leaf, b, pos); err != nil {
		return fmt.Errorf("%w: %v", errInvariant, err)
	}
	return nil
}

// removeFromIndex removes a Free leaf from its bucket, fixing up whichever
// other leaf's cached position the bucket's swap-remove displaced.
func removeFromIndex(tree *guillotine.Tree, index *freelist.Index, leaf handle.Handle) error {
	n, ok := tree.Get(leaf)
	if !ok {
		return fmt.Errorf("%w: removeFromIndex on missing leaf %v", errInvariant, leaf)
	}
	b, pos := n.Bucket()
	if b < 0 {
		return fmt.Errorf("%w: leaf %v is not indexed", errInvariant, leaf)
	}
	if moved, ok := index.Remove(b, pos); ok {
		if err := tree.SetBucket(moved, b, pos); err != nil {
			return fmt.Errorf("%w: %v", errInvariant, err)
		}
	}
	return tree.SetBucket(leaf, -1, -1)
}
