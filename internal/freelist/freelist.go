// Package freelist implements a size-bucketed index over a guillotine
// tree's Free leaves, so the allocator engine can scan only the buckets
// that could plausibly satisfy a request instead of every free leaf in the
// tree.
//
// Buckets are keyed by a leaf's minimum edge (the smaller of width and
// height) against a sorted list of thresholds supplied at construction, and
// each bucket is an unordered slice supporting O(1) removal by swapping the
// removed element with the last one -- the caller is responsible for
// updating the displaced leaf's cached bucket position, which is why
// Remove reports which handle (if any) moved.
package freelist

import "github.com/gogpu/atlaspack/internal/handle"

// Index buckets free leaves by their minimum edge length.
type Index struct {
	thresholds []int
	buckets    [][]handle.Handle
}

// New creates an Index with len(thresholds)+1 buckets. thresholds must be
// sorted ascending; bucket i holds leaves whose minimum edge is <
// thresholds[i] (bucket len(thresholds) holds everything at or above the
// largest threshold).
func New(thresholds []int) *Index {
	idx := &Index{
		thresholds: append([]int(nil), thresholds...),
		buckets:    make([][]handle.Handle, len(thresholds)+1),
	}
	return idx
}

// NumBuckets returns the number of buckets.
func (idx *Index) NumBuckets() int { return len(idx.buckets) }

// BucketFor returns the bucket index a leaf with the given minimum edge
// belongs in.
func (idx *Index) BucketFor(minEdge int) int {
	for i, threshold := range idx.thresholds {
		if minEdge < threshold {
			return i
		}
	}
	return len(idx.buckets) - 1
}

// Insert appends leaf to bucket b and returns its position within that
// bucket (for the caller to cache alongside the leaf).
func (idx *Index) Insert(b int, leaf handle.Handle) int {
	idx.buckets[b] = append(idx.buckets[b], leaf)
	return len(idx.buckets[b]) - 1
}

// Remove deletes the entry at (b, pos) by swapping in the bucket's last
// element. It reports the handle that was moved into pos (the caller must
// update that handle's cached bucket position), or ok=false if no swap was
// needed because pos was already the last element.
func (idx *Index) Remove(b, pos int) (moved handle.Handle, ok bool) {
	bucket := idx.buckets[b]
	last := len(bucket) - 1
	if pos < 0 || pos > last {
		return handle.Handle{}, false
	}
	if pos != last {
		bucket[pos] = bucket[last]
		moved, ok = bucket[pos], true
	}
	idx.buckets[b] = bucket[:last]
	return moved, ok
}

// Bucket returns the live contents of bucket b. The returned slice aliases
// the index's internal storage and must not be retained across further
// mutation.
func (idx *Index) Bucket(b int) []handle.Handle { return idx.buckets[b] }

// Len returns the total number of indexed leaves across all buckets.
func (idx *Index) Len() int {
	n := 0
	for _, b := range idx.buckets {
		n += len(b)
	}
	return n
}
