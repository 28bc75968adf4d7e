package freelist

import (
	"testing"

	"github.com/gogpu/atlaspack/internal/handle"
)

func mkHandle(i uint32) handle.Handle {
	var a handle.Arena[int]
	var h handle.Handle
	for n := uint32(0); n <= i; n++ {
		h = a.Insert(int(n))
	}
	return h
}

func TestBucketForThresholds(t *testing.T) {
	idx := New([]int{32, 256})
	cases := []struct {
		minEdge int
		want    int
	}{
		{0, 0},
		{31, 0},
		{32, 1},
		{255, 1},
		{256, 2},
		{10000, 2},
	}
	for _, c := range cases {
		if got := idx.BucketFor(c.minEdge); got != c.want {
			t.Errorf("BucketFor(%d) = %d, want %d", c.minEdge, got, c.want)
		}
	}
	if idx.NumBuckets() != 3 {
		t.Fatalf("NumBuckets() = %d, want 3", idx.NumBuckets())
	}
}

func TestInsertAndBucketContents(t *testing.T) {
	idx := New([]int{32})
	h1 := mkHandle(0)
	h2 := mkHandle(1)

	pos1 := idx.Insert(0, h1)
	pos2 := idx.Insert(0, h2)
	if pos1 != 0 || pos2 != 1 {
		t.Fatalf("positions = %d, %d, want 0, 1", pos1, pos2)
	}
	if got := idx.Bucket(0); len(got) != 2 || got[0] != h1 || got[1] != h2 {
		t.Fatalf("Bucket(0) = %v", got)
	}
	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}
}

func TestRemoveSwapsLastElementIn(t *testing.T) {
	idx := New([]int{32})
	h1 := mkHandle(0)
	h2 := mkHandle(1)
	h3 := mkHandle(2)
	idx.Insert(0, h1)
	idx.Insert(0, h2)
	idx.Insert(0, h3)

	moved, ok := idx.Remove(0, 0)
	if !ok || moved != h3 {
		t.Fatalf("Remove(0,0) = %v, %v, want %v, true", moved, ok, h3)
	}
	bucket := idx.Bucket(0)
	if len(bucket) != 2 || bucket[0] != h3 || bucket[1] != h2 {
		t.Fatalf("bucket after remove = %v", bucket)
	}
}

func TestRemoveLastElementNeedsNoSwap(t *testing.T) {
	idx := New([]int{32})
	h1 := mkHandle(0)
	idx.Insert(0, h1)

	moved, ok := idx.Remove(0, 0)
	if ok {
		t.Fatalf("Remove of the only element should report ok=false, got moved=%v", moved)
	}
	if len(idx.Bucket(0)) != 0 {
		t.Fatal("bucket should be empty after removing its only element")
	}
}

func TestRemoveOutOfRangeIsNoop(t *testing.T) {
	idx := New([]int{32})
	if _, ok := idx.Remove(0, 5); ok {
		t.Fatal("Remove with out-of-range pos should report ok=false")
	}
}
