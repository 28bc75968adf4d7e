package handle

import "testing"

func TestArenaInsertGet(t *testing.T) {
	var a Arena[string]
	h := a.Insert("hello")
	v, ok := a.Get(h)
	if !ok || *v != "hello" {
		t.Fatalf("Get(%v) = %v, %v", h, v, ok)
	}
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
}

func TestArenaRemoveInvalidatesHandle(t *testing.T) {
	var a Arena[int]
	h := a.Insert(42)

	if !a.Remove(h) {
		t.Fatal("Remove should succeed the first time")
	}
	if _, ok := a.Get(h); ok {
		t.Fatal("Get should fail after Remove")
	}
	if a.Remove(h) {
		t.Fatal("Remove should fail on an already-removed handle")
	}
}

func TestArenaRecyclesSlotsWithNewGeneration(t *testing.T) {
	var a Arena[int]
	h1 := a.Insert(1)
	a.Remove(h1)
	h2 := a.Insert(2)

	if h1 == h2 {
		t.Fatalf("recycled handle should differ: h1=%v h2=%v", h1, h2)
	}
	if h1.Index() != h2.Index() {
		t.Fatalf("expected slot reuse: h1.Index()=%d h2.Index()=%d", h1.Index(), h2.Index())
	}
	if h2.Generation() <= h1.Generation() {
		t.Fatalf("expected generation to increase: %d -> %d", h1.Generation(), h2.Generation())
	}

	if _, ok := a.Get(h1); ok {
		t.Fatal("stale handle h1 should not resolve after recycling")
	}
	v, ok := a.Get(h2)
	if !ok || *v != 2 {
		t.Fatalf("Get(h2) = %v, %v", v, ok)
	}
}

func TestArenaZeroHandleNeverValid(t *testing.T) {
	var a Arena[int]
	var zero Handle
	if !zero.IsZero() {
		t.Fatal("zero value Handle should report IsZero")
	}
	if _, ok := a.Get(zero); ok {
		t.Fatal("zero Handle should never resolve")
	}
	h := a.Insert(1)
	if h.IsZero() {
		t.Fatal("Insert should never return the zero Handle")
	}
}

func TestArenaLenTracksLiveEntries(t *testing.T) {
	var a Arena[int]
	h1 := a.Insert(1)
	_ = a.Insert(2)
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
	a.Remove(h1)
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
}
