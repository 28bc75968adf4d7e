// Package handle implements a generation-tagged slot arena.
//
// It gives the guillotine tree stable, cheaply-comparable references into
// its node storage: an Insert returns a Handle, and a Remove recycles that
// slot onto a free stack while bumping its generation counter, so that any
// Handle obtained before the Remove reliably fails Get afterwards instead of
// silently aliasing whatever value was later inserted into the same slot.
package handle

import "fmt"

// Handle is a stable, generation-tagged reference into an Arena.
//
// The zero Handle is never returned by Insert (generations start at 1), so
// it doubles as a sentinel for "no handle" (e.g. a tree root's parent).
type Handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h == Handle{} }

// Index returns the slot index backing h. Exposed for diagnostics only;
// callers should not use it to bypass Arena.Get's liveness check.
func (h Handle) Index() uint32 { return h.index }

// Generation returns the generation tag of h.
func (h Handle) Generation() uint32 { return h.generation }

func (h Handle) String() string {
	if h.IsZero() {
		return "Handle(nil)"
	}
	return fmt.Sprintf("Handle(%d@%d)", h.index, h.generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Arena is a slot arena with O(1) Insert/Get/Remove and generation-checked
// liveness. The zero Arena is ready to use.
type Arena[T any] struct {
	slots     []slot[T]
	freeStack []uint32
	live      int
}

// Insert stores v in the arena and returns a fresh Handle for it, reusing a
// previously removed slot when one is available.
func (a *Arena[T]) Insert(v T) Handle {
	a.live++
	if n := len(a.freeStack); n > 0 {
		idx := a.freeStack[n-1]
		a.freeStack = a.freeStack[:n-1]
		s := &a.slots[idx]
		s.value = v
		s.occupied = true
		return Handle{index: idx, generation: s.generation}
	}
	gen := uint32(1)
	a.slots = append(a.slots, slot[T]{value: v, generation: gen, occupied: true})
	return Handle{index: uint32(len(a.slots) - 1), generation: gen}
}

// Get returns a pointer to the live value referenced by h, or (nil, false)
// if h is stale (its slot was reused or removed) or out of range.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return nil, false
	}
	return &s.value, true
}

// Remove frees the slot referenced by h, bumping its generation so any copy
// of h fails a subsequent Get. Reports false if h was already stale.
func (a *Arena[T]) Remove(h Handle) bool {
	v, ok := a.Get(h)
	if !ok {
		return false
	}
	var zero T
	*v = zero
	s := &a.slots[h.index]
	s.occupied = false
	s.generation++
	a.freeStack = append(a.freeStack, h.index)
	a.live--
	return true
}

// Len returns the number of currently live (non-removed) entries.
func (a *Arena[T]) Len() int { return a.live }
