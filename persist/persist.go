// Package persist saves and restores atlaspack.Atlas state as JSON: the
// root dimensions, construction options, and every leaf (its kind,
// rectangle, and for allocations the handle's index/generation).
// Containers, parent links and split axes are not recorded. Go has no RON
// ecosystem library surfaced anywhere in the retrieved example corpus, so
// this uses encoding/json; see DESIGN.md for that call.
//
// Restore rebuilds an atlas by replaying the recorded allocations, in
// ascending handle-index order, against a fresh Atlas of the same size and
// options. An allocation's handle index is the arena slot of the free leaf
// it was carved from, so this order is not necessarily the order the
// allocations were originally made in. The restored AllocIds and
// rectangles therefore match the captured ones only when the replay
// happens to pick the same leaves; Restore returns a map from each
// captured id to its new id for the cases where they differ.
package persist

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/gogpu/atlaspack"
)

// NodeKind mirrors guillotine.Kind in the persisted form.
type NodeKind string

const (
	KindFree      NodeKind = "free"
	KindAllocated NodeKind = "allocated"
)

// Rect is the persisted form of a Rectangle.
type Rect struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

func fromRectangle(r atlaspack.Rectangle) Rect {
	return Rect{X0: r.Min.X, Y0: r.Min.Y, X1: r.Max.X, Y1: r.Max.Y}
}

func (r Rect) toBounds() (w, h int) { return r.X1 - r.X0, r.Y1 - r.Y0 }

// Node is the persisted form of one live leaf (free or allocated).
type Node struct {
	Kind       NodeKind `json:"kind"`
	Rect       Rect     `json:"rect"`
	Index      uint32   `json:"index,omitempty"`
	Generation uint32   `json:"generation,omitempty"`
}

// Options is the persisted form of the construction options spec.md §6
// names.
type Options struct {
	AlignX         int `json:"align_x"`
	AlignY         int `json:"align_y"`
	SmallThreshold int `json:"small_threshold"`
	LargeThreshold int `json:"large_threshold"`
}

// State is the full persisted form of an Atlas.
type State struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Options Options `json:"options"`
	Nodes   []Node  `json:"nodes"`
}

// Capture builds a State from a's current contents, using o to record
// the options it was (or should be) constructed with.
func Capture(a *atlaspack.Atlas, o Options) State {
	w, h := a.Size()
	state := State{Width: w, Height: h, Options: o}

	a.ForEachAllocated(func(id atlaspack.AllocId, rect atlaspack.Rectangle) {
		state.Nodes = append(state.Nodes, Node{
			Kind:       KindAllocated,
			Rect:       fromRectangle(rect),
			Index:      id.Index(),
			Generation: id.Generation(),
		})
	})
	a.ForEachFree(func(rect atlaspack.Rectangle) {
		state.Nodes = append(state.Nodes, Node{Kind: KindFree, Rect: fromRectangle(rect)})
	})

	return state
}

// Save writes state to w as JSON.
func Save(w io.Writer, state State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return fmt.Errorf("persist: encode state: %w", err)
	}
	return nil
}

// Load reads a previously Saved State from r.
func Load(r io.Reader) (State, error) {
	var state State
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return State{}, fmt.Errorf("persist: decode state: %w", err)
	}
	return state, nil
}

// Restore rebuilds an Atlas from state, replaying allocated nodes in
// ascending handle-index order. The resulting AllocIds match the ones
// captured in state only when the replay carves each allocation from the
// same slot as before (see the package doc). It returns the new atlas and
// a map from each Node's original (index, generation) pair to its new
// AllocId.
func Restore(state State) (*atlaspack.Atlas, map[[2]uint32]atlaspack.AllocId, error) {
	a, err := atlaspack.New(state.Width, state.Height,
		atlaspack.WithAlignment(max1(state.Options.AlignX), max1(state.Options.AlignY)),
		atlaspack.WithSmallThreshold(state.Options.SmallThreshold),
		atlaspack.WithLargeThreshold(state.Options.LargeThreshold),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("persist: restore atlas: %w", err)
	}

	var allocated []Node
	for _, n := range state.Nodes {
		if n.Kind == KindAllocated {
			allocated = append(allocated, n)
		}
	}
	sort.Slice(allocated, func(i, j int) bool { return allocated[i].Index < allocated[j].Index })

	remap := make(map[[2]uint32]atlaspack.AllocId, len(allocated))
	for _, n := range allocated {
		w, h := n.Rect.toBounds()
		alloc, err := a.Allocate(w, h)
		if err != nil {
			return nil, nil, fmt.Errorf("persist: replay allocation %dx%d: %w", w, h, err)
		}
		remap[[2]uint32{n.Index, n.Generation}] = alloc.ID
	}

	return a, remap, nil
}

func max1(v int) int {
	if v <= 0 {
		return 1
	}
	return v
}
