// Package geom provides the axis-aligned rectangle type shared by the
// guillotine tree, the free-list index, and the allocator engine.
package geom

import "fmt"

// Point is an integer 2D coordinate.
type Point struct {
	X, Y int
}

// Rectangle is an axis-aligned region using an inclusive-exclusive
// convention: it covers [Min.X, Max.X) by [Min.Y, Max.Y).
type Rectangle struct {
	Min, Max Point
}

// New builds a Rectangle from explicit corner coordinates.
func New(x0, y0, x1, y1 int) Rectangle {
	return Rectangle{Min: Point{X: x0, Y: y0}, Max: Point{X: x1, Y: y1}}
}

// Width returns x1 - x0.
func (r Rectangle) Width() int { return r.Max.X - r.Min.X }

// Height returns y1 - y0.
func (r Rectangle) Height() int { return r.Max.Y - r.Min.Y }

// Area returns Width * Height.
func (r Rectangle) Area() int { return r.Width() * r.Height() }

// Valid reports whether the rectangle has positive width and height.
func (r Rectangle) Valid() bool { return r.Width() > 0 && r.Height() > 0 }

// Fits reports whether a rectangle of the given size fits upright inside r.
func (r Rectangle) Fits(width, height int) bool {
	return width <= r.Width() && height <= r.Height()
}

// Overlaps reports whether r and o share any interior area.
func (r Rectangle) Overlaps(o Rectangle) bool {
	return r.Min.X < o.Max.X && o.Min.X < r.Max.X &&
		r.Min.Y < o.Max.Y && o.Min.Y < r.Max.Y
}

// Intersect returns the overlapping region of r and o. The result may be
// invalid (zero or negative width/height) if the rectangles don't overlap.
func (r Rectangle) Intersect(o Rectangle) Rectangle {
	minX, minY := max(r.Min.X, o.Min.X), max(r.Min.Y, o.Min.Y)
	maxX, maxY := min(r.Max.X, o.Max.X), min(r.Max.Y, o.Max.Y)
	return Rectangle{Point{minX, minY}, Point{maxX, maxY}}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rectangle) Union(o Rectangle) Rectangle {
	minX, minY := min(r.Min.X, o.Min.X), min(r.Min.Y, o.Min.Y)
	maxX, maxY := max(r.Max.X, o.Max.X), max(r.Max.Y, o.Max.Y)
	return Rectangle{Point{minX, minY}, Point{maxX, maxY}}
}

// MinEdge returns the smaller of width and height, used for free-list
// bucket classification.
func (r Rectangle) MinEdge() int { return min(r.Width(), r.Height()) }

func (r Rectangle) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
