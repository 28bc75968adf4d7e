package atlaspack

// Option configures an Atlas during construction.
//
// Example:
//
//	a, err := atlaspack.New(1024, 1024,
//	    atlaspack.WithAlignment(4, 4),
//	    atlaspack.WithSmallThreshold(16),
//	)
type Option func(*options)

type options struct {
	alignX, alignY   int
	smallThreshold   int
	largeThreshold   int
}

func defaultOptions() options {
	return options{
		alignX:         1,
		alignY:         1,
		smallThreshold: 32,
		largeThreshold: 256,
	}
}

// WithAlignment rounds every requested allocation size up so that its
// width is a multiple of ax and its height is a multiple of ay, before any
// fit check runs. The default is (1, 1), i.e. no rounding.
func WithAlignment(ax, ay int) Option {
	return func(o *options) {
		o.alignX, o.alignY = ax, ay
	}
}

// WithSmallThreshold sets the upper bound (exclusive) of the free-list's
// small bucket, in pixels along a leaf's minimum edge. The default is 32.
func WithSmallThreshold(n int) Option {
	return func(o *options) {
		o.smallThreshold = n
	}
}

// WithLargeThreshold sets the upper bound (exclusive) of the free-list's
// medium bucket -- leaves at or above this size fall into the huge bucket.
// The default is 256.
func WithLargeThreshold(n int) Option {
	return func(o *options) {
		o.largeThreshold = n
	}
}

func (o options) alignUp(w, h int) (int, int) {
	return alignUp(w, o.alignX), alignUp(h, o.alignY)
}

func alignUp(v, align int) int {
	if align <= 1 {
		return v
	}
	rem := v % align
	if rem == 0 {
		return v
	}
	return v + (align - rem)
}

func (o options) thresholds() []int {
	return []int{o.smallThreshold, o.largeThreshold}
}
