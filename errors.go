package atlaspack

import "errors"

// Sentinel errors returned by the public API. Use errors.Is to test for
// them; operations that fail always leave the atlas unchanged.
var (
	// ErrNotEnoughSpace is returned by Allocate when no free leaf can
	// accommodate the (aligned) requested size.
	ErrNotEnoughSpace = errors.New("atlaspack: not enough space")

	// ErrDoesNotFit is returned by Shrink when an existing allocation
	// would extend beyond the requested new bounds.
	ErrDoesNotFit = errors.New("atlaspack: does not fit")

	// ErrInvalidHandle is returned by Deallocate/Get when the given
	// AllocId is stale (already deallocated, or from a prior Rearrange)
	// or was never issued by this atlas.
	ErrInvalidHandle = errors.New("atlaspack: invalid handle")
)

// errInvariant is returned only if the allocator's own bookkeeping is
// caught in an inconsistent state -- a bug in this package, never an
// expected outcome of any public call.
var errInvariant = errors.New("atlaspack: internal invariant violation")
