package persist

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/atlaspack"
)

func TestSaveLoadRoundTripsState(t *testing.T) {
	a, err := atlaspack.New(100, 100)
	require.NoError(t, err)
	alloc, err := a.Allocate(30, 40)
	require.NoError(t, err)

	opts := Options{AlignX: 1, AlignY: 1, SmallThreshold: 32, LargeThreshold: 256}
	state := Capture(a, opts)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, state))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100, loaded.Width)
	assert.Equal(t, 100, loaded.Height)

	var foundAllocated bool
	for _, n := range loaded.Nodes {
		if n.Kind == KindAllocated {
			foundAllocated = true
			assert.Equal(t, alloc.ID.Index(), n.Index)
			assert.Equal(t, alloc.ID.Generation(), n.Generation)
		}
	}
	assert.True(t, foundAllocated, "expected at least one allocated node in the persisted state")
}

func TestRestoreReproducesAllocIds(t *testing.T) {
	a, err := atlaspack.New(200, 200)
	require.NoError(t, err)
	first, err := a.Allocate(50, 50)
	require.NoError(t, err)
	second, err := a.Allocate(60, 30)
	require.NoError(t, err)

	opts := Options{AlignX: 1, AlignY: 1, SmallThreshold: 32, LargeThreshold: 256}
	state := Capture(a, opts)

	restored, remap, err := Restore(state)
	require.NoError(t, err)

	for _, orig := range []atlaspack.AllocId{first.ID, second.ID} {
		newID, ok := remap[[2]uint32{orig.Index(), orig.Generation()}]
		require.True(t, ok, "remap missing entry for original id %v", orig)
		assert.Equal(t, orig, newID)
		_, err := restored.Get(newID)
		assert.NoError(t, err)
	}
}
