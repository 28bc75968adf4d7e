package textpack

import (
	"fmt"

	"github.com/gogpu/atlaspack"
)

// Cell locates one packed glyph cell within a Manager's atlas pool.
type Cell struct {
	AtlasIndex int
	ID         atlaspack.AllocId
	Rectangle  atlaspack.Rectangle
}

// pooledAtlas pairs an Atlas with its index in the manager's pool. The
// cache of already-packed glyphs lives on Manager, shared by all atlases.
type pooledAtlas struct {
	index int
	atlas *atlaspack.Atlas
}

// Manager packs glyph cells across a growing pool of fixed-size atlases:
// when the current atlas can't fit a new glyph, a fresh one is created
// rather than growing the existing atlas indefinitely, mirroring
// gogpu-gg/text/msdf's AtlasManager.findOrCreateAtlas.
type Manager struct {
	atlasSize int
	opts      []atlaspack.Option
	pool      []*pooledAtlas
	cache     map[uint32]Cell
}

// NewManager creates a Manager whose atlases are atlasSize x atlasSize.
func NewManager(atlasSize int, opts ...atlaspack.Option) *Manager {
	return &Manager{
		atlasSize: atlasSize,
		opts:      opts,
		cache:     make(map[uint32]Cell),
	}
}

// Pack reserves a cell for g, reusing a previously packed cell for the
// same GlyphID if one already exists in this manager.
func (m *Manager) Pack(g Glyph) (Cell, error) {
	if cell, ok := m.cache[g.GlyphID]; ok {
		return cell, nil
	}

	if g.CellWidth > m.atlasSize || g.CellHeight > m.atlasSize {
		return Cell{}, fmt.Errorf("textpack: glyph cell %dx%d exceeds atlas size %d", g.CellWidth, g.CellHeight, m.atlasSize)
	}

	for _, pa := range m.pool {
		if alloc, err := pa.atlas.Allocate(g.CellWidth, g.CellHeight); err == nil {
			cell := Cell{AtlasIndex: pa.index, ID: alloc.ID, Rectangle: alloc.Rectangle}
			m.cache[g.GlyphID] = cell
			return cell, nil
		}
	}

	pa, err := m.createAtlas()
	if err != nil {
		return Cell{}, err
	}
	alloc, err := pa.atlas.Allocate(g.CellWidth, g.CellHeight)
	if err != nil {
		return Cell{}, fmt.Errorf("textpack: pack glyph %d into fresh atlas: %w", g.GlyphID, err)
	}

	cell := Cell{AtlasIndex: pa.index, ID: alloc.ID, Rectangle: alloc.Rectangle}
	m.cache[g.GlyphID] = cell
	return cell, nil
}

// createAtlas grows the pool with a new, empty atlasSize x atlasSize atlas,
// the same "spill into a new atlas" pattern as
// gogpu-gg/text/msdf's AtlasManager.findOrCreateAtlas.
func (m *Manager) createAtlas() (*pooledAtlas, error) {
	a, err := atlaspack.New(m.atlasSize, m.atlasSize, m.opts...)
	if err != nil {
		return nil, fmt.Errorf("textpack: create atlas %d: %w", len(m.pool), err)
	}
	pa := &pooledAtlas{index: len(m.pool), atlas: a}
	m.pool = append(m.pool, pa)
	return pa, nil
}

// NumAtlases returns how many atlases the manager has created so far.
func (m *Manager) NumAtlases() int { return len(m.pool) }

// Atlas returns the pooled atlas at index i, for rendering or
// introspection.
func (m *Manager) Atlas(i int) *atlaspack.Atlas {
	return m.pool[i].atlas
}
