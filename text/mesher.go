package text

import (
	"math"

	"github.com/gogpu/textmesh"
	"github.com/gogpu/textmesh/cache"
)

// meshKey identifies one cacheable glyph mesh: glyph meshes depend on
// the font, glyph id, shaping size, and whether beveling is enabled.
type meshKey struct {
	font    textmesh.FontID
	glyph   textmesh.GlyphID
	size    float64
	beveled bool
}

func hashMeshKey(k meshKey) uint64 {
	flags := uint64(k.glyph) << 1
	if k.beveled {
		flags |= 1
	}
	return cache.BytesHasher(uint64(k.font), flags, math.Float64bits(k.size))
}

// meshResult memoizes the pipeline outcome, failures included, so a
// glyph that cannot be meshed (a space, a degenerate outline) is not
// re-attempted for every occurrence.
type meshResult struct {
	mesh *textmesh.ExtrudedMeshGeometry
	err  error
}

// PlacedMesh is one glyph mesh positioned in text space.
type PlacedMesh struct {
	Mesh *textmesh.ExtrudedMeshGeometry

	// Position is the translation to apply to the mesh: pen position
	// plus shaping offsets, with line Y folded in.
	Position textmesh.Vec3

	// Material is the caller-defined material slot from the Style.
	Material int

	// Glyph is the shaped glyph the mesh was built for.
	Glyph ShapedGlyph
}

// TextMesher shapes strings and extrudes each glyph once, memoizing
// per-glyph meshes in a sharded LRU cache. Repeated glyphs in a string
// reuse the cached geometry, which is immutable after validation.
//
// TextMesher is safe for concurrent use.
type TextMesher struct {
	fonts  *FontSystem
	shaper *Shaper
	opts   textmesh.ExtrudeOptions
	meshes *cache.Sharded[meshKey, meshResult]
}

// NewTextMesher creates a mesher over the given font registry.
func NewTextMesher(fonts *FontSystem, opts textmesh.ExtrudeOptions) *TextMesher {
	return &TextMesher{
		fonts:  fonts,
		shaper: NewShaper(),
		opts:   opts,
		meshes: cache.NewSharded[meshKey, meshResult](0, hashMeshKey),
	}
}

// Fonts returns the underlying font registry.
func (m *TextMesher) Fonts() *FontSystem { return m.fonts }

// CacheStats returns the mesh cache counters.
func (m *TextMesher) CacheStats() cache.Stats { return m.meshes.Stats() }

// GlyphMesh returns the extruded mesh for one shaped glyph, computing
// and caching it on first use. The returned geometry is shared and
// must not be modified.
func (m *TextMesher) GlyphMesh(g ShapedGlyph) (*textmesh.ExtrudedMeshGeometry, error) {
	key := meshKey{
		font:    g.FontID,
		glyph:   g.GlyphID,
		size:    g.FontSize,
		beveled: m.opts.Bevel != nil,
	}
	res := m.meshes.GetOrCreate(key, func() meshResult {
		return m.buildGlyphMesh(g)
	})
	return res.mesh, res.err
}

func (m *TextMesher) buildGlyphMesh(g ShapedGlyph) meshResult {
	ref := textmesh.GlyphRef{
		FontID:   g.FontID,
		GlyphID:  g.GlyphID,
		FontSize: g.FontSize,
	}
	outline, err := textmesh.ExtractGlyphOutline(ref, m.fonts)
	if err != nil {
		return meshResult{err: err}
	}
	mesh, err := textmesh.ExtrudeGlyph(outline, m.opts)
	if err != nil {
		return meshResult{err: err}
	}
	return meshResult{mesh: mesh}
}

// MeshText lays out a string and returns one placed mesh per glyph
// that produced geometry. Glyphs that fail (whitespace has no outline;
// a rare outline may be degenerate) are skipped with a log entry rather
// than aborting the whole string, so partial text still renders.
func (m *TextMesher) MeshText(str string, style Style, layout LayoutOptions) ([]PlacedMesh, error) {
	lines, err := LayoutText(m.fonts, m.shaper, str, style, layout)
	if err != nil {
		return nil, err
	}

	var placed []PlacedMesh
	for _, line := range lines {
		for _, g := range line.Glyphs {
			mesh, err := m.GlyphMesh(g)
			if err != nil {
				textmesh.Logger().Debug("text: skipping glyph without mesh",
					"font", g.FontID, "glyph", g.GlyphID, "err", err)
				continue
			}
			placed = append(placed, PlacedMesh{
				Mesh: mesh,
				Position: textmesh.Vec3{
					X: g.X + g.XOffset,
					Y: line.Y + g.Y + g.YOffset,
					Z: 0,
				},
				Material: g.Material,
				Glyph:    g,
			})
		}
	}
	return placed, nil
}
