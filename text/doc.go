// Package text provides font management, HarfBuzz shaping, and line
// layout for the textmesh pipeline.
//
// The package turns a string into a stream of positioned glyph
// references ([ShapedGlyph]) that the core pipeline consumes one glyph
// at a time. [FontSystem] owns parsed fonts and implements
// textmesh.FontProvider; [TextMesher] ties shaping, layout, and the
// extrusion pipeline together with a sharded per-glyph mesh cache.
package text
