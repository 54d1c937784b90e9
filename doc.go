// Package textmesh turns font glyphs into extruded, beveled 3D triangle
// meshes suitable for rendering.
//
// The pipeline runs entirely on the CPU and is a pure function of its
// inputs: glyph outlines are extracted from font data, flattened into
// polygonal paths, tessellated into a front cap, offset inward into
// bevel rings, and bridged into a closed triangle mesh with smooth
// normals and planar UVs. Each stage is exposed as a standalone function
// so callers can compose them, or run the whole pipeline at once:
//
//	outline, err := textmesh.ExtractGlyphOutline(glyph, fonts)
//	if err != nil { ... }
//	mesh, err := textmesh.ExtrudeGlyph(outline, textmesh.DefaultExtrudeOptions())
//	if err != nil { ... }
//	buffers := mesh.Buffers()
//
// Higher-level callers that start from a string rather than a glyph id
// should use the text subpackage's TextMesher, which shapes and lays out
// the string and memoizes per-glyph meshes.
//
// All pipeline functions are safe to call concurrently for different
// glyphs; there is no package-level mutable state apart from the
// optional logger configured via [SetLogger].
package textmesh
