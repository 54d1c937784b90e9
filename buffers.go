package textmesh

// MeshBuffers is the flat, renderer-ready form of an extruded mesh:
// tightly packed float32 attribute arrays plus a 32-bit triangle-list
// index buffer. Positions and normals are xyz triplets, UVs are uv
// pairs. The conversion is a pure, lossless-in-structure transcoding;
// coordinates narrow from float64 to float32 at the boundary.
type MeshBuffers struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in the buffers.
func (b *MeshBuffers) VertexCount() int {
	return len(b.Positions) / 3
}

// Buffers transcodes the geometry into flat attribute buffers.
func (g *ExtrudedMeshGeometry) Buffers() *MeshBuffers {
	b := &MeshBuffers{
		Positions: make([]float32, 0, len(g.Vertices)*3),
		Normals:   make([]float32, 0, len(g.Normals)*3),
		UVs:       make([]float32, 0, len(g.UVs)*2),
		Indices:   make([]uint32, len(g.Indices)),
	}
	for _, v := range g.Vertices {
		b.Positions = append(b.Positions, float32(v.X), float32(v.Y), float32(v.Z))
	}
	for _, n := range g.Normals {
		b.Normals = append(b.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	for _, uv := range g.UVs {
		b.UVs = append(b.UVs, float32(uv.X), float32(uv.Y))
	}
	copy(b.Indices, g.Indices)
	return b
}
