package meshing

import (
	"voxelworld/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexSize is the byte size of one Vertex: pos.xyz + normal.xyz as float32,
// then the packed color.
const VertexSize = 28

// Vertex is one corner of a face quad.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    voxel.Color
}

// MeshData is an indexed triangle list. Every quad contributes 4 vertices and
// 6 indices, wound counter-clockwise when viewed from outside.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m *MeshData) IsEmpty() bool { return len(m.Indices) == 0 }

func (m *MeshData) QuadCount() int { return len(m.Indices) / 6 }

func (m *MeshData) TriangleCount() int { return len(m.Indices) / 3 }

// appendQuad adds c0..c3 as two triangles (0,1,2) and (2,3,0).
func (m *MeshData) appendQuad(c0, c1, c2, c3, normal mgl32.Vec3, color voxel.Color) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		Vertex{Position: c0, Normal: normal, Color: color},
		Vertex{Position: c1, Normal: normal, Color: color},
		Vertex{Position: c2, Normal: normal, Color: color},
		Vertex{Position: c3, Normal: normal, Color: color},
	)
	m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+3, base)
}

// SurfaceArea sums the area of every triangle.
func (m *MeshData) SurfaceArea() float64 {
	var total float64
	for i := 0; i+2 < len(m.Indices); i += 3 {
		total += m.triangleArea(i)
	}
	return total
}

// AreaByDirection splits SurfaceArea by face normal.
func (m *MeshData) AreaByDirection() [6]float64 {
	var out [6]float64
	for i := 0; i+2 < len(m.Indices); i += 3 {
		d, ok := DirectionOf(m.Vertices[m.Indices[i]].Normal)
		if !ok {
			continue
		}
		out[d] += m.triangleArea(i)
	}
	return out
}

func (m *MeshData) triangleArea(i int) float64 {
	a := m.Vertices[m.Indices[i]].Position
	b := m.Vertices[m.Indices[i+1]].Position
	c := m.Vertices[m.Indices[i+2]].Position
	return 0.5 * float64(b.Sub(a).Cross(c.Sub(a)).Len())
}

// Bounds returns the axis-aligned box around all vertices; ok is false for an
// empty mesh.
func (m *MeshData) Bounds() (lo, hi mgl32.Vec3, ok bool) {
	if len(m.Vertices) == 0 {
		return lo, hi, false
	}
	lo, hi = m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], v.Position[k])
			hi[k] = max(hi[k], v.Position[k])
		}
	}
	return lo, hi, true
}
