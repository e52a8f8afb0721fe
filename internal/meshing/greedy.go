package meshing

import (
	"voxelworld/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// faceLayout maps grid axes onto one direction's sweep. Layers advance along
// layer; each layer is a u x v mask. Quads are emitted with edges along a then
// b, chosen so that a x b points along the outward normal.
type faceLayout struct {
	layer, u, v int
	a, b        int
}

var faceLayouts = [6]faceLayout{
	PosX: {layer: 0, u: 2, v: 1, a: 1, b: 2},
	NegX: {layer: 0, u: 2, v: 1, a: 2, b: 1},
	PosY: {layer: 1, u: 0, v: 2, a: 2, b: 0},
	NegY: {layer: 1, u: 0, v: 2, a: 0, b: 2},
	PosZ: {layer: 2, u: 0, v: 1, a: 0, b: 1},
	NegZ: {layer: 2, u: 0, v: 1, a: 1, b: 0},
}

// Greedy merges coplanar same-colored faces into maximal rectangles.
type Greedy struct{}

// Build meshes every exposed face of g. An all-empty grid yields an empty mesh.
func (Greedy) Build(g *voxel.Grid) (MeshData, error) {
	if g == nil {
		return MeshData{}, ErrNilGrid
	}
	var m MeshData
	for _, d := range Directions {
		buildGreedyForDirection(&m, g, d)
	}
	return m, nil
}

// buildGreedyForDirection sweeps the layers of one face direction. Within a
// layer the mask is scanned u ascending, then v ascending; at each uncovered
// face the rectangle grows along u first, then along v while every cell of
// the next full row matches.
func buildGreedyForDirection(m *MeshData, g *voxel.Grid, d Direction) {
	dims := [3]int{g.Width(), g.Height(), g.Depth()}
	lay := faceLayouts[d]
	eu, ev, depth := dims[lay.u], dims[lay.v], dims[lay.layer]

	mask := make([]voxel.Color, eu*ev)
	covered := make([]bool, eu*ev)

	for layer := 0; layer < depth; layer++ {
		// Negative directions walk layers from the far side.
		l := layer
		if !d.Positive() {
			l = depth - 1 - layer
		}

		var p [3]int
		p[lay.layer] = l
		for u := 0; u < eu; u++ {
			p[lay.u] = u
			for v := 0; v < ev; v++ {
				p[lay.v] = v
				i := u*ev + v
				covered[i] = false
				mask[i] = voxel.Empty
				if c := g.At(p[0], p[1], p[2]); c != voxel.Empty && FaceVisible(g, p[0], p[1], p[2], d) {
					mask[i] = c
				}
			}
		}

		for u := 0; u < eu; u++ {
			for v := 0; v < ev; v++ {
				c := mask[u*ev+v]
				if c == voxel.Empty || covered[u*ev+v] {
					continue
				}

				w := 1
				for u+w < eu && mask[(u+w)*ev+v] == c && !covered[(u+w)*ev+v] {
					w++
				}

				h := 1
			grow:
				for v+h < ev {
					for i := 0; i < w; i++ {
						j := (u+i)*ev + v + h
						if mask[j] != c || covered[j] {
							break grow
						}
					}
					h++
				}

				for i := 0; i < w; i++ {
					for j := 0; j < h; j++ {
						covered[(u+i)*ev+v+j] = true
					}
				}

				var lo, hi [3]int
				lo[lay.layer], hi[lay.layer] = l, l+1
				lo[lay.u], hi[lay.u] = u, u+w
				lo[lay.v], hi[lay.v] = v, v+h
				m.appendBlockFace(lo, hi, d, c)
			}
		}
	}
}

// appendBlockFace emits the d-facing side of the cell box [lo, hi).
func (m *MeshData) appendBlockFace(lo, hi [3]int, d Direction, c voxel.Color) {
	lay := faceLayouts[d]
	k := d.Axis()
	plane := lo[k]
	if d.Positive() {
		plane = hi[k]
	}

	corner := func(ea, eb int) mgl32.Vec3 {
		var p mgl32.Vec3
		p[k] = float32(plane)
		p[lay.a] = float32(ea)
		p[lay.b] = float32(eb)
		return p
	}

	m.appendQuad(
		corner(lo[lay.a], lo[lay.b]),
		corner(hi[lay.a], lo[lay.b]),
		corner(hi[lay.a], hi[lay.b]),
		corner(lo[lay.a], hi[lay.b]),
		d.Normal(), c,
	)
}
