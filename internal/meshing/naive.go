package meshing

import "voxelworld/internal/voxel"

// Naive emits one quad per exposed unit face. It is the reference the greedy
// builder is checked against.
type Naive struct{}

func (Naive) Build(g *voxel.Grid) (MeshData, error) {
	if g == nil {
		return MeshData{}, ErrNilGrid
	}
	var m MeshData
	w, h, dd := g.Dims()
	for z := 0; z < dd; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := g.At(x, y, z)
				if c == voxel.Empty {
					continue
				}
				for _, d := range Directions {
					if FaceVisible(g, x, y, z, d) {
						m.appendBlockFace([3]int{x, y, z}, [3]int{x + 1, y + 1, z + 1}, d, c)
					}
				}
			}
		}
	}
	return m, nil
}
