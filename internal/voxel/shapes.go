package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Box fills the inclusive cell range [min, max], clipped to the grid.
func Box(g *Grid, min, max [3]int, c Color) {
	for z := min[2]; z <= max[2]; z++ {
		for y := min[1]; y <= max[1]; y++ {
			for x := min[0]; x <= max[0]; x++ {
				if g.InBounds(x, y, z) {
					g.cells[g.index(x, y, z)] = c
				}
			}
		}
	}
}

// Sphere fills every cell whose center lies within radius of center,
// clipped to the grid.
func Sphere(g *Grid, center mgl32.Vec3, radius float32, c Color) {
	r2 := radius * radius
	lo := [3]int{
		int(math.Floor(float64(center.X() - radius))),
		int(math.Floor(float64(center.Y() - radius))),
		int(math.Floor(float64(center.Z() - radius))),
	}
	hi := [3]int{
		int(math.Ceil(float64(center.X() + radius))),
		int(math.Ceil(float64(center.Y() + radius))),
		int(math.Ceil(float64(center.Z() + radius))),
	}
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				if !g.InBounds(x, y, z) {
					continue
				}
				d := mgl32.Vec3{float32(x) + 0.5, float32(y) + 0.5, float32(z) + 0.5}.Sub(center)
				if d.Dot(d) <= r2 {
					g.cells[g.index(x, y, z)] = c
				}
			}
		}
	}
}

// Tree builds a small tree: a one-cell trunk of trunkHeight under a round
// canopy. The grid is sized to fit.
func Tree(trunkHeight, canopyRadius int, trunk, leaves Color) *Grid {
	if trunkHeight < 1 {
		trunkHeight = 1
	}
	if canopyRadius < 1 {
		canopyRadius = 1
	}
	side := 2*canopyRadius + 1
	g := MustGrid(side, trunkHeight+2*canopyRadius, side)

	mid := canopyRadius
	Sphere(g, mgl32.Vec3{
		float32(mid) + 0.5,
		float32(trunkHeight+canopyRadius) + 0.5,
		float32(mid) + 0.5,
	}, float32(canopyRadius)+0.5, leaves)
	Box(g, [3]int{mid, 0, mid}, [3]int{mid, trunkHeight - 1, mid}, trunk)
	return g
}
