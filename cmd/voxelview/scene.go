package main

import (
	"voxelworld/internal/voxel"
	"voxelworld/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// scene is what the viewer needs to know about the demo objects.
type scene struct {
	center   mgl32.Vec3
	spinning []world.ObjectID
}

// buildScene places the demo objects.
func buildScene(r *world.Registry) (scene, error) {
	var sc scene
	unit := mgl32.Vec3{1, 1, 1}
	none := mgl32.Vec3{}

	// Checkerboard ground: the worst case for merging.
	ground := voxel.MustGrid(24, 1, 24)
	for x := 0; x < 24; x++ {
		for z := 0; z < 24; z++ {
			c := voxel.ForestGreen
			if (x+z)%2 == 0 {
				c = voxel.DarkGreen
			}
			_ = ground.Set(x, 0, z, c)
		}
	}
	if _, err := r.AddObject(ground, mgl32.Vec3{-12, -1, -12}, none, unit); err != nil {
		return sc, err
	}

	tree := voxel.Tree(6, 3, voxel.SaddleBrown, voxel.ForestGreen)
	id, err := r.AddObject(tree, mgl32.Vec3{-3, 0, -3}, none, unit)
	if err != nil {
		return sc, err
	}
	sc.spinning = append(sc.spinning, id)

	ball := voxel.MustGrid(9, 9, 9)
	voxel.Sphere(ball, mgl32.Vec3{4.5, 4.5, 4.5}, 4.5, voxel.Orange)
	id, err = r.AddObject(ball, mgl32.Vec3{6, 0, -4}, none, unit)
	if err != nil {
		return sc, err
	}
	sc.spinning = append(sc.spinning, id)

	// Hollow crate, scaled down.
	crate := voxel.MustGrid(8, 8, 8)
	crate.Fill(voxel.Tan)
	voxel.Box(crate, [3]int{1, 1, 1}, [3]int{6, 6, 6}, voxel.Empty)
	voxel.Box(crate, [3]int{0, 2, 2}, [3]int{7, 5, 5}, voxel.Empty)
	if _, err := r.AddObject(crate, mgl32.Vec3{-8, 0, 5}, mgl32.Vec3{0, 0.6, 0}, mgl32.Vec3{0.75, 0.75, 0.75}); err != nil {
		return sc, err
	}

	for i, c := range []voxel.Color{voxel.Red, voxel.Gold, voxel.SkyBlue, voxel.Violet} {
		pillar := voxel.MustGrid(2, 3+2*i, 2)
		pillar.Fill(c)
		if _, err := r.AddObject(pillar, mgl32.Vec3{float32(3 * i), 0, 7}, none, unit); err != nil {
			return sc, err
		}
	}
	sc.center = mgl32.Vec3{0, 3, 0}
	return sc, nil
}
