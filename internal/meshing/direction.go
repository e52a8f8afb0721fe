package meshing

import (
	"fmt"

	"voxelworld/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// Direction is one of the six axis-aligned face normals.
type Direction int

const (
	PosX Direction = iota // east
	NegX                  // west
	PosY                  // top
	NegY                  // bottom
	PosZ                  // north
	NegZ                  // south
)

// Directions lists every face direction in meshing order.
var Directions = [6]Direction{PosX, NegX, PosY, NegY, PosZ, NegZ}

var directionOffsets = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

func (d Direction) valid() bool { return d >= PosX && d <= NegZ }

// Offset is the unit step to the neighbouring cell across this face.
func (d Direction) Offset() (dx, dy, dz int) {
	if !d.valid() {
		panic(fmt.Sprintf("meshing: invalid direction %d", int(d)))
	}
	o := directionOffsets[d]
	return o[0], o[1], o[2]
}

// Normal is the outward unit normal.
func (d Direction) Normal() mgl32.Vec3 {
	dx, dy, dz := d.Offset()
	return mgl32.Vec3{float32(dx), float32(dy), float32(dz)}
}

// Axis is 0, 1 or 2 for X, Y or Z.
func (d Direction) Axis() int { return int(d) / 2 }

// Positive reports whether the normal points along +axis.
func (d Direction) Positive() bool { return int(d)%2 == 0 }

func (d Direction) String() string {
	switch d {
	case PosX:
		return "+X"
	case NegX:
		return "-X"
	case PosY:
		return "+Y"
	case NegY:
		return "-Y"
	case PosZ:
		return "+Z"
	case NegZ:
		return "-Z"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// DirectionOf maps an axis-aligned unit normal back to its Direction.
func DirectionOf(n mgl32.Vec3) (Direction, bool) {
	for _, d := range Directions {
		if d.Normal() == n {
			return d, true
		}
	}
	return 0, false
}

// FaceVisible reports whether the face of cell (x, y, z) in direction d is
// exposed: the neighbour across it is outside the grid or empty. It does not
// look at (x, y, z) itself.
func FaceVisible(g *voxel.Grid, x, y, z int, d Direction) bool {
	dx, dy, dz := d.Offset()
	return g.IsEmpty(x+dx, y+dy, z+dz)
}
