package voxel

import "fmt"

// Grid is a dense width x height x depth array of voxel colors.
//
// Cells are addressed as x + y*width + z*width*height. The backing slice
// always holds exactly width*height*depth cells.
type Grid struct {
	width, height, depth int
	cells                []Color
}

// NewGrid allocates an empty grid. Every dimension must be positive.
func NewGrid(width, height, depth int) (*Grid, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrInvalidDimensions, width, height, depth)
	}
	return &Grid{
		width:  width,
		height: height,
		depth:  depth,
		cells:  make([]Color, width*height*depth),
	}, nil
}

// MustGrid is NewGrid for dimensions known to be valid.
func MustGrid(width, height, depth int) *Grid {
	g, err := NewGrid(width, height, depth)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }
func (g *Grid) Depth() int  { return g.depth }

// Dims returns width, height and depth.
func (g *Grid) Dims() (int, int, int) {
	return g.width, g.height, g.depth
}

// Len is the number of cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// InBounds reports whether every coordinate lies in [0, dimension).
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height && z >= 0 && z < g.depth
}

func (g *Grid) index(x, y, z int) int {
	return x + y*g.width + z*g.width*g.height
}

func (g *Grid) rangeErr(op string, x, y, z int) error {
	return &OutOfRangeError{Op: op, X: x, Y: y, Z: z, Width: g.width, Height: g.height, Depth: g.depth}
}

// Get returns the color at (x, y, z).
func (g *Grid) Get(x, y, z int) (Color, error) {
	if !g.InBounds(x, y, z) {
		return Empty, g.rangeErr("get", x, y, z)
	}
	return g.cells[g.index(x, y, z)], nil
}

// Set stores a color at (x, y, z). Setting Empty clears the cell.
func (g *Grid) Set(x, y, z int, c Color) error {
	if !g.InBounds(x, y, z) {
		return g.rangeErr("set", x, y, z)
	}
	g.cells[g.index(x, y, z)] = c
	return nil
}

// At is Get without the error: out-of-range coordinates read as Empty.
func (g *Grid) At(x, y, z int) Color {
	if !g.InBounds(x, y, z) {
		return Empty
	}
	return g.cells[g.index(x, y, z)]
}

// IsEmpty reports whether (x, y, z) holds no solid voxel. Coordinates outside
// the grid are empty, so faces on the grid boundary always face open space.
func (g *Grid) IsEmpty(x, y, z int) bool {
	return g.At(x, y, z) == Empty
}

// Clear empties every cell.
func (g *Grid) Clear() {
	clear(g.cells)
}

// Fill sets every cell to c.
func (g *Grid) Fill(c Color) {
	for i := range g.cells {
		g.cells[i] = c
	}
}

// SolidCount returns the number of non-empty cells.
func (g *Grid) SolidCount() int {
	n := 0
	for _, c := range g.cells {
		if c != Empty {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	cells := make([]Color, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, depth: g.depth, cells: cells}
}
