package voxel

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned by Get and Set for coordinates outside the grid.
	ErrOutOfRange = errors.New("voxel: coordinates out of range")
	// ErrInvalidDimensions is returned by NewGrid for non-positive sizes.
	ErrInvalidDimensions = errors.New("voxel: invalid grid dimensions")
)

// OutOfRangeError describes a rejected coordinate access.
type OutOfRangeError struct {
	Op                   string
	X, Y, Z              int
	Width, Height, Depth int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("voxel: %s(%d, %d, %d) outside %dx%dx%d grid",
		e.Op, e.X, e.Y, e.Z, e.Width, e.Height, e.Depth)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }
