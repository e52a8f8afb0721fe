package graphics

import "errors"

var (
	ErrShader       = errors.New("graphics: shader")
	ErrReleased     = errors.New("graphics: backend released")
	ErrMeshTooLarge = errors.New("graphics: mesh too large")
)
