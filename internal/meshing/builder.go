package meshing

import (
	"errors"
	"fmt"

	"voxelworld/internal/voxel"
)

var (
	ErrNilGrid       = errors.New("meshing: nil grid")
	ErrMeshBuild     = errors.New("meshing: mesh build failed")
	ErrQueueFull     = errors.New("meshing: task queue full")
	ErrWorkerStopped = errors.New("meshing: worker stopped")
	ErrUnknownMesher = errors.New("meshing: unknown mesher")
)

// Builder turns a grid into mesh data.
type Builder interface {
	Build(g *voxel.Grid) (MeshData, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(g *voxel.Grid) (MeshData, error)

func (f BuilderFunc) Build(g *voxel.Grid) (MeshData, error) { return f(g) }

// BuilderFor resolves a mesher name ("greedy" or "naive").
func BuilderFor(kind string) (Builder, error) {
	switch kind {
	case "", "greedy":
		return Greedy{}, nil
	case "naive":
		return Naive{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMesher, kind)
}
