package world

import (
	"voxelworld/internal/meshing"
	"voxelworld/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// ObjectID identifies a placed object. IDs start at 1 and are never reused.
type ObjectID uint32

// Object is a voxel model placed in the world. Only the Registry mutates it.
type Object struct {
	id        ObjectID
	grid      *voxel.Grid
	transform Transform
	mesh      MeshHandle
	dirty     bool
	visible   bool
	pending   *meshing.Pending
}

func (o *Object) ID() ObjectID { return o.id }

// Grid is the model currently bound to the object.
func (o *Object) Grid() *voxel.Grid { return o.grid }

// Transform returns a copy of the object's transform.
func (o *Object) Transform() Transform { return o.transform }

func (o *Object) Matrix() mgl32.Mat4 { return o.transform.Matrix() }

// Mesh is the current handle, or nil while no mesh has been applied.
func (o *Object) Mesh() MeshHandle { return o.mesh }

func (o *Object) Visible() bool { return o.visible }

// Dirty reports whether a rebuild is waiting to be scheduled.
func (o *Object) Dirty() bool { return o.dirty }

// MeshPending reports whether a build for this object is in flight.
func (o *Object) MeshPending() bool { return o.pending != nil }

// Renderable is the per-frame view of an object handed to the renderer.
type Renderable struct {
	ID      ObjectID
	Matrix  mgl32.Mat4
	Mesh    MeshHandle
	Visible bool
}

// Drawable reports whether the renderer should issue a draw. Objects without
// a mesh are skipped, not treated as errors.
func (r Renderable) Drawable() bool {
	return r.Visible && r.Mesh != nil && r.Mesh.IndexCount() > 0
}
