package world

import (
	"errors"
	"fmt"
	"slices"

	"voxelworld/internal/logging"
	"voxelworld/internal/meshing"
	"voxelworld/internal/profiling"
	"voxelworld/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrObjectNotFound = errors.New("world: object not found")
	// ErrNilGrid is meshing.ErrNilGrid, so either matches with errors.Is.
	ErrNilGrid = meshing.ErrNilGrid
)

// Options configures NewRegistry.
type Options struct {
	Logger logging.Logger
	// SnapshotGrids submits a clone of the grid so the caller may keep
	// editing it while a build is in flight.
	SnapshotGrids bool
}

// UpdateStats summarizes one UpdateMeshes call.
type UpdateStats struct {
	Applied   int // results uploaded and swapped in
	Failed    int // results that carried an error or failed to upload
	Scheduled int // dirty objects handed to the mesher
	Deferred  int // dirty objects the mesher refused; retried next frame
}

// Registry owns the placed objects and keeps their meshes current. All
// methods must be called from the frame thread.
type Registry struct {
	backend  MeshBackend
	mesher   Mesher
	log      logging.Logger
	snapshot bool

	objects []*Object // insertion order
	index   map[ObjectID]*Object
	nextID  ObjectID
}

func NewRegistry(backend MeshBackend, mesher Mesher, opts Options) *Registry {
	return &Registry{
		backend:  backend,
		mesher:   mesher,
		log:      logging.OrNop(opts.Logger),
		snapshot: opts.SnapshotGrids,
		index:    make(map[ObjectID]*Object),
		nextID:   1,
	}
}

// AddObject places grid in the world and schedules its first mesh build.
// The object renders nothing until that build has been applied.
func (r *Registry) AddObject(grid *voxel.Grid, position, rotation, scale mgl32.Vec3) (ObjectID, error) {
	if grid == nil {
		return 0, ErrNilGrid
	}
	obj := &Object{
		id:        r.nextID,
		grid:      grid,
		transform: NewTransform(position, rotation, scale),
		dirty:     true,
		visible:   true,
	}
	r.nextID++
	r.objects = append(r.objects, obj)
	r.index[obj.id] = obj
	r.schedule(obj)
	return obj.id, nil
}

// RemoveObject drops the object and releases its mesh. A build still in
// flight is abandoned; its result is never applied.
func (r *Registry) RemoveObject(id ObjectID) bool {
	obj, ok := r.index[id]
	if !ok {
		return false
	}
	delete(r.index, id)
	r.objects = slices.DeleteFunc(r.objects, func(o *Object) bool { return o == obj })
	r.detach(obj)
	return true
}

// Clear removes every object. IDs keep counting from where they were.
func (r *Registry) Clear() {
	for _, obj := range r.objects {
		r.detach(obj)
	}
	r.objects = nil
	clear(r.index)
}

func (r *Registry) detach(obj *Object) {
	if obj.mesh != nil {
		obj.mesh.Release()
		obj.mesh = nil
	}
	obj.pending = nil
}

// Object returns the object with id. The pointer stays readable after
// removal but no longer reflects the world.
func (r *Registry) Object(id ObjectID) (*Object, bool) {
	obj, ok := r.index[id]
	return obj, ok
}

func (r *Registry) ObjectExists(id ObjectID) bool {
	_, ok := r.index[id]
	return ok
}

func (r *Registry) ObjectCount() int { return len(r.objects) }

// Objects returns the objects in insertion order.
func (r *Registry) Objects() []*Object { return slices.Clone(r.objects) }

func (r *Registry) with(id ObjectID, fn func(*Object)) bool {
	obj, ok := r.index[id]
	if !ok {
		return false
	}
	fn(obj)
	return true
}

func (r *Registry) SetObjectPosition(id ObjectID, p mgl32.Vec3) bool {
	return r.with(id, func(o *Object) { o.transform.SetPosition(p) })
}

func (r *Registry) SetObjectRotation(id ObjectID, rot mgl32.Vec3) bool {
	return r.with(id, func(o *Object) { o.transform.SetRotation(rot) })
}

func (r *Registry) SetObjectScale(id ObjectID, s mgl32.Vec3) bool {
	return r.with(id, func(o *Object) { o.transform.SetScale(s) })
}

func (r *Registry) SetObjectTransform(id ObjectID, t Transform) bool {
	return r.with(id, func(o *Object) {
		o.transform = NewTransform(t.Position(), t.Rotation(), t.Scale())
	})
}

func (r *Registry) TranslateObject(id ObjectID, offset mgl32.Vec3) bool {
	return r.with(id, func(o *Object) { o.transform.Translate(offset) })
}

func (r *Registry) RotateObject(id ObjectID, angles mgl32.Vec3) bool {
	return r.with(id, func(o *Object) { o.transform.Rotate(angles) })
}

func (r *Registry) ScaleObject(id ObjectID, factor mgl32.Vec3) bool {
	return r.with(id, func(o *Object) { o.transform.ScaleBy(factor) })
}

func (r *Registry) SetObjectVisible(id ObjectID, visible bool) bool {
	return r.with(id, func(o *Object) { o.visible = visible })
}

// IsObjectVisible is false for unknown ids.
func (r *Registry) IsObjectVisible(id ObjectID) bool {
	obj, ok := r.index[id]
	return ok && obj.visible
}

// SetObjectModel rebinds the object's grid and marks it for a rebuild on the
// next UpdateMeshes. The current mesh keeps rendering until then.
func (r *Registry) SetObjectModel(id ObjectID, grid *voxel.Grid) error {
	if grid == nil {
		return ErrNilGrid
	}
	obj, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrObjectNotFound, id)
	}
	obj.grid = grid
	obj.dirty = true
	return nil
}

// MarkDirty schedules a rebuild of the object's current grid, for callers
// that edited it in place.
func (r *Registry) MarkDirty(id ObjectID) bool {
	return r.with(id, func(o *Object) { o.dirty = true })
}

func (r *Registry) ObjectModel(id ObjectID) (*voxel.Grid, bool) {
	obj, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return obj.grid, true
}

func (r *Registry) ObjectModelMatrix(id ObjectID) (mgl32.Mat4, bool) {
	obj, ok := r.index[id]
	if !ok {
		return mgl32.Mat4{}, false
	}
	return obj.transform.Matrix(), true
}

// PendingCount is the number of objects with a build in flight.
func (r *Registry) PendingCount() int {
	n := 0
	for _, obj := range r.objects {
		if obj.pending != nil {
			n++
		}
	}
	return n
}

// Settled reports whether no object has a build in flight or waiting to be
// scheduled. Failed or empty builds count as settled.
func (r *Registry) Settled() bool {
	for _, obj := range r.objects {
		if obj.pending != nil || obj.dirty {
			return false
		}
	}
	return true
}

// UpdateMeshes applies every build that has finished and schedules builds
// for dirty objects. It never waits on the mesher.
func (r *Registry) UpdateMeshes() UpdateStats {
	defer profiling.Track("world.UpdateMeshes")()

	var stats UpdateStats
	for _, obj := range r.objects {
		if obj.pending == nil {
			continue
		}
		res, ok := obj.pending.Poll()
		if !ok {
			continue
		}
		obj.pending = nil
		if r.apply(obj, res) {
			stats.Applied++
		} else {
			stats.Failed++
		}
	}

	for _, obj := range r.objects {
		if !obj.dirty || obj.pending != nil {
			continue
		}
		if r.schedule(obj) {
			stats.Scheduled++
		} else {
			stats.Deferred++
		}
	}
	return stats
}

// apply swaps in a finished mesh. On any failure the previous mesh stays.
func (r *Registry) apply(obj *Object, res meshing.Result) bool {
	if res.Err != nil {
		r.log.Warnf("object %d: mesh build failed: %v", obj.id, res.Err)
		return false
	}
	handle, err := r.backend.Upload(res.Mesh)
	if err != nil {
		r.log.Errorf("object %d: mesh upload failed: %v", obj.id, err)
		return false
	}
	if obj.mesh != nil {
		obj.mesh.Release()
	}
	obj.mesh = handle
	r.log.Debugf("object %d: mesh applied (%d quads, built in %s)", obj.id, res.Mesh.QuadCount(), res.Elapsed)
	return true
}

// schedule submits obj's grid. The dirty flag is cleared only once the
// mesher has accepted the task.
func (r *Registry) schedule(obj *Object) bool {
	g := obj.grid
	if r.snapshot {
		g = g.Clone()
	}
	p, err := r.mesher.Submit(uint32(obj.id), g)
	if err != nil {
		r.log.Debugf("object %d: mesh build deferred: %v", obj.id, err)
		return false
	}
	obj.pending = p
	obj.dirty = false
	return true
}

// RenderableObjects returns every object in insertion order, including
// those without a mesh yet.
func (r *Registry) RenderableObjects() []Renderable {
	out := make([]Renderable, 0, len(r.objects))
	for _, obj := range r.objects {
		out = append(out, Renderable{
			ID:      obj.id,
			Matrix:  obj.transform.Matrix(),
			Mesh:    obj.mesh,
			Visible: obj.visible,
		})
	}
	return out
}
