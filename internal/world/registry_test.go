package world

import (
	"errors"
	"sync"
	"testing"
	"time"

	"voxelworld/internal/meshing"
	"voxelworld/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	origin = mgl32.Vec3{}
	unit   = mgl32.Vec3{1, 1, 1}
)

// gatedBuilder holds each build until the test lets it through with step or
// open, and reports every grid it starts on.
type gatedBuilder struct {
	started chan *voxel.Grid
	release chan struct{}
	once    sync.Once
}

func (b *gatedBuilder) Build(g *voxel.Grid) (meshing.MeshData, error) {
	b.started <- g
	<-b.release
	return meshing.Greedy{}.Build(g)
}

func (b *gatedBuilder) step() { b.release <- struct{}{} }
func (b *gatedBuilder) open() { b.once.Do(func() { close(b.release) }) }

func newWorker(t *testing.T, b meshing.Builder) *meshing.Worker {
	t.Helper()
	w := meshing.NewWorker(meshing.WorkerOptions{Builder: b})
	t.Cleanup(w.Close)
	return w
}

func newGated(t *testing.T) (*gatedBuilder, *meshing.Worker) {
	t.Helper()
	b := &gatedBuilder{started: make(chan *voxel.Grid, 64), release: make(chan struct{})}
	w := newWorker(t, b)
	// Cleanups run last-in first-out, so builds are unblocked before Close.
	t.Cleanup(b.open)
	return b, w
}

func solid(c voxel.Color) *voxel.Grid {
	g := voxel.MustGrid(1, 1, 1)
	g.Fill(c)
	return g
}

// pumpUntil calls UpdateMeshes until done reports true for the accumulated
// stats.
func pumpUntil(t *testing.T, r *Registry, done func(UpdateStats) bool) UpdateStats {
	t.Helper()
	var total UpdateStats
	require.Eventually(t, func() bool {
		s := r.UpdateMeshes()
		total.Applied += s.Applied
		total.Failed += s.Failed
		total.Scheduled += s.Scheduled
		total.Deferred += s.Deferred
		return done(total)
	}, 5*time.Second, time.Millisecond)
	return total
}

func meshColor(t *testing.T, obj *Object) voxel.Color {
	t.Helper()
	m, ok := obj.Mesh().(*CPUMesh)
	require.True(t, ok)
	require.NotEmpty(t, m.Data.Vertices)
	return m.Data.Vertices[0].Color
}

func TestAddObjectAssignsIncreasingIDs(t *testing.T) {
	r := NewRegistry(NewCPUBackend(), newWorker(t, nil), Options{})

	var ids []ObjectID
	for i := 0; i < 3; i++ {
		id, err := r.AddObject(solid(voxel.Red), origin, origin, unit)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []ObjectID{1, 2, 3}, ids)

	require.True(t, r.RemoveObject(2))
	assert.False(t, r.RemoveObject(2))
	id, err := r.AddObject(solid(voxel.Red), origin, origin, unit)
	require.NoError(t, err)
	assert.Equal(t, ObjectID(4), id)
	assert.Equal(t, 3, r.ObjectCount())

	_, err = r.AddObject(nil, origin, origin, unit)
	assert.ErrorIs(t, err, meshing.ErrNilGrid)
}

func TestObjectWithoutMeshIsSkipped(t *testing.T) {
	b, w := newGated(t)
	r := NewRegistry(NewCPUBackend(), w, Options{})

	id, err := r.AddObject(solid(voxel.Red), origin, origin, unit)
	require.NoError(t, err)
	<-b.started

	stats := r.UpdateMeshes()
	assert.Zero(t, stats.Applied)
	list := r.RenderableObjects()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Nil(t, list[0].Mesh)
	assert.False(t, list[0].Drawable())

	b.step()
	pumpUntil(t, r, func(s UpdateStats) bool { return s.Applied == 1 })
	list = r.RenderableObjects()
	require.True(t, list[0].Drawable())
	assert.Equal(t, 36, list[0].Mesh.IndexCount())
	assert.Equal(t, 24, list[0].Mesh.VertexCount())
}

func TestRemoveWhileBuildPending(t *testing.T) {
	b, w := newGated(t)
	backend := NewCPUBackend()
	r := NewRegistry(backend, w, Options{})

	id, err := r.AddObject(solid(voxel.Red), origin, origin, unit)
	require.NoError(t, err)
	<-b.started
	require.True(t, r.RemoveObject(id))
	_, ok := r.Object(id)
	assert.False(t, ok)

	b.step()
	require.Eventually(t, func() bool { return w.Completed() == 1 }, 5*time.Second, time.Millisecond)
	assert.Equal(t, UpdateStats{}, r.UpdateMeshes())
	assert.Zero(t, backend.Uploads())
	assert.Empty(t, r.RenderableObjects())
}

func TestMeshesApplyInSubmissionOrder(t *testing.T) {
	var (
		mu    sync.Mutex
		order []voxel.Color
	)
	w := newWorker(t, meshing.BuilderFunc(func(g *voxel.Grid) (meshing.MeshData, error) {
		mu.Lock()
		order = append(order, g.At(0, 0, 0))
		mu.Unlock()
		return meshing.Greedy{}.Build(g)
	}))
	r := NewRegistry(NewCPUBackend(), w, Options{SnapshotGrids: true})

	colors := []voxel.Color{voxel.Red, voxel.Green, voxel.Blue, voxel.Yellow, voxel.Cyan, voxel.Magenta, voxel.Orange, voxel.Gold}
	for _, c := range colors {
		_, err := r.AddObject(solid(c), origin, origin, unit)
		require.NoError(t, err)
	}
	pumpUntil(t, r, func(s UpdateStats) bool { return s.Applied == len(colors) })

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, colors, order)
	for i, obj := range r.Objects() {
		assert.Equal(t, colors[i], meshColor(t, obj))
	}
}

func TestSetModelWhilePendingReschedulesAfterApply(t *testing.T) {
	b, w := newGated(t)
	r := NewRegistry(NewCPUBackend(), w, Options{})

	id, err := r.AddObject(solid(voxel.Red), origin, origin, unit)
	require.NoError(t, err)
	<-b.started

	require.NoError(t, r.SetObjectModel(id, solid(voxel.Blue)))
	stats := r.UpdateMeshes()
	assert.Zero(t, stats.Scheduled, "one build per object at a time")
	obj, _ := r.Object(id)
	assert.True(t, obj.Dirty())

	b.step()
	stats = pumpUntil(t, r, func(s UpdateStats) bool { return s.Applied == 1 })
	assert.Equal(t, 1, stats.Scheduled)
	assert.Equal(t, voxel.Red, meshColor(t, obj))
	assert.False(t, obj.Dirty())

	<-b.started
	b.step()
	pumpUntil(t, r, func(s UpdateStats) bool { return s.Applied == 1 })
	assert.Equal(t, voxel.Blue, meshColor(t, obj))
}

func TestFailedBuildKeepsPreviousMesh(t *testing.T) {
	w := newWorker(t, meshing.BuilderFunc(func(g *voxel.Grid) (meshing.MeshData, error) {
		if g.At(0, 0, 0) == voxel.Red {
			return meshing.MeshData{}, errors.New("refusing red")
		}
		return meshing.Greedy{}.Build(g)
	}))
	backend := NewCPUBackend()
	r := NewRegistry(backend, w, Options{})

	id, err := r.AddObject(solid(voxel.Green), origin, origin, unit)
	require.NoError(t, err)
	pumpUntil(t, r, func(s UpdateStats) bool { return s.Applied == 1 })
	obj, _ := r.Object(id)
	before := obj.Mesh()

	require.NoError(t, r.SetObjectModel(id, solid(voxel.Red)))
	pumpUntil(t, r, func(s UpdateStats) bool { return s.Failed == 1 })

	assert.Same(t, before, obj.Mesh())
	assert.False(t, obj.Mesh().(*CPUMesh).Released())
	assert.Equal(t, voxel.Green, meshColor(t, obj))
	assert.False(t, obj.Dirty())
	assert.Equal(t, 1, backend.Live())
}

// refusingMesher rejects the first n submissions with ErrQueueFull.
type refusingMesher struct {
	n     int
	inner Mesher
}

func (m *refusingMesher) Submit(objectID uint32, g *voxel.Grid) (*meshing.Pending, error) {
	if m.n > 0 {
		m.n--
		return nil, meshing.ErrQueueFull
	}
	return m.inner.Submit(objectID, g)
}

func TestQueueFullLeavesObjectDirty(t *testing.T) {
	m := &refusingMesher{n: 2, inner: newWorker(t, nil)}
	r := NewRegistry(NewCPUBackend(), m, Options{})

	id, err := r.AddObject(solid(voxel.Red), origin, origin, unit)
	require.NoError(t, err)
	obj, _ := r.Object(id)
	assert.True(t, obj.Dirty())
	assert.False(t, obj.MeshPending())

	stats := r.UpdateMeshes()
	assert.Equal(t, 1, stats.Deferred)
	assert.True(t, obj.Dirty())

	stats = r.UpdateMeshes()
	assert.Equal(t, 1, stats.Scheduled)
	assert.False(t, obj.Dirty())
	pumpUntil(t, r, func(s UpdateStats) bool { return s.Applied == 1 })
	assert.NotNil(t, obj.Mesh())
}

func TestSnapshotIsolatesInPlaceEdits(t *testing.T) {
	b, w := newGated(t)
	r := NewRegistry(NewCPUBackend(), w, Options{SnapshotGrids: true})

	g := solid(voxel.Red)
	id, err := r.AddObject(g, origin, origin, unit)
	require.NoError(t, err)
	submitted := <-b.started
	assert.NotSame(t, g, submitted)

	g.Fill(voxel.Blue)
	b.step()
	pumpUntil(t, r, func(s UpdateStats) bool { return s.Applied == 1 })
	obj, _ := r.Object(id)
	assert.Equal(t, voxel.Red, meshColor(t, obj))

	require.True(t, r.MarkDirty(id))
	assert.Equal(t, 1, r.UpdateMeshes().Scheduled)
	<-b.started
	b.step()
	pumpUntil(t, r, func(s UpdateStats) bool { return s.Applied == 1 })
	assert.Equal(t, voxel.Blue, meshColor(t, obj))
}

type failingBackend struct{}

func (failingBackend) Upload(meshing.MeshData) (MeshHandle, error) {
	return nil, errors.New("out of buffers")
}

func TestUploadFailureCountsAsFailed(t *testing.T) {
	r := NewRegistry(failingBackend{}, newWorker(t, nil), Options{})
	id, err := r.AddObject(solid(voxel.Red), origin, origin, unit)
	require.NoError(t, err)

	pumpUntil(t, r, func(s UpdateStats) bool { return s.Failed == 1 })
	obj, _ := r.Object(id)
	assert.Nil(t, obj.Mesh())
}

func TestRemoveAndClearReleaseMeshes(t *testing.T) {
	backend := NewCPUBackend()
	r := NewRegistry(backend, newWorker(t, nil), Options{})

	a, err := r.AddObject(solid(voxel.Red), origin, origin, unit)
	require.NoError(t, err)
	_, err = r.AddObject(solid(voxel.Blue), origin, origin, unit)
	require.NoError(t, err)
	pumpUntil(t, r, func(s UpdateStats) bool { return s.Applied == 2 })
	assert.Equal(t, 2, backend.Live())

	require.True(t, r.RemoveObject(a))
	assert.Equal(t, 1, backend.Live())

	r.Clear()
	assert.Zero(t, backend.Live())
	assert.Zero(t, r.ObjectCount())
	id, err := r.AddObject(solid(voxel.Red), origin, origin, unit)
	require.NoError(t, err)
	assert.Equal(t, ObjectID(3), id)
}

func TestObjectMutators(t *testing.T) {
	r := NewRegistry(NewCPUBackend(), newWorker(t, nil), Options{})
	g := solid(voxel.Red)
	id, err := r.AddObject(g, origin, origin, unit)
	require.NoError(t, err)

	require.True(t, r.SetObjectPosition(id, mgl32.Vec3{1, 2, 3}))
	m, ok := r.ObjectModelMatrix(id)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec4{1, 2, 3, 1}, m.Col(3))

	require.True(t, r.TranslateObject(id, mgl32.Vec3{1, 0, 0}))
	require.True(t, r.ScaleObject(id, mgl32.Vec3{2, 2, 2}))
	obj, _ := r.Object(id)
	tr := obj.Transform()
	assert.Equal(t, mgl32.Vec3{2, 2, 3}, tr.Position())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, tr.Scale())

	require.True(t, r.RotateObject(id, mgl32.Vec3{0, 0.5, 0}))
	require.True(t, r.SetObjectRotation(id, mgl32.Vec3{0, 0, 1}))
	require.True(t, r.SetObjectScale(id, unit))
	tr = obj.Transform()
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, tr.Rotation())

	require.True(t, r.SetObjectTransform(id, NewTransform(mgl32.Vec3{5, 0, 0}, origin, unit)))
	m, _ = r.ObjectModelMatrix(id)
	assert.Equal(t, mgl32.Vec4{5, 0, 0, 1}, m.Col(3))

	assert.True(t, r.IsObjectVisible(id))
	require.True(t, r.SetObjectVisible(id, false))
	assert.False(t, r.IsObjectVisible(id))
	assert.False(t, r.RenderableObjects()[0].Visible)

	model, ok := r.ObjectModel(id)
	require.True(t, ok)
	assert.Same(t, g, model)

	const missing = ObjectID(99)
	assert.False(t, r.ObjectExists(missing))
	assert.False(t, r.SetObjectPosition(missing, origin))
	assert.False(t, r.IsObjectVisible(missing))
	assert.ErrorIs(t, r.SetObjectModel(missing, g), ErrObjectNotFound)
	assert.ErrorIs(t, r.SetObjectModel(id, nil), meshing.ErrNilGrid)
	_, ok = r.ObjectModelMatrix(missing)
	assert.False(t, ok)
}

func TestSettledCountsFailedAndEmptyBuilds(t *testing.T) {
	w := newWorker(t, meshing.BuilderFunc(func(g *voxel.Grid) (meshing.MeshData, error) {
		if g.At(0, 0, 0) == voxel.Red {
			return meshing.MeshData{}, errors.New("refusing red")
		}
		return meshing.Greedy{}.Build(g)
	}))
	r := NewRegistry(NewCPUBackend(), w, Options{})
	assert.True(t, r.Settled())

	solidID, err := r.AddObject(solid(voxel.Green), origin, origin, unit)
	require.NoError(t, err)
	failedID, err := r.AddObject(solid(voxel.Red), origin, origin, unit)
	require.NoError(t, err)
	emptyID, err := r.AddObject(voxel.MustGrid(2, 2, 2), origin, origin, unit)
	require.NoError(t, err)
	assert.False(t, r.Settled())

	require.Eventually(t, func() bool {
		r.UpdateMeshes()
		return r.Settled()
	}, 5*time.Second, time.Millisecond)

	list := r.RenderableObjects()
	byID := map[ObjectID]Renderable{}
	for _, o := range list {
		byID[o.ID] = o
	}
	assert.True(t, byID[solidID].Drawable())
	assert.Nil(t, byID[failedID].Mesh)
	require.NotNil(t, byID[emptyID].Mesh)
	assert.Zero(t, byID[emptyID].Mesh.IndexCount())
	assert.False(t, byID[emptyID].Drawable())

	require.True(t, r.MarkDirty(solidID))
	assert.False(t, r.Settled())
}

func TestSettledWaitsForDeferredObjects(t *testing.T) {
	m := &refusingMesher{n: 1, inner: newWorker(t, nil)}
	r := NewRegistry(NewCPUBackend(), m, Options{})

	_, err := r.AddObject(solid(voxel.Red), origin, origin, unit)
	require.NoError(t, err)
	assert.False(t, r.Settled(), "refused object is still dirty")

	require.Eventually(t, func() bool {
		r.UpdateMeshes()
		return r.Settled()
	}, 5*time.Second, time.Millisecond)
}
