package world

import (
	"sync"

	"voxelworld/internal/meshing"
	"voxelworld/internal/voxel"
)

// MeshHandle is a renderable mesh owned by a MeshBackend. Release frees the
// backing buffers; the handle must not be drawn afterwards.
type MeshHandle interface {
	VertexCount() int
	IndexCount() int
	Release()
}

// MeshBackend turns finished mesh data into renderable handles. It is only
// called from the frame thread.
type MeshBackend interface {
	Upload(data meshing.MeshData) (MeshHandle, error)
}

// Mesher schedules background mesh builds. *meshing.Worker implements it.
type Mesher interface {
	Submit(objectID uint32, g *voxel.Grid) (*meshing.Pending, error)
}

// CPUBackend keeps uploaded meshes in memory. It backs headless runs and
// tests, and tracks live handles so leaks show up.
type CPUBackend struct {
	mu      sync.Mutex
	uploads int
	live    int
}

func NewCPUBackend() *CPUBackend { return &CPUBackend{} }

func (b *CPUBackend) Upload(data meshing.MeshData) (MeshHandle, error) {
	b.mu.Lock()
	b.uploads++
	b.live++
	b.mu.Unlock()
	return &CPUMesh{Data: data, backend: b}, nil
}

// Uploads is the total number of handles created.
func (b *CPUBackend) Uploads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploads
}

// Live is the number of handles not yet released.
func (b *CPUBackend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

// CPUMesh is the handle produced by CPUBackend.
type CPUMesh struct {
	Data     meshing.MeshData
	backend  *CPUBackend
	released bool
}

func (m *CPUMesh) VertexCount() int { return len(m.Data.Vertices) }
func (m *CPUMesh) IndexCount() int  { return len(m.Data.Indices) }

func (m *CPUMesh) Release() {
	if m.released {
		return
	}
	m.released = true
	m.Data = meshing.MeshData{}
	m.backend.mu.Lock()
	m.backend.live--
	m.backend.mu.Unlock()
}

// Released reports whether Release has run.
func (m *CPUMesh) Released() bool { return m.released }
