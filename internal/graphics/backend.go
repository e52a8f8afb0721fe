package graphics

import (
	"fmt"
	"math"
	"unsafe"

	"voxelworld/internal/meshing"
	"voxelworld/internal/profiling"
	"voxelworld/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Backend uploads mesh data into GL buffers. It must be used on the thread
// that owns the GL context.
type Backend struct {
	live     int
	released bool
}

func NewBackend() *Backend { return &Backend{} }

// Mesh is a VAO with its vertex and index buffers.
type Mesh struct {
	vao, vbo, ebo uint32
	vertices      int
	indices       int32
	backend       *Backend
}

func (b *Backend) Upload(data meshing.MeshData) (world.MeshHandle, error) {
	if b.released {
		return nil, ErrReleased
	}
	if err := checkMeshSize(len(data.Vertices), len(data.Indices)); err != nil {
		return nil, err
	}
	defer profiling.Track("graphics.Upload")()

	m := &Mesh{vertices: len(data.Vertices), indices: int32(len(data.Indices)), backend: b}
	b.live++
	if data.IsEmpty() {
		return m, nil
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data.Vertices)*meshing.VertexSize, unsafe.Pointer(&data.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)

	var v meshing.Vertex
	stride := int32(meshing.VertexSize)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, unsafe.Offsetof(v.Position))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, unsafe.Offsetof(v.Normal))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 4, gl.UNSIGNED_BYTE, true, stride, unsafe.Offsetof(v.Color))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m, nil
}

// checkMeshSize rejects meshes whose index count does not fit the int32 draw
// count or whose vertices cannot all be addressed by uint32 indices.
func checkMeshSize(vertices, indices int) error {
	if indices > math.MaxInt32 {
		return fmt.Errorf("%w: %d indices", ErrMeshTooLarge, indices)
	}
	if uint64(vertices) > math.MaxUint32+1 {
		return fmt.Errorf("%w: %d vertices", ErrMeshTooLarge, vertices)
	}
	return nil
}

// Live is the number of meshes not yet released.
func (b *Backend) Live() int { return b.live }

// Release marks the backend unusable. Meshes still alive must be released
// by their owner first.
func (b *Backend) Release() { b.released = true }

func (m *Mesh) VertexCount() int { return m.vertices }
func (m *Mesh) IndexCount() int  { return int(m.indices) }

func (m *Mesh) Release() {
	if m.backend == nil {
		return
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		m.vao, m.vbo, m.ebo = 0, 0, 0
	}
	m.backend.live--
	m.backend = nil
}

func (m *Mesh) draw() {
	if m.vao == 0 || m.indices == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indices, gl.UNSIGNED_INT, nil)
}
