package graphics

import (
	"math"
	"testing"
	"unsafe"

	"voxelworld/internal/meshing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

func TestCameraEyeOrbitsTarget(t *testing.T) {
	c := NewCamera(800, 600)
	c.Target = mgl32.Vec3{1, 2, 3}
	c.Distance = 10
	c.Pitch = 0

	assertVecNear(t, mgl32.Vec3{1, 2, 13}, c.Eye())

	c.Orbit(math.Pi/2, 0)
	assertVecNear(t, mgl32.Vec3{11, 2, 3}, c.Eye())
	assert.InDelta(t, 10, c.Eye().Sub(c.Target).Len(), 1e-4)
}

func TestCameraClamps(t *testing.T) {
	c := NewCamera(800, 600)
	c.Orbit(0, 10)
	assert.Less(t, c.Pitch, float32(math.Pi/2))
	c.Orbit(0, -20)
	assert.Greater(t, c.Pitch, float32(-math.Pi/2))

	c.Zoom(1e-6)
	assert.Equal(t, float32(minDistance), c.Distance)
	c.Zoom(1e9)
	assert.Equal(t, float32(maxDistance), c.Distance)
	c.Zoom(-1)
	assert.Equal(t, float32(maxDistance), c.Distance)
}

func TestCameraViewLooksAtTarget(t *testing.T) {
	c := NewCamera(800, 600)
	c.Target = mgl32.Vec3{4, 0, -2}
	v := c.ViewMatrix().Mul4x1(c.Target.Vec4(1))
	// The target sits on the view axis in front of the camera.
	assert.InDelta(t, 0, v.X(), 1e-4)
	assert.InDelta(t, 0, v.Y(), 1e-4)
	assert.InDelta(t, -c.Distance, v.Z(), 1e-3)
}

func TestCameraViewportIgnoresZero(t *testing.T) {
	c := NewCamera(400, 200)
	assert.Equal(t, float32(2), c.AspectRatio)
	c.SetViewport(0, 100)
	assert.Equal(t, float32(2), c.AspectRatio)
}

func TestVertexLayoutMatchesAttributes(t *testing.T) {
	var v meshing.Vertex
	assert.Equal(t, uintptr(meshing.VertexSize), unsafe.Sizeof(v))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(v.Position))
	assert.Equal(t, uintptr(12), unsafe.Offsetof(v.Normal))
	assert.Equal(t, uintptr(24), unsafe.Offsetof(v.Color))
}
