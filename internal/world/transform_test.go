package world

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func apply(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// assertVecNear compares component-wise with an absolute tolerance.
func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-5, "component %d of %v", i, got)
	}
}

func TestTransformIdentity(t *testing.T) {
	tr := IdentityTransform()
	assert.Equal(t, mgl32.Ident4(), tr.Matrix())
}

func TestTransformOrder(t *testing.T) {
	// Scale, then rotate a quarter turn about Z, then translate.
	tr := NewTransform(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{0, 0, math.Pi / 2}, mgl32.Vec3{2, 1, 1})
	got := apply(tr.Matrix(), mgl32.Vec3{1, 0, 0})
	assertVecNear(t, mgl32.Vec3{10, 2, 0}, got)
}

func TestTransformRotationAxesCompose(t *testing.T) {
	// Rx applies first, then Ry.
	tr := NewTransform(mgl32.Vec3{}, mgl32.Vec3{math.Pi / 2, math.Pi / 2, 0}, mgl32.Vec3{1, 1, 1})
	got := apply(tr.Matrix(), mgl32.Vec3{0, 1, 0})
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, got)
}

func TestTransformSettersInvalidateCache(t *testing.T) {
	tr := IdentityTransform()
	_ = tr.Matrix()

	tr.SetPosition(mgl32.Vec3{1, 2, 3})
	assert.Equal(t, mgl32.Vec4{1, 2, 3, 1}, tr.Matrix().Col(3))

	tr.Translate(mgl32.Vec3{1, 1, 1})
	assert.Equal(t, mgl32.Vec4{2, 3, 4, 1}, tr.Matrix().Col(3))

	tr.ScaleBy(mgl32.Vec3{3, 3, 3})
	assert.Equal(t, float32(3), tr.Matrix().At(0, 0))

	tr.SetScale(mgl32.Vec3{1, 1, 1})
	tr.Rotate(mgl32.Vec3{0, 0, math.Pi})
	got := apply(tr.Matrix(), mgl32.Vec3{1, 0, 0})
	assertVecNear(t, mgl32.Vec3{1, 3, 4}, got)
}
