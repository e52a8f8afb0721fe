package world

import "github.com/go-gl/mathgl/mgl32"

// Transform places an object: position, Euler rotation in radians and
// per-axis scale. The composed matrix is cached until a setter runs.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3

	matrix mgl32.Mat4
	dirty  bool
}

func NewTransform(position, rotation, scale mgl32.Vec3) Transform {
	return Transform{position: position, rotation: rotation, scale: scale, dirty: true}
}

// IdentityTransform is the origin with no rotation and unit scale.
func IdentityTransform() Transform {
	return NewTransform(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
}

func (t *Transform) Position() mgl32.Vec3 { return t.position }
func (t *Transform) Rotation() mgl32.Vec3 { return t.rotation }
func (t *Transform) Scale() mgl32.Vec3    { return t.scale }

// Matrix returns T * Rz * Ry * Rx * S.
func (t *Transform) Matrix() mgl32.Mat4 {
	if t.dirty {
		p, r, s := t.position, t.rotation, t.scale
		t.matrix = mgl32.Translate3D(p.X(), p.Y(), p.Z()).
			Mul4(mgl32.HomogRotate3DZ(r.Z())).
			Mul4(mgl32.HomogRotate3DY(r.Y())).
			Mul4(mgl32.HomogRotate3DX(r.X())).
			Mul4(mgl32.Scale3D(s.X(), s.Y(), s.Z()))
		t.dirty = false
	}
	return t.matrix
}

func (t *Transform) SetPosition(p mgl32.Vec3) {
	t.position = p
	t.dirty = true
}

func (t *Transform) SetRotation(r mgl32.Vec3) {
	t.rotation = r
	t.dirty = true
}

func (t *Transform) SetScale(s mgl32.Vec3) {
	t.scale = s
	t.dirty = true
}

// Translate adds offset to the position.
func (t *Transform) Translate(offset mgl32.Vec3) {
	t.SetPosition(t.position.Add(offset))
}

// Rotate adds angles to the Euler rotation.
func (t *Transform) Rotate(angles mgl32.Vec3) {
	t.SetRotation(t.rotation.Add(angles))
}

// ScaleBy multiplies the scale component-wise.
func (t *Transform) ScaleBy(factor mgl32.Vec3) {
	t.SetScale(mgl32.Vec3{t.scale.X() * factor.X(), t.scale.Y() * factor.Y(), t.scale.Z() * factor.Z()})
}
