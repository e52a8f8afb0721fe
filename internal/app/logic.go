package app

import (
	"voxelworld/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Logic is the per-frame application hook. Init runs once before the first
// frame and Cleanup once after the last.
type Logic interface {
	Init(r *world.Registry) error
	Update(dt float64)
	Cleanup()
}

// Toggler is implemented by logic that can be paused from the keyboard.
type Toggler interface {
	Toggle()
}

type NopLogic struct{}

func (NopLogic) Init(*world.Registry) error { return nil }
func (NopLogic) Update(float64)             {}
func (NopLogic) Cleanup()                   {}

// SpinLogic rotates objects about Axis at Speed radians per second. With no
// IDs it spins every object in the registry.
type SpinLogic struct {
	IDs    []world.ObjectID
	Axis   mgl32.Vec3
	Speed  float32
	Paused bool

	registry *world.Registry
}

func NewSpinLogic(speed float32, ids ...world.ObjectID) *SpinLogic {
	return &SpinLogic{IDs: ids, Axis: mgl32.Vec3{0, 1, 0}, Speed: speed}
}

func (s *SpinLogic) Init(r *world.Registry) error {
	s.registry = r
	return nil
}

func (s *SpinLogic) Update(dt float64) {
	if s.Paused || s.registry == nil {
		return
	}
	step := s.Axis.Mul(s.Speed * float32(dt))
	if len(s.IDs) == 0 {
		for _, obj := range s.registry.Objects() {
			s.registry.RotateObject(obj.ID(), step)
		}
		return
	}
	for _, id := range s.IDs {
		s.registry.RotateObject(id, step)
	}
}

func (s *SpinLogic) Cleanup() { s.registry = nil }

func (s *SpinLogic) Toggle() { s.Paused = !s.Paused }
