package app

import (
	"math"

	"voxelworld/internal/graphics"
	"voxelworld/internal/input"
)

// Input is the slice of input state the controllers read.
// *input.Manager implements it.
type Input interface {
	IsActive(action input.Action) bool
	CursorDelta() (dx, dy float64)
	Scroll() float64
}

// CameraController moves the camera once per frame.
type CameraController interface {
	Update(dt float64)
}

// OrbitController turns the camera with the orbit keys or by dragging, and
// zooms with the zoom keys or the scroll wheel.
type OrbitController struct {
	Camera *graphics.Camera
	Input  Input

	TurnSpeed       float32 // radians per second for keys
	DragSensitivity float32 // radians per pixel
	ZoomSpeed       float32 // distance factor per second for keys
	ScrollStep      float32 // distance factor per scroll unit
}

func NewOrbitController(camera *graphics.Camera, in Input) *OrbitController {
	return &OrbitController{
		Camera:          camera,
		Input:           in,
		TurnSpeed:       1.5,
		DragSensitivity: 0.005,
		ZoomSpeed:       2,
		ScrollStep:      0.9,
	}
}

func (c *OrbitController) Update(dt float64) {
	step := c.TurnSpeed * float32(dt)
	var yaw, pitch float32
	if c.Input.IsActive(input.ActionOrbitLeft) {
		yaw -= step
	}
	if c.Input.IsActive(input.ActionOrbitRight) {
		yaw += step
	}
	if c.Input.IsActive(input.ActionOrbitUp) {
		pitch += step
	}
	if c.Input.IsActive(input.ActionOrbitDown) {
		pitch -= step
	}
	if c.Input.IsActive(input.ActionDrag) {
		dx, dy := c.Input.CursorDelta()
		yaw -= float32(dx) * c.DragSensitivity
		pitch += float32(dy) * c.DragSensitivity
	}
	if yaw != 0 || pitch != 0 {
		c.Camera.Orbit(yaw, pitch)
	}

	zoom := float32(1)
	if c.Input.IsActive(input.ActionZoomIn) {
		zoom /= float32(math.Pow(float64(c.ZoomSpeed), dt))
	}
	if c.Input.IsActive(input.ActionZoomOut) {
		zoom *= float32(math.Pow(float64(c.ZoomSpeed), dt))
	}
	if s := c.Input.Scroll(); s != 0 {
		zoom *= float32(math.Pow(float64(c.ScrollStep), s))
	}
	if zoom != 1 {
		c.Camera.Zoom(zoom)
	}
}
