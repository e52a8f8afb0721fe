package app

import (
	"voxelworld/internal/world"
)

// HeadlessSurface stands in for a window when running without a display.
// It closes after MaxFrames frames, or never if MaxFrames is 0.
type HeadlessSurface struct {
	MaxFrames uint64

	frames uint64
	closed bool
}

func (s *HeadlessSurface) ShouldClose() bool {
	return s.closed || (s.MaxFrames > 0 && s.frames >= s.MaxFrames)
}

func (s *HeadlessSurface) RequestClose() { s.closed = true }
func (s *HeadlessSurface) PollEvents()   {}
func (s *HeadlessSurface) SwapBuffers()  { s.frames++ }

// CountingDrawer issues no draws; it counts what a renderer would draw.
type CountingDrawer struct {
	LastDrawn   int
	LastSkipped int
}

func (d *CountingDrawer) Draw(objects []world.Renderable) int {
	d.LastDrawn, d.LastSkipped = 0, 0
	for _, obj := range objects {
		if obj.Drawable() {
			d.LastDrawn++
		} else {
			d.LastSkipped++
		}
	}
	return d.LastDrawn
}
