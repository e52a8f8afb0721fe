package voxel

import (
	"fmt"
	"image/color"
)

// Color is a voxel value packed as 0xRRGGBBAA. Zero is empty space; any other
// value is an opaque solid cell.
type Color uint32

// Empty marks an unoccupied cell.
const Empty Color = 0

// RGBA packs 8-bit channels into a Color.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// FromColor converts any image/color value. Fully transparent black maps to Empty.
func FromColor(c color.Color) Color {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return RGBA(rgba.R, rgba.G, rgba.B, rgba.A)
}

// Components unpacks the channels.
func (c Color) Components() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// RGBA implements color.Color so voxel colors can be handed to image code.
func (c Color) RGBA() (r, g, b, a uint32) {
	cr, cg, cb, ca := c.Components()
	return color.RGBA{R: cr, G: cg, B: cb, A: ca}.RGBA()
}

// IsEmpty reports whether the value is empty space.
func (c Color) IsEmpty() bool {
	return c == Empty
}

func (c Color) String() string {
	return fmt.Sprintf("#%08x", uint32(c))
}
