package voxel

import (
	"strings"

	"golang.org/x/image/colornames"
)

// Named palette entries. All are fully opaque.
var (
	Black   = FromColor(colornames.Black)
	White   = FromColor(colornames.White)
	Red     = FromColor(colornames.Red)
	Green   = FromColor(colornames.Lime)
	Blue    = FromColor(colornames.Blue)
	Yellow  = FromColor(colornames.Yellow)
	Cyan    = FromColor(colornames.Cyan)
	Magenta = FromColor(colornames.Magenta)

	Gray      = FromColor(colornames.Gray)
	LightGray = FromColor(colornames.Silver)
	DarkGray  = FromColor(colornames.Dimgray)

	Brown       = FromColor(colornames.Brown)
	SaddleBrown = FromColor(colornames.Saddlebrown)
	Tan         = FromColor(colornames.Tan)

	Orange = FromColor(colornames.Orange)
	Gold   = FromColor(colornames.Gold)
	Pink   = FromColor(colornames.Pink)
	Purple = FromColor(colornames.Purple)
	Violet = FromColor(colornames.Violet)
	Indigo = FromColor(colornames.Indigo)

	ForestGreen = FromColor(colornames.Forestgreen)
	DarkGreen   = FromColor(colornames.Darkgreen)
	Olive       = FromColor(colornames.Olive)
	SkyBlue     = FromColor(colornames.Skyblue)
	Navy        = FromColor(colornames.Navy)
	SteelBlue   = FromColor(colornames.Steelblue)
	SandyBrown  = FromColor(colornames.Sandybrown)
	OrangeRed   = FromColor(colornames.Orangered)
)

// Named looks up an SVG 1.1 color keyword ("forestgreen", "SteelBlue", ...).
func Named(name string) (Color, bool) {
	c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Empty, false
	}
	return FromColor(c), true
}
