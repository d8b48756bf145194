// Package draw renders to a terminal using half-block characters, giving
// each cell two vertically stacked colored pixels.
package draw

import (
	"image/color"
	"strconv"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a pixel color. The zero value is an unset pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGray
	ColorYellow
	ColorOrange
	ColorRed
	ColorGreen
	ColorCyan
	ColorBlue
	ColorMagenta
	ColorBrown
	ColorPink
)

// ansi256 maps each Color to its xterm 256-color index.
var ansi256 = [...]int{
	ColorWhite:   15,
	ColorGray:    245,
	ColorYellow:  226,
	ColorOrange:  208,
	ColorRed:     196,
	ColorGreen:   46,
	ColorCyan:    51,
	ColorBlue:    33,
	ColorMagenta: 201,
	ColorBrown:   130,
	ColorPink:    218,
}

// rgba holds the RGB values of the same xterm palette entries, for front
// ends that draw real pixels.
var rgba = [...]color.RGBA{
	ColorWhite:   {0xff, 0xff, 0xff, 0xff},
	ColorGray:    {0x8a, 0x8a, 0x8a, 0xff},
	ColorYellow:  {0xff, 0xff, 0x00, 0xff},
	ColorOrange:  {0xff, 0x87, 0x00, 0xff},
	ColorRed:     {0xff, 0x00, 0x00, 0xff},
	ColorGreen:   {0x00, 0xff, 0x00, 0xff},
	ColorCyan:    {0x00, 0xff, 0xff, 0xff},
	ColorBlue:    {0x00, 0x87, 0xff, 0xff},
	ColorMagenta: {0xff, 0x00, 0xff, 0xff},
	ColorBrown:   {0xaf, 0x5f, 0x00, 0xff},
	ColorPink:    {0xff, 0xaf, 0xd7, 0xff},
}

// ColorReset restores the default terminal colors.
const ColorReset = "\033[0m"

// Code returns the xterm 256-color index, or -1 for ColorNone.
func (c Color) Code() int {
	if c == ColorNone || int(c) >= len(ansi256) {
		return -1
	}
	return ansi256[c]
}

// Fg returns the escape sequence selecting c as foreground color. ColorNone
// resets to the terminal default.
func (c Color) Fg() string {
	code := c.Code()
	if code < 0 {
		return ColorReset
	}
	return "\033[38;5;" + strconv.Itoa(code) + "m"
}

// RGBA returns the color as an opaque RGBA value. ColorNone is transparent.
func (c Color) RGBA() color.RGBA {
	if int(c) >= len(rgba) {
		return color.RGBA{}
	}
	return rgba[c]
}

// sgr appends a single SGR sequence that resets attributes and selects fg
// and bg, either of which may be ColorNone.
func sgr(buf []byte, fg, bg Color) []byte {
	buf = append(buf, "\033[0"...)
	if code := fg.Code(); code >= 0 {
		buf = append(buf, ";38;5;"...)
		buf = strconv.AppendInt(buf, int64(code), 10)
	}
	if code := bg.Code(); code >= 0 {
		buf = append(buf, ";48;5;"...)
		buf = strconv.AppendInt(buf, int64(code), 10)
	}
	return append(buf, 'm')
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
