package client

import (
	"math"
	"time"

	"github.com/tomz197/napguard/internal/anim"
	"github.com/tomz197/napguard/internal/draw"
	"github.com/tomz197/napguard/internal/object"
)

// Animation frames. Each sequence has anim.CreatureFrames or anim.CatFrames
// entries.
var (
	flyWings    = anim.ForType(object.TypeFly, []float64{-1, -0.5, 0, 0.5, 0, -0.5})
	roombaBrush = anim.ForType(object.TypeRoomba, []float64{0, 1, 2, 3, 4, 5})
	ufoLights   = anim.ForType(object.TypeUFO, []draw.Color{
		draw.ColorYellow, draw.ColorRed, draw.ColorMagenta,
		draw.ColorYellow, draw.ColorCyan, draw.ColorRed,
	})

	catBreath = anim.Sequence[float64]{Frames: []float64{0, 0.04, 0.08, 0.04}, FrameDuration: anim.CatFrameDuration}
	catSnore  = anim.Sequence[string]{Frames: []string{"z   ", "zZ  ", "zZz ", "zZ  "}, FrameDuration: anim.CatFrameDuration}
)

// BurstColors returns the particle colors of a defeated annoyance.
func BurstColors(typ object.Type) []draw.Color {
	switch typ {
	case object.TypeFly:
		return []draw.Color{draw.ColorGray, draw.ColorWhite}
	case object.TypeRoomba:
		return []draw.Color{draw.ColorGray, draw.ColorGreen, draw.ColorWhite}
	case object.TypeUFO:
		return []draw.Color{draw.ColorGreen, draw.ColorCyan, draw.ColorYellow}
	}
	return []draw.Color{draw.ColorWhite}
}

// drawAnnoyance draws one annoyance whose footprint is the square of side
// size at (x, y).
func drawAnnoyance(cv *draw.Canvas, typ object.Type, x, y, size float64, dragging bool, elapsed time.Duration) {
	cx, cy := x+size/2, y+size/2

	switch typ {
	case object.TypeFly:
		lift := flyWings.FrameAt(elapsed) * size * 0.12
		cv.FillCircle(cx-size*0.28, cy-size*0.18+lift, size*0.2, draw.ColorWhite)
		cv.FillCircle(cx+size*0.28, cy-size*0.18+lift, size*0.2, draw.ColorWhite)
		cv.FillCircle(cx, cy, size*0.25, draw.ColorGray)
		cv.FillCircle(cx, cy-size*0.22, size*0.12, draw.ColorRed)

	case object.TypeRoomba:
		cv.FillCircle(cx, cy, size*0.48, draw.ColorGray)
		cv.DrawCircle(cx, cy, size*0.48, draw.ColorWhite)
		a := roombaBrush.FrameAt(elapsed) * math.Pi / 3
		cv.FillCircle(cx+math.Cos(a)*size*0.3, cy+math.Sin(a)*size*0.3, size*0.1, draw.ColorGreen)

	case object.TypeUFO:
		cv.FillCircle(cx, y+size*0.4, size*0.22, draw.ColorCyan)
		pts := cv.BorrowPoints(6)
		pts[0] = draw.Point{X: x, Y: y + size*0.55}
		pts[1] = draw.Point{X: x + size*0.2, Y: y + size*0.4}
		pts[2] = draw.Point{X: x + size*0.8, Y: y + size*0.4}
		pts[3] = draw.Point{X: x + size, Y: y + size*0.55}
		pts[4] = draw.Point{X: x + size*0.8, Y: y + size*0.72}
		pts[5] = draw.Point{X: x + size*0.2, Y: y + size*0.72}
		cv.DrawPolygon(pts, true, draw.ColorGreen)
		for i := 0; i < 3; i++ {
			light := ufoLights.FrameAt(elapsed + time.Duration(i)*ufoLights.FrameDuration)
			cv.Set(x+size*(0.25+0.25*float64(i)), y+size*0.56, light)
		}

	default:
		cv.FillRect(x, y, size, size, draw.ColorMagenta)
	}

	if dragging {
		pts := cv.BorrowPoints(4)
		pts[0] = draw.Point{X: x, Y: y}
		pts[1] = draw.Point{X: x + size, Y: y}
		pts[2] = draw.Point{X: x + size, Y: y + size}
		pts[3] = draw.Point{X: x, Y: y + size}
		cv.DrawPolygon(pts, false, draw.ColorYellow)
	}
}

// drawCat draws the sleeping cat curled up around (tx, ty). r is the radius
// of its hitbox.
func drawCat(cv *draw.Canvas, tx, ty, r float64, awake bool, elapsed time.Duration) {
	breath := 1 + catBreath.FrameAt(elapsed)
	if awake {
		breath = 1
	}

	// Tail
	for i := 0; i < 8; i++ {
		a := math.Pi*0.1 + float64(i)*math.Pi*0.1
		cv.FillCircle(tx+math.Cos(a)*r*0.8, ty+math.Sin(a)*r*0.5, r*0.12, draw.ColorBrown)
	}

	cv.FillCircle(tx+r*0.1, ty+r*0.1, r*0.7*breath, draw.ColorOrange)

	hx, hy := tx-r*0.55, ty-r*0.1
	ears := cv.BorrowPoints(3)
	ears[0] = draw.Point{X: hx - r*0.35, Y: hy - r*0.1}
	ears[1] = draw.Point{X: hx - r*0.3, Y: hy - r*0.55}
	ears[2] = draw.Point{X: hx - r*0.05, Y: hy - r*0.3}
	cv.DrawPolygon(ears, true, draw.ColorOrange)
	ears[0] = draw.Point{X: hx + r*0.05, Y: hy - r*0.3}
	ears[1] = draw.Point{X: hx + r*0.3, Y: hy - r*0.55}
	ears[2] = draw.Point{X: hx + r*0.35, Y: hy - r*0.1}
	cv.DrawPolygon(ears, true, draw.ColorOrange)
	cv.FillCircle(hx, hy, r*0.38, draw.ColorOrange)

	eyes := draw.ColorBrown
	if awake {
		eyes = draw.ColorYellow
	}
	cv.FillRect(hx-r*0.22, hy-r*0.05, r*0.14, r*0.06, eyes)
	cv.FillRect(hx+r*0.08, hy-r*0.05, r*0.14, r*0.06, eyes)
	cv.Set(hx, hy+r*0.1, draw.ColorPink)
}
