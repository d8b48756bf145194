package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
)

// Canvas is a color drawing buffer with 2x vertical resolution using
// half-block characters. Game code draws in logical coordinates which are
// scaled to terminal pixels.
//
// Render only emits cells that changed since the previous Render, so text
// written on top of the canvas must be reported with MarkTextDirty.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]
	prev           []Color // Pixels as of the last Render
	dirty          []bool  // Per cell: redraw on next Render regardless of prev
	fullRedraw     bool

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets (columns/rows to skip) for centering.
	offsetCol int
	offsetRow int

	renderBuf       []byte
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewCanvas creates a canvas for the given terminal dimensions with a 1:1
// mapping between logical units and pixels.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// A size change forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.prev = make([]Color, len(c.pixels))
		c.dirty = make([]bool, termWidth*termHeight)
		c.fullRedraw = true
	}
	c.updateScale()
}

// SetLogicalSize changes the logical coordinate space.
func (c *Canvas) SetLogicalSize(width, height float64) {
	c.logicalWidth = width
	c.logicalHeight = height
	c.updateScale()
}

func (c *Canvas) updateScale() {
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.fullRedraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render emit every non-empty cell. Call it
// after the terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.fullRedraw = true
	clear(c.prev)
}

// MarkTextDirty marks n cells starting at the 1-based canvas position
// (col, row) so the next Render repaints them over any text written there.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+n; x++ {
		if x >= 0 && x < c.termWidth {
			c.dirty[r*c.termWidth+x] = true
		}
	}
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// Pixel returns the color at terminal pixel coordinates.
func (c *Canvas) Pixel(x, y int) Color {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		return c.pixels[y*c.termWidth+x]
	}
	return ColorNone
}

// Set sets a pixel at logical coordinates.
func (c *Canvas) Set(x, y float64, col Color) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), col)
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon outline, filling the interior when filled is set.
func (c *Canvas) DrawPolygon(points []Point, filled bool, col Color) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, col)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// fillPolygon fills a polygon with a scanline pass in pixel space.
func (c *Canvas) fillPolygon(points []Point, col Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// FillRect fills an axis-aligned rectangle given by its top-left corner.
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	x1 := int(math.Round(x * c.scaleX))
	y1 := int(math.Round(y * c.scaleY))
	x2 := int(math.Round((x + w) * c.scaleX))
	y2 := int(math.Round((y + h) * c.scaleY))
	if x2 <= x1 {
		x2 = x1 + 1
	}
	if y2 <= y1 {
		y2 = y1 + 1
	}
	for py := max(y1, 0); py < min(y2, c.subPixelHeight); py++ {
		for px := max(x1, 0); px < min(x2, c.termWidth); px++ {
			c.pixels[py*c.termWidth+px] = col
		}
	}
}

// FillCircle fills a circle of logical radius r. Uneven scaling turns it
// into an ellipse in pixel space.
func (c *Canvas) FillCircle(cx, cy, r float64, col Color) {
	pcx, pcy := cx*c.scaleX, cy*c.scaleY
	rx, ry := r*c.scaleX, r*c.scaleY
	if rx <= 0 || ry <= 0 {
		return
	}
	if rx < 0.5 && ry < 0.5 {
		c.setPixel(int(math.Round(pcx)), int(math.Round(pcy)), col)
		return
	}

	yStart := max(int(math.Floor(pcy-ry)), 0)
	yEnd := min(int(math.Ceil(pcy+ry)), c.subPixelHeight-1)
	for y := yStart; y <= yEnd; y++ {
		dy := (float64(y) + 0.5 - pcy) / ry
		if dy < -1 || dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		xStart := int(math.Ceil(pcx - half - 0.5))
		xEnd := int(math.Floor(pcx + half - 0.5))
		for x := xStart; x <= xEnd; x++ {
			c.setPixel(x, y, col)
		}
	}
}

// DrawCircle draws the outline of a circle of logical radius r.
func (c *Canvas) DrawCircle(cx, cy, r float64, col Color) {
	rx, ry := r*c.scaleX, r*c.scaleY
	steps := max(12, int(2*math.Pi*math.Max(rx, ry)))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.Set(cx+r*math.Cos(a), cy+r*math.Sin(a), col)
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render writes every cell that changed since the previous Render.
func (c *Canvas) Render(w io.Writer) {
	buf := c.renderBuf[:0]
	fg, bg := ColorNone, ColorNone
	lastRow, lastCol := -1, -1

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			cell := row*c.termWidth + col

			if c.fullRedraw {
				if top == ColorNone && bottom == ColorNone && !c.dirty[cell] {
					continue
				}
			} else if !c.dirty[cell] && top == c.prev[topOffset+col] && bottom == c.prev[bottomOffset+col] {
				continue
			}

			wantFg, wantBg := ColorNone, ColorNone
			var ch rune
			switch {
			case top == ColorNone && bottom == ColorNone:
				ch = BlockEmpty
			case top == bottom:
				ch, wantFg = BlockFull, top
			case bottom == ColorNone:
				ch, wantFg = BlockUpperHalf, top
			case top == ColorNone:
				ch, wantFg = BlockLowerHalf, bottom
			default:
				ch, wantFg, wantBg = BlockUpperHalf, top, bottom
			}

			if row != lastRow || col != lastCol+1 {
				buf = append(buf, "\033["...)
				buf = strconv.AppendInt(buf, int64(row+1+c.offsetRow), 10)
				buf = append(buf, ';')
				buf = strconv.AppendInt(buf, int64(col+1+c.offsetCol), 10)
				buf = append(buf, 'H')
			}
			if wantFg != fg || wantBg != bg {
				buf = sgr(buf, wantFg, wantBg)
				fg, bg = wantFg, wantBg
			}
			buf = append(buf, string(ch)...)
			lastRow, lastCol = row, col
		}
	}
	if fg != ColorNone || bg != ColorNone {
		buf = append(buf, ColorReset...)
	}

	copy(c.prev, c.pixels)
	clear(c.dirty)
	c.fullRedraw = false
	c.renderBuf = buf

	for len(buf) > 0 {
		chunk := buf
		if len(chunk) > maxChunkSize {
			chunk = buf[:maxChunkSize]
		}
		w.Write(chunk)
		buf = buf[len(chunk):]
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf []byte
	move := func(row, col int) {
		buf = append(buf, "\033["...)
		buf = strconv.AppendInt(buf, int64(row), 10)
		buf = append(buf, ';')
		buf = strconv.AppendInt(buf, int64(col), 10)
		buf = append(buf, 'H')
	}
	hline := func() {
		for i := 0; i < c.termWidth; i++ {
			buf = append(buf, "─"...)
		}
	}

	if hasV {
		if hasH {
			move(top, left)
			buf = append(buf, "┌"...)
			hline()
			buf = append(buf, "┐"...)
			move(bottom, left)
			buf = append(buf, "└"...)
			hline()
			buf = append(buf, "┘"...)
		} else {
			move(top, c.offsetCol+1)
			hline()
			move(bottom, c.offsetCol+1)
			hline()
		}
	}

	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			move(row, left)
			buf = append(buf, "│"...)
			move(row, right)
			buf = append(buf, "│"...)
		}
	}

	w.Write(buf)
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the canvas width in terminal columns.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the canvas height in terminal rows.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas
// position (col, row). The centering offset is not included.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// ToLogical converts an absolute 1-based terminal position, as reported by
// mouse events, to logical coordinates inside that cell. ok is false when
// the position lies outside the canvas.
func (c *Canvas) ToLogical(col, row int) (x, y float64, ok bool) {
	px := col - 1 - c.offsetCol
	py := row - 1 - c.offsetRow
	if px < 0 || px >= c.termWidth || py < 0 || py >= c.termHeight || c.scaleX == 0 || c.scaleY == 0 {
		return 0, 0, false
	}
	return float64(px) / c.scaleX, (float64(py)*2 + 0.5) / c.scaleY, true
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
