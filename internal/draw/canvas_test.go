package draw

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCanvasSetScales(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100) // 10x10 pixels
	c.Set(50, 50, ColorRed)
	if got := c.Pixel(5, 5); got != ColorRed {
		t.Errorf("Pixel(5,5) = %v, want red", got)
	}

	// Out of range writes are dropped.
	c.Set(-10, 500, ColorRed)
	c.Set(1000, 0, ColorRed)
}

func TestRenderHalfBlocks(t *testing.T) {
	c := NewCanvas(3, 1)
	c.setPixel(0, 0, ColorRed)   // top only
	c.setPixel(1, 1, ColorGreen) // bottom only
	c.setPixel(2, 0, ColorBlue)  // both, same color
	c.setPixel(2, 1, ColorBlue)

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()

	for _, want := range []string{"▀", "▄", "█", "38;5;196", "38;5;46", "38;5;33", ColorReset} {
		if !strings.Contains(out, want) {
			t.Errorf("Render output missing %q: %q", want, out)
		}
	}
	if !strings.HasPrefix(out, "\033[1;1H") {
		t.Errorf("Render did not start at the canvas origin: %q", out)
	}
}

func TestRenderTwoColorCell(t *testing.T) {
	c := NewCanvas(1, 1)
	c.setPixel(0, 0, ColorYellow)
	c.setPixel(0, 1, ColorCyan)

	var buf bytes.Buffer
	c.Render(&buf)
	if !strings.Contains(buf.String(), "\033[0;38;5;226;48;5;51m▀") {
		t.Errorf("two color cell = %q", buf.String())
	}
}

func TestRenderOnlyChanges(t *testing.T) {
	c := NewCanvas(4, 2)
	c.setPixel(0, 0, ColorWhite)

	var buf bytes.Buffer
	c.Render(&buf)
	if buf.Len() == 0 {
		t.Fatal("first render wrote nothing")
	}

	buf.Reset()
	c.Clear()
	c.setPixel(0, 0, ColorWhite)
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Errorf("unchanged frame wrote %q", buf.String())
	}

	// A pixel that disappears is erased with a blank.
	buf.Reset()
	c.Clear()
	c.Render(&buf)
	if !strings.Contains(buf.String(), "\033[1;1H ") {
		t.Errorf("vanished pixel not erased: %q", buf.String())
	}
}

func TestMarkTextDirty(t *testing.T) {
	c := NewCanvas(5, 2)
	var buf bytes.Buffer
	c.Render(&buf)

	buf.Reset()
	c.MarkTextDirty(2, 2, 3)
	c.Render(&buf)
	if got := strings.Count(buf.String(), " "); got != 3 {
		t.Errorf("dirty cells repainted = %d, want 3 (%q)", got, buf.String())
	}

	buf.Reset()
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Errorf("dirty marks survived a render: %q", buf.String())
	}
}

func TestForceRedraw(t *testing.T) {
	c := NewCanvas(2, 1)
	c.setPixel(1, 0, ColorGray)
	var buf bytes.Buffer
	c.Render(&buf)

	buf.Reset()
	c.ForceRedraw()
	c.Render(&buf)
	if !strings.Contains(buf.String(), "▀") {
		t.Errorf("forced redraw skipped a lit cell: %q", buf.String())
	}
	if strings.Contains(buf.String(), " ") {
		t.Errorf("forced redraw painted an empty cell: %q", buf.String())
	}
}

func TestRenderOffset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetOffset(4, 2)
	c.setPixel(0, 0, ColorWhite)
	var buf bytes.Buffer
	c.Render(&buf)
	if !strings.HasPrefix(buf.String(), "\033[3;5H") {
		t.Errorf("offset render = %q", buf.String())
	}
}

func TestFillRect(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillRect(2, 2, 3, 4, ColorOrange)

	count := 0
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if c.Pixel(x, y) == ColorOrange {
				count++
			}
		}
	}
	if count != 12 {
		t.Errorf("filled pixels = %d, want 12", count)
	}
	if c.Pixel(2, 2) != ColorOrange || c.Pixel(4, 5) != ColorOrange || c.Pixel(5, 2) != ColorNone {
		t.Error("rect edges misplaced")
	}
}

func TestFillCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.FillCircle(10, 10, 4, ColorPink)

	if c.Pixel(10, 10) != ColorPink {
		t.Error("circle center not filled")
	}
	if c.Pixel(10, 15) != ColorNone || c.Pixel(4, 10) != ColorNone {
		t.Error("circle spilled outside its radius")
	}
	if c.Pixel(0, 0) != ColorNone {
		t.Error("corner filled")
	}
}

func TestDrawPolygonFilled(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawPolygon([]Point{{1, 1}, {8, 1}, {8, 8}, {1, 8}}, true, ColorGreen)
	if c.Pixel(4, 4) != ColorGreen {
		t.Error("polygon interior not filled")
	}
	if c.Pixel(9, 9) != ColorNone {
		t.Error("polygon spilled")
	}

	c.Clear()
	c.DrawPolygon([]Point{{1, 1}, {8, 1}}, true, ColorGreen) // degenerate
	if c.Pixel(1, 1) != ColorNone {
		t.Error("degenerate polygon drawn")
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(Point{0, 0}, Point{9, 9}, ColorWhite)
	for i := 0; i < 10; i++ {
		if c.Pixel(i, i) != ColorWhite {
			t.Errorf("diagonal pixel %d missing", i)
		}
	}
}

func TestLogicalRoundTrip(t *testing.T) {
	c := NewScaledCanvas(80, 24, 800, 600)
	c.SetOffset(3, 1)

	tests := []struct{ col, row int }{{4, 2}, {40, 12}, {83, 25}}
	for _, tt := range tests {
		x, y, ok := c.ToLogical(tt.col, tt.row)
		if !ok {
			t.Fatalf("ToLogical(%d,%d) outside canvas", tt.col, tt.row)
		}
		col, row := c.LogicalToTerminal(x, y)
		if col+c.OffsetCol() != tt.col || row+c.OffsetRow() != tt.row {
			t.Errorf("round trip (%d,%d) -> (%.1f,%.1f) -> (%d,%d)",
				tt.col, tt.row, x, y, col+c.OffsetCol(), row+c.OffsetRow())
		}
	}

	for _, p := range [][2]int{{3, 5}, {84, 5}, {10, 1}, {10, 26}} {
		if _, _, ok := c.ToLogical(p[0], p[1]); ok {
			t.Errorf("ToLogical(%d,%d) inside canvas, want outside", p[0], p[1])
		}
	}
}

func TestResizeForcesRedraw(t *testing.T) {
	c := NewCanvas(2, 1)
	var buf bytes.Buffer
	c.Render(&buf)

	c.Resize(3, 2)
	c.setPixel(2, 3, ColorRed)
	buf.Reset()
	c.Render(&buf)
	if !strings.Contains(buf.String(), "\033[2;3H") {
		t.Errorf("resized canvas render = %q", buf.String())
	}
	if c.TerminalWidth() != 3 || c.TerminalHeight() != 2 {
		t.Errorf("size = %dx%d", c.TerminalWidth(), c.TerminalHeight())
	}
}

func TestRenderBorder(t *testing.T) {
	c := NewCanvas(3, 2)
	c.SetOffset(1, 1)
	var buf bytes.Buffer
	c.RenderBorder(&buf)
	out := buf.String()
	for _, want := range []string{"┌───┐", "└───┘", "│"} {
		if !strings.Contains(out, want) {
			t.Errorf("border missing %q: %q", want, out)
		}
	}

	buf.Reset()
	c.SetOffset(0, 0)
	c.RenderBorder(&buf)
	if buf.Len() != 0 {
		t.Errorf("border drawn without room: %q", buf.String())
	}
}

func TestColorCodes(t *testing.T) {
	if ColorNone.Code() != -1 || ColorNone.Fg() != ColorReset {
		t.Error("ColorNone has a code")
	}
	if ColorWhite.Fg() != "\033[38;5;15m" {
		t.Errorf("white = %q", ColorWhite.Fg())
	}
	if Color(200).Code() != -1 {
		t.Error("unknown color has a code")
	}
	if ColorNone.RGBA().A != 0 || Color(200).RGBA().A != 0 {
		t.Error("unset color is not transparent")
	}
	if c := ColorOrange.RGBA(); c.R != 0xff || c.G != 0x87 || c.B != 0 || c.A != 0xff {
		t.Errorf("orange = %v", c)
	}
}

func TestShadeLevel(t *testing.T) {
	if ShadeLevel(-1) != ' ' || ShadeLevel(2) != '█' || ShadeLevel(0.5) != '▒' {
		t.Error("ShadeLevel boundaries wrong")
	}
}

func TestChunkWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf, 2, 1)
	cw.WriteAt(1, 1, "hi")
	cw.WriteColorAt(3, 2, ColorRed, "x")
	if buf.Len() != 0 {
		t.Fatal("ChunkWriter wrote before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "\033[2;3Hhi\033[3;5H\033[38;5;196mx" + ColorReset
	if buf.String() != want {
		t.Errorf("flushed %q, want %q", buf.String(), want)
	}
}

func TestTerminalSize(t *testing.T) {
	w, h, err := TerminalSize(func() (int, int, error) { return 80, 24, nil })
	if err != nil || w != 80 || h != 24 {
		t.Errorf("TerminalSize = %d,%d,%v", w, h, err)
	}
	if _, _, err := TerminalSize(func() (int, int, error) { return 0, 24, nil }); err == nil {
		t.Error("zero width accepted")
	}
	boom := errors.New("boom")
	if _, _, err := TerminalSize(func() (int, int, error) { return 0, 0, boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}
