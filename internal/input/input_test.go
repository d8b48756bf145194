package input

import (
	"bufio"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		in   string
		want Input
	}{
		{"q", Input{Quit: true, Pressed: []byte("q")}},
		{"\x03", Input{Quit: true, Pressed: []byte("\x03")}},
		{" ", Input{Space: true, Start: true, Pressed: []byte(" ")}},
		{"\r", Input{Start: true, Pressed: []byte("\r")}},
		{"p", Input{Pause: true, Pressed: []byte("p")}},
		{"\x1bx", Input{Pause: true, Pressed: []byte("\x1bx")}},
		{"R", Input{Restart: true, Pressed: []byte("R")}},
		{"m", Input{ToggleSound: true, Pressed: []byte("m")}},
		{"x", Input{Pressed: []byte("x")}},
	}
	for _, tt := range tests {
		got, rest := Parse([]byte(tt.in))
		if len(rest) != 0 {
			t.Errorf("Parse(%q) rest = %q", tt.in, rest)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseMouse(t *testing.T) {
	tests := []struct {
		in   string
		want []MouseEvent
	}{
		{"\x1b[<0;10;5M", []MouseEvent{{Action: MousePress, Button: 0, Col: 10, Row: 5}}},
		{"\x1b[<0;10;5m", []MouseEvent{{Action: MouseRelease, Button: 0, Col: 10, Row: 5}}},
		{"\x1b[<32;11;6M", []MouseEvent{{Action: MouseDrag, Button: 0, Col: 11, Row: 6}}},
		{"\x1b[<2;120;40M", []MouseEvent{{Action: MousePress, Button: 2, Col: 120, Row: 40}}},
		{"\x1b[<64;1;1M", nil}, // wheel
		{"\x1b[<0;1M", nil},    // malformed
		{"\x1b[A", nil},        // arrow key
		{
			"\x1b[<0;3;4M\x1b[<32;4;4M\x1b[<0;4;4m",
			[]MouseEvent{
				{Action: MousePress, Col: 3, Row: 4},
				{Action: MouseDrag, Col: 4, Row: 4},
				{Action: MouseRelease, Col: 4, Row: 4},
			},
		},
	}
	for _, tt := range tests {
		got, rest := Parse([]byte(tt.in))
		if len(rest) != 0 {
			t.Errorf("Parse(%q) rest = %q", tt.in, rest)
		}
		if !reflect.DeepEqual(got.Mouse, tt.want) {
			t.Errorf("Parse(%q).Mouse = %+v, want %+v", tt.in, got.Mouse, tt.want)
		}
		if got.Pause {
			t.Errorf("Parse(%q) reported Escape inside a sequence", tt.in)
		}
	}
}

func TestParseMixed(t *testing.T) {
	got, _ := Parse([]byte("a\x1b[<0;2;3Mq"))
	if !got.Quit || string(got.Pressed) != "aq" || len(got.Mouse) != 1 {
		t.Errorf("Parse(mixed) = %+v", got)
	}
}

func TestParseIncompleteSequence(t *testing.T) {
	got, rest := Parse([]byte("p\x1b[<0;12"))
	if !got.Pause {
		t.Error("key before the partial sequence was lost")
	}
	if string(rest) != "\x1b[<0;12" {
		t.Fatalf("rest = %q", rest)
	}

	got, rest = Parse(append(rest, []byte(";7M")...))
	if len(rest) != 0 || len(got.Mouse) != 1 || got.Mouse[0].Col != 12 || got.Mouse[0].Row != 7 {
		t.Errorf("completed sequence = %+v, rest %q", got, rest)
	}
}

func TestLoneEscapeWaitsOneRead(t *testing.T) {
	s := &Stream{ch: make(chan byte, 16)}

	s.ch <- '\x1b'
	if in := ReadInput(s); in.Pause {
		t.Fatal("Escape reported before the next read")
	}
	for _, b := range []byte("[<0;2;2M") {
		s.ch <- b
	}
	in := ReadInput(s)
	if in.Pause || len(in.Mouse) != 1 {
		t.Fatalf("split sequence = %+v, want one mouse event", in)
	}

	s.ch <- '\x1b'
	ReadInput(s)
	if in := ReadInput(s); !in.Pause {
		t.Error("lone Escape never reported")
	}
}

func TestReadInputStream(t *testing.T) {
	pr, pw := io.Pipe()
	s := StartStream(bufio.NewReader(pr))

	go func() {
		pw.Write([]byte("\x1b[<0;5;5M"))
		pw.Close()
	}()

	var events []MouseEvent
	quit := false
	deadline := time.Now().Add(2 * time.Second)
	for !quit && time.Now().Before(deadline) {
		in := ReadInput(s)
		events = append(events, in.Mouse...)
		quit = in.Quit
		time.Sleep(time.Millisecond)
	}

	if !quit {
		t.Error("closed stream did not report Quit")
	}
	if len(events) != 1 || events[0].Col != 5 {
		t.Errorf("events = %+v", events)
	}
}

func TestMouseModes(t *testing.T) {
	for _, mode := range []string{"1000", "1002", "1006"} {
		if !strings.Contains(MouseOn, "?"+mode+"h") || !strings.Contains(MouseOff, "?"+mode+"l") {
			t.Errorf("mode %s not toggled", mode)
		}
	}
}
