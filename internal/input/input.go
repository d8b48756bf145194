// Package input decodes the terminal byte stream into key presses and SGR
// mouse events.
package input

import (
	"bufio"
	"strconv"
)

// Terminal modes for mouse reporting: button events (1000), drag motion
// (1002) and SGR extended coordinates (1006).
const (
	MouseOn  = "\x1b[?1000h\x1b[?1002h\x1b[?1006h"
	MouseOff = "\x1b[?1006l\x1b[?1002l\x1b[?1000l"
)

// MouseAction is the kind of a mouse event.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseDrag
)

// MouseEvent is a decoded SGR mouse report. Col and Row are 1-based
// terminal cells.
type MouseEvent struct {
	Action MouseAction
	Button int // 0 left, 1 middle, 2 right
	Col    int
	Row    int
}

// Input holds everything read since the previous frame.
type Input struct {
	Quit        bool
	Start       bool // Space or Enter
	Space       bool
	Pause       bool // p or a lone Escape
	Restart     bool
	ToggleSound bool
	Mouse       []MouseEvent
	Pressed     []byte // Plain key bytes in arrival order
}

// Stream delivers input bytes via a channel and keeps any incomplete escape
// sequence until the rest arrives.
type Stream struct {
	ch      chan byte
	pending []byte
	escWait bool // pending is a lone Escape already held for one read
}

// maxPending bounds a held escape sequence that never terminates.
const maxPending = 32

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 256)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// decodes them. A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in, rest := Parse(buf)
	switch {
	case len(rest) == 0:
		s.escWait = false
	case len(rest) == 1 && (s.escWait || closed):
		// Nothing followed the Escape, so it was a key press.
		in.Pause = true
		s.escWait = false
	case len(rest) <= maxPending:
		s.pending = append([]byte(nil), rest...)
		s.escWait = len(rest) == 1
	}
	if closed {
		in.Quit = true
	}
	return in
}

// Parse decodes buf. An escape sequence cut off at the end of buf, or a
// trailing Escape, is returned as rest so the caller can prepend it to the
// next read.
func Parse(buf []byte) (in Input, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			n, ev, ok := parseCSI(buf[i:])
			if n == 0 {
				return in, buf[i:]
			}
			if ok {
				in.Mouse = append(in.Mouse, ev)
			}
			i += n - 1
			continue
		}
		if b == '\x1b' && i+1 == len(buf) {
			// Escape may be the first byte of a sequence still in flight.
			return in, buf[i:]
		}

		applyByte(&in, b)
	}
	return in, nil
}

// parseCSI decodes one CSI sequence starting at seq[0] == ESC. It returns
// the sequence length (0 when incomplete) and the mouse event if it was an
// SGR mouse report.
func parseCSI(seq []byte) (n int, ev MouseEvent, ok bool) {
	// Find the final byte (0x40..0x7e) after ESC [.
	end := -1
	for j := 2; j < len(seq); j++ {
		if seq[j] >= 0x40 && seq[j] <= 0x7e {
			end = j
			break
		}
	}
	if end < 0 {
		return 0, ev, false
	}
	n = end + 1

	final := seq[end]
	if len(seq) < 3 || seq[2] != '<' || (final != 'M' && final != 'm') {
		return n, ev, false
	}

	fields := splitParams(seq[3:end])
	if len(fields) != 3 {
		return n, ev, false
	}
	code, err1 := strconv.Atoi(fields[0])
	col, err2 := strconv.Atoi(fields[1])
	row, err3 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return n, ev, false
	}
	if code&64 != 0 {
		// Wheel
		return n, ev, false
	}

	ev = MouseEvent{Button: code & 3, Col: col, Row: row}
	switch {
	case final == 'm':
		ev.Action = MouseRelease
	case code&32 != 0:
		ev.Action = MouseDrag
	default:
		ev.Action = MousePress
	}
	return n, ev, true
}

func splitParams(b []byte) []string {
	var fields []string
	start := 0
	for i, c := range b {
		if c == ';' {
			fields = append(fields, string(b[start:i]))
			start = i + 1
		}
	}
	return append(fields, string(b[start:]))
}

// applyByte records a plain key press.
func applyByte(in *Input, b byte) {
	in.Pressed = append(in.Pressed, b)

	switch b {
	case 'q', 'Q', '\x03': // Ctrl+C arrives as a byte in raw mode
		in.Quit = true
	case ' ':
		in.Space = true
		in.Start = true
	case '\n', '\r':
		in.Start = true
	case 'p', 'P', '\x1b':
		in.Pause = true
	case 'r', 'R':
		in.Restart = true
	case 'm', 'M':
		in.ToggleSound = true
	}
}
