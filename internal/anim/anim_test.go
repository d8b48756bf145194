package anim

import (
	"testing"
	"time"

	"github.com/tomz197/napguard/internal/object"
)

func TestSequenceIndex(t *testing.T) {
	seq := Sequence[string]{Frames: []string{"a", "b", "c", "d", "e", "f"}, FrameDuration: 100 * time.Millisecond}

	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "a"},
		{99 * time.Millisecond, "a"},
		{100 * time.Millisecond, "b"},
		{550 * time.Millisecond, "f"},
		{600 * time.Millisecond, "a"},
		{1250 * time.Millisecond, "c"},
		{-time.Second, "a"},
	}
	for _, tt := range tests {
		if got := seq.FrameAt(tt.elapsed); got != tt.want {
			t.Errorf("FrameAt(%v) = %q, want %q", tt.elapsed, got, tt.want)
		}
	}
}

func TestEmptySequence(t *testing.T) {
	var seq Sequence[int]
	if got := seq.FrameAt(time.Hour); got != 0 {
		t.Errorf("FrameAt() = %d, want zero value", got)
	}
}

func TestFrameDuration(t *testing.T) {
	tests := []struct {
		typ  object.Type
		want time.Duration
	}{
		{object.TypeFly, 100 * time.Millisecond},
		{object.TypeRoomba, 400 * time.Millisecond},
		{object.TypeUFO, 600 * time.Millisecond},
		{"cat", time.Second},
	}
	for _, tt := range tests {
		if got := FrameDuration(tt.typ); got != tt.want {
			t.Errorf("FrameDuration(%s) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestPlayer(t *testing.T) {
	start := time.Unix(1000, 0)
	p := NewPlayer(start)
	seq := ForType(object.TypeRoomba, []int{0, 1, 2, 3, 4, 5})

	if got := seq.Index(p.Elapsed(start.Add(900 * time.Millisecond))); got != 2 {
		t.Errorf("Index = %d, want 2", got)
	}

	p.Restart(start.Add(time.Second))
	if got := seq.Index(p.Elapsed(start.Add(time.Second))); got != 0 {
		t.Errorf("Index after restart = %d, want 0", got)
	}
}
