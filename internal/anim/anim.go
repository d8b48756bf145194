// Package anim advances looping frame sequences by elapsed time.
package anim

import (
	"time"

	"github.com/tomz197/napguard/internal/object"
)

// Frame timings of the built-in sprites.
const (
	FlyFrameDuration    = 100 * time.Millisecond
	RoombaFrameDuration = 400 * time.Millisecond
	UFOFrameDuration    = 600 * time.Millisecond
	CatFrameDuration    = 1000 * time.Millisecond

	CreatureFrames = 6
	CatFrames      = 4
)

// Sequence is a looping list of frames shown for FrameDuration each.
type Sequence[T any] struct {
	Frames        []T
	FrameDuration time.Duration
}

// Index returns the frame index shown after elapsed time.
func (s Sequence[T]) Index(elapsed time.Duration) int {
	if len(s.Frames) == 0 || s.FrameDuration <= 0 || elapsed < 0 {
		return 0
	}
	return int(elapsed/s.FrameDuration) % len(s.Frames)
}

// FrameAt returns the frame shown after elapsed time. An empty sequence
// yields the zero value.
func (s Sequence[T]) FrameAt(elapsed time.Duration) T {
	if len(s.Frames) == 0 {
		var zero T
		return zero
	}
	return s.Frames[s.Index(elapsed)]
}

// ForType builds the sequence for an annoyance type from its frames.
func ForType[T any](typ object.Type, frames []T) Sequence[T] {
	return Sequence[T]{Frames: frames, FrameDuration: FrameDuration(typ)}
}

// FrameDuration returns the per-frame time of an annoyance type.
func FrameDuration(typ object.Type) time.Duration {
	switch typ {
	case object.TypeFly:
		return FlyFrameDuration
	case object.TypeRoomba:
		return RoombaFrameDuration
	case object.TypeUFO:
		return UFOFrameDuration
	}
	return CatFrameDuration
}

// Player tracks when an animation started.
type Player struct {
	start time.Time
}

// NewPlayer starts an animation at now.
func NewPlayer(now time.Time) *Player {
	return &Player{start: now}
}

// Restart moves the start of the animation to now.
func (p *Player) Restart(now time.Time) {
	p.start = now
}

// Elapsed returns the time since the last (re)start.
func (p *Player) Elapsed(now time.Time) time.Duration {
	return now.Sub(p.start)
}
