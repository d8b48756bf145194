package game

import (
	"github.com/tomz197/napguard/internal/object"
	"github.com/tomz197/napguard/internal/physics"
)

// Event is a notification sent from the session to its front end.
type Event interface {
	isEvent()
}

// EventDefeated is sent when a hit takes an annoyance's last hit point.
type EventDefeated struct {
	ID       object.ID
	Type     object.Type
	Position physics.Vec
	Points   int
}

// EventContact is sent when an annoyance reaches the sleeping target.
type EventContact struct {
	Type        object.Type
	Position    physics.Vec
	SleepHealth int // Health left after the contact
}

// EventWave is sent when a new wave is spawned.
type EventWave struct {
	Number int
	Size   int
}

// EventGameOver is sent when sleep health runs out.
type EventGameOver struct {
	Score int
}

func (EventDefeated) isEvent() {}
func (EventContact) isEvent()  {}
func (EventWave) isEvent()     {}
func (EventGameOver) isEvent() {}

// emitLocked sends an event without blocking. Events are dropped when the
// front end is not keeping up. Must be called with the lock held.
func (s *Session) emitLocked(ev Event) {
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
		s.logger.Debug("event dropped", "event", ev)
	}
}
