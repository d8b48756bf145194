package object

import "github.com/tomz197/napguard/internal/physics"

// Type identifies a kind of annoyance.
type Type string

const (
	TypeFly    Type = "fly"
	TypeRoomba Type = "roomba"
	TypeUFO    Type = "ufo"
)

// ID is an opaque token identifying a live annoyance.
type ID string

// Annoyance is an enemy seeking the sleeping target.
type Annoyance struct {
	ID       ID
	Type     Type
	Position physics.Vec // Top-left corner in play-area units
	Velocity physics.Vec // Spawn heading; the motion resolver recomputes the real one
	HP       int
	Dragging bool // Held by the player; excluded from motion and contact
}

// Alive reports whether the annoyance still has hit points.
func (a *Annoyance) Alive() bool {
	return a.HP >= 1
}
