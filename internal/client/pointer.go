package client

import (
	"github.com/tomz197/napguard/internal/client/config"
	"github.com/tomz197/napguard/internal/game"
	"github.com/tomz197/napguard/internal/input"
	"github.com/tomz197/napguard/internal/object"
	"github.com/tomz197/napguard/internal/physics"
)

// Pointer tracks the primary button between press and release.
//
// Pressing an annoyance that cannot be carried hits it at once. A draggable
// one is hit on release, unless the pointer travelled far enough in between
// to turn the press into a drag.
type Pointer struct {
	down     bool
	id       object.ID   // Draggable annoyance under the press, if any
	start    physics.Vec // Press position
	grab     physics.Vec // Press position relative to the annoyance's corner
	last     physics.Vec // Last position inside the play area
	dragging bool
}

// Last returns the last position seen inside the play area.
func (ptr *Pointer) Last() physics.Vec {
	return ptr.last
}

// Dragging reports whether a drag is in progress.
func (ptr *Pointer) Dragging() bool {
	return ptr.dragging
}

// Reset forgets the current press.
func (ptr *Pointer) Reset() {
	*ptr = Pointer{}
}

// Handle applies a pointer action at logical position p to g. It reports
// true when a press on the idle screen asks for a new run; starting it is
// left to the caller.
func (ptr *Pointer) Handle(g Game, action input.MouseAction, p physics.Vec) (start bool) {
	switch action {
	case input.MousePress:
		*ptr = Pointer{down: true, start: p, last: p}

		snap := g.Snapshot()
		switch snap.Phase() {
		case game.PhaseIdle:
			return true
		case game.PhaseRunning:
		default:
			return false
		}

		a, ok := snap.Pick(p)
		if !ok {
			if snap.OnTarget(p) {
				g.Pet()
			}
			return false
		}
		if cfg, _ := snap.Table.Config(a.Type); !cfg.Draggable {
			g.Hit(a.ID)
			return false
		}
		ptr.id = a.ID
		ptr.grab = p.Sub(a.Position)

	case input.MouseDrag:
		if !ptr.down {
			return false
		}
		ptr.last = p
		if ptr.id == "" {
			return false
		}
		if !ptr.dragging {
			if physics.Distance(ptr.start.X, ptr.start.Y, p.X, p.Y) < config.DragThreshold {
				return false
			}
			g.DragStart(ptr.id)
			ptr.dragging = true
		}
		g.DragMove(ptr.id, p.Sub(ptr.grab))

	case input.MouseRelease:
		if !ptr.down {
			return false
		}
		switch {
		case ptr.dragging:
			g.DragEnd(ptr.id, p.Sub(ptr.grab))
		case ptr.id != "":
			g.Hit(ptr.id)
		}
		ptr.Reset()
	}
	return false
}

// handleMouse maps a terminal mouse report into the play area.
func (c *Client) handleMouse(ev input.MouseEvent) {
	if ev.Button != 0 {
		return
	}
	x, y, ok := c.canvas.ToLogical(ev.Col, ev.Row)
	p := physics.Vec{X: x, Y: y}
	if !ok {
		// A release off the canvas still has to end a drag.
		if ev.Action != input.MouseRelease {
			return
		}
		p = c.pointer.Last()
	}
	c.handlePointer(ev.Action, p)
}

// handlePointer applies a pointer action at logical position p.
func (c *Client) handlePointer(action input.MouseAction, p physics.Vec) {
	if c.pointer.Handle(c.game, action, p) {
		c.startGame()
	}
}
