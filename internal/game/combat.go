package game

import (
	"github.com/tomz197/napguard/internal/audio"
	"github.com/tomz197/napguard/internal/object"
	"github.com/tomz197/napguard/internal/physics"
)

// Hit takes one hit point from an annoyance. At zero it is removed and its
// full base hit points are scored. Unknown IDs (already removed, or from an
// earlier run) are ignored, as are hits while paused or idle.
func (s *Session) Hit(id object.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Running() {
		return
	}
	i := s.findLocked(id)
	if i < 0 {
		return
	}

	a := s.annoyances[i]
	a.HP--
	if !a.Alive() {
		cfg, _ := s.table.Config(a.Type)
		s.state.Score += cfg.BaseHP
		s.state.EnemiesRemaining = max(s.state.EnemiesRemaining-1, 0)
		s.removeLocked(i)

		s.playLocked(audio.Sound(cfg.DefeatSound))
		s.emitLocked(EventDefeated{ID: a.ID, Type: a.Type, Position: a.Position, Points: cfg.BaseHP})
	}
	s.publishLocked()
}

// DragStart picks up a draggable annoyance. It stops moving and cannot reach
// the target until released.
func (s *Session) DragStart(id object.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Running() {
		return
	}
	i := s.findLocked(id)
	if i < 0 {
		return
	}
	a := s.annoyances[i]
	if cfg, _ := s.table.Config(a.Type); !cfg.Draggable {
		return
	}
	a.Dragging = true
	s.publishLocked()
}

// DragMove moves a held annoyance with the pointer.
func (s *Session) DragMove(id object.ID, pos physics.Vec) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Running() {
		return
	}
	i := s.findLocked(id)
	if i < 0 || !s.annoyances[i].Dragging {
		return
	}
	s.placeLocked(s.annoyances[i], pos)
	s.publishLocked()
}

// DragEnd drops a held annoyance at pos, clamped into the play area. It is
// honored while paused so a release is never lost.
func (s *Session) DragEnd(id object.ID, pos physics.Vec) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Playing {
		return
	}
	i := s.findLocked(id)
	if i < 0 || !s.annoyances[i].Dragging {
		return
	}
	a := s.annoyances[i]
	s.placeLocked(a, pos)
	a.Dragging = false
	s.publishLocked()
}

func (s *Session) placeLocked(a *object.Annoyance, pos physics.Vec) {
	cfg, _ := s.table.Config(a.Type)
	area := s.layout.Area
	a.Position = physics.Vec{
		X: physics.Clamp(pos.X, 0, area.Width-cfg.Size),
		Y: physics.Clamp(pos.Y, 0, area.Height-cfg.Size),
	}
}

// Pet strokes the sleeping cat. It only purrs; the simulation is unaffected.
func (s *Session) Pet() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Running() {
		return
	}
	s.playLocked(audio.SoundPurr)
}
