package game

import (
	"math"

	"github.com/tomz197/napguard/internal/audio"
	"github.com/tomz197/napguard/internal/game/config"
	"github.com/tomz197/napguard/internal/physics"
)

// stepMotionLocked advances every live annoyance one tick toward the target,
// resolves contacts with it and ramps the game speed.
func (s *Session) stepMotionLocked() {
	if !s.state.Running() {
		return
	}

	if s.layout.Area.Measured() {
		if over := s.resolveMotionLocked(); over {
			s.gameOverLocked()
			return
		}
	}
	s.state.EnemiesRemaining = len(s.annoyances)
	s.syncLoopsLocked()

	s.state.GameSpeed = math.Min(s.state.GameSpeed+config.GameSpeedIncrement, config.MaxGameSpeed)
}

// resolveMotionLocked moves annoyances and removes the ones that reached the
// target. It reports whether sleep health ran out, in which case the
// remaining annoyances are left where they are.
func (s *Session) resolveMotionLocked() bool {
	target := s.layout.Target
	area := s.layout.Area
	over := false

	kept := s.annoyances[:0]
	for _, a := range s.annoyances {
		if over || a.Dragging {
			kept = append(kept, a)
			continue
		}

		cfg, _ := s.table.Config(a.Type)
		dir, dist := target.Sub(a.Position).Normalize()
		if dist == 0 {
			kept = append(kept, a)
			continue
		}

		if dist < s.layout.HitRadius {
			s.state.SleepHealth = max(s.state.SleepHealth-1, 0)
			s.playLocked(audio.SoundContact)
			s.emitLocked(EventContact{Type: a.Type, Position: a.Position, SleepHealth: s.state.SleepHealth})
			if s.state.SleepHealth == 0 {
				over = true
			}
			continue
		}

		a.Velocity = dir.Scale(cfg.Speed * s.state.GameSpeed)
		a.Position = a.Position.Add(a.Velocity)
		a.Position.X = physics.Clamp(a.Position.X, 0, area.Width-cfg.Size)
		a.Position.Y = physics.Clamp(a.Position.Y, 0, area.Height-cfg.Size)
		kept = append(kept, a)
	}

	clear(s.annoyances[len(kept):])
	s.annoyances = kept
	s.state.EnemiesRemaining = len(kept)
	return over
}
