package game

import (
	"github.com/tomz197/napguard/internal/game/config"
	"github.com/tomz197/napguard/internal/object"
)

// stepWaveLocked runs the wave countdown. While annoyances are alive it may
// add a random extra one; once the field is clear it counts down and then
// spawns the next wave.
func (s *Session) stepWaveLocked() {
	if !s.state.Running() {
		return
	}

	if s.state.EnemiesRemaining > 0 {
		if s.rng.Float64() < config.ExtraSpawnChance {
			if s.spawnLocked() {
				s.state.EnemiesRemaining++
			}
		}
		return
	}

	if s.state.NextWaveIn > 0 {
		s.state.NextWaveIn--
		return
	}

	size := config.BaseWaveSize + s.state.WaveNumber/config.WaveSizeDivisor
	spawned := 0
	for range size {
		if s.spawnLocked() {
			spawned++
		}
	}
	if spawned == 0 {
		// The factory only refuses while the area is unmeasured, and then it
		// refuses every spawn, so zero means the layout is not known yet.
		// Keep the wave for the next tick. A partial wave still counts.
		return
	}

	s.state.NextWaveIn = config.BaseWaveInterval + s.state.WaveNumber/config.WaveIntervalDivisor
	s.state.WaveNumber++
	s.state.EnemiesRemaining = spawned

	s.logger.Debug("wave spawned", "wave", s.state.WaveNumber, "size", spawned, "speed", s.state.GameSpeed)
	s.emitLocked(EventWave{Number: s.state.WaveNumber, Size: spawned})
}

// spawnLocked asks the factory for a random annoyance and adds it to the
// live set.
func (s *Session) spawnLocked() bool {
	return s.spawnTypeLocked("")
}

func (s *Session) spawnTypeLocked(typ object.Type) bool {
	a, ok := s.factory.Spawn(typ, s.layout.Area, s.layout.Target, s.state.GameSpeed)
	if !ok {
		return false
	}
	s.annoyances = append(s.annoyances, a)
	return true
}

// Spawn adds an annoyance of the given type (random when empty) to a
// running session and returns its ID. It fails when the session is not
// running or the play area has not been measured.
func (s *Session) Spawn(typ object.Type) (object.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Running() || !s.spawnTypeLocked(typ) {
		return "", false
	}
	s.state.EnemiesRemaining = len(s.annoyances)
	id := s.annoyances[len(s.annoyances)-1].ID
	s.publishLocked()
	return id, true
}
