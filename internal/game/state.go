package game

import (
	"github.com/tomz197/napguard/internal/game/config"
	"github.com/tomz197/napguard/internal/object"
	"github.com/tomz197/napguard/internal/physics"
)

// State is the aggregate session state shown to the player.
type State struct {
	Playing          bool
	Paused           bool
	Score            int
	SleepHealth      int
	GameSpeed        float64
	NextWaveIn       int // Seconds until the next wave once the field is clear
	WaveNumber       int
	EnemiesRemaining int
	Portrait         bool
	SoundEnabled     bool
}

// Phase is the state machine position derived from State.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game over"
	default:
		return "idle"
	}
}

// Phase derives the current phase. A finished run is told apart from a
// fresh one by its drained sleep health.
func (s State) Phase() Phase {
	switch {
	case s.Playing && s.Paused:
		return PhasePaused
	case s.Playing:
		return PhaseRunning
	case s.SleepHealth <= 0:
		return PhaseGameOver
	default:
		return PhaseIdle
	}
}

// Running reports whether ticks and player actions take effect.
func (s State) Running() bool {
	return s.Playing && !s.Paused
}

// Layout is the measured play area and the geometry derived from it.
type Layout struct {
	Area      object.Area
	Target    physics.Vec
	HitRadius float64
	Portrait  bool
}

// NewLayout derives the target position and hit radius for a play area.
// The area is portrait when it is taller than wide.
func NewLayout(width, height float64) Layout {
	l := Layout{
		Area:      object.Area{Width: width, Height: height},
		Portrait:  height > width,
		HitRadius: config.HitRadius,
	}
	yRatio := config.TargetYRatio
	if l.Portrait {
		yRatio = config.TargetYRatioPortrait
		l.HitRadius = config.HitRadiusPortrait
	}
	l.Target = physics.Vec{X: width * config.TargetXRatio, Y: height * yRatio}
	return l
}

// initialState is the zeroed state shown before the first start.
func initialState() State {
	return State{
		SleepHealth:  config.InitialSleepHealth,
		GameSpeed:    config.InitialGameSpeed,
		NextWaveIn:   config.FirstWaveCountdown,
		SoundEnabled: true,
	}
}
