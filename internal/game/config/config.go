// Package config centralizes all tunable game parameters.
package config

import "time"

// Session defaults applied on start.
const (
	InitialSleepHealth = 100
	InitialGameSpeed   = 1.0
	FirstWaveCountdown = 3 // Seconds before the first wave (shorter than later waves)
)

// Difficulty ramp
const (
	MaxGameSpeed       = 2.5
	GameSpeedIncrement = 0.00005 // Added every motion tick
)

// Waves
const (
	BaseWaveSize        = 3 // Wave size = BaseWaveSize + waveNumber/WaveSizeDivisor
	WaveSizeDivisor     = 2
	BaseWaveInterval    = 5 // Countdown = BaseWaveInterval + waveNumber/WaveIntervalDivisor
	WaveIntervalDivisor = 3
	ExtraSpawnChance    = 0.08 // Per wave tick while a wave is alive
)

// Target placement and hitbox. The sleeping cat is drawn smaller in portrait
// layouts, so its hitbox shrinks with it.
const (
	TargetXRatio         = 0.5
	TargetYRatioPortrait = 0.72
	TargetYRatio         = 0.76
	HitRadiusPortrait    = 35.0
	HitRadius            = 45.0
)

// Tick rates
const (
	MotionTickTime = 16 * time.Millisecond
	WaveTickTime   = time.Second
)

// Events
const (
	EventBufferSize = 64
)
