// Package config centralizes the tunables of the terminal front end.
package config

import "time"

// Logical play area width. The height follows the terminal's aspect ratio so
// half-block pixels stay square.
const LogicalWidth = 800

// Render resolution bounds, in terminal cells. Larger terminals are letterboxed.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 60
	MinTermWidth  = 40
	MinTermHeight = 12
)

// Pointer
const (
	DragThreshold = 12.0 // Logical units the pointer must travel before a press becomes a drag
)

// Particles
const (
	DefeatParticles   = 14
	ContactParticles  = 8
	ParticleSpeed     = 140.0 // Logical units per second
	ParticleLifetime  = 0.6   // Seconds
	WaveBannerSeconds = 2.0
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity warning starts this long before the idle timeout.
const InactivityWarnBefore = 30 * time.Second

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)
