package client

import (
	"time"

	"github.com/tomz197/napguard/internal/game"
	"github.com/tomz197/napguard/internal/input"
)

// ClientState holds the per-terminal presentation state. Game state lives in
// the session; this is only what the client needs to draw around it.
type ClientState struct {
	Input   input.Input
	Running bool // Client loop running

	now       time.Time     // Start of the current frame
	delta     time.Duration // Frame delta time
	lastInput time.Time

	areaHeight float64 // Logical play area height sent to the session
	tooSmall   bool    // Terminal below the minimum render size

	waveBanner float64 // Seconds left to show the wave banner
	bannerWave int

	shuttingDown  bool
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool    // Whether the client is in inactive warning state

	// Previous frame's screen mode, to clear the terminal on transitions.
	prevPhase   game.Phase
	wasInactive bool
	wasTooSmall bool
	wasShutdown bool
	drawnOnce   bool
}

// NewClientState creates a new initialized client state.
func NewClientState(now time.Time) *ClientState {
	return &ClientState{
		Running:   true,
		now:       now,
		lastInput: now,
	}
}
