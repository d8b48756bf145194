// Package audio defines the sound collaborator used by the game session and
// its implementations.
package audio

import (
	"github.com/charmbracelet/log"
)

// Sound names a playable sound.
type Sound string

const (
	SoundAmbient Sound = "ambient"
	SoundFlyBuzz Sound = "fly-buzz"
	SoundUFOHum  Sound = "ufo-hum"
	SoundVacuum  Sound = "vacuum"
	SoundSwat    Sound = "swat"
	SoundZap     Sound = "zap"
	SoundContact Sound = "contact"
	SoundPurr    Sound = "purr"
)

// All lists every known sound.
var All = []Sound{
	SoundAmbient, SoundFlyBuzz, SoundUFOHum,
	SoundVacuum, SoundSwat, SoundZap, SoundContact, SoundPurr,
}

// Looping reports whether the sound repeats until stopped.
func (s Sound) Looping() bool {
	switch s {
	case SoundAmbient, SoundFlyBuzz, SoundUFOHum:
		return true
	}
	return false
}

// Player plays named sounds. Implementations must never block the caller
// for long and must tolerate any call order.
type Player interface {
	// Play starts a sound. Playing a loop that is already running is a no-op.
	Play(s Sound)
	// Stop silences a sound. Stopping a silent sound is a no-op.
	Stop(s Sound)
	// Enable prepares the output device. Called on every session start.
	Enable()
}

// StopAll stops every known sound on p.
func StopAll(p Player) {
	for _, s := range All {
		p.Stop(s)
	}
}

// Nop is a silent Player.
type Nop struct{}

func (Nop) Play(Sound) {}
func (Nop) Stop(Sound) {}
func (Nop) Enable()    {}

// Logged wraps a Player, logs every call at debug level and swallows panics
// so a broken output device can never take the simulation down.
type Logged struct {
	next   Player
	logger *log.Logger
}

// NewLogged wraps next. A nil logger uses log.Default().
func NewLogged(next Player, logger *log.Logger) *Logged {
	if logger == nil {
		logger = log.Default()
	}
	return &Logged{next: next, logger: logger}
}

func (l *Logged) Play(s Sound) {
	defer l.catch("play", s)
	l.logger.Debug("audio play", "sound", s)
	l.next.Play(s)
}

func (l *Logged) Stop(s Sound) {
	defer l.catch("stop", s)
	l.logger.Debug("audio stop", "sound", s)
	l.next.Stop(s)
}

func (l *Logged) Enable() {
	defer l.catch("enable", "")
	l.logger.Debug("audio enable")
	l.next.Enable()
}

func (l *Logged) catch(op string, s Sound) {
	if r := recover(); r != nil {
		l.logger.Warn("audio call failed", "op", op, "sound", s, "panic", r)
	}
}
