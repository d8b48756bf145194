// Package beepaudio plays the game sounds through the system speaker.
package beepaudio

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/napguard/internal/audio"
)

const sampleRate = beep.SampleRate(44100)

// speakerOnce guards speaker.Init, which may only run once per process.
var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond))
	})
	return speakerErr
}

// Engine plays procedurally generated sounds through the system speaker.
// The device is opened lazily on the first Enable; if that fails the engine
// stays silent.
type Engine struct {
	mu       sync.Mutex
	mixer    *beep.Mixer
	channels map[audio.Sound]*beep.Ctrl
	ready    bool
	attached bool // mixer handed to the speaker
	failed   bool
	logger   *log.Logger
}

var _ audio.Player = (*Engine)(nil)

// NewEngine creates an engine. A nil logger uses log.Default().
func NewEngine(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		mixer:    &beep.Mixer{},
		channels: make(map[audio.Sound]*beep.Ctrl),
		logger:   logger,
	}
}

// Init opens the speaker and attaches the mixer. It is safe to call more
// than once.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initLocked()
}

func (e *Engine) initLocked() error {
	if e.ready {
		return nil
	}
	if err := initSpeaker(); err != nil {
		e.failed = true
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	if !e.attached {
		speaker.Play(e.mixer)
		e.attached = true
	}
	e.ready = true
	return nil
}

// Enable opens the device on first use. Failure is logged once and leaves the
// engine silent.
func (e *Engine) Enable() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ready || e.failed {
		return
	}
	if err := e.initLocked(); err != nil {
		e.logger.Warn("audio disabled", "err", err)
	}
}

// Play starts a sound. Loops that are already audible are left alone; a
// paused loop resumes from where it stopped.
func (e *Engine) Play(s audio.Sound) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ready {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()

	if s.Looping() {
		if ctrl, ok := e.channels[s]; ok {
			ctrl.Paused = false
			return
		}
	}

	ctrl := &beep.Ctrl{Streamer: newStreamer(s, sampleRate)}
	e.channels[s] = ctrl
	e.mixer.Add(ctrl)
}

// Stop pauses a loop or cuts the most recent instance of a one-shot.
func (e *Engine) Stop(s audio.Sound) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctrl, ok := e.channels[s]
	if !ok {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()

	if s.Looping() {
		ctrl.Paused = true
		return
	}
	// A Ctrl with a nil Streamer is drained and drops out of the mixer.
	ctrl.Streamer = nil
	delete(e.channels, s)
}

// Close silences everything and detaches the mixer.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ready {
		return
	}

	speaker.Lock()
	e.mixer.Clear()
	speaker.Unlock()

	e.channels = make(map[audio.Sound]*beep.Ctrl)
	e.ready = false
}
