// Package game implements the simulation core: the session state machine,
// the motion and collision resolver, the wave scheduler and the combat
// resolver.
//
// A Session is safe for concurrent use. Ticks and player actions are
// serialized by a single mutex; readers use Snapshot, which never blocks.
package game

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/napguard/internal/audio"
	"github.com/tomz197/napguard/internal/game/config"
	"github.com/tomz197/napguard/internal/object"
)

// Options configures a Session. The zero value is usable.
type Options struct {
	Audio  audio.Player  // Defaults to audio.Nop
	Table  *object.Table // Defaults to object.DefaultTable()
	Rand   object.Rand   // Defaults to a time-seeded source
	Logger *log.Logger   // Defaults to log.Default()

	// Manual disables the internal tickers. The caller drives StepMotion
	// and StepWave itself.
	Manual bool

	// Muted starts the session with sound disabled.
	Muted bool
}

// epochSeq numbers runs across every session of the process so entity IDs
// never repeat.
var epochSeq atomic.Uint64

// Session is one independent game: its state, its live annoyances and the
// two tickers driving them.
type Session struct {
	mu sync.Mutex

	state      State
	layout     Layout
	annoyances []*object.Annoyance
	loops      map[audio.Sound]bool // Creature loops currently playing

	table   *object.Table
	factory *object.Factory
	rng     object.Rand
	audio   audio.Player
	logger  *log.Logger
	manual  bool

	// Ticker ownership. gen is bumped whenever the session leaves Running so
	// a tick already waiting on mu can tell it belongs to a superseded run.
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool

	snapshot atomic.Pointer[Snapshot]
	events   chan Event
}

// NewSession creates an idle session.
func NewSession(opts Options) *Session {
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Table == nil {
		opts.Table = object.DefaultTable()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Session{
		state:   initialState(),
		loops:   make(map[audio.Sound]bool),
		table:   opts.Table,
		factory: object.NewFactory(opts.Table, opts.Rand),
		rng:     opts.Rand,
		audio:   opts.Audio,
		logger:  opts.Logger,
		manual:  opts.Manual,
		events:  make(chan Event, config.EventBufferSize),
	}
	s.state.SoundEnabled = !opts.Muted
	s.publishLocked()
	return s
}

// Snapshot returns the latest published view of the session.
func (s *Session) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Events returns the channel of session events. It is closed by Close.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Table returns the annoyance type table.
func (s *Session) Table() *object.Table {
	return s.table
}

// Start begins a fresh run from any state: counters reset, entities
// discarded, a new ID epoch, and freshly created tickers.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.stopTickersLocked()
	s.stopAllSoundsLocked()

	sound, portrait := s.state.SoundEnabled, s.state.Portrait
	s.state = initialState()
	s.state.Playing = true
	s.state.Portrait = portrait
	s.state.SoundEnabled = sound
	s.clearAnnoyancesLocked()

	epoch := epochSeq.Add(1)
	s.factory.Reset(strconv.FormatUint(epoch, 36) + "-")

	s.audio.Enable()
	s.playLocked(audio.SoundAmbient)
	s.startTickersLocked()

	s.logger.Debug("run started", "epoch", epoch)
	s.publishLocked()
}

// TogglePause switches between Running and Paused. It does nothing when no
// run is in progress.
func (s *Session) TogglePause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Playing || s.closed {
		return
	}

	if s.state.Paused {
		s.state.Paused = false
		s.startTickersLocked()
		s.playLocked(audio.SoundAmbient)
		s.syncLoopsLocked()
	} else {
		s.state.Paused = true
		s.stopTickersLocked()
		s.audio.Stop(audio.SoundAmbient)
		s.stopLoopsLocked()
	}
	s.publishLocked()
}

// Restart returns to an idle state from any phase: score zeroed, entities
// discarded, sounds and tickers stopped. Layout and the sound setting are
// kept.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTickersLocked()
	s.stopAllSoundsLocked()

	sound, portrait := s.state.SoundEnabled, s.state.Portrait
	s.state = initialState()
	s.state.Portrait = portrait
	s.state.SoundEnabled = sound
	s.clearAnnoyancesLocked()

	s.publishLocked()
}

// Resize records new play-area dimensions. It may be called at any time.
func (s *Session) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.layout = NewLayout(width, height)
	s.state.Portrait = s.layout.Portrait
	s.publishLocked()
}

// SetSoundEnabled turns sound output on or off. Enabling during a run
// resumes the ambient loop and any creature loops.
func (s *Session) SetSoundEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.SoundEnabled == on {
		return
	}
	s.state.SoundEnabled = on

	if !on {
		s.stopAllSoundsLocked()
	} else {
		s.audio.Enable()
		if s.state.Running() {
			s.playLocked(audio.SoundAmbient)
			s.syncLoopsLocked()
		}
	}
	s.publishLocked()
}

// Close stops the tickers, waits for the tick goroutine to exit and closes
// the event channel. The session ignores further state transitions.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopTickersLocked()
	s.stopAllSoundsLocked()
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()
	close(s.events)
}

// gameOverLocked ends the run after sleep health ran out.
func (s *Session) gameOverLocked() {
	s.state.Playing = false
	s.state.Paused = false
	s.stopTickersLocked()
	s.stopAllSoundsLocked()

	s.logger.Debug("game over", "score", s.state.Score, "wave", s.state.WaveNumber)
	s.emitLocked(EventGameOver{Score: s.state.Score})
}

// startTickersLocked launches the goroutine owning both tickers for the
// current generation.
func (s *Session) startTickersLocked() {
	if s.manual {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	gen := s.gen

	s.wg.Add(1)
	go s.run(ctx, gen)
}

// stopTickersLocked cancels the tick goroutine and invalidates any tick
// already waiting on the lock.
func (s *Session) stopTickersLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// run owns the fast and slow tickers. A single goroutine selecting on both
// keeps ticks from ever overlapping.
func (s *Session) run(ctx context.Context, gen uint64) {
	defer s.wg.Done()

	motion := time.NewTicker(config.MotionTickTime)
	defer motion.Stop()
	wave := time.NewTicker(config.WaveTickTime)
	defer wave.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-motion.C:
			s.tick(gen, s.stepMotionLocked)
		case <-wave.C:
			s.tick(gen, s.stepWaveLocked)
		}
	}
}

func (s *Session) tick(gen uint64, step func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	step()
	s.publishLocked()
}

// StepMotion runs one fast tick. Only needed in manual mode.
func (s *Session) StepMotion() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stepMotionLocked()
	s.publishLocked()
}

// StepWave runs one slow tick. Only needed in manual mode.
func (s *Session) StepWave() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stepWaveLocked()
	s.publishLocked()
}

func (s *Session) clearAnnoyancesLocked() {
	clear(s.annoyances)
	s.annoyances = s.annoyances[:0]
	s.state.EnemiesRemaining = 0
}

// findLocked returns the index of a live annoyance, or -1.
func (s *Session) findLocked(id object.ID) int {
	for i, a := range s.annoyances {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// removeLocked drops the annoyance at index i, keeping draw order.
func (s *Session) removeLocked(i int) {
	copy(s.annoyances[i:], s.annoyances[i+1:])
	s.annoyances[len(s.annoyances)-1] = nil
	s.annoyances = s.annoyances[:len(s.annoyances)-1]
}

// playLocked plays a sound if sound is enabled.
func (s *Session) playLocked(snd audio.Sound) {
	if !s.state.SoundEnabled || snd == "" {
		return
	}
	s.audio.Play(snd)
}

// stopAllSoundsLocked silences every sound and forgets loop state.
func (s *Session) stopAllSoundsLocked() {
	audio.StopAll(s.audio)
	clear(s.loops)
}

// stopLoopsLocked silences the creature loops.
func (s *Session) stopLoopsLocked() {
	for _, typ := range s.table.Types() {
		cfg, _ := s.table.Config(typ)
		if cfg.LoopSound != "" {
			s.audio.Stop(audio.Sound(cfg.LoopSound))
		}
	}
	clear(s.loops)
}

// syncLoopsLocked plays the loop of every creature type that is present
// and stops the others. Only changes reach the audio player.
func (s *Session) syncLoopsLocked() {
	if !s.state.SoundEnabled {
		return
	}

	want := make(map[audio.Sound]bool, len(s.loops))
	for _, typ := range s.table.Types() {
		if cfg, _ := s.table.Config(typ); cfg.LoopSound != "" {
			want[audio.Sound(cfg.LoopSound)] = false
		}
	}
	for _, a := range s.annoyances {
		if cfg, _ := s.table.Config(a.Type); cfg.LoopSound != "" {
			want[audio.Sound(cfg.LoopSound)] = true
		}
	}

	for snd, on := range want {
		if on == s.loops[snd] {
			continue
		}
		if on {
			s.audio.Play(snd)
		} else {
			s.audio.Stop(snd)
		}
		s.loops[snd] = on
	}
}
