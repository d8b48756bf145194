// Package desktop is the windowed front end. The session runs without its
// own tickers; ebiten's fixed update rate drives it instead.
package desktop

import (
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/tomz197/napguard/internal/anim"
	"github.com/tomz197/napguard/internal/client"
	cconfig "github.com/tomz197/napguard/internal/client/config"
	settings "github.com/tomz197/napguard/internal/config"
	"github.com/tomz197/napguard/internal/draw"
	"github.com/tomz197/napguard/internal/game"
)

// Window defaults.
const (
	WindowWidth  = 960
	WindowHeight = 640
	WindowTitle  = "napguard"
)

// LogicalWidth is the width of the play area. The height follows the
// window's aspect ratio.
const LogicalWidth = 800

// wavePeriod is the number of updates per wave tick at the default TPS.
const wavePeriod = 60

// Session is the part of a manual game session the window drives.
// *game.Session implements it.
type Session interface {
	client.Game
	StepMotion()
	StepWave()
}

var _ Session = (*game.Session)(nil)

// Options configures the window.
type Options struct {
	// Settings persists the sound toggle. Nil keeps it for this run only.
	Settings *settings.SettingsStore
	Logger   *log.Logger
}

// Game implements ebiten.Game on top of a session.
type Game struct {
	session  Session
	settings *settings.SettingsStore
	logger   *log.Logger

	pointer   client.Pointer
	particles *client.Particles
	anim      *anim.Player
	face      text.Face

	// Scratch for polygon fills.
	fill *ebiten.Image
	vs   []ebiten.Vertex
	is   []uint16

	now        time.Time
	ticks      int // Updates since the run last (re)entered Running
	width      int
	height     int
	waveBanner float64
	bannerWave int
	quit       bool
}

var _ ebiten.Game = (*Game)(nil)

// New creates a window front end for s. s must have been created with
// game.Options.Manual set.
func New(s Session, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := time.Now()
	return &Game{
		session:   s,
		settings:  opts.Settings,
		logger:    logger,
		particles: client.NewParticles(rand.New(rand.NewSource(now.UnixNano()))),
		anim:      anim.NewPlayer(now),
		face:      text.NewGoXFace(basicfont.Face7x13),
		now:       now,
	}
}

// Update reads input and advances the session by one tick.
func (g *Game) Update() error {
	g.now = time.Now()
	for _, cmd := range readCommands() {
		g.apply(cmd)
	}
	g.readPointer()
	if g.quit {
		return ebiten.Termination
	}
	g.step(1.0 / float64(ebiten.TPS()))
	return nil
}

// Layout keeps the logical width fixed and resizes the session when the
// window's aspect ratio changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := logicalSize(outsideWidth, outsideHeight)
	if w != g.width || h != g.height {
		g.width, g.height = w, h
		g.session.Resize(float64(w), float64(h))
	}
	return w, h
}

// logicalSize scales a window size to LogicalWidth.
func logicalSize(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return LogicalWidth, LogicalWidth * WindowHeight / WindowWidth
	}
	h := int(math.Round(float64(LogicalWidth) * float64(outsideHeight) / float64(outsideWidth)))
	return LogicalWidth, max(h, 1)
}

// step runs one motion tick, a wave tick every wavePeriod updates of a
// running game, and the visual effects.
func (g *Game) step(dt float64) {
	if g.session.Snapshot().Phase() == game.PhaseRunning {
		g.session.StepMotion()
		g.ticks++
		if g.ticks%wavePeriod == 0 {
			g.session.StepWave()
		}
	}
	g.drainEvents()

	g.particles.Update(dt)
	if g.waveBanner > 0 {
		g.waveBanner = max(g.waveBanner-dt, 0)
	}
}

// command is a key action.
type command int

const (
	cmdStart command = iota // Start from the title or game over screen
	cmdSwat                 // Hit the annoyance nearest to the cat
	cmdPause
	cmdRestart
	cmdSound
	cmdQuit
)

// apply runs a key action.
func (g *Game) apply(cmd command) {
	snap := g.session.Snapshot()
	phase := snap.Phase()

	switch cmd {
	case cmdStart:
		switch phase {
		case game.PhaseIdle, game.PhaseGameOver:
			g.startGame()
		case game.PhaseRunning:
			g.apply(cmdSwat)
		}
	case cmdSwat:
		if phase != game.PhaseRunning {
			return
		}
		if a, ok := snap.Nearest(); ok {
			g.session.Hit(a.ID)
		}
	case cmdPause:
		g.session.TogglePause()
	case cmdRestart:
		g.session.Restart()
		g.particles.Reset()
		g.pointer.Reset()
		g.ticks = 0
	case cmdSound:
		g.setSound(!snap.State.SoundEnabled)
	case cmdQuit:
		g.quit = true
	}
}

// startGame starts a fresh run.
func (g *Game) startGame() {
	g.session.Start()
	g.particles.Reset()
	g.pointer.Reset()
	g.anim.Restart(g.now)
	g.ticks = 0
	g.waveBanner = 0
}

// setSound switches sound and remembers the choice.
func (g *Game) setSound(on bool) {
	g.session.SetSoundEnabled(on)
	if g.settings == nil {
		return
	}
	if err := g.settings.SetSoundEnabled(on); err != nil {
		g.logger.Warn("failed to save settings", "err", err)
	}
}

// drainEvents turns pending session events into effects.
func (g *Game) drainEvents() {
	for {
		select {
		case ev, ok := <-g.session.Events():
			if !ok {
				return
			}
			g.applyEvent(ev)
		default:
			return
		}
	}
}

func (g *Game) applyEvent(ev game.Event) {
	snap := g.session.Snapshot()

	switch e := ev.(type) {
	case game.EventDefeated:
		cfg, _ := snap.Table.Config(e.Type)
		half := cfg.Size / 2
		g.particles.Burst(e.Position.X+half, e.Position.Y+half,
			cconfig.DefeatParticles, cconfig.ParticleSpeed, cconfig.ParticleLifetime, client.BurstColors(e.Type)...)
	case game.EventContact:
		t := snap.Layout.Target
		g.particles.Burst(t.X, t.Y,
			cconfig.ContactParticles, cconfig.ParticleSpeed/2, cconfig.ParticleLifetime, draw.ColorRed, draw.ColorPink)
	case game.EventWave:
		g.waveBanner = cconfig.WaveBannerSeconds
		g.bannerWave = e.Number
	case game.EventGameOver:
		g.logger.Debug("game over", "score", e.Score)
		g.pointer.Reset()
	}
}
