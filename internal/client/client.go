// Package client is the terminal front end: it renders session snapshots on
// a half-block canvas and turns keys and mouse reports into game actions.
package client

import (
	"bufio"
	"context"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/napguard/internal/anim"
	"github.com/tomz197/napguard/internal/client/config"
	settings "github.com/tomz197/napguard/internal/config"
	"github.com/tomz197/napguard/internal/draw"
	"github.com/tomz197/napguard/internal/game"
	"github.com/tomz197/napguard/internal/input"
	"github.com/tomz197/napguard/internal/object"
	"github.com/tomz197/napguard/internal/physics"
)

// Game is the part of a game session the client drives. *game.Session
// implements it.
type Game interface {
	Snapshot() *game.Snapshot
	Events() <-chan game.Event

	Start()
	TogglePause()
	Restart()
	Resize(width, height float64)
	SetSoundEnabled(on bool)

	Hit(id object.ID)
	DragStart(id object.ID)
	DragMove(id object.ID, pos physics.Vec)
	DragEnd(id object.ID, pos physics.Vec)
	Pet()
}

var _ Game = (*game.Session)(nil)

// Client handles rendering and input for a single terminal.
type Client struct {
	game         Game
	settings     *settings.SettingsStore
	logger       *log.Logger
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	idleTimeout  time.Duration
	username     string
	particles    *Particles
	anim         *anim.Player
	pointer      Pointer
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string

	// Settings persists the sound toggle. Nil keeps it for this run only.
	Settings *settings.SettingsStore
	Logger   *log.Logger

	// IdleTimeout disconnects a player who sent no input for this long.
	// Zero disables it.
	IdleTimeout time.Duration
}

// NewClient creates a client rendering g to w and reading keys from r.
func NewClient(g Game, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	now := time.Now()
	return &Client{
		game:         g,
		settings:     opts.Settings,
		logger:       logger,
		state:        NewClientState(now),
		canvas:       draw.NewScaledCanvas(0, 0, config.LogicalWidth, config.LogicalWidth),
		chunkWriter:  draw.NewChunkWriter(w, 0, 0),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		idleTimeout:  opts.IdleTimeout,
		username:     opts.Username,
		particles:    NewParticles(rand.New(rand.NewSource(now.UnixNano()))),
		anim:         anim.NewPlayer(now),
	}
}

// Run starts the client loop. It blocks until the player quits, the input
// stream closes, the idle timeout passes, or ctx is cancelled and the
// shutdown notice has been shown.
func (c *Client) Run(ctx context.Context) error {
	io.WriteString(c.writer, input.MouseOn)
	defer io.WriteString(c.writer, input.MouseOff)
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		if err := c.frame(ctx, frameStart); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// frame runs one iteration of the client loop.
func (c *Client) frame(ctx context.Context, now time.Time) error {
	c.state.now = now

	if ctx.Err() != nil && !c.state.shuttingDown {
		c.beginShutdown()
	}

	c.processInput()
	c.processEvents()
	c.updateScreen()
	c.update()

	return c.drawFrame()
}

// processInput reads input and applies it to the game.
func (c *Client) processInput() {
	in := input.ReadInput(c.inputStream)
	c.state.Input = in

	if len(in.Pressed) > 0 || len(in.Mouse) > 0 {
		c.state.lastInput = c.state.now
		c.state.isInactive = false
	} else if c.idleTimeout > 0 {
		idle := c.state.now.Sub(c.state.lastInput)
		switch {
		case idle >= c.idleTimeout:
			c.logger.Info("disconnecting idle player", "user", c.username, "idle", idle.Round(time.Second))
			c.state.Running = false
		case idle >= c.idleTimeout-config.InactivityWarnBefore:
			c.state.isInactive = true
		}
	}

	if in.Quit {
		c.state.Running = false
		return
	}
	if c.state.shuttingDown {
		return
	}

	c.handleKeys(in)
	for _, ev := range in.Mouse {
		c.handleMouse(ev)
	}
}

// handleKeys maps key presses to game actions.
func (c *Client) handleKeys(in input.Input) {
	snap := c.game.Snapshot()

	switch phase := snap.Phase(); {
	case in.Start && (phase == game.PhaseIdle || phase == game.PhaseGameOver):
		c.startGame()
	case in.Space && phase == game.PhaseRunning:
		if a, ok := snap.Nearest(); ok {
			c.game.Hit(a.ID)
		}
	}

	if in.Pause {
		c.game.TogglePause()
	}
	if in.Restart {
		c.game.Restart()
		c.particles.Reset()
		c.pointer.Reset()
	}
	if in.ToggleSound {
		c.setSound(!snap.State.SoundEnabled)
	}
}

// startGame starts a fresh run.
func (c *Client) startGame() {
	c.game.Start()
	c.particles.Reset()
	c.pointer.Reset()
	c.anim.Restart(c.state.now)
	c.state.waveBanner = 0
}

// setSound switches sound and remembers the choice.
func (c *Client) setSound(on bool) {
	c.game.SetSoundEnabled(on)
	if c.settings == nil {
		return
	}
	if err := c.settings.SetSoundEnabled(on); err != nil {
		c.logger.Warn("failed to save settings", "err", err)
	}
}

// processEvents turns session events into effects.
func (c *Client) processEvents() {
	for {
		select {
		case ev, ok := <-c.game.Events():
			if !ok {
				return
			}
			c.applyEvent(ev)
		default:
			return
		}
	}
}

func (c *Client) applyEvent(ev game.Event) {
	snap := c.game.Snapshot()

	switch e := ev.(type) {
	case game.EventDefeated:
		cfg, _ := snap.Table.Config(e.Type)
		half := cfg.Size / 2
		c.particles.Burst(e.Position.X+half, e.Position.Y+half,
			config.DefeatParticles, config.ParticleSpeed, config.ParticleLifetime, BurstColors(e.Type)...)
	case game.EventContact:
		t := snap.Layout.Target
		c.particles.Burst(t.X, t.Y,
			config.ContactParticles, config.ParticleSpeed/2, config.ParticleLifetime, draw.ColorRed, draw.ColorPink)
	case game.EventWave:
		c.state.waveBanner = config.WaveBannerSeconds
		c.state.bannerWave = e.Number
	case game.EventGameOver:
		c.logger.Debug("game over", "user", c.username, "score", e.Score)
		c.pointer.Reset()
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSize(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.state.tooSmall = renderWidth < config.MinTermWidth || renderHeight < config.MinTermHeight

	// Keep half-block pixels square: the logical height follows the aspect ratio.
	height := math.Round(config.LogicalWidth * float64(renderHeight*2) / float64(renderWidth))
	if height != c.state.areaHeight {
		c.state.areaHeight = height
		c.canvas.SetLogicalSize(config.LogicalWidth, height)
		c.game.Resize(config.LogicalWidth, height)
	}
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// update advances client-side effects.
func (c *Client) update() {
	dt := c.state.delta.Seconds()
	c.particles.Update(dt)

	if c.state.waveBanner > 0 {
		c.state.waveBanner = max(c.state.waveBanner-dt, 0)
	}

	if c.state.shuttingDown {
		c.state.shutdownTimer -= dt
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}

// beginShutdown freezes the game and shows the shutdown notice.
func (c *Client) beginShutdown() {
	c.state.shuttingDown = true
	c.state.shutdownTimer = config.ShutdownDisplaySeconds
	if c.game.Snapshot().Phase() == game.PhaseRunning {
		c.game.TogglePause()
	}
}
