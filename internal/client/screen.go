package client

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/napguard/internal/client/config"
	"github.com/tomz197/napguard/internal/draw"
	"github.com/tomz197/napguard/internal/game"
)

// titleGlyphs spells the title in figlet's "small" font.
var titleGlyphs = [][4]string{
	{" _  _ ", "| \\| |", "| .` |", "|_|\\_|"},
	{"   _   ", "  /_\\  ", " / _ \\ ", "/_/ \\_\\"},
	{" ___ ", "| _ \\", "|  _/", "|_|  "},
	{"  ___ ", " / __|", "| (_ |", " \\___|"},
	{" _   _ ", "| | | |", "| |_| |", " \\___/ "},
	{"   _   ", "  /_\\  ", " / _ \\ ", "/_/ \\_\\"},
	{" ___ ", "| _ \\", "|   /", "|_|_\\"},
	{" ___  ", "|   \\ ", "| |) |", "|___/ "},
}

// controlsWidth is the width of a line in the controls list.
const controlsWidth = 28

var titleArt = func() []string {
	lines := make([]string, 4)
	for _, g := range titleGlyphs {
		for i, row := range g {
			lines[i] += row
		}
	}
	return lines
}()

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	snap := c.game.Snapshot()
	phase := snap.Phase()

	// On screen mode transitions, do a full terminal clear so UI elements
	// from the previous mode don't persist on screen.
	st := c.state
	if !st.drawnOnce || phase != st.prevPhase || st.isInactive != st.wasInactive ||
		st.tooSmall != st.wasTooSmall || st.shuttingDown != st.wasShutdown {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		st.drawnOnce = true
		st.prevPhase = phase
		st.wasInactive = st.isInactive
		st.wasTooSmall = st.tooSmall
		st.wasShutdown = st.shuttingDown
	}

	if st.tooSmall {
		c.drawTooSmall()
		return c.chunkWriter.Flush()
	}

	elapsed := c.anim.Elapsed(st.now)

	c.canvas.Clear()
	t := snap.Layout.Target
	drawCat(c.canvas, t.X, t.Y, snap.Layout.HitRadius, phase == game.PhaseGameOver, elapsed)
	for _, a := range snap.Annoyances {
		drawAnnoyance(c.canvas, a.Type, a.Position.X, a.Position.Y, snap.Size(a), a.Dragging, elapsed)
	}
	c.particles.Draw(c.canvas)

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawLabels(snap, elapsed)
	c.drawUI(snap)

	return c.chunkWriter.Flush()
}

// text writes s at a 1-based canvas position and marks the cells dirty so
// the canvas cleans them up next frame. Text that does not fit is skipped.
func (c *Client) text(col, row int, color draw.Color, s string) {
	n := utf8.RuneCountInString(s)
	if row < 1 || row > c.canvas.TerminalHeight() || col < 1 || col+n-1 > c.canvas.TerminalWidth() {
		return
	}
	if color == draw.ColorNone {
		c.chunkWriter.WriteAt(col, row, s)
	} else {
		c.chunkWriter.WriteColorAt(col, row, color, s)
	}
	c.canvas.MarkTextDirty(col, row, n)
}

// centered writes s centered on the canvas at row.
func (c *Client) centered(row int, color draw.Color, s string) {
	col := (c.canvas.TerminalWidth()-utf8.RuneCountInString(s))/2 + 1
	c.text(col, row, color, s)
}

// drawLabels draws hit points above armored annoyances and the cat's snore.
func (c *Client) drawLabels(snap *game.Snapshot, elapsed time.Duration) {
	for _, a := range snap.Annoyances {
		cfg, _ := snap.Table.Config(a.Type)
		if cfg.BaseHP <= 1 {
			continue
		}
		label := fmt.Sprintf("%d", a.HP)
		col, row := c.canvas.LogicalToTerminal(a.Position.X+cfg.Size/2, a.Position.Y)
		c.text(col-len(label)/2, row-1, draw.ColorWhite, label)
	}

	t := snap.Layout.Target
	r := snap.Layout.HitRadius
	col, row := c.canvas.LogicalToTerminal(t.X+r*0.2, t.Y-r*1.1)
	switch snap.Phase() {
	case game.PhaseGameOver:
		c.text(col, row, draw.ColorYellow, "!   ")
	case game.PhaseRunning, game.PhasePaused:
		c.text(col, row, draw.ColorCyan, catSnore.FrameAt(elapsed))
	}
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI(snap *game.Snapshot) {
	if c.state.shuttingDown {
		c.drawShutdownScreen()
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen()
		return
	}

	switch snap.Phase() {
	case game.PhaseIdle:
		c.drawStartScreen(snap)
	case game.PhaseRunning:
		c.drawPlayingHUD(snap)
	case game.PhasePaused:
		c.drawPlayingHUD(snap)
		c.drawPausedScreen()
	case game.PhaseGameOver:
		c.drawGameOverScreen(snap)
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(snap *game.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	s := snap.State

	c.text(2, 1, draw.ColorNone, fmt.Sprintf("Score: %-6d", s.Score))

	wave := fmt.Sprintf("Wave %-3d", s.WaveNumber)
	if s.EnemiesRemaining == 0 {
		wave += fmt.Sprintf(" next in %-2d", s.NextWaveIn)
	} else {
		wave += fmt.Sprintf(" left %-4d", s.EnemiesRemaining)
	}
	c.centered(1, draw.ColorNone, wave)

	bar := healthBar(s.SleepHealth, 10)
	c.text(termWidth-len("Sleep ")-10-6, 1, draw.ColorNone, "Sleep ")
	c.text(termWidth-10-5, 1, healthColor(s.SleepHealth), bar)
	c.text(termWidth-4, 1, draw.ColorNone, fmt.Sprintf("%3d%%", s.SleepHealth))

	c.text(2, termHeight, draw.ColorGray, fmt.Sprintf("Speed x%-4.2f", s.GameSpeed))

	sound := "Sound: off (m)"
	if s.SoundEnabled {
		sound = "Sound: on  (m)"
	}
	c.text(termWidth-len(sound), termHeight, draw.ColorGray, sound)

	if c.state.waveBanner > 0 {
		c.centered(3, draw.ColorYellow, fmt.Sprintf(">> WAVE %d <<", c.state.bannerWave))
	}
}

// healthBar renders health (0..100) as width cells, using a shade for the
// partially filled cell.
func healthBar(health, width int) string {
	filled := float64(health) / 100 * float64(width)
	var b strings.Builder
	for i := 0; i < width; i++ {
		b.WriteRune(draw.ShadeLevel(filled - float64(i)))
	}
	return b.String()
}

func healthColor(health int) draw.Color {
	switch {
	case health > 60:
		return draw.ColorGreen
	case health > 30:
		return draw.ColorYellow
	default:
		return draw.ColorRed
	}
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(snap *game.Snapshot) {
	centerY := c.canvas.TerminalHeight() / 2

	titleStartY := centerY - 9
	for i, line := range titleArt {
		c.centered(titleStartY+i, draw.ColorOrange, line)
	}

	subtitle := "~ Keep the cat asleep ~"
	if c.username != "" {
		subtitle = fmt.Sprintf("~ Keep the cat asleep, %s ~", truncate(c.username, 16))
	}
	c.centered(titleStartY+len(titleArt)+1, draw.ColorNone, subtitle)

	controlsY := titleStartY + len(titleArt) + 3
	c.centered(controlsY, draw.ColorNone, "Controls")
	controls := [][2]string{
		{"Click", "Swat"},
		{"Drag", "Carry away"},
		{"SPACE", "Swat nearest"},
		{"Click the cat", "Pet"},
		{"P / ESC", "Pause"},
		{"R", "Restart"},
		{"M", "Sound on/off"},
		{"Q", "Quit"},
	}
	for i, ctl := range controls {
		dots := strings.Repeat(".", controlsWidth-len(ctl[0])-len(ctl[1])-2)
		c.centered(controlsY+1+i, draw.ColorNone, ctl[0]+" "+dots+" "+ctl[1])
	}

	// Blinking start prompt
	if c.state.now.UnixMilli()/600%2 == 0 {
		c.centered(controlsY+len(controls)+2, draw.ColorYellow, ">>  Press SPACE to Start  <<")
	} else {
		c.centered(controlsY+len(controls)+2, draw.ColorNone, strings.Repeat(" ", 28))
	}

	if !snap.State.SoundEnabled {
		c.centered(controlsY+len(controls)+4, draw.ColorGray, "(sound is off)")
	}
}

// drawPausedScreen draws the pause overlay.
func (c *Client) drawPausedScreen() {
	centerY := c.canvas.TerminalHeight() / 2
	c.centered(centerY-1, draw.ColorYellow, "  P A U S E D  ")
	c.centered(centerY+1, draw.ColorNone, " P to resume, R to restart ")
}

// drawGameOverScreen draws the final score once the cat woke up.
func (c *Client) drawGameOverScreen(snap *game.Snapshot) {
	centerY := c.canvas.TerminalHeight() / 2

	c.centered(centerY-4, draw.ColorRed, "THE CAT WOKE UP")
	c.centered(centerY-2, draw.ColorNone, fmt.Sprintf("Score: %d", snap.State.Score))
	c.centered(centerY-1, draw.ColorNone, fmt.Sprintf("Waves survived: %d", snap.State.WaveNumber))

	prompt := ">>  Press SPACE to Play Again  <<"
	if c.state.now.UnixMilli()/600%2 == 0 {
		c.centered(centerY+1, draw.ColorYellow, prompt)
	} else {
		c.centered(centerY+1, draw.ColorNone, strings.Repeat(" ", len(prompt)))
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen() {
	centerY := c.canvas.TerminalHeight() / 2
	c.centered(centerY-2, draw.ColorYellow, "INACTIVITY WARNING")

	left := c.idleTimeout - c.state.now.Sub(c.state.lastInput)
	c.centered(centerY, draw.ColorNone, fmt.Sprintf("You will be disconnected in %2d seconds.", int(left.Seconds())))
	c.centered(centerY+2, draw.ColorNone, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen() {
	centerY := c.canvas.TerminalHeight() / 2
	c.centered(centerY-3, draw.ColorYellow, "SERVER SHUTTING DOWN")
	c.centered(centerY-1, draw.ColorNone, "The server is restarting for maintenance.")
	c.centered(centerY, draw.ColorNone, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.centered(centerY+2, draw.ColorNone, fmt.Sprintf("Disconnecting in %2d seconds...", remaining))
	c.centered(centerY+4, draw.ColorNone, "Press Q to disconnect now")
}

// drawTooSmall asks for a bigger terminal.
func (c *Client) drawTooSmall() {
	c.chunkWriter.WriteAt(1, 1, "Terminal too small")
	c.chunkWriter.WriteAt(1, 2, fmt.Sprintf("Need %dx%d", config.MinTermWidth, config.MinTermHeight))
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
