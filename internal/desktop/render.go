package desktop

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/napguard/internal/anim"
	"github.com/tomz197/napguard/internal/client"
	"github.com/tomz197/napguard/internal/draw"
	"github.com/tomz197/napguard/internal/game"
	"github.com/tomz197/napguard/internal/object"
)

var (
	background = color.RGBA{0x1c, 0x1a, 0x24, 0xff}
	rug        = color.RGBA{0x3a, 0x2a, 0x3a, 0xff}
	shade      = color.RGBA{0x00, 0x00, 0x00, 0xa0}
)

var (
	flyFlap    = anim.ForType(object.TypeFly, []float32{-1, -0.5, 0, 0.5, 0, -0.5})
	roombaSpin = anim.ForType(object.TypeRoomba, []float64{0, 1, 2, 3, 4, 5})
	ufoBlink   = anim.ForType(object.TypeUFO, []draw.Color{
		draw.ColorYellow, draw.ColorRed, draw.ColorMagenta,
		draw.ColorYellow, draw.ColorCyan, draw.ColorRed,
	})
	catBreathing = anim.Sequence[float32]{Frames: []float32{0, 0.04, 0.08, 0.04}, FrameDuration: anim.CatFrameDuration}
	catZs        = anim.Sequence[string]{Frames: []string{"z", "zZ", "zZz", "zZ"}, FrameDuration: anim.CatFrameDuration}
)

// Draw renders the latest snapshot.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.fill == nil {
		g.fill = ebiten.NewImage(1, 1)
		g.fill.Fill(color.White)
	}

	snap := g.session.Snapshot()
	phase := snap.Phase()
	elapsed := g.anim.Elapsed(g.now)

	screen.Fill(background)

	t := snap.Layout.Target
	r := float32(snap.Layout.HitRadius)
	vector.DrawFilledCircle(screen, float32(t.X), float32(t.Y)+r*0.3, r*1.6, rug, true)
	g.drawCat(screen, float32(t.X), float32(t.Y), r, phase == game.PhaseGameOver, elapsed)

	for _, a := range snap.Annoyances {
		g.drawAnnoyance(screen, a, float32(snap.Size(a)), elapsed)
	}
	g.particles.Each(func(p *client.Particle) {
		vector.DrawFilledRect(screen, float32(p.X)-1.5, float32(p.Y)-1.5, 3, 3, p.Color.RGBA(), false)
	})

	g.drawLabels(screen, snap, elapsed)
	g.drawUI(screen, snap)
}

// drawAnnoyance draws a into its footprint square of side size.
func (g *Game) drawAnnoyance(screen *ebiten.Image, a object.Annoyance, size float32, elapsed time.Duration) {
	x, y := float32(a.Position.X), float32(a.Position.Y)
	cx, cy := x+size/2, y+size/2

	switch a.Type {
	case object.TypeFly:
		lift := flyFlap.FrameAt(elapsed) * size * 0.12
		wing := color.RGBA{0xff, 0xff, 0xff, 0xb0}
		vector.DrawFilledCircle(screen, cx-size*0.28, cy-size*0.18+lift, size*0.2, wing, true)
		vector.DrawFilledCircle(screen, cx+size*0.28, cy-size*0.18+lift, size*0.2, wing, true)
		vector.DrawFilledCircle(screen, cx, cy, size*0.25, draw.ColorGray.RGBA(), true)
		vector.DrawFilledCircle(screen, cx, cy-size*0.22, size*0.12, draw.ColorRed.RGBA(), true)

	case object.TypeRoomba:
		vector.DrawFilledCircle(screen, cx, cy, size*0.48, draw.ColorGray.RGBA(), true)
		vector.StrokeCircle(screen, cx, cy, size*0.48, 2, draw.ColorWhite.RGBA(), true)
		angle := roombaSpin.FrameAt(elapsed) * math.Pi / 3
		bx := cx + float32(math.Cos(angle))*size*0.3
		by := cy + float32(math.Sin(angle))*size*0.3
		vector.DrawFilledCircle(screen, bx, by, size*0.1, draw.ColorGreen.RGBA(), true)

	case object.TypeUFO:
		vector.DrawFilledCircle(screen, cx, y+size*0.4, size*0.22, draw.ColorCyan.RGBA(), true)
		g.fillPolygon(screen, draw.ColorGreen.RGBA(),
			x, y+size*0.55,
			x+size*0.2, y+size*0.4,
			x+size*0.8, y+size*0.4,
			x+size, y+size*0.55,
			x+size*0.8, y+size*0.72,
			x+size*0.2, y+size*0.72,
		)
		for i := 0; i < 3; i++ {
			light := ufoBlink.FrameAt(elapsed + time.Duration(i)*ufoBlink.FrameDuration)
			vector.DrawFilledCircle(screen, x+size*(0.25+0.25*float32(i)), y+size*0.56, size*0.05, light.RGBA(), true)
		}

	default:
		vector.DrawFilledRect(screen, x, y, size, size, draw.ColorMagenta.RGBA(), false)
	}

	if a.Dragging {
		vector.StrokeRect(screen, x, y, size, size, 2, draw.ColorYellow.RGBA(), false)
	}
}

// drawCat draws the cat curled up around (tx, ty). r is its hitbox radius.
func (g *Game) drawCat(screen *ebiten.Image, tx, ty, r float32, awake bool, elapsed time.Duration) {
	breath := 1 + catBreathing.FrameAt(elapsed)
	if awake {
		breath = 1
	}
	fur := draw.ColorOrange.RGBA()

	for i := 0; i < 8; i++ {
		a := math.Pi*0.1 + float64(i)*math.Pi*0.1
		vector.DrawFilledCircle(screen, tx+float32(math.Cos(a))*r*0.8, ty+float32(math.Sin(a))*r*0.5, r*0.12, draw.ColorBrown.RGBA(), true)
	}
	vector.DrawFilledCircle(screen, tx+r*0.1, ty+r*0.1, r*0.7*breath, fur, true)

	hx, hy := tx-r*0.55, ty-r*0.1
	g.fillPolygon(screen, fur, hx-r*0.35, hy-r*0.1, hx-r*0.3, hy-r*0.55, hx-r*0.05, hy-r*0.3)
	g.fillPolygon(screen, fur, hx+r*0.05, hy-r*0.3, hx+r*0.3, hy-r*0.55, hx+r*0.35, hy-r*0.1)
	vector.DrawFilledCircle(screen, hx, hy, r*0.38, fur, true)

	if awake {
		vector.DrawFilledCircle(screen, hx-r*0.15, hy-r*0.02, r*0.07, draw.ColorYellow.RGBA(), true)
		vector.DrawFilledCircle(screen, hx+r*0.15, hy-r*0.02, r*0.07, draw.ColorYellow.RGBA(), true)
	} else {
		vector.StrokeLine(screen, hx-r*0.22, hy-r*0.02, hx-r*0.08, hy-r*0.02, 2, draw.ColorBrown.RGBA(), true)
		vector.StrokeLine(screen, hx+r*0.08, hy-r*0.02, hx+r*0.22, hy-r*0.02, 2, draw.ColorBrown.RGBA(), true)
	}
	vector.DrawFilledCircle(screen, hx, hy+r*0.1, r*0.04, draw.ColorPink.RGBA(), true)
}

// fillPolygon fills the polygon given as x, y pairs.
func (g *Game) fillPolygon(screen *ebiten.Image, clr color.RGBA, xy ...float32) {
	var path vector.Path
	path.MoveTo(xy[0], xy[1])
	for i := 2; i+1 < len(xy); i += 2 {
		path.LineTo(xy[i], xy[i+1])
	}
	path.Close()

	g.vs, g.is = path.AppendVerticesAndIndicesForFilling(g.vs[:0], g.is[:0])
	for i := range g.vs {
		g.vs[i].SrcX = 0
		g.vs[i].SrcY = 0
		g.vs[i].ColorR = float32(clr.R) / 255
		g.vs[i].ColorG = float32(clr.G) / 255
		g.vs[i].ColorB = float32(clr.B) / 255
		g.vs[i].ColorA = float32(clr.A) / 255
	}
	screen.DrawTriangles(g.vs, g.is, g.fill, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// drawLabels draws hit points above armored annoyances and the cat's snore.
func (g *Game) drawLabels(screen *ebiten.Image, snap *game.Snapshot, elapsed time.Duration) {
	for _, a := range snap.Annoyances {
		cfg, _ := snap.Table.Config(a.Type)
		if cfg.BaseHP <= 1 {
			continue
		}
		g.textCentered(screen, fmt.Sprintf("%d", a.HP), a.Position.X+cfg.Size/2, a.Position.Y-14, draw.ColorWhite.RGBA())
	}

	t := snap.Layout.Target
	r := snap.Layout.HitRadius
	switch snap.Phase() {
	case game.PhaseGameOver:
		g.text(screen, "!", t.X+r*0.2, t.Y-r*1.3, draw.ColorYellow.RGBA())
	case game.PhaseRunning, game.PhasePaused:
		g.text(screen, catZs.FrameAt(elapsed), t.X+r*0.2, t.Y-r*1.3, draw.ColorCyan.RGBA())
	}
}

// drawUI draws the screen for the current phase.
func (g *Game) drawUI(screen *ebiten.Image, snap *game.Snapshot) {
	switch snap.Phase() {
	case game.PhaseIdle:
		g.drawStartScreen(screen, snap)
	case game.PhaseRunning:
		g.drawHUD(screen, snap)
	case game.PhasePaused:
		g.drawHUD(screen, snap)
		g.dim(screen)
		mid := float64(g.height) / 2
		g.textCentered(screen, "P A U S E D", float64(g.width)/2, mid-20, draw.ColorYellow.RGBA())
		g.textCentered(screen, "P to resume, R to restart", float64(g.width)/2, mid+4, draw.ColorWhite.RGBA())
	case game.PhaseGameOver:
		g.drawGameOverScreen(screen, snap)
	}
}

// drawHUD draws score, wave, sleep meter, speed and sound.
func (g *Game) drawHUD(screen *ebiten.Image, snap *game.Snapshot) {
	s := snap.State
	w, h := float64(g.width), float64(g.height)
	white := draw.ColorWhite.RGBA()

	g.text(screen, fmt.Sprintf("Score: %d", s.Score), 10, 8, white)

	wave := fmt.Sprintf("Wave %d  left %d", s.WaveNumber, s.EnemiesRemaining)
	if s.EnemiesRemaining == 0 {
		wave = fmt.Sprintf("Wave %d  next in %d", s.WaveNumber, s.NextWaveIn)
	}
	g.textCentered(screen, wave, w/2, 8, white)

	const barW, barH = 120, 10
	bx, by := float32(w)-barW-50, float32(10)
	g.text(screen, "Sleep", float64(bx)-44, 8, white)
	vector.DrawFilledRect(screen, bx, by, barW, barH, color.RGBA{0x40, 0x40, 0x40, 0xff}, false)
	vector.DrawFilledRect(screen, bx, by, barW*float32(s.SleepHealth)/100, barH, healthColor(s.SleepHealth), false)
	vector.StrokeRect(screen, bx, by, barW, barH, 1, white, false)
	g.text(screen, fmt.Sprintf("%d%%", s.SleepHealth), float64(bx)+barW+6, 8, white)

	gray := draw.ColorGray.RGBA()
	g.text(screen, fmt.Sprintf("Speed x%.2f", s.GameSpeed), 10, h-20, gray)
	sound := "Sound: off (M)"
	if s.SoundEnabled {
		sound = "Sound: on (M)"
	}
	g.text(screen, sound, w-text.Advance(sound, g.face)-10, h-20, gray)

	if g.waveBanner > 0 {
		g.textCentered(screen, fmt.Sprintf(">> WAVE %d <<", g.bannerWave), w/2, 40, draw.ColorYellow.RGBA())
	}
}

func healthColor(health int) color.RGBA {
	switch {
	case health > 60:
		return draw.ColorGreen.RGBA()
	case health > 30:
		return draw.ColorYellow.RGBA()
	default:
		return draw.ColorRed.RGBA()
	}
}

// drawStartScreen draws the title and the controls.
func (g *Game) drawStartScreen(screen *ebiten.Image, snap *game.Snapshot) {
	g.dim(screen)
	cx, y := float64(g.width)/2, float64(g.height)/2-120

	g.textCentered(screen, "N A P G U A R D", cx, y, draw.ColorOrange.RGBA())
	g.textCentered(screen, "~ Keep the cat asleep ~", cx, y+24, draw.ColorWhite.RGBA())

	controls := []string{
		"Click ........ Swat",
		"Drag ......... Carry away",
		"Space ........ Swat nearest",
		"Click the cat  Pet",
		"P / Esc ...... Pause",
		"R ............ Restart",
		"M ............ Sound on/off",
		"Q ............ Quit",
	}
	for i, line := range controls {
		g.textCentered(screen, line, cx, y+60+float64(i)*18, draw.ColorWhite.RGBA())
	}

	if g.now.UnixMilli()/600%2 == 0 {
		g.textCentered(screen, ">>  Click or press SPACE to start  <<", cx, y+220, draw.ColorYellow.RGBA())
	}
	if !snap.State.SoundEnabled {
		g.textCentered(screen, "(sound is off)", cx, y+244, draw.ColorGray.RGBA())
	}
}

// drawGameOverScreen draws the final score.
func (g *Game) drawGameOverScreen(screen *ebiten.Image, snap *game.Snapshot) {
	g.dim(screen)
	cx, mid := float64(g.width)/2, float64(g.height)/2

	g.textCentered(screen, "THE CAT WOKE UP", cx, mid-60, draw.ColorRed.RGBA())
	g.textCentered(screen, fmt.Sprintf("Score: %d", snap.State.Score), cx, mid-30, draw.ColorWhite.RGBA())
	g.textCentered(screen, fmt.Sprintf("Waves survived: %d", snap.State.WaveNumber), cx, mid-12, draw.ColorWhite.RGBA())
	if g.now.UnixMilli()/600%2 == 0 {
		g.textCentered(screen, ">>  Press SPACE to play again  <<", cx, mid+20, draw.ColorYellow.RGBA())
	}
}

// dim darkens the play area behind an overlay.
func (g *Game) dim(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(g.width), float32(g.height), shade, false)
}

func (g *Game) text(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, op)
}

func (g *Game) textCentered(screen *ebiten.Image, s string, cx, y float64, clr color.Color) {
	g.text(screen, s, cx-text.Advance(s, g.face)/2, y, clr)
}
