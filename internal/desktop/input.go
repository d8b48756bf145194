package desktop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/napguard/internal/input"
	"github.com/tomz197/napguard/internal/physics"
)

// keymap binds keys to actions. The bindings match the terminal client.
var keymap = []struct {
	key ebiten.Key
	cmd command
}{
	{ebiten.KeySpace, cmdStart},
	{ebiten.KeyEnter, cmdStart},
	{ebiten.KeyP, cmdPause},
	{ebiten.KeyEscape, cmdPause},
	{ebiten.KeyR, cmdRestart},
	{ebiten.KeyM, cmdSound},
	{ebiten.KeyQ, cmdQuit},
}

// readCommands returns the actions of the keys pressed this update.
func readCommands() []command {
	var cmds []command
	for _, b := range keymap {
		if inpututil.IsKeyJustPressed(b.key) {
			cmds = append(cmds, b.cmd)
		}
	}
	return cmds
}

// readPointer feeds the left mouse button into the shared pointer logic.
// Cursor positions are already in layout coordinates.
func (g *Game) readPointer() {
	x, y := ebiten.CursorPosition()
	p := physics.Vec{X: float64(x), Y: float64(y)}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.handlePointer(input.MousePress, p)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.handlePointer(input.MouseRelease, g.clampToArea(p))
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		if p != g.pointer.Last() {
			g.handlePointer(input.MouseDrag, g.clampToArea(p))
		}
	}
}

func (g *Game) handlePointer(action input.MouseAction, p physics.Vec) {
	if g.pointer.Handle(g.session, action, p) {
		g.startGame()
	}
}

// clampToArea keeps a drag inside the window.
func (g *Game) clampToArea(p physics.Vec) physics.Vec {
	return physics.Vec{
		X: physics.Clamp(p.X, 0, float64(g.width)),
		Y: physics.Clamp(p.Y, 0, float64(g.height)),
	}
}
