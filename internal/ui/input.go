package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/olivierh59500/particle-life-field/internal/sim"
)

var keyBindings = map[ebiten.Key]sim.Command{
	ebiten.KeySpace:        sim.CmdPause,
	ebiten.KeyR:            sim.CmdRandomize,
	ebiten.KeyE:            sim.CmdEvolution,
	ebiten.KeyS:            sim.CmdSave,
	ebiten.KeyL:            sim.CmdLoad,
	ebiten.KeyDigit1:       sim.CmdCircle,
	ebiten.KeyDigit2:       sim.CmdSquare,
	ebiten.KeyDigit3:       sim.CmdInfinity,
	ebiten.KeyF:            sim.CmdField,
	ebiten.KeyM:            sim.CmdMode,
	ebiten.KeyBracketRight: sim.CmdGrow,
	ebiten.KeyBracketLeft:  sim.CmdShrink,
	ebiten.KeyG:            sim.CmdGolden,
	ebiten.KeyTab:          sim.CmdBrush,
	ebiten.KeyT:            sim.CmdRetype,
	ebiten.KeyX:            sim.CmdDelete,
	ebiten.KeyB:            sim.CmdBounded,
}

// handleInput processes keyboard and mouse input. The cursor follows the
// mouse; left button sprays particles (shift: field spray); right drag
// pans; the wheel zooms around the pointer.
func (g *Game) handleInput() {
	for key, cmd := range keyBindings {
		if inpututil.IsKeyJustPressed(key) {
			_ = g.session.Exec(cmd)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	w, h := float64(g.width), float64(g.height)
	ix, iy := ebiten.CursorPosition()
	mx, my := float64(ix), float64(iy)

	_, wheelY := ebiten.Wheel()
	g.camera.ZoomAt(wheelY, mx, my, w, h)

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		g.camera.Pan(mx-g.prevMX, my-g.prevMY, w, h)
	}
	g.prevMX, g.prevMY = mx, my

	g.session.MoveCursor(g.camera.ToWorld(mx, my, w, h))

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		cmd := sim.CmdSpawn
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			cmd = sim.CmdSpawnField
		}
		_ = g.session.Exec(cmd)
	}
}
