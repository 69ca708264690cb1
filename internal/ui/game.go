// Package ui renders a sim.Session with ebiten.
package ui

import (
	"context"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/olivierh59500/particle-life-field/internal/sim"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

const (
	particleSize    = 2.0
	outlineSegments = 96
	hudLineHeight   = 14
)

var (
	background   = color.RGBA{8, 8, 16, 255}
	fieldColor   = color.RGBA{120, 200, 255, 110}
	assistColor  = color.RGBA{255, 210, 120, 140}
	hudTextColor = color.RGBA{230, 230, 230, 255}
)

// Game implements ebiten.Game.
type Game struct {
	session *sim.Session
	camera  sim.Camera
	palette []color.Color
	width   int
	height  int
	showHUD bool
	logger  *zap.Logger
	done    <-chan struct{}

	prevMX, prevMY float64
}

// NewGame wraps s. The game terminates once ctx is done.
func NewGame(ctx context.Context, s *sim.Session, width, height int, logger *zap.Logger) *Game {
	return &Game{
		done:    ctx.Done(),
		session: s,
		camera:  sim.NewCamera(),
		palette: sim.Palette(s.World.Matrix.Size()),
		width:   width,
		height:  height,
		showHUD: true,
		logger:  logger.Named("ui"),
	}
}

// Update is called each tick by ebiten.
func (g *Game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}
	g.handleInput()
	g.session.Tick()
	if n := g.session.World.Matrix.Size(); n != len(g.palette) {
		g.logger.Debug("Type count changed, rebuilding palette", zap.Int("types", n))
		g.palette = sim.Palette(n)
	}
	return nil
}

// Draw renders every periodic image of the domain that intersects the
// screen, then the cursor and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	w := float64(screen.Bounds().Dx())
	h := float64(screen.Bounds().Dy())
	scale := g.camera.Scale(w, h)
	radius := float32(particleSize * g.camera.Zoom)

	selected := make([]bool, len(g.session.World.Particles))
	for _, i := range g.session.Selection() {
		selected[i] = true
	}

	x0, x1, y0, y1 := g.camera.Tiles(w, h)
	if !g.session.Wrap() {
		x0, x1, y0, y1 = 0, 1, 0, 1
	}
	for tx := x0; tx < x1; tx++ {
		for ty := y0; ty < y1; ty++ {
			offset := vec.New(float64(tx), float64(ty), 0)
			for i, p := range g.session.World.Particles {
				sx, sy := g.camera.ToScreen(p.Position.Add(offset), w, h)
				if sx < -particleSize || sx > w+particleSize || sy < -particleSize || sy > h+particleSize {
					continue
				}
				col := g.palette[p.Type%len(g.palette)]
				if selected[i] {
					col = sim.Highlight(col)
					vector.DrawFilledCircle(screen, float32(sx), float32(sy), radius*1.8, col, true)
					continue
				}
				vector.DrawFilledCircle(screen, float32(sx), float32(sy), radius, col, true)
			}
		}
	}

	g.drawCursor(screen, w, h, scale)

	if g.showHUD {
		for i, line := range g.session.HUD() {
			text.Draw(screen, line, basicfont.Face7x13, 8, 16+i*hudLineHeight, hudTextColor)
		}
	}
}

func (g *Game) drawCursor(screen *ebiten.Image, w, h, scale float64) {
	c := g.session.Cursor
	toScreen := func(local []vec.Vector3) []vec.Vector3 {
		out := make([]vec.Vector3, len(local))
		for i, p := range local {
			sx, sy := g.camera.ToScreen(p.Scale(c.Size).Add(c.Position), w, h)
			out[i] = vec.New(sx, sy, 0)
		}
		return out
	}

	// The cursor outline is white with its glow as opacity.
	outline := color.NRGBA{R: 255, G: 255, B: 255, A: uint8(255 * c.Glow())}
	strokeLoop(screen, toScreen(c.Shape.Outline(outlineSegments)), float32(c.Shape.LineWidth()), outline)
	if assist := c.Shape.FieldOutline(outlineSegments); assist != nil {
		strokeLoop(screen, toScreen(assist), float32(c.Shape.FieldLineWidth()), assistColor)
	}
	if c.FieldActive() {
		cx, cy := g.camera.ToScreen(c.Position, w, h)
		vector.StrokeCircle(screen, float32(cx), float32(cy), float32(c.FieldRadius()*scale), 1, fieldColor, true)
	}
}

// strokeLoop draws a closed polyline.
func strokeLoop(dst *ebiten.Image, pts []vec.Vector3, width float32, col color.Color) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, col, true)
	}
}

// Layout returns the fixed logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
