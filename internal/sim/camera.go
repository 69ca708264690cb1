package sim

import (
	"math"

	"github.com/olivierh59500/particle-life-field/internal/vec"
)

const (
	MinZoom  = 0.1
	MaxZoom  = 20.0
	zoomStep = 0.1
)

// Camera maps the unit domain onto a screen. X and Y are the world
// coordinates of the top-left screen corner; at zoom 1 the domain spans
// the shorter screen side.
type Camera struct {
	X, Y float64
	Zoom float64
}

func NewCamera() Camera { return Camera{Zoom: 1} }

// Scale is the number of pixels per world unit.
func (c Camera) Scale(w, h float64) float64 {
	return math.Min(w, h) * c.Zoom
}

func (c Camera) ToScreen(p vec.Vector3, w, h float64) (float64, float64) {
	s := c.Scale(w, h)
	return (p.X - c.X) * s, (p.Y - c.Y) * s
}

func (c Camera) ToWorld(sx, sy, w, h float64) vec.Vector3 {
	s := c.Scale(w, h)
	return vec.New(sx/s+c.X, sy/s+c.Y, 0)
}

// Tiles returns the half-open ranges of periodic images visible on
// screen.
func (c Camera) Tiles(w, h float64) (x0, x1, y0, y1 int) {
	s := c.Scale(w, h)
	x0 = int(math.Floor(c.X))
	x1 = int(math.Ceil(c.X + w/s))
	y0 = int(math.Floor(c.Y))
	y1 = int(math.Ceil(c.Y + h/s))
	return
}

// Pan moves the view by a screen-space drag.
func (c *Camera) Pan(dx, dy, w, h float64) {
	s := c.Scale(w, h)
	c.X -= dx / s
	c.Y -= dy / s
}

// ZoomAt changes zoom by wheel notches while keeping the world point
// under (sx, sy) fixed.
func (c *Camera) ZoomAt(notches, sx, sy, w, h float64) {
	if notches == 0 {
		return
	}
	anchor := c.ToWorld(sx, sy, w, h)
	c.Zoom = math.Max(MinZoom, math.Min(MaxZoom, c.Zoom*(1+notches*zoomStep)))
	s := c.Scale(w, h)
	c.X = anchor.X - sx/s
	c.Y = anchor.Y - sy/s
}
