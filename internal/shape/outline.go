package shape

import (
	"math"

	"github.com/olivierh59500/particle-life-field/internal/phi"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

// Outline returns a closed line loop tracing the shape boundary in local
// coordinates. segments is the number of vertices for curved shapes.
func (s Shape) Outline(segments int) []vec.Vector3 {
	if segments < 4 {
		segments = 4
	}
	switch s.Kind {
	case Square:
		return []vec.Vector3{
			vec.New(-squareHalf, -squareHalf, 0),
			vec.New(squareHalf, -squareHalf, 0),
			vec.New(squareHalf, squareHalf, 0),
			vec.New(-squareHalf, squareHalf, 0),
		}
	case Infinity:
		pts := make([]vec.Vector3, segments)
		for i := range pts {
			t := 2 * math.Pi * float64(i) / float64(segments)
			pts[i] = lemniscate(t).Scale(1 + 0.1*math.Sin(t*phi.Phi))
		}
		return pts
	default:
		return ring(circleRadius, segments)
	}
}

// FieldOutline is the loop at the outer edge of the field assist, or nil
// when the assist cannot extend the shape.
func (s Shape) FieldOutline(segments int) []vec.Vector3 {
	if !s.Field.Enabled {
		return nil
	}
	switch s.Kind {
	case Circle:
		return ring(circleFieldRadius, segments)
	case Square:
		e := squareHalf * phi.Phi
		return []vec.Vector3{
			vec.New(-e, -e, 0),
			vec.New(e, -e, 0),
			vec.New(e, e, 0),
			vec.New(-e, e, 0),
		}
	case Infinity:
		if s.Transcendent {
			return nil
		}
		return ring(s.Radius, segments)
	}
	return nil
}

func ring(r float64, segments int) []vec.Vector3 {
	pts := make([]vec.Vector3, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = vec.New(r*math.Cos(a), r*math.Sin(a), 0)
	}
	return pts
}
