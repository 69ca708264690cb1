package shape

import (
	"math"

	"github.com/olivierh59500/particle-life-field/internal/phi"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

var goldenGrid = [...]float64{-0.5, -0.5 * phi.Inverse, 0, 0.5 * phi.Inverse, 0.5}

// SampleRandomPoint draws a shape-local point. A first uniform draw picks
// the mode: below UniformShare the shape is sampled uniformly, below
// UniformShare+PatternShare along its characteristic pattern, otherwise
// with a field-strength bias toward the center.
func (s Shape) SampleRandomPoint(rng Rand) vec.Vector3 {
	u := rng.Float64()
	mode := 2
	switch {
	case u < UniformShare:
		mode = 0
	case u < UniformShare+PatternShare:
		mode = 1
	}

	switch s.Kind {
	case Circle:
		return s.sampleCircle(mode, rng)
	case Square:
		return s.sampleSquare(mode, rng)
	case Infinity:
		return s.sampleInfinity(mode, rng)
	}
	return vec.Zero
}

func (s Shape) sampleCircle(mode int, rng Rand) vec.Vector3 {
	switch mode {
	case 0:
		angle := rng.Float64() * 2 * math.Pi
		r := circleRadius * math.Sqrt(rng.Float64())
		return vec.New(r*math.Cos(angle), r*math.Sin(angle), 0)
	case 1:
		t := rng.Float64()
		angle := t * 2 * math.Pi * phi.Phi
		r := circleRadius * math.Sqrt(t)
		return vec.New(r*math.Cos(angle), r*math.Sin(angle), 0)
	default:
		angle := rng.Float64() * 2 * math.Pi
		r := circleRadius * math.Pow(rng.Float64(), 1-s.Field.Strength*0.5)
		return vec.New(r*math.Cos(angle), r*math.Sin(angle), 0)
	}
}

func (s Shape) sampleSquare(mode int, rng Rand) vec.Vector3 {
	switch mode {
	case 0:
		return vec.New(rng.Float64()-0.5, rng.Float64()-0.5, 0)
	case 1:
		x := goldenGrid[int(rng.Float64()*float64(len(goldenGrid)))%len(goldenGrid)]
		y := goldenGrid[int(rng.Float64()*float64(len(goldenGrid)))%len(goldenGrid)]
		x += (rng.Float64() - 0.5) * 0.1
		y += (rng.Float64() - 0.5) * 0.1
		return vec.New(clamp(x, -squareHalf, squareHalf), clamp(y, -squareHalf, squareHalf), 0)
	default:
		bias := 1 - s.Field.Strength*0.4
		x := (rng.Float64() - 0.5) * math.Pow(rng.Float64(), bias)
		y := (rng.Float64() - 0.5) * math.Pow(rng.Float64(), bias)
		return vec.New(x, y, 0)
	}
}

func (s Shape) sampleInfinity(mode int, rng Rand) vec.Vector3 {
	switch mode {
	case 0:
		return vec.New(rng.NormFloat64()*0.5, rng.NormFloat64()*0.5, 0)
	case 1:
		p := lemniscate(rng.Float64() * 2 * math.Pi)
		p.X += (rng.Float64() - 0.5) * 0.1
		p.Y += (rng.Float64() - 0.5) * 0.1
		return p
	default:
		return vec.New(rng.NormFloat64()*2, rng.NormFloat64()*2, 0)
	}
}

func lemniscate(t float64) vec.Vector3 {
	c := math.Cos(t)
	den := 1 + c*c
	return vec.New(lemniscateWidth*c/den, lemniscateHeight*math.Sin(t)*c/den, 0)
}
