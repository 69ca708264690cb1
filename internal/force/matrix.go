package force

import (
	"fmt"
	"math"
	"math/rand"
)

// Matrix holds the interaction coefficient for every ordered type pair,
// indexed [from][to], each in [-1, 1].
type Matrix [][]float64

// NewMatrix returns an n x n zero matrix.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// NewRandomMatrix fills an n x n matrix uniformly in [-1, 1).
func NewRandomMatrix(n int, rng *rand.Rand) Matrix {
	m := NewMatrix(n)
	m.Randomize(rng)
	return m
}

func (m Matrix) Size() int { return len(m) }

func (m Matrix) At(from, to int) float64 { return m[from][to] }

// Randomize resets every coefficient.
func (m Matrix) Randomize(rng *rand.Rand) {
	for i := range m {
		for j := range m[i] {
			m[i][j] = rng.Float64()*2 - 1
		}
	}
}

// Mutate perturbs every coefficient by a normal draw of deviation sigma,
// clamped back into [-1, 1].
func (m Matrix) Mutate(rng *rand.Rand, sigma float64) {
	for i := range m {
		for j := range m[i] {
			m[i][j] = math.Max(-1, math.Min(1, m[i][j]+rng.NormFloat64()*sigma))
		}
	}
}

// Validate checks the matrix is square with coefficients in range.
func (m Matrix) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("empty matrix")
	}
	for i, row := range m {
		if len(row) != len(m) {
			return fmt.Errorf("row %d has %d columns, want %d", i, len(row), len(m))
		}
		for j, v := range row {
			if math.IsNaN(v) || v < -1 || v > 1 {
				return fmt.Errorf("coefficient [%d][%d] = %v out of range", i, j, v)
			}
		}
	}
	return nil
}
