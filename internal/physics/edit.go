package physics

import (
	"fmt"

	"github.com/olivierh59500/particle-life-field/internal/force"
	"github.com/olivierh59500/particle-life-field/internal/particle"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

// Spawn appends particles of type typ at the given points.
func (w *World) Spawn(points []vec.Vector3, typ int) error {
	if typ < 0 || typ >= w.cfg.NumTypes {
		return fmt.Errorf("type %d out of range [0, %d)", typ, w.cfg.NumTypes)
	}
	for _, p := range points {
		if w.cfg.Wrap {
			p = p.Mod()
		}
		w.Particles = append(w.Particles, particle.Particle{Position: p, Type: typ})
	}
	return nil
}

// Remove deletes the particles at the given indices. Out-of-range and
// duplicate indices are ignored. It returns the number removed.
func (w *World) Remove(indices []int) int {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(w.Particles) {
			drop[i] = true
		}
	}
	kept := w.Particles[:0]
	for i, p := range w.Particles {
		if !drop[i] {
			kept = append(kept, p)
		}
	}
	w.Particles = kept
	return len(drop)
}

// Retype assigns typ to the given particles.
func (w *World) Retype(indices []int, typ int) error {
	if typ < 0 || typ >= w.cfg.NumTypes {
		return fmt.Errorf("type %d out of range [0, %d)", typ, w.cfg.NumTypes)
	}
	for _, i := range indices {
		if i >= 0 && i < len(w.Particles) {
			w.Particles[i].Type = typ
		}
	}
	return nil
}

// Replace swaps in a loaded particle set and matrix. Types beyond the
// matrix are rejected.
func (w *World) Replace(ps []particle.Particle) error {
	for i, p := range ps {
		if p.Type < 0 || p.Type >= w.Matrix.Size() {
			return fmt.Errorf("particle %d has type %d, matrix has %d types", i, p.Type, w.Matrix.Size())
		}
	}
	w.Particles = ps
	return nil
}

// SetMatrix installs m and resizes the type count to match it. Particles
// with types the new matrix does not cover are reassigned modulo its size.
func (w *World) SetMatrix(m force.Matrix) error {
	mat := make(force.Matrix, len(m))
	for i := range m {
		mat[i] = append([]float64(nil), m[i]...)
	}
	if err := mat.Validate(); err != nil {
		return err
	}
	w.Matrix = mat
	w.cfg.NumTypes = len(mat)
	for i := range w.Particles {
		w.Particles[i].Type %= len(mat)
	}
	return nil
}

// Randomize rerolls the matrix.
func (w *World) Randomize() {
	w.Matrix.Randomize(w.rng)
}

// TypeCounts returns how many particles carry each type, in type order.
func (w *World) TypeCounts() []int {
	counts := make([]int, w.cfg.NumTypes)
	for _, p := range w.Particles {
		if p.Type >= 0 && p.Type < len(counts) {
			counts[p.Type]++
		}
	}
	return counts
}
