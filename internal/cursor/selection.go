package cursor

import (
	"fmt"

	"github.com/olivierh59500/particle-life-field/internal/particle"
)

// Selection returns the indices of the selected particles: every particle
// passing IsInside, then, while the field is active, every other particle
// whose field influence exceeds the enhancement threshold.
//
// The result always contains every particle IsInside accepts. It matches
// the plain shape test only while the field is inactive: an active mode
// gate can drop a particle the shape accepted, and the enhancement pass
// only brings it back when its influence clears the threshold.
func (c *Cursor) Selection(ps []particle.Particle, wrap bool) []int {
	var out []int
	picked := make([]bool, len(ps))
	for i := range ps {
		if c.IsInside(ps[i].Position, wrap) {
			out = append(out, i)
			picked[i] = true
		}
	}
	if !c.active {
		return out
	}
	for i := range ps {
		if picked[i] {
			continue
		}
		if c.FieldInfluence(c.Delta(ps[i].Position, wrap).Mag()) > enhanceThreshold {
			out = append(out, i)
		}
	}
	return out
}

// Count is len(Selection(ps, wrap)).
func (c *Cursor) Count(ps []particle.Particle, wrap bool) int {
	return len(c.Selection(ps, wrap))
}

// SelectionStats summarizes how the field contributes to a selection.
type SelectionStats struct {
	Total        int
	Enhanced     int
	AvgInfluence float64
}

func (s SelectionStats) String() string {
	return fmt.Sprintf("Selected: %d (Enhanced: %d, Avg Field: %.2f)", s.Total, s.Enhanced, s.AvgInfluence)
}

// Stats counts particles passing either the raw shape test or the field
// threshold, ignoring the mode gate.
func (c *Cursor) Stats(ps []particle.Particle, wrap bool) SelectionStats {
	var st SelectionStats
	sum := 0.0
	for i := range ps {
		delta := c.Delta(ps[i].Position, wrap)
		basic := c.Size != 0 && c.Shape.IsInside(delta.Div(c.Size), c.rng)
		infl := c.FieldInfluence(delta.Mag())
		if basic || infl > enhanceThreshold {
			st.Total++
			sum += infl
			if infl > enhanceThreshold {
				st.Enhanced++
			}
		}
	}
	if st.Total > 0 {
		st.AvgInfluence = sum / float64(st.Total)
	}
	return st
}
