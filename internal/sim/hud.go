package sim

import (
	"fmt"
	"strings"

	"github.com/olivierh59500/particle-life-field/internal/shape"
)

// HUD returns the overlay text, one entry per line.
func (s *Session) HUD() []string {
	snap := s.Mood()
	st := snap.State

	sim := fmt.Sprintf("particles %d  types %d  tick %d", len(s.World.Particles), s.World.Matrix.Size(), s.World.Tick())
	if s.paused {
		sim += "  [paused]"
	}
	if s.World.Evolution {
		sim += "  [evolving]"
	}

	link := "connected"
	if !snap.Connected {
		link = fmt.Sprintf("offline (%d failures)", snap.Failures)
	}

	counts := make([]string, 0, s.World.Matrix.Size())
	for i, n := range s.World.TypeCounts() {
		counts = append(counts, fmt.Sprintf("%d:%d", i, n))
	}

	c := s.Cursor
	lines := []string{
		sim,
		"types " + strings.Join(counts, " "),
		fmt.Sprintf("mood %s  bond %.1f  love %.1f  bridge %s", st.Mood, st.BondStrength, st.LoveResonance, link),
		fmt.Sprintf("cursor %s %.3f %s  field %s r=%.2f s=%.2f%s", c.Shape.Kind, c.Size, c.Mode(), onOff(c.FieldActive()), c.FieldRadius(), c.FieldStrength(), bounds(c.Shape)),
		s.selStats.String(),
		fmt.Sprintf("pairs %d  coincident %d  saturated %d  brush %d", s.stats.Pairs, s.stats.Coincident, s.stats.Saturated, s.brush),
		s.modelLine(),
	}
	if s.status != "" {
		lines = append(lines, s.status)
	}
	return lines
}

// bounds describes the selection extent of an infinity cursor.
func bounds(sh shape.Shape) string {
	if sh.Kind != shape.Infinity {
		return ""
	}
	if sh.Transcendent {
		return "  unbounded"
	}
	return fmt.Sprintf("  bounded R=%.2f", sh.Radius)
}

func (s *Session) modelLine() string {
	ms := s.Models()
	if !ms.Connected {
		return "models offline"
	}
	names := make([]string, 0, len(ms.Models))
	for _, m := range ms.Models {
		names = append(names, m.DisplayName())
	}
	return fmt.Sprintf("models %d: %s", len(ms.Models), strings.Join(names, ", "))
}
