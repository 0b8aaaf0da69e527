package analysis

import (
	"math"

	"github.com/san-kum/sitnikov/internal/sim"
)

// SectionPoint is one crossing of the Poincaré section: the (z, v) state
// at an integer multiple of the primaries' period.
type SectionPoint struct {
	Z, V float64
	E    float64
}

// Section extracts the stroboscopic Poincaré section of a trajectory,
// sampling the state at the grid point nearest each integer multiple of
// period. Plotting these points over many initial conditions is the
// canonical phase-space picture of the Sitnikov problem; this function
// only produces the numbers.
func Section(tr *sim.Trajectory, period float64) []SectionPoint {
	if tr == nil || len(tr.Anomalies) < 2 || period <= 0 {
		return nil
	}

	step := tr.Anomalies[1] - tr.Anomalies[0]
	span := tr.Anomalies[len(tr.Anomalies)-1]
	points := make([]SectionPoint, 0, int(span/period)+1)

	for m := 0; ; m++ {
		idx := int(math.Round(float64(m) * period / step))
		if idx >= len(tr.States) {
			break
		}
		st := tr.States[idx]
		if len(st) < 2 {
			continue
		}
		points = append(points, SectionPoint{Z: st[0], V: st[1], E: tr.Anomalies[idx]})
	}
	return points
}
