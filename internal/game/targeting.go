package game

import "math"

// assignTargets gives every living unit the nearest living enemy as its
// target and sets its movement goal to that enemy's position. Candidates are
// scanned in ascending ID and only a strictly smaller distance replaces the
// current best, so equidistant ties resolve to the lowest ID. Targets are not
// sticky: they are recomputed from scratch every tick.
func assignTargets(units []Unit) {
	for i := range units {
		u := &units[i]
		if !u.Alive {
			continue
		}

		best := noTarget
		bestDist := math.Inf(1)
		for j := range units {
			c := &units[j]
			if !c.Alive || c.Team != u.Team.Opponent() {
				continue
			}
			if d := u.Pos.Dist(c.Pos); d < bestDist {
				best = j
				bestDist = d
			}
		}

		if best == noTarget {
			u.clearTarget()
			continue
		}
		u.Target = best
		u.Goal = units[best].Pos
		u.HasGoal = true
	}
}
