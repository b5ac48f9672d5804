package game

// moveUnits advances every living unit with a goal. Direct movers walk to the
// goal; WithinRange movers hold once the goal is inside attack range. Step
// length is speed * dt * the team's speed modifier, capped at the remaining
// distance so no unit walks past its goal.
func moveUnits(units []Unit, dt float64, speedMod [2]float64) {
	for i := range units {
		u := &units[i]
		if !u.Alive || !u.HasGoal {
			continue
		}

		delta := u.Goal.Sub(u.Pos)
		dist := delta.Len()
		if u.Style == MoveWithinRange && dist <= u.Range {
			continue
		}
		if dist == 0 {
			continue
		}

		step := u.Speed * dt * speedMod[u.Team]
		if step <= 0 {
			continue
		}
		if step > dist {
			step = dist
		}
		u.Pos = u.Pos.Add(delta.Normalize().Scale(step))
	}
}
