package game

import "testing"

// mkUnit builds a living knight-stat unit at (x, y) with the given ID.
func mkUnit(id int, team Team, x, y float64) Unit {
	p := UnitKnight.Preset()
	return Unit{
		ID:         id,
		Type:       UnitKnight,
		Team:       team,
		Pos:        Vec2{X: x, Y: y},
		Health:     p.MaxHealth,
		MaxHealth:  p.MaxHealth,
		Damage:     p.Damage,
		Range:      p.Range,
		Cooldown:   p.Cooldown,
		LastAttack: neverAttacked,
		Speed:      p.Speed,
		Style:      p.Style,
		Target:     noTarget,
		Alive:      true,
	}
}

func TestAssignTargets_NearestEnemy(t *testing.T) {
	units := []Unit{
		mkUnit(0, TeamPlayer, 0, 0),
		mkUnit(1, TeamEnemy, 10, 0),
		mkUnit(2, TeamEnemy, 5, 0),
		mkUnit(3, TeamPlayer, 1, 0), // friendly and closer; never a target
	}
	assignTargets(units)

	if units[0].Target != 2 {
		t.Fatalf("expected P0 target 2, got %d", units[0].Target)
	}
	if !units[0].HasGoal || units[0].Goal != units[2].Pos {
		t.Errorf("expected P0 goal %+v, got %+v (has=%v)", units[2].Pos, units[0].Goal, units[0].HasGoal)
	}
	if units[1].Target != 3 {
		t.Errorf("expected E1 target 3 (closest player), got %d", units[1].Target)
	}
}

func TestAssignTargets_TieGoesToLowestID(t *testing.T) {
	units := []Unit{
		mkUnit(0, TeamPlayer, 0, 0),
		mkUnit(1, TeamEnemy, 5, 0),
		mkUnit(2, TeamEnemy, -5, 0),
		mkUnit(3, TeamEnemy, 0, 5),
	}
	assignTargets(units)
	if units[0].Target != 1 {
		t.Errorf("expected target 1 for equidistant enemies, got %d", units[0].Target)
	}
}

func TestAssignTargets_SkipsDeadAndClearsWhenNone(t *testing.T) {
	units := []Unit{
		mkUnit(0, TeamPlayer, 0, 0),
		mkUnit(1, TeamEnemy, 1, 0),
		mkUnit(2, TeamEnemy, 50, 0),
	}
	units[1].Alive = false
	assignTargets(units)
	if units[0].Target != 2 {
		t.Fatalf("expected target 2 (1 is dead), got %d", units[0].Target)
	}

	units[2].Alive = false
	assignTargets(units)
	if units[0].Target != noTarget || units[0].HasGoal {
		t.Errorf("expected idle with no living enemies, got target=%d hasGoal=%v", units[0].Target, units[0].HasGoal)
	}
}

func TestAssignTargets_NotSticky(t *testing.T) {
	units := []Unit{
		mkUnit(0, TeamPlayer, 0, 0),
		mkUnit(1, TeamEnemy, 10, 0),
		mkUnit(2, TeamEnemy, 20, 0),
	}
	assignTargets(units)
	if units[0].Target != 1 {
		t.Fatalf("expected first target 1, got %d", units[0].Target)
	}
	units[2].Pos = Vec2{X: 3, Y: 0}
	assignTargets(units)
	if units[0].Target != 2 {
		t.Errorf("expected retarget 2 after it moved closer, got %d", units[0].Target)
	}
}
