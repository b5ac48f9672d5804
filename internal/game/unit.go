package game

import (
	"fmt"
	"math"
)

// Team partitions every unit, slot and squad into one of the two sides.
type Team int

const (
	TeamPlayer Team = iota // manual reward picks
	TeamEnemy              // auto-upgrading opposition
)

// teams lists both sides in stable order for per-team loops.
var teams = [2]Team{TeamPlayer, TeamEnemy}

func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Opponent returns the other side.
func (t Team) Opponent() Team {
	if t == TeamPlayer {
		return TeamEnemy
	}
	return TeamPlayer
}

// UnitType selects the stat preset a unit is spawned with.
type UnitType int

const (
	UnitKnight UnitType = iota
	UnitArcher
)

func (u UnitType) String() string {
	switch u {
	case UnitKnight:
		return "knight"
	case UnitArcher:
		return "archer"
	default:
		return "unknown"
	}
}

// MoveStyle controls how a unit closes on its target.
type MoveStyle int

const (
	MoveDirect      MoveStyle = iota // walk straight at the target position
	MoveWithinRange                  // stop once the target is inside attack range
)

func (m MoveStyle) String() string {
	switch m {
	case MoveDirect:
		return "direct"
	case MoveWithinRange:
		return "within_range"
	default:
		return "unknown"
	}
}

// UnitPreset is the immutable stat block copied into a unit at spawn.
type UnitPreset struct {
	MaxHealth float64
	Damage    float64
	Range     float64 // world units
	Cooldown  float64 // seconds between attacks
	Speed     float64 // world units per second
	Spacing   float64 // formation grid pitch
	Style     MoveStyle
}

var unitPresets = [...]UnitPreset{
	UnitKnight: {MaxHealth: 100, Damage: 10, Range: 5, Cooldown: 1.0, Speed: 15, Spacing: 12, Style: MoveDirect},
	UnitArcher: {MaxHealth: 50, Damage: 5, Range: 50, Cooldown: 2.0, Speed: 10, Spacing: 12, Style: MoveWithinRange},
}

// Preset returns the stat block for this unit type.
func (u UnitType) Preset() UnitPreset {
	if int(u) < 0 || int(u) >= len(unitPresets) {
		return unitPresets[UnitKnight]
	}
	return unitPresets[u]
}

// --- Geometry ---

// Vec2 is a 2D world position or offset.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Len returns the Euclidean length.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the Euclidean distance between two points.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// Normalize returns the unit vector, or the zero vector for zero length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// --- Units ---

// noTarget marks a unit without a current target.
const noTarget = -1

// Unit is one combatant in the roster table. Units reference each other and
// their origin slot by index, never by pointer.
type Unit struct {
	ID   int
	Type UnitType
	Team Team
	Slot int // origin slot ID

	Pos       Vec2
	Health    float64
	MaxHealth float64

	Damage     float64
	Range      float64
	Cooldown   float64
	LastAttack float64 // sim clock of the last swing
	Speed      float64
	Style      MoveStyle

	Target  int  // roster ID or noTarget
	Goal    Vec2 // movement goal set by targeting
	HasGoal bool

	Alive bool
}

// Label is a short tag for logs, e.g. "P3" or "E12".
func (u *Unit) Label() string {
	if u.Team == TeamPlayer {
		return fmt.Sprintf("P%d", u.ID)
	}
	return fmt.Sprintf("E%d", u.ID)
}

// clearTarget drops the target and movement goal (idle).
func (u *Unit) clearTarget() {
	u.Target = noTarget
	u.HasGoal = false
}

// Roster is the contiguous unit table for the current round. A unit's ID is
// its index; dead units stay in place until the round is torn down.
type Roster struct {
	units []Unit
}

// Add stores u, assigns its ID and returns it.
func (r *Roster) Add(u Unit) int {
	u.ID = len(r.units)
	r.units = append(r.units, u)
	return u.ID
}

// Get returns the unit with the given ID.
func (r *Roster) Get(id int) (*Unit, bool) {
	if id < 0 || id >= len(r.units) {
		return nil, false
	}
	return &r.units[id], true
}

// Len returns the number of units ever spawned this round.
func (r *Roster) Len() int { return len(r.units) }

// Clear drops every unit (round teardown).
func (r *Roster) Clear() { r.units = r.units[:0] }

// AliveCounts returns the number of living units per team.
func (r *Roster) AliveCounts() (player, enemy int) {
	for i := range r.units {
		u := &r.units[i]
		if !u.Alive {
			continue
		}
		if u.Team == TeamPlayer {
			player++
		} else {
			enemy++
		}
	}
	return player, enemy
}

// TeamCounts returns living and total units for one team.
func (r *Roster) TeamCounts(team Team) (alive, total int) {
	for i := range r.units {
		if r.units[i].Team != team {
			continue
		}
		total++
		if r.units[i].Alive {
			alive++
		}
	}
	return alive, total
}

// Snapshot copies the table so callers cannot mutate simulation state.
func (r *Roster) Snapshot() []Unit {
	out := make([]Unit, len(r.units))
	copy(out, r.units)
	return out
}
