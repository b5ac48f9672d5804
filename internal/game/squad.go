package game

import (
	"math"
	"math/rand"
)

// spawnJitter is the maximum per-axis random offset (world units) added to
// each spawned unit so sprites do not overlap exactly.
const spawnJitter = 1.0

// neverAttacked is the LastAttack value of a fresh unit: the first swing is
// never blocked by cooldown.
var neverAttacked = math.Inf(-1)

// SquadSpec describes a squad before it is bound to a slot.
type SquadSpec struct {
	Unit      UnitType
	Count     int
	Formation FormationType
}

// Squad is a group of same-type units owned by exactly one slot. The slot
// owns the squad; spawned units carry the slot ID as a back-reference.
type Squad struct {
	Unit      UnitType
	Count     int
	Formation FormationType
	Team      Team
	SlotID    int

	spawned bool // expanded into units for the current round
}

// NewSquad builds an unassigned squad from a spec.
func NewSquad(spec SquadSpec) *Squad {
	return &Squad{
		Unit:      spec.Unit,
		Count:     spec.Count,
		Formation: spec.Formation,
		SlotID:    -1,
	}
}

// Spawned reports whether the squad has been expanded this round.
func (sq *Squad) Spawned() bool { return sq.spawned }

// EffectiveCount applies the team's resize multiplier, truncating toward zero.
func (sq *Squad) EffectiveCount(sizeMul float64) int {
	n := int(float64(sq.Count) * sizeMul)
	if n < 0 {
		return 0
	}
	return n
}

// spawnSquad expands the slot's squad into units in roster. It is a no-op
// when the squad was already spawned this round. It returns the new unit IDs.
func spawnSquad(rng *rand.Rand, roster *Roster, slot *Slot, sizeMul float64) []int {
	sq := slot.Squad
	if sq == nil || sq.spawned {
		return nil
	}
	sq.spawned = true

	preset := sq.Unit.Preset()
	offsets := FormationOffsets(sq.Formation, sq.EffectiveCount(sizeMul))
	ids := make([]int, 0, len(offsets))

	for _, off := range offsets {
		x := off.X*preset.Spacing + (rng.Float64()*2-1)*spawnJitter
		y := off.Y*preset.Spacing + (rng.Float64()*2-1)*spawnJitter
		if slot.Team == TeamEnemy {
			x = -x
		}

		ids = append(ids, roster.Add(Unit{
			Type:       sq.Unit,
			Team:       slot.Team,
			Slot:       slot.ID,
			Pos:        slot.Pos.Add(Vec2{X: x, Y: y}),
			Health:     preset.MaxHealth,
			MaxHealth:  preset.MaxHealth,
			Damage:     preset.Damage,
			Range:      preset.Range,
			Cooldown:   preset.Cooldown,
			LastAttack: neverAttacked,
			Speed:      preset.Speed,
			Style:      preset.Style,
			Target:     noTarget,
			Alive:      true,
		}))
	}
	return ids
}
