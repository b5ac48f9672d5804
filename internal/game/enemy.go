package game

import (
	"fmt"
	"math/rand"
)

// Enemy upgrade weights: reinforcing an existing squad is twice as likely as
// opening a new one.
const (
	reinforceWeight = 2
	addSquadWeight  = 1
)

type enemyUpgrade struct {
	kind   EffectKind // EffectReinforce or EffectAddSquad
	slotID int
	weight int
}

// enemyUnitCount samples a floor-scaled squad size. The mean grows 10% of the
// initial size per floor; the spread is a third of the mean. Never below 1.
func enemyUnitCount(rng *rand.Rand, cfg Config, floor int) int {
	initial := float64(cfg.InitialUnits)
	base := initial*(1+float64(floor)/10) - float64(cfg.InitialUnits/2)
	if base < 1 {
		base = 1
	}
	n := int(rng.NormFloat64()*base/3 + base)
	if n < 1 {
		return 1
	}
	return n
}

// upgradeEnemy builds the enemy's option pool from its slots, draws one
// option uniformly from the weight-expanded pool, and queues it.
func (s *Session) upgradeEnemy() {
	var options []enemyUpgrade
	for _, slot := range s.slots.FilledSlots(TeamEnemy) {
		options = append(options, enemyUpgrade{kind: EffectReinforce, slotID: slot.ID, weight: reinforceWeight})
	}
	for _, slot := range s.slots.OpenSlots(TeamEnemy) {
		options = append(options, enemyUpgrade{kind: EffectAddSquad, slotID: slot.ID, weight: addSquadWeight})
	}
	if len(options) == 0 {
		s.log.Warn(s.tick, TeamEnemy, "no_upgrade", "no enemy upgrades available")
		return
	}

	var pool []enemyUpgrade
	for _, o := range options {
		for i := 0; i < o.weight; i++ {
			pool = append(pool, o)
		}
	}
	pick := pool[s.rng.Intn(len(pool))]
	count := enemyUnitCount(s.rng, s.cfg, s.floor)

	switch pick.kind {
	case EffectReinforce:
		s.queueEffect(TeamEnemy, Effect{Kind: EffectReinforce, SlotID: pick.slotID, Count: count}, "enemy_upgrade")
	case EffectAddSquad:
		s.queueEffect(TeamEnemy, Effect{Kind: EffectAddSquad, Squad: SquadSpec{
			Unit:      UnitKnight,
			Count:     count,
			Formation: randomFormation(s.rng),
		}}, "enemy_upgrade")
	}
	s.log.Add(s.tick, "--", TeamEnemy.String(), "enemy", "upgrade",
		fmt.Sprintf("%s slot=%d count=%d floor=%d", pick.kind, pick.slotID, count, s.floor), float64(count))
}
