package game

import "fmt"

// CombatResolver applies cooldown-gated damage between units and records
// hits and deaths on the shared event queue.
type CombatResolver struct {
	log    *SimLog
	events *EventQueue
}

// NewCombatResolver creates a resolver writing to log and events.
func NewCombatResolver(log *SimLog, events *EventQueue) *CombatResolver {
	return &CombatResolver{log: log, events: events}
}

// Resolve runs one combat pass at sim time now. Per attacker the order is:
// range check, cooldown check, stamp LastAttack, already-dead guard, damage,
// death check. A target killed earlier in the same pass therefore costs the
// next attacker its swing but never yields a second kill.
func (cr *CombatResolver) Resolve(units []Unit, now float64, tick int) {
	for i := range units {
		u := &units[i]
		if !u.Alive || u.Target == noTarget {
			continue
		}
		if u.Target < 0 || u.Target >= len(units) {
			cr.log.Error(tick, u, "missing_target",
				fmt.Sprintf("target %d has no roster entry", u.Target))
			u.clearTarget()
			continue
		}
		t := &units[u.Target]

		if u.Pos.Dist(t.Pos) > u.Range {
			continue
		}
		if now-u.LastAttack < u.Cooldown {
			continue
		}
		u.LastAttack = now

		if t.Health <= 0 {
			continue
		}

		t.Health -= u.Damage
		cr.events.Push(Event{
			Kind:     EventAttack,
			Tick:     tick,
			Attacker: u.ID,
			Target:   t.ID,
			Team:     t.Team,
			Pos:      t.Pos,
			Damage:   u.Damage,
		})
		cr.log.AddVerbose(tick, u.Label(), u.Team.String(), "combat", "hit",
			fmt.Sprintf("%s hp %.0f", t.Label(), t.Health), t.Health)

		if t.Health <= 0 {
			t.Alive = false
			t.clearTarget()
			cr.events.Push(Event{
				Kind:   EventUnitDied,
				Tick:   tick,
				Target: t.ID,
				Team:   t.Team,
				Pos:    t.Pos,
			})
			cr.log.Add(tick, t.Label(), t.Team.String(), "combat", "death",
				fmt.Sprintf("killed by %s", u.Label()), t.Health)
		}
	}
}
