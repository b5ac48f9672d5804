package game

import "fmt"

// EffectKind selects what a reward or upgrade changes.
type EffectKind int

const (
	EffectSpeed     EffectKind = iota // add Amount to the team speed modifier
	EffectAddSquad                    // put Squad into a random open slot
	EffectAddColumn                   // unlock a column of slots
	EffectAddRow                      // unlock a row of slots
	EffectSquadSize                   // add Amount to the team squad-size multiplier
	EffectReinforce                   // add Count units to the squad in SlotID
)

func (k EffectKind) String() string {
	switch k {
	case EffectSpeed:
		return "speed"
	case EffectAddSquad:
		return "add_squad"
	case EffectAddColumn:
		return "add_column"
	case EffectAddRow:
		return "add_row"
	case EffectSquadSize:
		return "squad_size"
	case EffectReinforce:
		return "reinforce"
	default:
		return "unknown"
	}
}

// Effect is the payload of an item or enemy upgrade.
type Effect struct {
	Kind   EffectKind
	Amount float64   // EffectSpeed, EffectSquadSize
	Squad  SquadSpec // EffectAddSquad
	SlotID int       // EffectReinforce
	Count  int       // EffectReinforce
}

// EffectEvent is one queued effect for an acting team.
type EffectEvent struct {
	Team   Team
	Effect Effect
	Source string // item or upgrade name, for logs
}

// queueEffect appends an effect to be applied at the next round boundary.
func (s *Session) queueEffect(team Team, eff Effect, source string) {
	s.effects = append(s.effects, EffectEvent{Team: team, Effect: eff, Source: source})
}

// drainEffects applies queued effects in order and empties the queue. It only
// runs between rounds, never during a tick.
func (s *Session) drainEffects() {
	queue := s.effects
	s.effects = nil
	for _, ev := range queue {
		s.applyEffect(ev)
	}
}

func (s *Session) applyEffect(ev EffectEvent) {
	team := ev.Team
	eff := ev.Effect

	switch eff.Kind {
	case EffectSpeed:
		s.speedMod[team] += eff.Amount
		s.log.Add(s.tick, "--", team.String(), "effect", "speed",
			fmt.Sprintf("%s: modifier %.2f", ev.Source, s.speedMod[team]), s.speedMod[team])

	case EffectSquadSize:
		s.sizeMul[team] += eff.Amount
		s.log.Add(s.tick, "--", team.String(), "effect", "squad_size",
			fmt.Sprintf("%s: multiplier %.2f", ev.Source, s.sizeMul[team]), s.sizeMul[team])

	case EffectAddSquad:
		open := s.slots.OpenSlots(team)
		if len(open) == 0 {
			s.log.Warn(s.tick, team, "add_squad_dropped",
				fmt.Sprintf("%s: no open slot for %d %s", ev.Source, eff.Squad.Count, eff.Squad.Unit))
			return
		}
		slot := open[s.rng.Intn(len(open))]
		if err := s.slots.Assign(slot, NewSquad(eff.Squad)); err != nil {
			s.log.Warn(s.tick, team, "add_squad_dropped", err.Error())
			return
		}
		s.log.Add(s.tick, "--", team.String(), "effect", "add_squad",
			fmt.Sprintf("%s: %d %s (%s) -> slot %d (%d,%d)", ev.Source, eff.Squad.Count,
				eff.Squad.Unit, eff.Squad.Formation, slot.ID, slot.Row, slot.Column), float64(eff.Squad.Count))

	case EffectAddColumn:
		created, err := s.slots.AddColumn(team)
		if err != nil {
			s.log.Warn(s.tick, team, "add_column_dropped", err.Error())
			return
		}
		s.log.Add(s.tick, "--", team.String(), "effect", "add_column",
			fmt.Sprintf("%s: columns=%d new_slots=%d", ev.Source, s.slots.Columns(team), len(created)),
			float64(s.slots.Columns(team)))

	case EffectAddRow:
		created, err := s.slots.AddRow(team)
		if err != nil {
			s.log.Warn(s.tick, team, "add_row_dropped", err.Error())
			return
		}
		s.log.Add(s.tick, "--", team.String(), "effect", "add_row",
			fmt.Sprintf("%s: rows=%d new_slots=%d", ev.Source, s.slots.Rows(team), len(created)),
			float64(s.slots.Rows(team)))

	case EffectReinforce:
		slot, ok := s.slots.Slot(eff.SlotID)
		if !ok || slot.Squad == nil || slot.Team != team {
			s.log.Warn(s.tick, team, "reinforce_dropped",
				fmt.Sprintf("%s: slot %d holds no %s squad", ev.Source, eff.SlotID, team))
			return
		}
		slot.Squad.Count += eff.Count
		s.log.Add(s.tick, "--", team.String(), "effect", "reinforce",
			fmt.Sprintf("%s: slot %d +%d -> %d", ev.Source, slot.ID, eff.Count, slot.Squad.Count),
			float64(slot.Squad.Count))

	default:
		s.log.Error(s.tick, nil, "unknown_effect", fmt.Sprintf("%s: kind %d", ev.Source, eff.Kind))
	}
}
