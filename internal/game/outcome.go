package game

import (
	"fmt"
	"strings"
)

type RoundOutcome int

const (
	OutcomeInconclusive RoundOutcome = iota
	OutcomePlayerVictory
	OutcomeEnemyVictory
)

func (o RoundOutcome) String() string {
	switch o {
	case OutcomePlayerVictory:
		return "player_victory"
	case OutcomeEnemyVictory:
		return "enemy_victory"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// RoundReport summarises one finished (or abandoned) round.
type RoundReport struct {
	Round           int
	Floor           int // floor the round was fought on
	Outcome         RoundOutcome
	PlayerSurvivors int
	PlayerTotal     int
	EnemySurvivors  int
	EnemyTotal      int
	PlayerHealth    float64
	EnemyHealth     float64
	Ticks           int
	Duration        float64
	Description     string
}

// DetermineRoundOutcome counts survivors per team and labels the result.
// A simultaneous wipe is an enemy victory, matching the victory detector.
func DetermineRoundOutcome(units []Unit, v Verdict) RoundReport {
	r := RoundReport{}
	for i := range units {
		u := &units[i]
		switch u.Team {
		case TeamPlayer:
			r.PlayerTotal++
			if u.Alive {
				r.PlayerSurvivors++
				r.PlayerHealth += u.Health
			}
		case TeamEnemy:
			r.EnemyTotal++
			if u.Alive {
				r.EnemySurvivors++
				r.EnemyHealth += u.Health
			}
		}
	}

	switch {
	case v == VerdictPlayerWins:
		r.Outcome = OutcomePlayerVictory
		if r.PlayerTotal > 0 && r.PlayerSurvivors*2 < r.PlayerTotal {
			r.Description = "costly_player_victory_enemy_eliminated"
		} else {
			r.Description = "decisive_player_victory_enemy_eliminated"
		}
	case v == VerdictEnemyWins && r.PlayerSurvivors == 0 && r.EnemySurvivors == 0:
		r.Outcome = OutcomeEnemyVictory
		r.Description = "mutual_annihilation"
	case v == VerdictEnemyWins:
		r.Outcome = OutcomeEnemyVictory
		r.Description = "enemy_victory_player_eliminated"
	default:
		r.Outcome = OutcomeInconclusive
		r.Description = fmt.Sprintf("inconclusive_player_%d_enemy_%d", r.PlayerSurvivors, r.EnemySurvivors)
	}
	return r
}

// Format renders the report as a short multi-line block.
func (r RoundReport) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Round %d (floor %d): %s\n", r.Round, r.Floor, r.Outcome)
	fmt.Fprintf(&sb, "  player  %d/%d alive  hp=%.0f\n", r.PlayerSurvivors, r.PlayerTotal, r.PlayerHealth)
	fmt.Fprintf(&sb, "  enemy   %d/%d alive  hp=%.0f\n", r.EnemySurvivors, r.EnemyTotal, r.EnemyHealth)
	fmt.Fprintf(&sb, "  %d ticks, %.1fs  %s\n", r.Ticks, r.Duration, r.Description)
	return sb.String()
}
