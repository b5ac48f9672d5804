package game

// VictoryPhase is the detector's two-state machine.
type VictoryPhase int

const (
	VictoryWaiting VictoryPhase = iota // no living unit observed yet this round
	VictoryEngaged                     // battle in progress
)

func (p VictoryPhase) String() string {
	if p == VictoryEngaged {
		return "engaged"
	}
	return "waiting"
}

// Verdict is the detector's per-tick output.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictPlayerWins
	VerdictEnemyWins
)

func (v Verdict) String() string {
	switch v {
	case VerdictPlayerWins:
		return "player_wins"
	case VerdictEnemyWins:
		return "enemy_wins"
	default:
		return "none"
	}
}

// VictoryDetector watches per-team living counts. It only reports after it
// has seen at least one living unit, so the empty window between round setup
// and spawning never reads as a defeat.
type VictoryDetector struct {
	phase VictoryPhase
}

// Phase returns the current phase.
func (vd *VictoryDetector) Phase() VictoryPhase { return vd.phase }

// Reset returns the detector to Waiting.
func (vd *VictoryDetector) Reset() { vd.phase = VictoryWaiting }

// Observe feeds one tick's living counts and returns the verdict, if any.
func (vd *VictoryDetector) Observe(playerAlive, enemyAlive int) Verdict {
	if vd.phase == VictoryWaiting {
		if playerAlive+enemyAlive > 0 {
			vd.phase = VictoryEngaged
		}
		return VerdictNone
	}

	if playerAlive > 0 && enemyAlive > 0 {
		return VerdictNone
	}
	vd.phase = VictoryWaiting
	if playerAlive > 0 {
		return VerdictPlayerWins
	}
	return VerdictEnemyWins
}
