package game

import (
	"errors"
	"strings"
	"testing"
)

const roundTickLimit = 60 * 120

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// dumpSummary prints the scenario summary block.
func dumpSummary(t *testing.T, ts *TestSim) {
	t.Helper()
	t.Log(ts.Summary())
	if reports := ts.Session.Reports(); len(reports) > 0 {
		t.Log(reports[len(reports)-1].Format())
	}
}

// dumpRecent prints the last n ticks of the SimLog.
func dumpRecent(t *testing.T, ts *TestSim, n int) {
	t.Helper()
	to := ts.Session.CurrentTick()
	t.Logf("--- Log T=%03d..%03d ---\n%s", to-n, to, ts.SimLog.FormatRange(to-n, to))
}

// --- Scenario: Outnumbering Wins ---

func TestScenario_OutnumberingWins(t *testing.T) {
	t.Log("=== TestScenario_OutnumberingWins ===")
	t.Log("--- Setup: 10 player knights (box) vs 5 enemy knights (box) ---")

	ts := NewTestSim(
		WithSeed(42),
		WithSquad(TeamPlayer, UnitKnight, 10, FormationBox),
		WithSquad(TeamEnemy, UnitKnight, 5, FormationBox),
	)
	if len(ts.Errs()) > 0 {
		t.Fatalf("setup: %v", ts.Errs())
	}

	st := ts.RunRound(roundTickLimit)
	dumpSummary(t, ts)

	if st != StateWon {
		dumpLog(t, ts)
		t.Fatalf("expected state won, got %s", st)
	}
	if ts.Session.Floor() != 1 {
		t.Errorf("expected floor 1, got %d", ts.Session.Floor())
	}
	if n := len(ts.Session.Choices()); n != DefaultConfig().NumChoices {
		t.Errorf("expected %d choices, got %d", DefaultConfig().NumChoices, n)
	}

	rep := ts.Session.Reports()[0]
	if rep.Outcome != OutcomePlayerVictory || rep.EnemySurvivors != 0 || rep.PlayerSurvivors == 0 {
		t.Errorf("report = %+v", rep)
	}
	if rep.PlayerTotal != 10 || rep.EnemyTotal != 5 {
		t.Errorf("expected totals 10/5, got %d/%d", rep.PlayerTotal, rep.EnemyTotal)
	}
	if n := ts.SimLog.CountCategory("combat", "death"); n != 5+(10-rep.PlayerSurvivors) {
		t.Errorf("expected death entries %d, got %d", 5+(10-rep.PlayerSurvivors), n)
	}
}

// --- Scenario: Outnumbered Loses ---

func TestScenario_OutnumberedLoses(t *testing.T) {
	t.Log("=== TestScenario_OutnumberedLoses ===")

	ts := NewTestSim(
		WithSeed(7),
		WithSquad(TeamPlayer, UnitKnight, 2, FormationBox),
		WithSquad(TeamEnemy, UnitKnight, 20, FormationBox),
	)
	st := ts.RunRound(roundTickLimit)
	dumpSummary(t, ts)

	if st != StateLost {
		dumpRecent(t, ts, 120)
		t.Fatalf("expected state lost, got %s", st)
	}
	if ts.Session.Floor() != 0 {
		t.Errorf("expected floor 0, got %d", ts.Session.Floor())
	}
	if err := ts.Session.SelectReward(0); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("SelectReward after loss: expected ErrWrongPhase, got %v", err)
	}
	if err := ts.Session.StartGame(); err != nil {
		t.Errorf("StartGame after loss: %v", err)
	}
}

// --- Scenario: Reward Starts Next Round ---

func TestScenario_RewardStartsNextRound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumChoices = 5
	ts := NewTestSim(
		WithConfig(cfg),
		WithSeed(42),
		WithSquad(TeamPlayer, UnitKnight, 10, FormationBox),
		WithSquad(TeamEnemy, UnitKnight, 5, FormationBox),
	)
	if st := ts.RunRound(roundTickLimit); st != StateWon {
		t.Fatalf("expected state won, got %s", st)
	}

	s := ts.Session
	if n := len(s.Choices()); n != 5 {
		t.Fatalf("expected 5 choices, got %d", n)
	}
	if err := s.SelectReward(len(s.Choices())); !errors.Is(err, ErrNoChoice) {
		t.Errorf("out-of-range pick: expected ErrNoChoice, got %v", err)
	}
	if err := s.SelectReward(-1); !errors.Is(err, ErrNoChoice) {
		t.Errorf("negative pick: expected ErrNoChoice, got %v", err)
	}

	picked := s.Choices()[0].Name
	if err := s.SelectReward(0); err != nil {
		t.Fatalf("SelectReward: %v", err)
	}
	if s.State() != StatePreRound || s.Round() != 2 {
		t.Errorf("expected pre_round in round 2, got %s in round %d", s.State(), s.Round())
	}
	if !ts.SimLog.HasEntry("reward", "selected", picked) {
		t.Errorf("no selection entry for %s", picked)
	}
	if ts.SimLog.CountCategory("enemy", "upgrade") != 1 {
		t.Errorf("enemy did not upgrade exactly once")
	}
	if len(s.Choices()) != 0 {
		t.Errorf("choices not cleared")
	}
	if _, total := s.roster.TeamCounts(TeamEnemy); total < 6 {
		t.Errorf("expected at least 6 enemy units (5 plus an upgrade), got %d", total)
	}
}

// --- Scenario: Empty Reward Pool ---

func TestScenario_EmptyRewardPoolSkips(t *testing.T) {
	ts := NewTestSim(
		WithSeed(42),
		WithSquad(TeamPlayer, UnitKnight, 10, FormationBox),
		WithSquad(TeamEnemy, UnitKnight, 5, FormationBox),
	)
	for _, it := range ts.Session.catalogue.Items() {
		it.Copies = 0
	}
	if st := ts.RunRound(roundTickLimit); st != StateWon {
		t.Fatalf("expected state won, got %s", st)
	}
	if n := len(ts.Session.Choices()); n != 0 {
		t.Fatalf("expected 0 choices, got %d", n)
	}
	if !ts.SimLog.HasEntry("warn", "reward_pool_empty", "") {
		t.Error("missing reward_pool_empty warning")
	}
	if err := ts.Session.SelectReward(0); !errors.Is(err, ErrNoChoice) {
		t.Errorf("expected ErrNoChoice, got %v", err)
	}
	if err := ts.Session.SkipReward(); err != nil {
		t.Fatalf("SkipReward: %v", err)
	}
	if ts.Session.State() != StatePreRound {
		t.Errorf("expected state pre_round, got %s", ts.Session.State())
	}
}

// --- Scenario: Archers Hold At Range ---

func TestScenario_ArchersHoldAtRange(t *testing.T) {
	ts := NewTestSim(
		WithSeed(5),
		WithVerbose(true),
		WithSquad(TeamPlayer, UnitArcher, 1, FormationPyramid),
		WithSquad(TeamEnemy, UnitKnight, 1, FormationBox),
	)
	archerRange := UnitArcher.Preset().Range

	from := ts.RunUntil(func(ts *TestSim) bool {
		u := ts.Units()
		return u[0].Pos.Dist(u[1].Pos) <= archerRange
	}, roundTickLimit)
	if from < 0 {
		t.Fatal("knight never came within archer range")
	}
	start := ts.Units()[0].Pos

	ts.RunTicks(30)
	u := ts.Units()
	if u[0].Alive && u[0].Pos != start {
		dumpRecent(t, ts, 30)
		t.Errorf("archer moved from %+v to %+v while target in range", start, u[0].Pos)
	}
	if u[1].Health >= u[1].MaxHealth {
		t.Errorf("knight untouched (hp %.0f) while inside archer range", u[1].Health)
	}

	// verbose mode records one position per living unit per tick
	var held []SimLogEntry
	for _, e := range ts.SimLog.FilterTickRange(from, from+30) {
		if e.Unit == "P0" && e.Key == "pos" {
			held = append(held, e)
		}
	}
	if len(held) != 31 {
		t.Fatalf("expected 31 archer positions, got %d", len(held))
	}
	for _, e := range held[1:] {
		if e.Value != held[0].Value {
			t.Errorf("T=%d archer at %s, expected %s", e.Tick, e.Value, held[0].Value)
		}
	}
	if n := len(ts.SimLog.FilterUnit("P0")); n < from {
		t.Errorf("expected at least %d archer entries, got %d", from, n)
	}
}

// --- Scenario: Upgrade At Deep Floor ---

func TestScenario_UpgradeAtDeepFloor(t *testing.T) {
	ts := NewTestSim(
		WithSeed(42),
		WithFloor(20),
		WithSquad(TeamPlayer, UnitKnight, 10, FormationBox),
		WithSquad(TeamEnemy, UnitKnight, 5, FormationBox),
	)
	if st := ts.RunRound(roundTickLimit); st != StateWon {
		dumpRecent(t, ts, 120)
		t.Fatalf("expected state won, got %s", st)
	}
	s := ts.Session
	if rep := s.Reports()[0]; rep.Floor != 20 || s.Floor() != 21 {
		t.Fatalf("expected round on floor 20 advancing to 21, got %d -> %d", rep.Floor, s.Floor())
	}
	if err := s.SelectReward(0); err != nil {
		t.Fatalf("SelectReward: %v", err)
	}

	up, ok := ts.SimLog.LastOf("enemy", "upgrade")
	if !ok || !strings.Contains(up.Value, "floor=21") {
		t.Fatalf("expected an upgrade sized for floor 21, got %+v (found=%v)", up, ok)
	}
	if up.NumVal < 1 {
		t.Errorf("expected upgrade count >= 1, got %.0f", up.NumVal)
	}
	begin, ok := ts.SimLog.LastOf("round", "begin")
	if !ok || begin.NumVal != 21 {
		t.Errorf("expected round 2 to begin on floor 21, got %+v", begin)
	}
}

// --- Scenario: Determinism ---

func TestScenario_SameSeedSameBattle(t *testing.T) {
	build := func() *TestSim {
		return NewTestSim(
			WithSeed(99),
			WithSquad(TeamPlayer, UnitKnight, 10, FormationBox),
			WithSquad(TeamPlayer, UnitArcher, 8, FormationPyramid),
			WithSquad(TeamEnemy, UnitKnight, 14, FormationPyramid),
		)
	}
	a, b := build(), build()
	a.RunTicks(600)
	b.RunTicks(600)

	ua, ub := a.Units(), b.Units()
	if len(ua) != len(ub) {
		t.Fatalf("unit counts differ: %d vs %d", len(ua), len(ub))
	}
	for i := range ua {
		if ua[i].Pos != ub[i].Pos || ua[i].Health != ub[i].Health || ua[i].Alive != ub[i].Alive {
			t.Fatalf("unit %d diverged: %+v vs %+v", i, ua[i], ub[i])
		}
	}
}

// --- Scenario: Campaign Invariants ---

func TestScenario_CampaignInvariants(t *testing.T) {
	ts := NewTestSim(
		WithSeed(3),
		WithSquad(TeamPlayer, UnitKnight, 10, FormationBox),
		WithSquad(TeamEnemy, UnitKnight, 4, FormationBox),
	)
	s := ts.Session
	dt := s.Config().TickDelta()

	for round := 0; round < 6; round++ {
		for i := 0; i < roundTickLimit && !ts.RoundOver(); i++ {
			s.Tick(dt)
			for _, u := range ts.Units() {
				if u.Alive && u.Health <= 0 {
					t.Fatalf("T=%d %s alive with hp %.0f", s.CurrentTick(), u.Label(), u.Health)
				}
				if !u.Alive && u.Health > 0 {
					t.Fatalf("T=%d %s dead with hp %.0f", s.CurrentTick(), u.Label(), u.Health)
				}
			}
		}
		if !ts.RoundOver() {
			t.Fatalf("round %d undecided after %d ticks", s.Round(), roundTickLimit)
		}
		if s.State() == StateLost {
			break
		}
		if err := s.SelectReward(0); err != nil && !errors.Is(err, ErrNoChoice) {
			t.Fatalf("SelectReward: %v", err)
		} else if err != nil {
			_ = s.SkipReward()
		}
	}

	wins := 0
	for _, r := range s.Reports() {
		if r.Outcome == OutcomePlayerVictory {
			wins++
		}
	}
	if wins != s.Floor() {
		t.Errorf("floor = %d, wins = %d", s.Floor(), wins)
	}
	maxSlots := s.Config().MaxRows * s.Config().MaxColumns
	for _, team := range teams {
		if n := len(s.slots.Slots(team)); n > maxSlots {
			t.Errorf("%s has %d slots, max %d", team, n, maxSlots)
		}
	}
	if ts.SimLog.CountCategory("error", "") != 0 {
		t.Errorf("errors logged:\n%s", ts.SimLog.Format())
	}
}
