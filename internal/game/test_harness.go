package game

import (
	"fmt"
	"math/rand"
)

// TestSim is a headless session harness for scenario tests.
// Unlike StartGame it places exactly the squads requested, in the first open
// slot of the requested team, so scenarios are reproducible.
type TestSim struct {
	Session *Session
	SimLog  *SimLog

	cfg   Config
	rng   *rand.Rand
	floor int
	errs  []error
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // config, seed, verbose: applied before the session exists
	simOptSquad                      // squads and grid: applied after the campaign is reset
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg = cfg
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithFloor starts the session as if floor rounds had already been won.
func WithFloor(floor int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.floor = floor
	}}
}

// WithSquad places count units of kind for team in that team's first open slot.
func WithSquad(team Team, kind UnitType, count int, formation FormationType) SimOption {
	return SimOption{simOptSquad, func(ts *TestSim) {
		open := ts.Session.slots.OpenSlots(team)
		if len(open) == 0 {
			ts.errs = append(ts.errs, fmt.Errorf("with squad %s %s: %w", team, kind, ErrGridFull))
			return
		}
		sq := NewSquad(SquadSpec{Unit: kind, Count: count, Formation: formation})
		if err := ts.Session.slots.Assign(open[0], sq); err != nil {
			ts.errs = append(ts.errs, err)
		}
	}}
}

// WithEffect applies an effect to team before the first round.
func WithEffect(team Team, eff Effect) SimOption {
	return SimOption{simOptSquad, func(ts *TestSim) {
		ts.Session.queueEffect(team, eff, "test")
		ts.Session.drainEffects()
	}}
}

// NewTestSim constructs a TestSim in two ordered passes (infrastructure, then
// squads) and begins the first round.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		cfg:    DefaultConfig(),
		SimLog: NewSimLog(false),
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.Session = NewSession(ts.cfg, ts.rng, ts.SimLog)
	ts.Session.resetCampaign()
	ts.Session.floor = ts.floor
	for _, o := range opts {
		if o.kind == simOptSquad {
			o.fn(ts)
		}
	}
	ts.Session.BeginRound()
	return ts
}

// Errs returns placement failures from squad options.
func (ts *TestSim) Errs() []error { return ts.errs }

// RunTicks advances the session n fixed steps.
func (ts *TestSim) RunTicks(n int) {
	dt := ts.cfg.TickDelta()
	for i := 0; i < n; i++ {
		ts.Session.Tick(dt)
	}
}

// RunUntil advances the session up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	dt := ts.cfg.TickDelta()
	for i := 0; i < maxTicks; i++ {
		ts.Session.Tick(dt)
		if predicate(ts) {
			return ts.Session.CurrentTick()
		}
	}
	return -1
}

// RunRound advances until the round is decided or maxTicks elapse.
func (ts *TestSim) RunRound(maxTicks int) RoundState {
	ts.RunUntil(func(t *TestSim) bool { return t.RoundOver() }, maxTicks)
	return ts.Session.State()
}

// RoundOver reports whether the current round has been decided.
func (ts *TestSim) RoundOver() bool {
	st := ts.Session.State()
	return st == StateWon || st == StateLost
}

// Units returns the session's unit table. Mutations affect the simulation.
func (ts *TestSim) Units() []Unit { return ts.Session.roster.units }

// Summary returns a short human-readable summary of the current tick.
func (ts *TestSim) Summary() string {
	return ts.SimLog.Summary(ts.Session.CurrentTick(), ts.Session.roster.units)
}
