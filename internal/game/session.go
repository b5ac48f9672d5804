package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrWrongPhase is returned when a lifecycle call is made in a state
	// that does not accept it.
	ErrWrongPhase = errors.New("wrong round phase")
	// ErrNoChoice is returned when a reward index is outside the offered set.
	ErrNoChoice = errors.New("no such reward choice")
	// ErrUnknownItem is returned when an item name is not in the catalogue.
	ErrUnknownItem = errors.New("unknown item")
)

// RoundState is the campaign lifecycle state.
type RoundState int

const (
	StateMenu RoundState = iota
	StateInitializingRound
	StatePreRound
	StateInBattle
	StateWon
	StateLost
)

func (s RoundState) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateInitializingRound:
		return "initializing"
	case StatePreRound:
		return "pre_round"
	case StateInBattle:
		return "in_battle"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Session owns one campaign: the slot grid, the unit table, the reward
// catalogue and the round lifecycle. It is not safe for concurrent use;
// callers drive it from a single loop.
type Session struct {
	RunID string

	cfg Config
	rng *rand.Rand
	log *SimLog

	state RoundState
	floor int
	round int
	tick  int
	clock float64 // seconds since the current round started

	roundStartTick int

	slots     *SlotRegistry
	roster    Roster
	catalogue *Catalogue
	combat    *CombatResolver
	victory   VictoryDetector
	events    EventQueue
	effects   []EffectEvent

	speedMod [2]float64
	sizeMul  [2]float64

	choices []*Item
	reports []RoundReport
}

// NewSession creates a session in the Menu state. A nil rng is seeded from
// cfg.Seed, or from the clock when the seed is zero. A nil log records
// non-verbose entries.
func NewSession(cfg Config, rng *rand.Rand, log *SimLog) *Session {
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation RNG, not security sensitive
	}
	if log == nil {
		log = NewSimLog(false)
	}
	s := &Session{
		RunID:     uuid.NewString(),
		cfg:       cfg,
		rng:       rng,
		log:       log,
		state:     StateMenu,
		slots:     NewSlotRegistry(cfg),
		catalogue: NewCatalogue(cfg),
		speedMod:  [2]float64{1, 1},
		sizeMul:   [2]float64{1, 1},
	}
	s.combat = NewCombatResolver(log, &s.events)
	return s
}

// StartGame resets the campaign and begins the first round with one player
// squad and one floor-scaled enemy squad.
func (s *Session) StartGame() error {
	if s.state != StateMenu && s.state != StateLost {
		return fmt.Errorf("start game in %s: %w", s.state, ErrWrongPhase)
	}
	s.resetCampaign()
	s.queueEffect(TeamPlayer, Effect{Kind: EffectAddSquad, Squad: SquadSpec{
		Unit: UnitKnight, Count: s.cfg.InitialUnits, Formation: FormationBox,
	}}, "initial")
	s.queueEffect(TeamEnemy, Effect{Kind: EffectAddSquad, Squad: SquadSpec{
		Unit: UnitKnight, Count: enemyUnitCount(s.rng, s.cfg, 1), Formation: FormationBox,
	}}, "initial")
	s.drainEffects()
	s.BeginRound()
	return nil
}

// resetCampaign clears all per-campaign state without placing any squads.
func (s *Session) resetCampaign() {
	s.floor = 0
	s.round = 0
	s.clock = 0
	s.roster.Clear()
	s.slots.Reset()
	s.catalogue.Reset()
	s.victory.Reset()
	s.effects = nil
	s.choices = nil
	s.reports = nil
	s.speedMod = [2]float64{1, 1}
	s.sizeMul = [2]float64{1, 1}
	s.log.Add(s.tick, "--", "--", "round", "campaign_start", "run "+s.RunID, 0)
}

// BeginRound rebuilds the unit table from every occupied slot and moves to
// PreRound. The first Tick afterwards starts the battle.
func (s *Session) BeginRound() {
	s.setState(StateInitializingRound)
	s.roster.Clear()
	s.victory.Reset()
	s.clock = 0
	s.round++
	s.roundStartTick = s.tick

	for _, slot := range s.slots.All() {
		if slot.Squad != nil {
			slot.Squad.spawned = false
		}
	}
	for _, slot := range s.slots.All() {
		ids := spawnSquad(s.rng, &s.roster, slot, s.sizeMul[slot.Team])
		if len(ids) > 0 {
			s.log.Add(s.tick, "--", slot.Team.String(), "slot", "spawn",
				fmt.Sprintf("slot %d (%d,%d) %d %s", slot.ID, slot.Row, slot.Column, len(ids), slot.Squad.Unit),
				float64(len(ids)))
		}
	}

	p, e := s.roster.AliveCounts()
	s.log.Add(s.tick, "--", "--", "round", "begin",
		fmt.Sprintf("round %d floor %d player=%d enemy=%d", s.round, s.floor, p, e), float64(s.floor))
	s.setState(StatePreRound)
}

// Tick advances the simulation by dt seconds. PreRound promotes to InBattle
// and steps in the same call; every other state except InBattle ignores it.
func (s *Session) Tick(dt float64) {
	switch s.state {
	case StatePreRound:
		s.setState(StateInBattle)
	case StateInBattle:
	default:
		return
	}
	s.step(dt)
}

// step runs one ordered pipeline pass: targeting, movement, combat, victory.
func (s *Session) step(dt float64) {
	s.tick++
	s.clock += dt
	units := s.roster.units

	assignTargets(units)
	moveUnits(units, dt, s.speedMod)
	s.combat.Resolve(units, s.clock, s.tick)

	if s.log.Verbose() {
		for i := range units {
			if units[i].Alive {
				s.log.AddVerbose(s.tick, units[i].Label(), units[i].Team.String(), "move", "pos",
					fmt.Sprintf("(%.1f,%.1f)", units[i].Pos.X, units[i].Pos.Y), units[i].Pos.X)
			}
		}
	}

	p, e := s.roster.AliveCounts()
	switch s.victory.Observe(p, e) {
	case VerdictPlayerWins:
		s.finishRound(VerdictPlayerWins)
	case VerdictEnemyWins:
		s.finishRound(VerdictEnemyWins)
	}
}

func (s *Session) finishRound(v Verdict) {
	report := DetermineRoundOutcome(s.roster.units, v)
	report.Round = s.round
	report.Floor = s.floor
	report.Ticks = s.tick - s.roundStartTick
	report.Duration = s.clock
	s.reports = append(s.reports, report)
	s.log.Add(s.tick, "--", "--", "round", "end", report.Description, float64(report.Ticks))

	if v != VerdictPlayerWins {
		s.setState(StateLost)
		return
	}

	s.floor++
	open := len(s.slots.OpenSlots(TeamPlayer))
	s.choices = s.catalogue.DrawChoices(s.rng, s.cfg.NumChoices, open)
	if len(s.choices) == 0 {
		s.log.Warn(s.tick, TeamPlayer, "reward_pool_empty", "no eligible rewards; skip to continue")
	}
	for i, it := range s.choices {
		s.log.Add(s.tick, "--", TeamPlayer.String(), "reward", "offer",
			fmt.Sprintf("%d: %s (%s)", i, it.Name, it.Rarity), float64(i))
	}
	s.setState(StateWon)
}

// SelectReward applies the k-th offered choice and starts the next round.
func (s *Session) SelectReward(k int) error {
	if s.state != StateWon {
		return fmt.Errorf("select reward %d in %s: %w", k, s.state, ErrWrongPhase)
	}
	if k < 0 || k >= len(s.choices) {
		return fmt.Errorf("select reward %d of %d: %w", k, len(s.choices), ErrNoChoice)
	}
	it := s.choices[k]
	s.catalogue.Consume(it)
	s.log.Add(s.tick, "--", TeamPlayer.String(), "reward", "selected",
		fmt.Sprintf("%s level=%d copies=%d", it.Name, it.Level, it.Copies), float64(it.Copies))
	s.queueEffect(TeamPlayer, it.Effect, it.Name)
	s.advance()
	return nil
}

// SelectRewardByName applies the offered choice whose item is named name.
func (s *Session) SelectRewardByName(name string) error {
	if _, ok := s.catalogue.Find(name); !ok {
		return fmt.Errorf("select reward %q: %w", name, ErrUnknownItem)
	}
	for i, it := range s.choices {
		if it.Name == name {
			return s.SelectReward(i)
		}
	}
	if s.state != StateWon {
		return fmt.Errorf("select reward %q in %s: %w", name, s.state, ErrWrongPhase)
	}
	return fmt.Errorf("select reward %q: not offered: %w", name, ErrNoChoice)
}

// SkipReward declines the offer and starts the next round.
func (s *Session) SkipReward() error {
	if s.state != StateWon {
		return fmt.Errorf("skip reward in %s: %w", s.state, ErrWrongPhase)
	}
	s.log.Add(s.tick, "--", TeamPlayer.String(), "reward", "skipped", "", 0)
	s.advance()
	return nil
}

// advance upgrades the enemy, applies every queued effect and begins the
// next round.
func (s *Session) advance() {
	s.choices = nil
	s.upgradeEnemy()
	s.drainEffects()
	s.BeginRound()
}

// ReturnToMenu abandons the current round.
func (s *Session) ReturnToMenu() {
	s.roster.Clear()
	s.choices = nil
	s.effects = nil
	s.setState(StateMenu)
}

func (s *Session) setState(st RoundState) {
	if s.state == st {
		return
	}
	s.log.Add(s.tick, "--", "--", "round", "state", fmt.Sprintf("%s -> %s", s.state, st), float64(st))
	s.state = st
	s.events.Push(Event{Kind: EventRoundState, Tick: s.tick, State: st})
}

// State returns the lifecycle state.
func (s *Session) State() RoundState { return s.state }

// Floor returns the number of rounds won in this campaign.
func (s *Session) Floor() int { return s.floor }

// Round returns the 1-based index of the current round.
func (s *Session) Round() int { return s.round }

// CurrentTick returns the total number of simulation steps taken.
func (s *Session) CurrentTick() int { return s.tick }

// Clock returns seconds of simulated time in the current round.
func (s *Session) Clock() float64 { return s.clock }

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// Log returns the structured event log.
func (s *Session) Log() *SimLog { return s.log }

// Units returns a copy of the unit table.
func (s *Session) Units() []Unit { return s.roster.Snapshot() }

// AliveCounts returns the living units per team.
func (s *Session) AliveCounts() (player, enemy int) { return s.roster.AliveCounts() }

// DrainEvents returns and clears pending notifications.
func (s *Session) DrainEvents() []Event { return s.events.Drain() }

// SpeedModifier returns the movement multiplier for team.
func (s *Session) SpeedModifier(team Team) float64 { return s.speedMod[team] }

// SizeMultiplier returns the squad-size multiplier for team.
func (s *Session) SizeMultiplier(team Team) float64 { return s.sizeMul[team] }

// Reports returns the per-round outcomes recorded so far.
func (s *Session) Reports() []RoundReport { return s.reports }

// SlotView is a read-only copy of a slot for presentation.
type SlotView struct {
	ID       int
	Team     Team
	Row      int
	Column   int
	Pos      Vec2
	Occupied bool
	Unit     UnitType
	Count    int
}

// Slots returns a copy of every slot in creation order.
func (s *Session) Slots() []SlotView {
	all := s.slots.All()
	out := make([]SlotView, 0, len(all))
	for _, sl := range all {
		v := SlotView{ID: sl.ID, Team: sl.Team, Row: sl.Row, Column: sl.Column, Pos: sl.Pos}
		if sl.Squad != nil {
			v.Occupied = true
			v.Unit = sl.Squad.Unit
			v.Count = sl.Squad.EffectiveCount(s.sizeMul[sl.Team])
		}
		out = append(out, v)
	}
	return out
}

// Choice is a read-only copy of an offered reward.
type Choice struct {
	Name        string
	Description string
	Rarity      Rarity
	Level       int
	MaxLevel    int
	Copies      int
}

// Choices returns the rewards offered after the last victory.
func (s *Session) Choices() []Choice {
	out := make([]Choice, 0, len(s.choices))
	for _, it := range s.choices {
		out = append(out, Choice{
			Name:        it.Name,
			Description: it.Description,
			Rarity:      it.Rarity,
			Level:       it.Level,
			MaxLevel:    it.MaxLevel,
			Copies:      it.Copies,
		})
	}
	return out
}
