package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/Garsondee/Squad-Arena/internal/game"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type runStats struct {
	runIndex int
	seed     int64
	runID    string

	floor      int
	rounds     int
	stalled    bool // a round hit the tick cap undecided
	finishedAt game.RoundState

	reports  []game.RoundReport
	picks    map[string]int
	attacks  int
	deaths   int
	skips    int
	warnings int
	errors   int
}

type pickPolicy string

const (
	policyFirst   pickPolicy = "first"
	policyRandom  pickPolicy = "random"
	policySkip    pickPolicy = "skip"
	policySquads  pickPolicy = "squads"
	policyDefault            = policyFirst
)

var policies = []pickPolicy{policyFirst, policyRandom, policySkip, policySquads}

func parsePolicy(s string) (pickPolicy, error) {
	for _, p := range policies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported policy %q (supported: first, random, skip, squads)", s)
}

// choosePick returns the index to select, or -1 to skip.
func choosePick(policy pickPolicy, rng *rand.Rand, choices []game.Choice) int {
	if len(choices) == 0 {
		return -1
	}
	switch policy {
	case policySkip:
		return -1
	case policyRandom:
		return rng.Intn(len(choices))
	case policySquads:
		for i, c := range choices {
			if strings.HasSuffix(c.Name, "Squad") {
				return i
			}
		}
		return 0
	default:
		return 0
	}
}

func main() {
	var runs int
	var maxRounds int
	var maxTicks int
	var workers int
	var seedBase int64
	var seedStep int64
	var policyName string
	var verbose bool

	flag.IntVar(&runs, "runs", 8, "number of headless campaigns")
	flag.IntVar(&maxRounds, "rounds", 30, "maximum rounds per campaign")
	flag.IntVar(&maxTicks, "ticks", 60*300, "tick cap per round")
	flag.IntVar(&workers, "workers", 4, "campaigns run concurrently")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&policyName, "policy", string(policyDefault), "reward policy: first, random, skip, squads")
	flag.BoolVar(&verbose, "v", false, "print every round report")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if maxRounds <= 0 || maxTicks <= 0 {
		fmt.Println("error: -rounds and -ticks must be > 0")
		return
	}
	if workers <= 0 {
		workers = 1
	}
	policy, err := parsePolicy(policyName)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	batch := uuid.New()
	fmt.Printf("=== Headless Campaign Report ===\n")
	fmt.Printf("batch=%s policy=%s runs=%d rounds=%d ticks=%d workers=%d seed_base=%d seed_step=%d\n\n",
		batch, policy, runs, maxRounds, maxTicks, workers, seedBase, seedStep)

	all, err := runAll(context.Background(), runs, workers, func(i int) (runStats, error) {
		seed := seedBase + int64(i)*seedStep
		return runCampaign(i+1, seed, maxRounds, maxTicks, policy)
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, rs := range all {
		printRun(rs, verbose)
	}
	printAggregate(all)
}

// runAll executes n campaigns on at most workers goroutines. Results keep
// run order regardless of completion order. Each campaign owns its session,
// so nothing is shared between goroutines.
func runAll(ctx context.Context, n, workers int, run func(i int) (runStats, error)) ([]runStats, error) {
	results := make([]runStats, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rs, err := run(i)
			if err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}
			results[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runCampaign(runIndex int, seed int64, maxRounds, maxTicks int, policy pickPolicy) (runStats, error) {
	cfg := game.DefaultConfig()
	cfg.Seed = seed
	rng := rand.New(rand.NewSource(seed))          // #nosec G404 -- simulation RNG
	pickRNG := rand.New(rand.NewSource(seed ^ 0x5a)) // #nosec G404 -- reward policy RNG
	s := game.NewSession(cfg, rng, game.NewSimLog(false))
	if err := s.StartGame(); err != nil {
		return runStats{}, err
	}

	rs := runStats{
		runIndex: runIndex,
		seed:     seed,
		runID:    s.RunID,
		picks:    map[string]int{},
	}
	dt := cfg.TickDelta()

	for round := 0; round < maxRounds; round++ {
		for i := 0; i < maxTicks; i++ {
			s.Tick(dt)
			rs.countEvents(s.DrainEvents())
			if st := s.State(); st == game.StateWon || st == game.StateLost {
				break
			}
		}
		st := s.State()
		if st != game.StateWon && st != game.StateLost {
			rs.stalled = true
			break
		}
		if st == game.StateLost {
			break
		}

		choices := s.Choices()
		k := choosePick(policy, pickRNG, choices)
		if k < 0 {
			rs.skips++
			if err := s.SkipReward(); err != nil {
				return rs, err
			}
			continue
		}
		rs.picks[choices[k].Name]++
		if err := s.SelectReward(k); err != nil && !errors.Is(err, game.ErrNoChoice) {
			return rs, err
		}
	}

	rs.countEvents(s.DrainEvents())
	rs.floor = s.Floor()
	rs.reports = s.Reports()
	rs.rounds = len(rs.reports)
	rs.finishedAt = s.State()
	rs.warnings = s.Log().CountCategory("warn", "")
	rs.errors = s.Log().CountCategory("error", "")
	return rs, nil
}

// countEvents tallies drained session notifications, keeping the queue empty
// between ticks the way an interactive front end does.
func (rs *runStats) countEvents(events []game.Event) {
	for _, e := range events {
		switch e.Kind {
		case game.EventAttack:
			rs.attacks++
		case game.EventUnitDied:
			rs.deaths++
		}
	}
}

func printRun(rs runStats, verbose bool) {
	fmt.Printf("--- Run %d (seed=%d run=%s) ---\n", rs.runIndex, rs.seed, rs.runID)
	fmt.Printf("floor=%d rounds=%d end_state=%s stalled=%v skips=%d warnings=%d errors=%d\n",
		rs.floor, rs.rounds, rs.finishedAt, rs.stalled, rs.skips, rs.warnings, rs.errors)
	fmt.Printf("attacks=%d deaths=%d\n", rs.attacks, rs.deaths)
	fmt.Printf("picks: %s\n", formatCounts(rs.picks))
	if verbose {
		for _, r := range rs.reports {
			fmt.Print(r.Format())
		}
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	floors := make([]int, 0, len(all))
	roundTicks := make([]int, 0)
	picks := map[string]int{}
	stalls, wins, losses, mutual := 0, 0, 0, 0

	for _, rs := range all {
		floors = append(floors, rs.floor)
		if rs.stalled {
			stalls++
		}
		for name, n := range rs.picks {
			picks[name] += n
		}
		for _, r := range rs.reports {
			roundTicks = append(roundTicks, r.Ticks)
			switch r.Outcome {
			case game.OutcomePlayerVictory:
				wins++
			case game.OutcomeEnemyVictory:
				losses++
				if r.Description == "mutual_annihilation" {
					mutual++
				}
			}
		}
	}

	fmt.Printf("=== Aggregate (%d runs) ===\n", len(all))
	fmt.Printf("floor: avg=%.2f median=%d max=%d\n", avgInts(floors), medianInt(floors), maxInt(floors))
	fmt.Printf("floor_histogram: %s\n", formatHistogram(floors))
	fmt.Printf("rounds: won=%d lost=%d mutual_annihilation=%d stalled_runs=%d\n", wins, losses, mutual, stalls)
	fmt.Printf("round_ticks: avg=%.1f median=%d max=%d\n", avgInts(roundTicks), medianInt(roundTicks), maxInt(roundTicks))
	fmt.Printf("picks: %s\n", formatCounts(picks))
}

func avgInts(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}

func medianInt(vals []int) int {
	if len(vals) == 0 {
		return 0
	}
	s := append([]int(nil), vals...)
	sort.Ints(s)
	return s[len(s)/2]
}

func maxInt(vals []int) int {
	m := 0
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}

// formatHistogram renders value counts in ascending value order, e.g. "0:1 3:2".
func formatHistogram(vals []int) string {
	counts := map[int]int{}
	for _, v := range vals {
		counts[v]++
	}
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d:%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

// formatCounts renders name counts by descending count, then name.
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", n, counts[n]))
	}
	return strings.Join(parts, " ")
}
