package game

import (
	"math/rand"
	"testing"
)

func meanEnemyCount(rng *rand.Rand, cfg Config, floor, n int) float64 {
	sum := 0
	for i := 0; i < n; i++ {
		c := enemyUnitCount(rng, cfg, floor)
		if c < 1 {
			return -1
		}
		sum += c
	}
	return float64(sum) / float64(n)
}

func TestEnemyUnitCount_ScalesWithFloor(t *testing.T) {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(11)) // #nosec G404 -- test

	low := meanEnemyCount(rng, cfg, 1, 4000)
	high := meanEnemyCount(rng, cfg, 20, 4000)
	if low < 0 || high < 0 {
		t.Fatal("sampled a count below 1")
	}
	// floor 1: base 6, floor 20: base 25; truncation shaves about half a unit
	if low < 5 || low > 6.5 {
		t.Errorf("expected floor 1 mean ~5.5, got %.2f", low)
	}
	if high < 23.5 || high > 25.5 {
		t.Errorf("expected floor 20 mean ~24.5, got %.2f", high)
	}
}

func TestUpgradeEnemy_QueuesOneEffect(t *testing.T) {
	s := newEmptySession(t, DefaultConfig())
	apply(s, TeamEnemy, Effect{Kind: EffectAddSquad, Squad: SquadSpec{Unit: UnitKnight, Count: 5}})

	s.upgradeEnemy()
	if len(s.effects) != 1 {
		t.Fatalf("expected 1 queued, got %d", len(s.effects))
	}
	ev := s.effects[0]
	if ev.Team != TeamEnemy {
		t.Errorf("expected team enemy, got %s", ev.Team)
	}
	if ev.Effect.Kind != EffectReinforce && ev.Effect.Kind != EffectAddSquad {
		t.Errorf("kind = %s", ev.Effect.Kind)
	}
}

func TestUpgradeEnemy_WeightsFavourReinforce(t *testing.T) {
	s := newEmptySession(t, DefaultConfig())
	apply(s, TeamEnemy, Effect{Kind: EffectAddSquad, Squad: SquadSpec{Unit: UnitKnight, Count: 5}})
	// one filled slot (weight 2) vs two open slots (weight 1 each): even odds

	reinforce := 0
	const trials = 4000
	for i := 0; i < trials; i++ {
		s.effects = nil
		s.upgradeEnemy()
		if s.effects[0].Effect.Kind == EffectReinforce {
			reinforce++
		}
	}
	frac := float64(reinforce) / trials
	if frac < 0.45 || frac > 0.55 {
		t.Errorf("expected reinforce fraction ~0.5, got %.3f", frac)
	}
}

func TestUpgradeEnemy_EmptyPoolWarns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialRows = 0
	s := newEmptySession(t, cfg)

	s.upgradeEnemy()
	if len(s.effects) != 0 {
		t.Errorf("queued %d effects with no enemy slots", len(s.effects))
	}
	if !s.log.HasEntry("warn", "no_upgrade", "") {
		t.Error("missing no_upgrade warning")
	}
}
