package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestRarity_Weights(t *testing.T) {
	want := map[Rarity]int{RarityCommon: 6, RarityRare: 4, RarityEpic: 2, RarityLegendary: 1}
	for r, w := range want {
		if got := r.Weight(); got != w {
			t.Errorf("%s: expected weight %d, got %d", r, w, got)
		}
	}
	if Rarity(99).Weight() != 0 {
		t.Errorf("unknown rarity should weigh 0")
	}
}

func TestCatalogue_ColumnCopiesFollowGrid(t *testing.T) {
	c := NewCatalogue(DefaultConfig())
	it, ok := c.Find("Column")
	if !ok {
		t.Fatal("Column missing")
	}
	if it.Copies != 2 {
		t.Errorf("expected Column copies max-initial = 2, got %d", it.Copies)
	}
}

func TestCatalogue_OpenSlotRequirement(t *testing.T) {
	c := NewCatalogue(DefaultConfig())
	for _, it := range c.weightedPool(0) {
		if it.Effect.Kind == EffectAddSquad {
			t.Fatalf("%s offered with no open slot", it.Name)
		}
	}
	found := false
	for _, it := range c.weightedPool(1) {
		if it.Name == "Knight Squad" {
			found = true
		}
	}
	if !found {
		t.Error("Knight Squad missing from pool with an open slot")
	}
}

func TestCatalogue_PoolSizeIsWeightSum(t *testing.T) {
	c := NewCatalogue(DefaultConfig())
	want := 0
	for _, it := range c.Items() {
		want += it.Rarity.Weight()
	}
	if got := len(c.weightedPool(3)); got != want {
		t.Errorf("expected pool size %d, got %d", want, got)
	}
}

func TestCatalogue_DrawWithReplacement(t *testing.T) {
	c := NewCatalogue(DefaultConfig())
	// leave only Row in the pool
	for _, it := range c.Items() {
		if it.Name != "Row" {
			it.Copies = 0
		}
	}
	rng := rand.New(rand.NewSource(3)) // #nosec G404 -- test
	got := c.DrawChoices(rng, 3, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 choices, got %d", len(got))
	}
	for _, it := range got {
		if it.Name != "Row" {
			t.Errorf("expected choice Row, got %s", it.Name)
		}
	}
}

func TestCatalogue_EmptyPool(t *testing.T) {
	c := NewCatalogue(DefaultConfig())
	for _, it := range c.Items() {
		it.Copies = 0
	}
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- test
	if got := c.DrawChoices(rng, 3, 3); got != nil {
		t.Errorf("expected nil choices from an empty pool, got %v", got)
	}
}

func TestCatalogue_DrawFrequencyFollowsWeight(t *testing.T) {
	c := NewCatalogue(DefaultConfig())
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- test
	total := 0
	for _, it := range c.Items() {
		total += it.Rarity.Weight()
	}

	const draws = 20000
	counts := map[string]int{}
	for _, it := range c.DrawChoices(rng, draws, 1) {
		counts[it.Name]++
	}
	for _, it := range c.Items() {
		want := float64(it.Rarity.Weight()) / float64(total)
		got := float64(counts[it.Name]) / draws
		if math.Abs(got-want) > 0.02 {
			t.Errorf("%s: expected frequency ~%.3f, got %.3f", it.Name, want, got)
		}
	}
}

func TestCatalogue_ConsumeLevelsThenCopies(t *testing.T) {
	c := NewCatalogue(DefaultConfig())
	coffee, _ := c.Find("Coffee")

	c.Consume(coffee)
	c.Consume(coffee)
	if coffee.Level != 2 || coffee.Copies != 1 {
		t.Fatalf("expected level=2 copies=1 after 2 picks, got level=%d copies=%d", coffee.Level, coffee.Copies)
	}
	c.Consume(coffee)
	if coffee.Level != 0 || coffee.Copies != 0 {
		t.Fatalf("expected level=0 copies=0 after 3 picks, got level=%d copies=%d", coffee.Level, coffee.Copies)
	}
	for _, it := range c.weightedPool(3) {
		if it == coffee {
			t.Fatal("exhausted Coffee still in pool")
		}
	}
}

func TestCatalogue_KnightSquadExhaustsAfterSixPicks(t *testing.T) {
	c := NewCatalogue(DefaultConfig())
	ks, _ := c.Find("Knight Squad")
	for i := 0; i < 6; i++ {
		if !ks.eligible(1) {
			t.Fatalf("ineligible after %d picks", i)
		}
		c.Consume(ks)
	}
	if ks.Copies != 0 || ks.eligible(1) {
		t.Errorf("expected copies=0 eligible=false after 6 picks, got copies=%d eligible=%v", ks.Copies, ks.eligible(1))
	}
}

func TestCatalogue_ResetRestores(t *testing.T) {
	c := NewCatalogue(DefaultConfig())
	ks, _ := c.Find("Knight Squad")
	c.Consume(ks)
	c.Reset()
	ks, _ = c.Find("Knight Squad")
	if ks.Copies != 6 {
		t.Errorf("expected 6 copies after reset, got %d", ks.Copies)
	}
}
