package game

import "math/rand"

// Rarity sets an item's weight in the reward pool.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityWeights = [...]int{
	RarityCommon:    6,
	RarityRare:      4,
	RarityEpic:      2,
	RarityLegendary: 1,
}

// Weight returns the number of pool entries an item of this rarity gets.
func (r Rarity) Weight() int {
	if int(r) < 0 || int(r) >= len(rarityWeights) {
		return 0
	}
	return rarityWeights[r]
}

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// Requirement is an eligibility check evaluated when the pool is built.
type Requirement int

const (
	RequireOpenSlot Requirement = iota // acting team has an unoccupied slot
)

// Item is a reward definition. Level counts picks toward MaxLevel; reaching
// it consumes one copy. An item with zero copies never enters a pool again.
type Item struct {
	Name         string
	Description  string
	Rarity       Rarity
	Copies       int
	Level        int
	MaxLevel     int
	Requirements []Requirement
	Effect       Effect
}

// eligible reports whether the item may be offered to a team with openSlots
// unoccupied slots.
func (it *Item) eligible(openSlots int) bool {
	if it.Copies <= 0 {
		return false
	}
	for _, req := range it.Requirements {
		if req == RequireOpenSlot && openSlots == 0 {
			return false
		}
	}
	return true
}

// Catalogue holds the mutable item definitions for one campaign.
type Catalogue struct {
	cfg   Config
	items []*Item
}

// NewCatalogue builds the stock item set.
func NewCatalogue(cfg Config) *Catalogue {
	c := &Catalogue{cfg: cfg}
	c.Reset()
	return c
}

// Reset restores every item to full copies and level zero.
func (c *Catalogue) Reset() {
	c.items = defaultItems(c.cfg)
}

// Items returns the definitions in catalogue order.
func (c *Catalogue) Items() []*Item { return c.items }

// Find returns the item with the given name.
func (c *Catalogue) Find(name string) (*Item, bool) {
	for _, it := range c.items {
		if it.Name == name {
			return it, true
		}
	}
	return nil, false
}

// weightedPool expands every eligible item into Rarity.Weight() entries.
func (c *Catalogue) weightedPool(openSlots int) []*Item {
	var pool []*Item
	for _, it := range c.items {
		if !it.eligible(openSlots) {
			continue
		}
		for i := 0; i < it.Rarity.Weight(); i++ {
			pool = append(pool, it)
		}
	}
	return pool
}

// DrawChoices draws n items independently, with replacement, from the
// weighted pool. An empty pool yields no choices.
func (c *Catalogue) DrawChoices(rng *rand.Rand, n, openSlots int) []*Item {
	pool := c.weightedPool(openSlots)
	if len(pool) == 0 || n <= 0 {
		return nil
	}
	choices := make([]*Item, n)
	for i := range choices {
		choices[i] = pool[rng.Intn(len(pool))]
	}
	return choices
}

// Consume records one pick of it: the level rises, and on reaching MaxLevel
// one copy is spent and the level starts over.
func (c *Catalogue) Consume(it *Item) {
	it.Level++
	if it.Level >= it.MaxLevel {
		it.Level = 0
		if it.Copies > 0 {
			it.Copies--
		}
	}
}

func defaultItems(cfg Config) []*Item {
	return []*Item{
		{
			Name:        "Coffee",
			Description: "+25% movement speed",
			Rarity:      RarityRare,
			Copies:      1,
			MaxLevel:    3,
			Effect:      Effect{Kind: EffectSpeed, Amount: 0.25},
		},
		{
			Name:         "Knight Squad",
			Description:  "+1 knight squad",
			Rarity:       RarityCommon,
			Copies:       6,
			MaxLevel:     1,
			Requirements: []Requirement{RequireOpenSlot},
			Effect: Effect{Kind: EffectAddSquad, Squad: SquadSpec{
				Unit: UnitKnight, Count: 10, Formation: FormationBox,
			}},
		},
		{
			Name:         "Archer Squad",
			Description:  "+1 archer squad",
			Rarity:       RarityRare,
			Copies:       3,
			MaxLevel:     1,
			Requirements: []Requirement{RequireOpenSlot},
			Effect: Effect{Kind: EffectAddSquad, Squad: SquadSpec{
				Unit: UnitArcher, Count: 8, Formation: FormationPyramid,
			}},
		},
		{
			Name:        "Column",
			Description: "+1 column",
			Rarity:      RarityEpic,
			Copies:      max(cfg.MaxColumns-cfg.InitialColumns, 0),
			MaxLevel:    1,
			Effect:      Effect{Kind: EffectAddColumn},
		},
		{
			Name:        "Row",
			Description: "+1 row",
			Rarity:      RarityRare,
			Copies:      1,
			MaxLevel:    1,
			Effect:      Effect{Kind: EffectAddRow},
		},
		{
			Name:        "War Banner",
			Description: "+25% squad size",
			Rarity:      RarityLegendary,
			Copies:      1,
			MaxLevel:    2,
			Effect:      Effect{Kind: EffectSquadSize, Amount: 0.25},
		},
	}
}
