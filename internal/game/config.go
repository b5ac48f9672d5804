package game

// Config holds the tunables shared by every simulation component.
type Config struct {
	ArenaWidth  float64 // world units, both territories plus the gap
	ArenaHeight float64
	TeamGap     float64 // no-man's land between the two territories

	InitialRows    int
	InitialColumns int
	MaxRows        int
	MaxColumns     int

	InitialUnits int // size of the opening player squad
	NumChoices   int // reward cards offered per victory

	TicksPerSecond int
	Seed           int64 // 0 = time-based
}

// DefaultConfig returns the stock arena and progression settings.
func DefaultConfig() Config {
	return Config{
		ArenaWidth:     500,
		ArenaHeight:    300,
		TeamGap:        75,
		InitialRows:    3,
		InitialColumns: 1,
		MaxRows:        5,
		MaxColumns:     3,
		InitialUnits:   10,
		NumChoices:     3,
		TicksPerSecond: 60,
	}
}

// TickDelta returns the fixed simulation step in seconds.
func (c Config) TickDelta() float64 {
	if c.TicksPerSecond <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TicksPerSecond)
}

// territoryWidth is the width of one team's half, excluding half the gap.
func (c Config) territoryWidth() float64 {
	return c.ArenaWidth/2 - c.TeamGap/2
}

func (c Config) columnWidth() float64 {
	if c.MaxColumns <= 0 {
		return c.territoryWidth()
	}
	return c.territoryWidth() / float64(c.MaxColumns)
}

func (c Config) rowHeight() float64 {
	if c.MaxRows <= 0 {
		return c.ArenaHeight
	}
	return c.ArenaHeight / float64(c.MaxRows)
}
