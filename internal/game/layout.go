package game

import (
	"errors"
	"fmt"
)

// ErrGridFull is returned when a row or column would exceed the arena maximum.
var ErrGridFull = errors.New("slot grid at maximum size")

// ErrSlotOccupied is returned when assigning a squad to a slot that has one.
var ErrSlotOccupied = errors.New("slot already holds a squad")

// Slot is a fixed placement cell in a team's grid.
type Slot struct {
	ID     int
	Team   Team
	Row    int
	Column int
	Pos    Vec2 // world position derived from (Team, Row, Column)
	Squad  *Squad
}

// Occupied reports whether a squad is assigned to the slot.
func (s *Slot) Occupied() bool { return s.Squad != nil }

// SlotPosition maps a (row, column) cell to world space. Player territory is
// at positive x, Enemy territory is its mirror image at negative x, and the
// two are separated by cfg.TeamGap.
func SlotPosition(cfg Config, team Team, row, column int) Vec2 {
	colW := cfg.columnWidth()
	rowH := cfg.rowHeight()

	x := cfg.TeamGap/2 + float64(column)*colW + colW/2
	y := float64(row)*rowH + rowH/2 - cfg.ArenaHeight/2
	if team == TeamEnemy {
		x = -x
	}
	return Vec2{X: x, Y: y}
}

// SlotRegistry owns both teams' slot grids. Grids only grow until Reset.
type SlotRegistry struct {
	cfg     Config
	slots   []*Slot
	rows    [2]int
	columns [2]int
	nextID  int
}

// NewSlotRegistry builds a registry with the initial rows x columns per team.
// Initial sizes above the maximum are clamped to it.
func NewSlotRegistry(cfg Config) *SlotRegistry {
	cfg.InitialRows = min(max(cfg.InitialRows, 0), cfg.MaxRows)
	cfg.InitialColumns = min(max(cfg.InitialColumns, 0), cfg.MaxColumns)
	r := &SlotRegistry{cfg: cfg}
	r.Reset()
	return r
}

// Reset despawns every slot and rebuilds the initial grid for both teams.
// Initial slots share the unlock path with AddRow/AddColumn so they share one
// position formula.
func (r *SlotRegistry) Reset() {
	r.slots = nil
	r.rows = [2]int{}
	r.columns = [2]int{}
	r.nextID = 0
	for _, team := range teams {
		for r.columns[team] < r.cfg.InitialColumns {
			r.unlockColumn(team)
		}
		for r.rows[team] < r.cfg.InitialRows {
			r.unlockRow(team)
		}
	}
}

// AddRow unlocks one more row for team and creates a slot for every unlocked
// column in it. It returns the new slots.
func (r *SlotRegistry) AddRow(team Team) ([]*Slot, error) {
	if r.rows[team] >= r.cfg.MaxRows {
		return nil, fmt.Errorf("add row for %s: %w", team, ErrGridFull)
	}
	return r.unlockRow(team), nil
}

// AddColumn unlocks one more column for team and creates a slot for every
// unlocked row in it. It returns the new slots.
func (r *SlotRegistry) AddColumn(team Team) ([]*Slot, error) {
	if r.columns[team] >= r.cfg.MaxColumns {
		return nil, fmt.Errorf("add column for %s: %w", team, ErrGridFull)
	}
	return r.unlockColumn(team), nil
}

func (r *SlotRegistry) unlockRow(team Team) []*Slot {
	row := r.rows[team]
	r.rows[team]++

	created := make([]*Slot, 0, r.columns[team])
	for col := 0; col < r.columns[team]; col++ {
		created = append(created, r.newSlot(team, row, col))
	}
	return created
}

func (r *SlotRegistry) unlockColumn(team Team) []*Slot {
	col := r.columns[team]
	r.columns[team]++

	created := make([]*Slot, 0, r.rows[team])
	for row := 0; row < r.rows[team]; row++ {
		created = append(created, r.newSlot(team, row, col))
	}
	return created
}

func (r *SlotRegistry) newSlot(team Team, row, col int) *Slot {
	s := &Slot{
		ID:     r.nextID,
		Team:   team,
		Row:    row,
		Column: col,
		Pos:    SlotPosition(r.cfg, team, row, col),
	}
	r.nextID++
	r.slots = append(r.slots, s)
	return s
}

// Rows returns the number of unlocked rows for team.
func (r *SlotRegistry) Rows(team Team) int { return r.rows[team] }

// Columns returns the number of unlocked columns for team.
func (r *SlotRegistry) Columns(team Team) int { return r.columns[team] }

// Slot returns the slot with the given ID.
func (r *SlotRegistry) Slot(id int) (*Slot, bool) {
	for _, s := range r.slots {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// All returns every slot of both teams in creation order.
func (r *SlotRegistry) All() []*Slot { return r.slots }

// Slots returns team's slots in creation order.
func (r *SlotRegistry) Slots(team Team) []*Slot {
	var out []*Slot
	for _, s := range r.slots {
		if s.Team == team {
			out = append(out, s)
		}
	}
	return out
}

// OpenSlots returns team's slots without a squad.
func (r *SlotRegistry) OpenSlots(team Team) []*Slot {
	var out []*Slot
	for _, s := range r.slots {
		if s.Team == team && !s.Occupied() {
			out = append(out, s)
		}
	}
	return out
}

// FilledSlots returns team's slots that hold a squad.
func (r *SlotRegistry) FilledSlots(team Team) []*Slot {
	var out []*Slot
	for _, s := range r.slots {
		if s.Team == team && s.Occupied() {
			out = append(out, s)
		}
	}
	return out
}

// Assign binds sq to slot. The squad takes the slot's team and ID.
func (r *SlotRegistry) Assign(slot *Slot, sq *Squad) error {
	if slot.Occupied() {
		return fmt.Errorf("assign %s squad to slot %d: %w", sq.Unit, slot.ID, ErrSlotOccupied)
	}
	sq.Team = slot.Team
	sq.SlotID = slot.ID
	sq.spawned = false
	slot.Squad = sq
	return nil
}
