package game

import "fmt"

// EventKind identifies a notification emitted by the simulation.
type EventKind int

const (
	EventAttack     EventKind = iota // a unit landed a hit
	EventUnitDied                    // a unit's health reached zero
	EventRoundState                  // the round lifecycle changed state
)

func (k EventKind) String() string {
	switch k {
	case EventAttack:
		return "attack"
	case EventUnitDied:
		return "unit_died"
	case EventRoundState:
		return "round_state"
	default:
		return "unknown"
	}
}

// Event is a notification for presentation collaborators. Fields that do not
// apply to the kind are zero.
type Event struct {
	Kind     EventKind
	Tick     int
	Attacker int  // roster ID (EventAttack)
	Target   int  // roster ID (EventAttack, EventUnitDied)
	Team     Team // team of Target
	Pos      Vec2 // Target position at emission
	Damage   float64
	State    RoundState // new state (EventRoundState)
}

func (e Event) String() string {
	switch e.Kind {
	case EventAttack:
		return fmt.Sprintf("[T=%03d] attack %d -> %d (%.0f)", e.Tick, e.Attacker, e.Target, e.Damage)
	case EventUnitDied:
		return fmt.Sprintf("[T=%03d] died %d (%s)", e.Tick, e.Target, e.Team)
	case EventRoundState:
		return fmt.Sprintf("[T=%03d] state %s", e.Tick, e.State)
	default:
		return fmt.Sprintf("[T=%03d] %s", e.Tick, e.Kind)
	}
}

// EventQueue is a FIFO of notifications. The simulation is the only producer;
// a consumer drains it once per frame and receives events in emission order.
type EventQueue struct {
	events []Event
}

// Push appends an event.
func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

// Drain returns all pending events and empties the queue.
func (q *EventQueue) Drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int { return len(q.events) }
