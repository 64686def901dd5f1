package domain

import "fmt"

// Event names a state machine transition.
type Event string

// Transition is one row of a state machine table.
type Transition[S ~string] struct {
	Event   Event
	Sources []S
	Target  S
}

// Machine is a table-driven finite state machine for one entity kind.
type Machine[S ~string] struct {
	entity string
	table  []Transition[S]
}

// NewMachine builds a machine from its transition table.
func NewMachine[S ~string](entity string, table ...Transition[S]) Machine[S] {
	return Machine[S]{entity: entity, table: table}
}

// Fire returns the target state for event from current, or ErrInvalidTransition.
func (m Machine[S]) Fire(current S, event Event) (S, error) {
	for _, t := range m.table {
		if t.Event != event {
			continue
		}
		for _, src := range t.Sources {
			if src == current {
				return t.Target, nil
			}
		}
	}
	return current, fmt.Errorf("%w: cannot %s %s in state %s", ErrInvalidTransition, event, m.entity, current)
}

// Can reports whether event is legal from current.
func (m Machine[S]) Can(current S, event Event) bool {
	_, err := m.Fire(current, event)
	return err == nil
}
