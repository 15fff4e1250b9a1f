package fulfillment

import (
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// InvalidTransitionError is returned when a target status is not reachable
// from the current one.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// TransitionTable is an immutable adjacency list of legal status changes.
// Values are safe to share between goroutines.
type TransitionTable struct {
	edges map[Status][]Status
}

var defaultTransitionTable = mustTransitionTable(map[Status][]Status{
	Pending:        {Assigned, Cancelled},
	Assigned:       {Picking, Cancelled},
	Picking:        {Picked, Failed, Cancelled},
	Picked:         {Packing, Failed, Cancelled},
	Packing:        {Packed, Failed, Cancelled},
	Packed:         {ReadyToShip, Failed, Cancelled},
	ReadyToShip:    {Shipped, Failed, Cancelled},
	Shipped:        {InTransit, Delivered, Failed},
	InTransit:      {OutForDelivery, Delivered, Failed},
	OutForDelivery: {Delivered, Failed},
	Delivered:      {Returned},
	Failed:         {},
	Cancelled:      {},
	Returned:       {},
})

// DefaultTransitionTable returns the fulfillment lifecycle.
func DefaultTransitionTable() TransitionTable {
	return defaultTransitionTable
}

// NewTransitionTable copies edges into a new table. Every status used as a
// key or target must be valid.
func NewTransitionTable(edges map[Status][]Status) (TransitionTable, error) {
	copied := make(map[Status][]Status, len(edges))
	for from, targets := range edges {
		if err := from.Validate(); err != nil {
			return TransitionTable{}, err
		}
		for _, to := range targets {
			if err := to.Validate(); err != nil {
				return TransitionTable{}, err
			}
		}
		copied[from] = slices.Clone(targets)
	}
	return TransitionTable{edges: copied}, nil
}

func mustTransitionTable(edges map[Status][]Status) TransitionTable {
	t, err := NewTransitionTable(edges)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TransitionTable) CanTransition(from, to Status) bool {
	return slices.Contains(t.edges[from], to)
}

// Targets returns a copy of the statuses reachable from `from` in one step.
func (t TransitionTable) Targets(from Status) []Status {
	return slices.Clone(t.edges[from])
}

// Check returns an InvalidTransitionError unless from -> to is legal.
func (t TransitionTable) Check(from, to Status) error {
	if !t.CanTransition(from, to) {
		return NewInvalidTransitionError(from, to)
	}
	return nil
}

func (t TransitionTable) IsEmpty() bool {
	return len(t.edges) == 0
}
