package invoice

import "fmt"

// Status represents the lifecycle state of an invoice.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return true
	}

	return false
}

// transitions is the single source of truth for legal status changes. Paid
// is terminal.
var transitions = map[Status][]Status{
	StatusDraft:   {StatusSent},
	StatusSent:    {StatusPaid, StatusOverdue},
	StatusOverdue: {StatusPaid},
	StatusPaid:    {},
}

// CanTransitionTo reports whether moving from s to target is legal.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}

	return false
}

// Transition validates a status change. Every code path that changes an
// invoice's status goes through here.
func (s Status) Transition(target Status) (Status, error) {
	if !target.Valid() {
		return s, fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, target)
	}

	if !s.CanTransitionTo(target) {
		if s == StatusPaid {
			return s, ErrImmutable
		}

		return s, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, target)
	}

	return target, nil
}
