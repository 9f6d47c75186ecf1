// Package task contains the pure business logic for the task scheduler:
// the status machine, ROI scoring, and prerequisite resolution.
// Functions here evaluate rules without side effects; persistence is the
// adapters' concern.
package task

import "fmt"

// Status is the closed set of task lifecycle states.
type Status string

// Task status values. Done is stored as "completed" for compatibility with
// exported data; it is terminal.
const (
	StatusPending    Status = "pending"
	StatusEligible   Status = "eligible"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "completed"
)

// transitions is the exhaustive legal-transition table.
// eligible → pending is representable (a prerequisite becoming newly
// required) even though no current operation exercises it.
var transitions = map[Status][]Status{
	StatusPending:    {StatusEligible},
	StatusEligible:   {StatusInProgress, StatusPending},
	StatusInProgress: {StatusReview, StatusDone},
	StatusReview:     {StatusDone, StatusInProgress},
	StatusDone:       {},
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusEligible, StatusInProgress, StatusReview, StatusDone:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}
