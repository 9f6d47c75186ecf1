package primary

import "context"

// JournalService appends to the decision and event logs. Both are
// append-only audit trails; an event's handled flag is the only mutable
// field anywhere in the journal.
type JournalService interface {
	// LogDecision appends a decision entry for a task.
	LogDecision(ctx context.Context, taskID int64, decision, reasoning, outcome string) error

	// Decisions lists recent decisions, newest first. taskID 0 means all.
	Decisions(ctx context.Context, taskID int64, limit int) ([]*Decision, error)

	// LogEvent appends an event entry.
	LogEvent(ctx context.Context, eventType, payload string) error

	// Events lists recent events, newest first.
	Events(ctx context.Context, limit int) ([]*Event, error)

	// MarkEventHandled flips an event's handled flag.
	MarkEventHandled(ctx context.Context, eventID int64) error
}

// Decision is the external view of a decision log entry.
type Decision struct {
	ID        int64
	TaskID    int64
	Decision  string
	Reasoning string
	Outcome   string
	CreatedAt string
}

// Event is the external view of an event log entry.
type Event struct {
	ID        int64
	EventType string
	Payload   string
	Handled   bool
	CreatedAt string
}
