// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application drives
// the record store. The store exclusively owns persisted state; records are
// transient projections rebuilt per operation, never cached across calls.
package secondary

import "context"

// TaskRecord represents a task as stored in persistence.
type TaskRecord struct {
	ID            int64
	Title         string
	Description   string
	Status        string
	Priority      string
	Prerequisites []int64
	Impact        int
	Urgency       int
	Effort        int
	AutoComplete  bool
	Criteria      string
	CreatedAt     string
	UpdatedAt     string
	StartedAt     string
	CompletedAt   string
}

// TaskFilters contains filter options for querying tasks.
type TaskFilters struct {
	Status string
}

// CompleteOutcome reports what a completion changed: the status the task
// held before the write, and the ids promoted to eligible by the one-hop
// cascade (direct dependents only).
type CompleteOutcome struct {
	Previous    string
	AlreadyDone bool
	Unblocked   []int64
}

// TaskRepository defines the secondary port for task persistence.
type TaskRepository interface {
	// Create persists a new task. A zero id is allocated atomically inside
	// the insert and written back to the record; a non-zero id is used as
	// given.
	Create(ctx context.Context, task *TaskRecord) error

	// GetByID retrieves a task by its id.
	GetByID(ctx context.Context, id int64) (*TaskRecord, error)

	// List retrieves tasks matching the given filters, ordered by id.
	List(ctx context.Context, filters TaskFilters) ([]*TaskRecord, error)

	// NextID returns the id the next created task will receive.
	NextID(ctx context.Context) (int64, error)

	// PrerequisiteGraph returns task id → prerequisite ids for all tasks.
	PrerequisiteGraph(ctx context.Context) (map[int64][]int64, error)

	// StatusesOf returns the status of each existing id in ids.
	// Missing ids are absent from the result, not errors.
	StatusesOf(ctx context.Context, ids []int64) (map[int64]string, error)

	// UpdateStatus writes a status with optional timestamps.
	UpdateStatus(ctx context.Context, id int64, status string, setStarted, setCompleted bool) error

	// StartEligible atomically claims an eligible task for work. Returns
	// false without mutating when the task is not currently eligible.
	StartEligible(ctx context.Context, id int64) (bool, error)

	// Complete marks a task done and promotes newly satisfied pending
	// dependents within the same transaction. Completing an already done
	// task leaves the row untouched.
	Complete(ctx context.Context, id int64) (*CompleteOutcome, error)
}

// GoalRecord represents a high-level goal as stored in persistence.
type GoalRecord struct {
	ID             int64
	Description    string
	Status         string
	Source         string
	TasksGenerated bool
	CreatedAt      string
	UpdatedAt      string
}

// GoalFilters contains filter options for querying goals.
type GoalFilters struct {
	Status       string
	UntaskedOnly bool
}

// GoalRepository defines the secondary port for goal persistence.
type GoalRepository interface {
	// Create persists a new goal and returns its id.
	Create(ctx context.Context, goal *GoalRecord) (int64, error)

	// GetByID retrieves a goal by its id.
	GetByID(ctx context.Context, id int64) (*GoalRecord, error)

	// List retrieves goals matching the given filters, ordered by id.
	List(ctx context.Context, filters GoalFilters) ([]*GoalRecord, error)

	// MarkTasked flags a goal as decomposed into tasks.
	MarkTasked(ctx context.Context, id int64) error

	// Complete marks a goal completed.
	Complete(ctx context.Context, id int64) error
}

// ApprovalRecord represents an approval request as stored in persistence.
type ApprovalRecord struct {
	ID            int64
	TaskID        int64
	Status        string
	SessionKey    string
	RequestedAtMs int64
	DecidedAtMs   int64
	DecisionText  string
	CreatedAt     string
}

// ApprovalRepository defines the secondary port for approval persistence.
type ApprovalRepository interface {
	// Create inserts a new pending approval request.
	Create(ctx context.Context, approval *ApprovalRecord) error

	// Latest retrieves the most recent approval for a task, nil if none.
	Latest(ctx context.Context, taskID int64) (*ApprovalRecord, error)

	// Pending retrieves all pending requests ordered by request time
	// ascending (FIFO).
	Pending(ctx context.Context) ([]*ApprovalRecord, error)

	// Resolve updates the most recent pending request for the task.
	// Returns false when no pending request exists (a no-op, not an error).
	Resolve(ctx context.Context, taskID int64, status, decisionText string, decidedAtMs int64) (bool, error)

	// TaskExists checks if a task exists.
	TaskExists(ctx context.Context, taskID int64) (bool, error)
}

// DecisionRecord is an append-only audit entry; never mutated or deleted.
type DecisionRecord struct {
	ID        int64
	TaskID    int64
	Decision  string
	Reasoning string
	Outcome   string
	CreatedAt string
}

// EventRecord is an append-only event entry; handled is its only mutable
// field.
type EventRecord struct {
	ID        int64
	EventType string
	Payload   string
	Handled   bool
	CreatedAt string
}

// JournalRepository defines the secondary port for the decision and event
// logs.
type JournalRepository interface {
	// AppendDecision appends a decision log entry.
	AppendDecision(ctx context.Context, rec *DecisionRecord) error

	// ListDecisions retrieves recent decisions, newest first. taskID 0
	// means all tasks.
	ListDecisions(ctx context.Context, taskID int64, limit int) ([]*DecisionRecord, error)

	// AppendEvent appends an event log entry.
	AppendEvent(ctx context.Context, rec *EventRecord) error

	// ListEvents retrieves recent events, newest first.
	ListEvents(ctx context.Context, limit int) ([]*EventRecord, error)

	// MarkEventHandled flips the handled flag on an event.
	MarkEventHandled(ctx context.Context, id int64) error
}

// SessionStateRepository defines the secondary port for the per-session
// cursors: the inbound message watermark and the approval batch watermark.
// Both are keyed by session and upserted.
type SessionStateRepository interface {
	// InboundLastTS returns the last seen inbound message id for a
	// session, 0 when the session is unknown.
	InboundLastTS(ctx context.Context, sessionKey string) (int64, error)

	// SetInboundLastTS upserts the inbound watermark.
	SetInboundLastTS(ctx context.Context, sessionKey string, ts int64) error

	// LastBatchSentMs returns when an approval batch was last sent for a
	// session, 0 when never.
	LastBatchSentMs(ctx context.Context, sessionKey string) (int64, error)

	// SetLastBatchSentMs upserts the batch watermark.
	SetLastBatchSentMs(ctx context.Context, sessionKey string, ms int64) error
}
