// Package primary defines the primary ports (driving interfaces) for the
// application. External collaborators — the CLI, the goal-decomposition
// agent, the notification dispatcher — only ever call these.
package primary

import "context"

// SchedulerService is the scheduler facade: task creation, the state
// machine, dependency resolution, and ROI ranking.
type SchedulerService interface {
	// CreateTask creates a new task. Tasks with no prerequisites start
	// eligible, others pending. Fails with a validation error on bad
	// scores, unknown prerequisites, or a prerequisite cycle.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*CreateTaskResponse, error)

	// GetTask retrieves a task by id.
	GetTask(ctx context.Context, taskID int64) (*Task, error)

	// ListTasks lists tasks ordered by ROI descending, ties by id
	// ascending.
	ListTasks(ctx context.Context, filters TaskFilters) ([]*Task, error)

	// StartTask starts an eligible task. A blocked task yields a
	// structured result carrying the unmet prerequisite ids; nothing is
	// mutated on block.
	StartTask(ctx context.Context, taskID int64) (*StartResult, error)

	// CompleteTask marks a task done and reports the exact fan-out of the
	// cascade: which pending dependents became eligible.
	CompleteTask(ctx context.Context, taskID int64) (*CompleteResult, error)

	// NextBestTask returns the highest-ROI eligible task, or nil when
	// there is nothing to do (not an error).
	NextBestTask(ctx context.Context) (*Task, error)

	// MarkReview puts a task into review (used by the approval gate).
	MarkReview(ctx context.Context, taskID int64) error

	// MarkEligible puts a task into eligible (used by the dependency
	// resolver).
	MarkEligible(ctx context.Context, taskID int64) error
}

// Task is the external view of a task, with its ROI score computed on
// demand.
type Task struct {
	ID            int64
	Title         string
	Description   string
	Status        string
	Priority      string
	Prerequisites []int64
	Impact        int
	Urgency       int
	Effort        int
	ROI           float64
	AutoComplete  bool
	Criteria      string
	CreatedAt     string
	StartedAt     string
	CompletedAt   string
}

// CreateTaskRequest carries the task creation parameters.
type CreateTaskRequest struct {
	Title         string
	Description   string
	Priority      string
	Prerequisites []int64
	Impact        int
	Urgency       int
	Effort        int
	AutoComplete  bool
	Criteria      string
}

// CreateTaskResponse returns the created task.
type CreateTaskResponse struct {
	TaskID int64
	Task   *Task
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	Status string
}

// StartResult is the structured outcome of a start attempt. Blocked starts
// are results, not errors, so an autonomous driver can branch without
// exception handling.
type StartResult struct {
	Started bool
	Reason  string
	Unmet   []int64
}

// CompleteResult reports a completion and its cascade fan-out.
type CompleteResult struct {
	Unblocked []int64
	Warning   string
}
