package primary

import "context"

// GoalService manages high-level goals. Goals and their generated tasks
// have independent lifecycles; decomposition is an external concern.
type GoalService interface {
	// AddGoal creates an active goal and returns its id.
	AddGoal(ctx context.Context, description, source string) (int64, error)

	// ActiveGoals lists all active goals.
	ActiveGoals(ctx context.Context) ([]*Goal, error)

	// UntaskedGoals lists active goals not yet decomposed into tasks.
	UntaskedGoals(ctx context.Context) ([]*Goal, error)

	// MarkTasked flags a goal as decomposed.
	MarkTasked(ctx context.Context, goalID int64) error

	// CompleteGoal marks a goal completed, independent of its tasks.
	CompleteGoal(ctx context.Context, goalID int64) error
}

// Goal is the external view of a goal.
type Goal struct {
	ID             int64
	Description    string
	Status         string
	Source         string
	TasksGenerated bool
	CreatedAt      string
}
