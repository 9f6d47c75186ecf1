package app

import (
	"context"
	"fmt"

	"github.com/example/tracker/internal/errs"
	"github.com/example/tracker/internal/ports/primary"
	"github.com/example/tracker/internal/ports/secondary"
)

// GoalServiceImpl implements the GoalService interface.
type GoalServiceImpl struct {
	goalRepo secondary.GoalRepository
}

// NewGoalService creates a new GoalService with injected dependencies.
func NewGoalService(goalRepo secondary.GoalRepository) *GoalServiceImpl {
	return &GoalServiceImpl{goalRepo: goalRepo}
}

// AddGoal creates an active goal and returns its id.
func (s *GoalServiceImpl) AddGoal(ctx context.Context, description, source string) (int64, error) {
	if description == "" {
		return 0, errs.Validationf("goal description is required")
	}
	if source == "" {
		source = "user"
	}

	id, err := s.goalRepo.Create(ctx, &secondary.GoalRecord{
		Description: clipText(description),
		Source:      source,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add goal: %w", err)
	}
	return id, nil
}

// ActiveGoals lists all active goals.
func (s *GoalServiceImpl) ActiveGoals(ctx context.Context) ([]*primary.Goal, error) {
	return s.listGoals(ctx, secondary.GoalFilters{Status: "active"})
}

// UntaskedGoals lists active goals not yet decomposed into tasks.
func (s *GoalServiceImpl) UntaskedGoals(ctx context.Context) ([]*primary.Goal, error) {
	return s.listGoals(ctx, secondary.GoalFilters{Status: "active", UntaskedOnly: true})
}

// MarkTasked flags a goal as decomposed.
func (s *GoalServiceImpl) MarkTasked(ctx context.Context, goalID int64) error {
	return s.goalRepo.MarkTasked(ctx, goalID)
}

// CompleteGoal marks a goal completed. Goal completion is independent of
// the statuses of any tasks generated from it.
func (s *GoalServiceImpl) CompleteGoal(ctx context.Context, goalID int64) error {
	return s.goalRepo.Complete(ctx, goalID)
}

func (s *GoalServiceImpl) listGoals(ctx context.Context, filters secondary.GoalFilters) ([]*primary.Goal, error) {
	records, err := s.goalRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	goals := make([]*primary.Goal, len(records))
	for i, r := range records {
		goals[i] = &primary.Goal{
			ID:             r.ID,
			Description:    r.Description,
			Status:         r.Status,
			Source:         r.Source,
			TasksGenerated: r.TasksGenerated,
			CreatedAt:      r.CreatedAt,
		}
	}
	return goals, nil
}

// Ensure GoalServiceImpl implements the interface
var _ primary.GoalService = (*GoalServiceImpl)(nil)
