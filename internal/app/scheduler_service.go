// Package app contains the application services implementing the primary
// ports. Services validate through the core guard packages, then drive the
// repositories; they hold no state of their own.
package app

import (
	"context"
	"fmt"

	"github.com/example/tracker/internal/core/task"
	"github.com/example/tracker/internal/errs"
	"github.com/example/tracker/internal/ports/primary"
	"github.com/example/tracker/internal/ports/secondary"
)

// maxFieldLen caps free-text fields at write time so an unattended agent
// loop cannot grow storage without bound.
const maxFieldLen = 2000

// SchedulerServiceImpl implements the SchedulerService interface.
type SchedulerServiceImpl struct {
	taskRepo secondary.TaskRepository
}

// NewSchedulerService creates a new SchedulerService with injected
// dependencies.
func NewSchedulerService(taskRepo secondary.TaskRepository) *SchedulerServiceImpl {
	return &SchedulerServiceImpl{taskRepo: taskRepo}
}

// CreateTask creates a new task. Validation (score ranges, prerequisite
// existence, cycle detection) runs before any write; a task with no
// prerequisites starts eligible, otherwise pending.
func (s *SchedulerServiceImpl) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.CreateTaskResponse, error) {
	// candidateID predicts the id for the guards; the insert itself
	// allocates the real id atomically, so racing creators cannot collide.
	candidateID, err := s.taskRepo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate task id: %w", err)
	}

	prereqExists := make(map[int64]bool, len(req.Prerequisites))
	statuses, err := s.taskRepo.StatusesOf(ctx, req.Prerequisites)
	if err != nil {
		return nil, fmt.Errorf("failed to validate prerequisites: %w", err)
	}
	for id := range statuses {
		prereqExists[id] = true
	}

	graph, err := s.taskRepo.PrerequisiteGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prerequisite graph: %w", err)
	}

	guard := task.CanCreate(task.CreateContext{
		CandidateID:   candidateID,
		Impact:        req.Impact,
		Urgency:       req.Urgency,
		Effort:        req.Effort,
		Prerequisites: req.Prerequisites,
		PrereqExists:  prereqExists,
		Graph:         graph,
	})
	if !guard.Allowed {
		return nil, errs.Validationf("%s", guard.Reason)
	}

	status := task.StatusPending
	if len(req.Prerequisites) == 0 {
		status = task.StatusEligible
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	record := &secondary.TaskRecord{
		Title:         clipText(req.Title),
		Description:   clipText(req.Description),
		Status:        string(status),
		Priority:      priority,
		Prerequisites: req.Prerequisites,
		Impact:        req.Impact,
		Urgency:       req.Urgency,
		Effort:        req.Effort,
		AutoComplete:  req.AutoComplete,
		Criteria:      clipText(req.Criteria),
	}

	if err := s.taskRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.taskRepo.GetByID(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created task: %w", err)
	}

	return &primary.CreateTaskResponse{
		TaskID: created.ID,
		Task:   recordToTask(created),
	}, nil
}

// GetTask retrieves a task by id.
func (s *SchedulerServiceImpl) GetTask(ctx context.Context, taskID int64) (*primary.Task, error) {
	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return recordToTask(record), nil
}

// ListTasks lists tasks ordered by ROI descending, ties by id ascending.
func (s *SchedulerServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	if filters.Status != "" {
		if _, err := task.ParseStatus(filters.Status); err != nil {
			return nil, errs.Validationf("%s", err.Error())
		}
	}

	records, err := s.taskRepo.List(ctx, secondary.TaskFilters{Status: filters.Status})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*primary.Task, len(records))
	for i, r := range records {
		tasks[i] = recordToTask(r)
	}

	// Insertion sort keeps the id-ascending order stable within ROI ties
	// (records arrive ordered by id already).
	for i := 1; i < len(tasks); i++ {
		for j := i; j > 0 && tasks[j].ROI > tasks[j-1].ROI; j-- {
			tasks[j], tasks[j-1] = tasks[j-1], tasks[j]
		}
	}

	return tasks, nil
}

// StartTask starts an eligible task. Blocked starts return a structured
// result carrying the unmet prerequisite ids; nothing is mutated on block.
func (s *SchedulerServiceImpl) StartTask(ctx context.Context, taskID int64) (*primary.StartResult, error) {
	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	statuses, err := s.taskRepo.StatusesOf(ctx, record.Prerequisites)
	if err != nil {
		return nil, fmt.Errorf("failed to check prerequisites: %w", err)
	}
	statusByID := make(map[int64]task.Status, len(statuses))
	for id, st := range statuses {
		statusByID[id] = task.Status(st)
	}
	unmet := task.Unmet(record.Prerequisites, statusByID)

	guard := task.CanStart(task.StartContext{
		TaskID: taskID,
		Status: task.Status(record.Status),
		Unmet:  unmet,
	})
	if !guard.Allowed {
		return &primary.StartResult{Started: false, Reason: guard.Reason, Unmet: unmet}, nil
	}

	// Conditional claim: loses gracefully if another caller started the
	// task between the read above and this write.
	claimed, err := s.taskRepo.StartEligible(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return &primary.StartResult{
			Started: false,
			Reason:  fmt.Sprintf("task %d was claimed by another caller", taskID),
		}, nil
	}

	return &primary.StartResult{Started: true}, nil
}

// CompleteTask marks a task done and reports which pending dependents the
// cascade promoted to eligible.
func (s *SchedulerServiceImpl) CompleteTask(ctx context.Context, taskID int64) (*primary.CompleteResult, error) {
	outcome, err := s.taskRepo.Complete(ctx, taskID)
	if err != nil {
		return nil, err
	}

	warning := task.CompleteWarning(task.Status(outcome.Previous))
	return &primary.CompleteResult{
		Unblocked: outcome.Unblocked,
		Warning:   warning,
	}, nil
}

// NextBestTask returns the highest-ROI eligible task, ties broken by lowest
// id. A nil task means nothing to do, which is not an error.
func (s *SchedulerServiceImpl) NextBestTask(ctx context.Context) (*primary.Task, error) {
	records, err := s.taskRepo.List(ctx, secondary.TaskFilters{Status: string(task.StatusEligible)})
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible tasks: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	ranked := make([]task.Ranked, len(records))
	for i, r := range records {
		ranked[i] = task.Ranked{ID: r.ID, Impact: r.Impact, Urgency: r.Urgency, Effort: r.Effort}
	}

	best := task.PickBest(ranked)
	return recordToTask(records[best]), nil
}

// MarkReview puts a task into review. The transition table is consulted,
// so a completed task is never moved back.
func (s *SchedulerServiceImpl) MarkReview(ctx context.Context, taskID int64) error {
	return s.markStatus(ctx, taskID, task.StatusReview)
}

// MarkEligible puts a task into eligible. Beyond the transition table,
// every prerequisite must already be done.
func (s *SchedulerServiceImpl) MarkEligible(ctx context.Context, taskID int64) error {
	return s.markStatus(ctx, taskID, task.StatusEligible)
}

// markStatus performs a direct status move guarded by the transition table.
// Re-marking the current status is a no-op.
func (s *SchedulerServiceImpl) markStatus(ctx context.Context, taskID int64, to task.Status) error {
	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.Status(record.Status) == to {
		return nil
	}

	var unmet []int64
	if to == task.StatusEligible {
		statuses, err := s.taskRepo.StatusesOf(ctx, record.Prerequisites)
		if err != nil {
			return fmt.Errorf("failed to check prerequisites: %w", err)
		}
		statusByID := make(map[int64]task.Status, len(statuses))
		for id, st := range statuses {
			statusByID[id] = task.Status(st)
		}
		unmet = task.Unmet(record.Prerequisites, statusByID)
	}

	guard := task.CanMark(task.MarkContext{
		TaskID: taskID,
		From:   task.Status(record.Status),
		To:     to,
		Unmet:  unmet,
	})
	if !guard.Allowed {
		return errs.Validationf("%s", guard.Reason)
	}

	return s.taskRepo.UpdateStatus(ctx, taskID, string(to), false, false)
}

// recordToTask converts a storage record to the external task view,
// computing the ROI score on the way out.
func recordToTask(r *secondary.TaskRecord) *primary.Task {
	return &primary.Task{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Status:        r.Status,
		Priority:      r.Priority,
		Prerequisites: r.Prerequisites,
		Impact:        r.Impact,
		Urgency:       r.Urgency,
		Effort:        r.Effort,
		ROI:           task.ROI(r.Impact, r.Urgency, r.Effort),
		AutoComplete:  r.AutoComplete,
		Criteria:      r.Criteria,
		CreatedAt:     r.CreatedAt,
		StartedAt:     r.StartedAt,
		CompletedAt:   r.CompletedAt,
	}
}

// clipText caps free text at maxFieldLen runes.
func clipText(s string) string {
	runes := []rune(s)
	if len(runes) <= maxFieldLen {
		return s
	}
	return string(runes[:maxFieldLen])
}

// Ensure SchedulerServiceImpl implements the interface
var _ primary.SchedulerService = (*SchedulerServiceImpl)(nil)
