package app

import (
	"context"
	"fmt"

	"github.com/example/tracker/internal/errs"
	"github.com/example/tracker/internal/ports/primary"
	"github.com/example/tracker/internal/ports/secondary"
)

// defaultJournalLimit bounds listings when the caller passes no limit.
const defaultJournalLimit = 20

// JournalServiceImpl implements the JournalService interface.
type JournalServiceImpl struct {
	journalRepo secondary.JournalRepository
	taskRepo    secondary.TaskRepository
}

// NewJournalService creates a new JournalService with injected
// dependencies.
func NewJournalService(journalRepo secondary.JournalRepository, taskRepo secondary.TaskRepository) *JournalServiceImpl {
	return &JournalServiceImpl{journalRepo: journalRepo, taskRepo: taskRepo}
}

// LogDecision appends a decision entry. The only validation is a non-null
// task reference; the trail itself is free-form.
func (s *JournalServiceImpl) LogDecision(ctx context.Context, taskID int64, decision, reasoning, outcome string) error {
	if taskID == 0 {
		return errs.Validationf("decision log entries require a task id")
	}
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return err
	}

	return s.journalRepo.AppendDecision(ctx, &secondary.DecisionRecord{
		TaskID:    taskID,
		Decision:  clipText(decision),
		Reasoning: clipText(reasoning),
		Outcome:   clipText(outcome),
	})
}

// Decisions lists recent decisions, newest first. taskID 0 means all.
func (s *JournalServiceImpl) Decisions(ctx context.Context, taskID int64, limit int) ([]*primary.Decision, error) {
	if limit <= 0 {
		limit = defaultJournalLimit
	}

	records, err := s.journalRepo.ListDecisions(ctx, taskID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}

	decisions := make([]*primary.Decision, len(records))
	for i, r := range records {
		decisions[i] = &primary.Decision{
			ID:        r.ID,
			TaskID:    r.TaskID,
			Decision:  r.Decision,
			Reasoning: r.Reasoning,
			Outcome:   r.Outcome,
			CreatedAt: r.CreatedAt,
		}
	}
	return decisions, nil
}

// LogEvent appends an event entry.
func (s *JournalServiceImpl) LogEvent(ctx context.Context, eventType, payload string) error {
	return s.journalRepo.AppendEvent(ctx, &secondary.EventRecord{
		EventType: eventType,
		Payload:   clipText(payload),
	})
}

// Events lists recent events, newest first.
func (s *JournalServiceImpl) Events(ctx context.Context, limit int) ([]*primary.Event, error) {
	if limit <= 0 {
		limit = defaultJournalLimit
	}

	records, err := s.journalRepo.ListEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]*primary.Event, len(records))
	for i, r := range records {
		events[i] = &primary.Event{
			ID:        r.ID,
			EventType: r.EventType,
			Payload:   r.Payload,
			Handled:   r.Handled,
			CreatedAt: r.CreatedAt,
		}
	}
	return events, nil
}

// MarkEventHandled flips an event's handled flag.
func (s *JournalServiceImpl) MarkEventHandled(ctx context.Context, eventID int64) error {
	return s.journalRepo.MarkEventHandled(ctx, eventID)
}

// Ensure JournalServiceImpl implements the interface
var _ primary.JournalService = (*JournalServiceImpl)(nil)
