package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/tracker/internal/errs"
	"github.com/example/tracker/internal/ports/secondary"
)

// JournalRepository implements secondary.JournalRepository with SQLite.
// Both tables are append-only; there is no update or delete path for
// decision rows, and only the handled flag mutates on events.
type JournalRepository struct {
	db *sql.DB
}

// NewJournalRepository creates a new SQLite journal repository.
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// AppendDecision appends a decision log entry.
func (r *JournalRepository) AppendDecision(ctx context.Context, rec *secondary.DecisionRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO decision_log (task_id, decision, reasoning, outcome) VALUES (?, ?, ?, ?)",
		rec.TaskID, rec.Decision, rec.Reasoning, rec.Outcome,
	)
	if err != nil {
		return fmt.Errorf("failed to append decision: %w", err)
	}
	return nil
}

// ListDecisions retrieves recent decisions, newest first. taskID 0 means
// all tasks.
func (r *JournalRepository) ListDecisions(ctx context.Context, taskID int64, limit int) ([]*secondary.DecisionRecord, error) {
	query := "SELECT id, task_id, decision, reasoning, outcome, created_at FROM decision_log"
	args := []any{}

	if taskID != 0 {
		query += " WHERE task_id = ?"
		args = append(args, taskID)
	}

	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []*secondary.DecisionRecord
	for rows.Next() {
		var (
			decision  sql.NullString
			reasoning sql.NullString
			outcome   sql.NullString
			createdAt time.Time
		)
		record := &secondary.DecisionRecord{}
		if err := rows.Scan(&record.ID, &record.TaskID, &decision, &reasoning, &outcome, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		record.Decision = decision.String
		record.Reasoning = reasoning.String
		record.Outcome = outcome.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		decisions = append(decisions, record)
	}

	return decisions, rows.Err()
}

// AppendEvent appends an event log entry.
func (r *JournalRepository) AppendEvent(ctx context.Context, rec *secondary.EventRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO event_log (event_type, payload, handled) VALUES (?, ?, 0)",
		rec.EventType, rec.Payload,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// ListEvents retrieves recent events, newest first.
func (r *JournalRepository) ListEvents(ctx context.Context, limit int) ([]*secondary.EventRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, event_type, payload, handled, created_at FROM event_log ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.EventRecord
	for rows.Next() {
		var (
			eventType sql.NullString
			payload   sql.NullString
			createdAt time.Time
		)
		record := &secondary.EventRecord{}
		if err := rows.Scan(&record.ID, &eventType, &payload, &record.Handled, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		record.EventType = eventType.String
		record.Payload = payload.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		events = append(events, record)
	}

	return events, rows.Err()
}

// MarkEventHandled flips the handled flag on an event.
func (r *JournalRepository) MarkEventHandled(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE event_log SET handled = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark event handled: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.NotFound("event", id)
	}

	return nil
}

// Ensure JournalRepository implements the interface
var _ secondary.JournalRepository = (*JournalRepository)(nil)
