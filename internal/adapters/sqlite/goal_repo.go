package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/tracker/internal/errs"
	"github.com/example/tracker/internal/ports/secondary"
)

// GoalRepository implements secondary.GoalRepository with SQLite.
type GoalRepository struct {
	db *sql.DB
}

// NewGoalRepository creates a new SQLite goal repository.
func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalSelectCols = "id, description, status, source, tasks_generated, created_at, updated_at"

// scanGoal scans a goal row into a GoalRecord.
func scanGoal(scanner interface {
	Scan(dest ...any) error
}) (*secondary.GoalRecord, error) {
	var (
		source    sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.GoalRecord{}
	err := scanner.Scan(
		&record.ID, &record.Description, &record.Status, &source,
		&record.TasksGenerated, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Source = source.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// Create persists a new goal and returns its id.
func (r *GoalRepository) Create(ctx context.Context, goal *secondary.GoalRecord) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO goals (description, status, source, tasks_generated) VALUES (?, 'active', ?, 0)",
		goal.Description, goal.Source,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create goal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read goal id: %w", err)
	}

	return id, nil
}

// GetByID retrieves a goal by its id.
func (r *GoalRepository) GetByID(ctx context.Context, id int64) (*secondary.GoalRecord, error) {
	record, err := scanGoal(r.db.QueryRowContext(ctx,
		"SELECT "+goalSelectCols+" FROM goals WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("goal", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	return record, nil
}

// List retrieves goals matching the given filters, ordered by id.
func (r *GoalRepository) List(ctx context.Context, filters secondary.GoalFilters) ([]*secondary.GoalRecord, error) {
	query := "SELECT " + goalSelectCols + " FROM goals WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.UntaskedOnly {
		query += " AND tasks_generated = 0"
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*secondary.GoalRecord
	for rows.Next() {
		record, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, record)
	}

	return goals, rows.Err()
}

// MarkTasked flags a goal as decomposed into tasks.
func (r *GoalRepository) MarkTasked(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE goals SET tasks_generated = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark goal tasked: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.NotFound("goal", id)
	}

	return nil
}

// Complete marks a goal completed.
func (r *GoalRepository) Complete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE goals SET status = 'completed', updated_at = CURRENT_TIMESTAMP WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete goal: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.NotFound("goal", id)
	}

	return nil
}

// Ensure GoalRepository implements the interface
var _ secondary.GoalRepository = (*GoalRepository)(nil)
