// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/tracker/internal/core/task"
	"github.com/example/tracker/internal/errs"
	"github.com/example/tracker/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskSelectCols = "id, title, description, status, priority, prerequisites, impact_score, urgency_score, effort_score, auto_complete, completion_criteria, created_at, updated_at, started_at, completed_at"

// scanTask scans a task row into a TaskRecord.
func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TaskRecord, error) {
	var (
		desc        sql.NullString
		priority    sql.NullString
		prereqs     sql.NullString
		criteria    sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		startedAt   sql.NullTime
		completedAt sql.NullTime
	)

	record := &secondary.TaskRecord{}
	err := scanner.Scan(
		&record.ID, &record.Title, &desc, &record.Status, &priority, &prereqs,
		&record.Impact, &record.Urgency, &record.Effort,
		&record.AutoComplete, &criteria,
		&createdAt, &updatedAt, &startedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Description = desc.String
	record.Priority = priority.String
	record.Criteria = criteria.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	if startedAt.Valid {
		record.StartedAt = startedAt.Time.Format(time.RFC3339)
	}
	if completedAt.Valid {
		record.CompletedAt = completedAt.Time.Format(time.RFC3339)
	}

	ids, err := task.ParsePrerequisites(prereqs.String)
	if err != nil {
		return nil, fmt.Errorf("task %d has corrupt prerequisites: %w", record.ID, err)
	}
	record.Prerequisites = ids

	return record, nil
}

// Create persists a new task. A zero id is allocated by the insert itself,
// so two racing creators cannot collide on the primary key; the assigned id
// is written back to the record.
func (r *TaskRepository) Create(ctx context.Context, rec *secondary.TaskRecord) error {
	var desc, criteria sql.NullString
	if rec.Description != "" {
		desc = sql.NullString{String: rec.Description, Valid: true}
	}
	if rec.Criteria != "" {
		criteria = sql.NullString{String: rec.Criteria, Valid: true}
	}

	args := []any{
		rec.Title, desc, rec.Status, rec.Priority,
		task.FormatPrerequisites(rec.Prerequisites),
		rec.Impact, rec.Urgency, rec.Effort, rec.AutoComplete, criteria,
	}

	idExpr := "(SELECT COALESCE(MAX(id), 0) + 1 FROM tasks)"
	if rec.ID != 0 {
		idExpr = "?"
		args = append([]any{rec.ID}, args...)
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, status, priority, prerequisites, impact_score, urgency_score, effort_score, auto_complete, completion_criteria)
		 VALUES (`+idExpr+`, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if rec.ID == 0 {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read created task id: %w", err)
		}
		rec.ID = id
	}

	return nil
}

// GetByID retrieves a task by its id.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*secondary.TaskRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+taskSelectCols+" FROM tasks WHERE id = ?",
		id,
	)

	record, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return record, nil
}

// List retrieves tasks matching the given filters, ordered by id.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	query := "SELECT " + taskSelectCols + " FROM tasks WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}

	return tasks, rows.Err()
}

// NextID returns the id the next created task will receive.
func (r *TaskRepository) NextID(ctx context.Context) (int64, error) {
	var maxID int64
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM tasks").Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to get next task id: %w", err)
	}
	return maxID + 1, nil
}

// PrerequisiteGraph returns task id → prerequisite ids for all tasks.
func (r *TaskRepository) PrerequisiteGraph(ctx context.Context) (map[int64][]int64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, prerequisites FROM tasks")
	if err != nil {
		return nil, fmt.Errorf("failed to load prerequisite graph: %w", err)
	}
	defer rows.Close()

	graph := make(map[int64][]int64)
	for rows.Next() {
		var id int64
		var prereqs sql.NullString
		if err := rows.Scan(&id, &prereqs); err != nil {
			return nil, fmt.Errorf("failed to scan prerequisite row: %w", err)
		}
		ids, err := task.ParsePrerequisites(prereqs.String)
		if err != nil {
			return nil, fmt.Errorf("task %d has corrupt prerequisites: %w", id, err)
		}
		graph[id] = ids
	}

	return graph, rows.Err()
}

// StatusesOf returns the status of each existing id in ids. Missing ids are
// simply absent from the result.
func (r *TaskRepository) StatusesOf(ctx context.Context, ids []int64) (map[int64]string, error) {
	statuses := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return statuses, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, status FROM tasks WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load task statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		statuses[id] = status
	}

	return statuses, rows.Err()
}

// UpdateStatus writes a status with optional timestamps.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id int64, status string, setStarted, setCompleted bool) error {
	query := "UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP"
	args := []any{status}

	if setStarted {
		query += ", started_at = CURRENT_TIMESTAMP"
	}
	if setCompleted {
		query += ", completed_at = CURRENT_TIMESTAMP"
	}

	query += " WHERE id = ?"
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.NotFound("task", id)
	}

	return nil
}

// StartEligible atomically claims an eligible task. The conditional UPDATE
// is the lost-update guard: two callers racing to start the same task
// cannot both see a row change.
func (r *TaskRepository) StartEligible(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET status = ?, started_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?",
		string(task.StatusInProgress), id, string(task.StatusEligible),
	)
	if err != nil {
		return false, fmt.Errorf("failed to start task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected == 1, nil
}

// Complete marks a task done and promotes newly satisfied pending
// dependents. The status write and the one-hop cascade run in a single
// transaction so an eligible task can never be observed with unsatisfied
// prerequisites. A task already done is left untouched.
func (r *TaskRepository) Complete(ctx context.Context, id int64) (*secondary.CompleteOutcome, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin completion: %w", err)
	}
	defer tx.Rollback()

	var previous string
	err = tx.QueryRowContext(ctx, "SELECT status FROM tasks WHERE id = ?", id).Scan(&previous)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read task status: %w", err)
	}

	outcome := &secondary.CompleteOutcome{Previous: previous}
	if task.Status(previous) == task.StatusDone {
		outcome.AlreadyDone = true
		return outcome, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE tasks SET status = ?, completed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(task.StatusDone), id,
	); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	// Snapshot all statuses inside the transaction; the just-completed
	// task already reads as done here.
	statusByID := make(map[int64]task.Status)
	rows, err := tx.QueryContext(ctx, "SELECT id, status FROM tasks")
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot task statuses: %w", err)
	}
	for rows.Next() {
		var tid int64
		var status string
		if err := rows.Scan(&tid, &status); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		statusByID[tid] = task.Status(status)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to snapshot task statuses: %w", err)
	}

	// One-hop cascade: only direct dependents currently pending are
	// considered. Transitive unblocking happens on later completions.
	type pendingTask struct {
		id      int64
		prereqs []int64
	}
	var pending []pendingTask
	rows, err = tx.QueryContext(ctx,
		"SELECT id, prerequisites FROM tasks WHERE status = ? ORDER BY id ASC",
		string(task.StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending tasks: %w", err)
	}
	for rows.Next() {
		var tid int64
		var prereqs sql.NullString
		if err := rows.Scan(&tid, &prereqs); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan pending row: %w", err)
		}
		ids, err := task.ParsePrerequisites(prereqs.String)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("task %d has corrupt prerequisites: %w", tid, err)
		}
		pending = append(pending, pendingTask{id: tid, prereqs: ids})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan pending tasks: %w", err)
	}

	for _, p := range pending {
		depends := false
		for _, pre := range p.prereqs {
			if pre == id {
				depends = true
				break
			}
		}
		if !depends {
			continue
		}
		if ok, _ := task.Satisfied(p.prereqs, statusByID); !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			string(task.StatusEligible), p.id,
		); err != nil {
			return nil, fmt.Errorf("failed to promote task %d: %w", p.id, err)
		}
		outcome.Unblocked = append(outcome.Unblocked, p.id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}

	return outcome, nil
}

// Ensure TaskRepository implements the interface
var _ secondary.TaskRepository = (*TaskRepository)(nil)
