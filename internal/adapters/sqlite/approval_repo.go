package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/tracker/internal/ports/secondary"
)

// ApprovalRepository implements secondary.ApprovalRepository with SQLite.
type ApprovalRepository struct {
	db *sql.DB
}

// NewApprovalRepository creates a new SQLite approval repository.
func NewApprovalRepository(db *sql.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

// Create inserts a new pending approval request.
func (r *ApprovalRepository) Create(ctx context.Context, approval *secondary.ApprovalRecord) error {
	var sessionKey sql.NullString
	if approval.SessionKey != "" {
		sessionKey = sql.NullString{String: approval.SessionKey, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO approvals (task_id, status, session_key, requested_at_ms) VALUES (?, 'pending', ?, ?)`,
		approval.TaskID, sessionKey, approval.RequestedAtMs,
	)
	if err != nil {
		return fmt.Errorf("failed to create approval: %w", err)
	}

	return nil
}

// Latest retrieves the most recent approval for a task, nil if none.
func (r *ApprovalRepository) Latest(ctx context.Context, taskID int64) (*secondary.ApprovalRecord, error) {
	record, err := scanApproval(r.db.QueryRowContext(ctx,
		`SELECT id, task_id, status, session_key, requested_at_ms, decided_at_ms, decision_text, created_at
		 FROM approvals WHERE task_id = ? ORDER BY id DESC LIMIT 1`,
		taskID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get approval: %w", err)
	}

	return record, nil
}

// Pending retrieves all pending requests ordered by request time ascending.
// This FIFO ordering is the contract the notification batcher relies on.
func (r *ApprovalRepository) Pending(ctx context.Context) ([]*secondary.ApprovalRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, status, session_key, requested_at_ms, decided_at_ms, decision_text, created_at
		 FROM approvals WHERE status = 'pending' ORDER BY requested_at_ms ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	defer rows.Close()

	var approvals []*secondary.ApprovalRecord
	for rows.Next() {
		record, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		approvals = append(approvals, record)
	}

	return approvals, rows.Err()
}

// Resolve updates the most recent pending request for the task. Targeting
// only the latest pending row makes replays idempotent: a second resolve
// finds nothing pending and reports false.
func (r *ApprovalRepository) Resolve(ctx context.Context, taskID int64, status, decisionText string, decidedAtMs int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE approvals
		 SET status = ?, decided_at_ms = ?, decision_text = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = (SELECT id FROM approvals WHERE task_id = ? AND status = 'pending' ORDER BY id DESC LIMIT 1)`,
		status, decidedAtMs, decisionText, taskID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to resolve approval: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected == 1, nil
}

// TaskExists checks if a task exists.
func (r *ApprovalRepository) TaskExists(ctx context.Context, taskID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE id = ?", taskID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check task existence: %w", err)
	}
	return count > 0, nil
}

// scanApproval scans an approval row into an ApprovalRecord.
func scanApproval(scanner interface {
	Scan(dest ...any) error
}) (*secondary.ApprovalRecord, error) {
	var (
		sessionKey   sql.NullString
		requestedAt  sql.NullInt64
		decidedAt    sql.NullInt64
		decisionText sql.NullString
		createdAt    time.Time
	)

	record := &secondary.ApprovalRecord{}
	err := scanner.Scan(
		&record.ID, &record.TaskID, &record.Status, &sessionKey,
		&requestedAt, &decidedAt, &decisionText, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.SessionKey = sessionKey.String
	record.RequestedAtMs = requestedAt.Int64
	record.DecidedAtMs = decidedAt.Int64
	record.DecisionText = decisionText.String
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

// Ensure ApprovalRepository implements the interface
var _ secondary.ApprovalRepository = (*ApprovalRepository)(nil)
