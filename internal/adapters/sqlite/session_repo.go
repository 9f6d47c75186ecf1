package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/tracker/internal/ports/secondary"
)

// SessionStateRepository implements secondary.SessionStateRepository with
// SQLite. Both cursors are upserted per session key.
type SessionStateRepository struct {
	db *sql.DB
}

// NewSessionStateRepository creates a new SQLite session state repository.
func NewSessionStateRepository(db *sql.DB) *SessionStateRepository {
	return &SessionStateRepository{db: db}
}

// InboundLastTS returns the last seen inbound message id for a session.
func (r *SessionStateRepository) InboundLastTS(ctx context.Context, sessionKey string) (int64, error) {
	var ts int64
	err := r.db.QueryRowContext(ctx,
		"SELECT last_ts FROM inbound_state WHERE session_key = ?", sessionKey,
	).Scan(&ts)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read inbound cursor: %w", err)
	}
	return ts, nil
}

// SetInboundLastTS upserts the inbound watermark.
func (r *SessionStateRepository) SetInboundLastTS(ctx context.Context, sessionKey string, ts int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inbound_state (session_key, last_ts, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(session_key) DO UPDATE SET
			last_ts = excluded.last_ts,
			updated_at = excluded.updated_at`,
		sessionKey, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to write inbound cursor: %w", err)
	}
	return nil
}

// LastBatchSentMs returns when an approval batch was last sent for a
// session.
func (r *SessionStateRepository) LastBatchSentMs(ctx context.Context, sessionKey string) (int64, error) {
	var ms int64
	err := r.db.QueryRowContext(ctx,
		"SELECT last_batch_sent_ms FROM approval_state WHERE session_key = ?", sessionKey,
	).Scan(&ms)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read approval batch cursor: %w", err)
	}
	return ms, nil
}

// SetLastBatchSentMs upserts the batch watermark.
func (r *SessionStateRepository) SetLastBatchSentMs(ctx context.Context, sessionKey string, ms int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO approval_state (session_key, last_batch_sent_ms, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(session_key) DO UPDATE SET
			last_batch_sent_ms = excluded.last_batch_sent_ms,
			updated_at = excluded.updated_at`,
		sessionKey, ms,
	)
	if err != nil {
		return fmt.Errorf("failed to write approval batch cursor: %w", err)
	}
	return nil
}

// Ensure SessionStateRepository implements the interface
var _ secondary.SessionStateRepository = (*SessionStateRepository)(nil)
