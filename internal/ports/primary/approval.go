package primary

import "context"

// ApprovalService is the approval gate: it serializes sensitive task
// transitions behind a pending/approved/rejected workflow.
type ApprovalService interface {
	// RequestApproval inserts a pending request for a task. It does not
	// transition the task; callers pair it with SchedulerService.MarkReview.
	// The caller is also responsible for not double-requesting; creation
	// does not check for an existing pending row.
	RequestApproval(ctx context.Context, taskID int64, sessionKey string) error

	// ResolveApproval resolves the most recent pending request for a
	// task. Returns false when no pending request existed (a no-op).
	// Decision text is truncated to a bounded length before storage.
	ResolveApproval(ctx context.Context, taskID int64, outcome, decisionText string) (bool, error)

	// PendingApprovals returns all pending requests, FIFO by request
	// time. This ordering is the contract the notification batcher relies
	// on.
	PendingApprovals(ctx context.Context) ([]*Approval, error)

	// LatestApproval returns the most recent request for a task, nil if
	// none.
	LatestApproval(ctx context.Context, taskID int64) (*Approval, error)

	// LastBatchSentMs reads the per-session batch notification watermark.
	LastBatchSentMs(ctx context.Context, sessionKey string) (int64, error)

	// SetLastBatchSentMs writes the per-session batch notification
	// watermark. Timing policy belongs to the external notifier, not the
	// gate.
	SetLastBatchSentMs(ctx context.Context, sessionKey string, ms int64) error
}

// Approval is the external view of an approval request.
type Approval struct {
	TaskID        int64
	Status        string
	SessionKey    string
	RequestedAtMs int64
	DecidedAtMs   int64
	DecisionText  string
}
