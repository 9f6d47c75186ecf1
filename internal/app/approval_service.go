package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/tracker/internal/core/approval"
	"github.com/example/tracker/internal/errs"
	"github.com/example/tracker/internal/ports/primary"
	"github.com/example/tracker/internal/ports/secondary"
)

// ApprovalServiceImpl implements the ApprovalService interface.
type ApprovalServiceImpl struct {
	approvalRepo secondary.ApprovalRepository
	sessionRepo  secondary.SessionStateRepository
	now          func() time.Time
}

// NewApprovalService creates a new ApprovalService with injected
// dependencies.
func NewApprovalService(
	approvalRepo secondary.ApprovalRepository,
	sessionRepo secondary.SessionStateRepository,
) *ApprovalServiceImpl {
	return &ApprovalServiceImpl{
		approvalRepo: approvalRepo,
		sessionRepo:  sessionRepo,
		now:          time.Now,
	}
}

// RequestApproval inserts a pending request. The task's status is not
// touched; callers pair this with the scheduler's MarkReview. The gate does
// not check for an existing pending row; callers own the responsibility of
// not double-requesting.
func (s *ApprovalServiceImpl) RequestApproval(ctx context.Context, taskID int64, sessionKey string) error {
	exists, err := s.approvalRepo.TaskExists(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to validate task: %w", err)
	}
	if !exists {
		return errs.NotFound("task", taskID)
	}

	return s.approvalRepo.Create(ctx, &secondary.ApprovalRecord{
		TaskID:        taskID,
		Status:        approval.OutcomePending,
		SessionKey:    sessionKey,
		RequestedAtMs: s.now().UnixMilli(),
	})
}

// ResolveApproval resolves the most recent pending request for a task.
// Returns false with no error when nothing was pending: resolution is
// idempotent against replays.
func (s *ApprovalServiceImpl) ResolveApproval(ctx context.Context, taskID int64, outcome, decisionText string) (bool, error) {
	if guard := approval.CanResolve(approval.ResolveContext{TaskID: taskID, Outcome: outcome}); !guard.Allowed {
		return false, errs.Validationf("%s", guard.Reason)
	}

	return s.approvalRepo.Resolve(ctx, taskID, outcome,
		approval.TruncateDecision(decisionText), s.now().UnixMilli())
}

// PendingApprovals returns all pending requests, FIFO by request time.
func (s *ApprovalServiceImpl) PendingApprovals(ctx context.Context) ([]*primary.Approval, error) {
	records, err := s.approvalRepo.Pending(ctx)
	if err != nil {
		return nil, err
	}

	approvals := make([]*primary.Approval, len(records))
	for i, r := range records {
		approvals[i] = recordToApproval(r)
	}
	return approvals, nil
}

// LatestApproval returns the most recent request for a task, nil if none.
func (s *ApprovalServiceImpl) LatestApproval(ctx context.Context, taskID int64) (*primary.Approval, error) {
	record, err := s.approvalRepo.Latest(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return recordToApproval(record), nil
}

// LastBatchSentMs reads the per-session batch notification watermark.
func (s *ApprovalServiceImpl) LastBatchSentMs(ctx context.Context, sessionKey string) (int64, error) {
	return s.sessionRepo.LastBatchSentMs(ctx, sessionKey)
}

// SetLastBatchSentMs writes the per-session batch notification watermark.
func (s *ApprovalServiceImpl) SetLastBatchSentMs(ctx context.Context, sessionKey string, ms int64) error {
	return s.sessionRepo.SetLastBatchSentMs(ctx, sessionKey, ms)
}

func recordToApproval(r *secondary.ApprovalRecord) *primary.Approval {
	return &primary.Approval{
		TaskID:        r.TaskID,
		Status:        r.Status,
		SessionKey:    r.SessionKey,
		RequestedAtMs: r.RequestedAtMs,
		DecidedAtMs:   r.DecidedAtMs,
		DecisionText:  r.DecisionText,
	}
}

// Ensure ApprovalServiceImpl implements the interface
var _ primary.ApprovalService = (*ApprovalServiceImpl)(nil)
