// Package notify contains the external collaborators around the approval
// gate: the batch notifier and the inbound goal intake. Both are one-shot
// drivers invoked by the CLI; the core never initiates work itself. They
// talk to the scheduler exclusively through its public ports, so a network
// failure can never corrupt store state.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/tracker/internal/ports/primary"
)

// Sender delivers a rendered batch message to the operator.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Batcher sends a single notification covering all pending approvals,
// throttled by the per-session batch watermark. The gate owns the
// watermark; the batcher owns the timing policy.
type Batcher struct {
	approvals  primary.ApprovalService
	sender     Sender
	sessionKey string
	window     time.Duration
	now        func() time.Time
}

// NewBatcher creates a batch notifier for one session.
func NewBatcher(approvals primary.ApprovalService, sender Sender, sessionKey string, window time.Duration) *Batcher {
	return &Batcher{
		approvals:  approvals,
		sender:     sender,
		sessionKey: sessionKey,
		window:     window,
		now:        time.Now,
	}
}

// Run performs one notification pass. Returns whether a batch was sent.
// Nothing pending or a still-open throttle window are quiet no-ops.
func (b *Batcher) Run(ctx context.Context) (bool, error) {
	pending, err := b.approvals.PendingApprovals(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load pending approvals: %w", err)
	}
	if len(pending) == 0 {
		return false, nil
	}

	lastSent, err := b.approvals.LastBatchSentMs(ctx, b.sessionKey)
	if err != nil {
		return false, fmt.Errorf("failed to read batch watermark: %w", err)
	}

	nowMs := b.now().UnixMilli()
	if lastSent > 0 && nowMs-lastSent < b.window.Milliseconds() {
		return false, nil
	}

	if err := b.sender.Send(ctx, renderBatch(pending, b.now())); err != nil {
		return false, fmt.Errorf("failed to send approval batch: %w", err)
	}

	// The watermark only advances after a successful send; a delivery
	// failure leaves the batch due on the next pass.
	if err := b.approvals.SetLastBatchSentMs(ctx, b.sessionKey, nowMs); err != nil {
		return true, fmt.Errorf("failed to advance batch watermark: %w", err)
	}

	return true, nil
}

// renderBatch formats the pending queue in FIFO order.
func renderBatch(pending []*primary.Approval, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d task(s) awaiting approval:\n", len(pending))
	for _, a := range pending {
		age := now.Sub(time.UnixMilli(a.RequestedAtMs)).Round(time.Minute)
		fmt.Fprintf(&sb, "• task %d (waiting %s)\n", a.TaskID, age)
	}
	sb.WriteString("Resolve with: tracker approval resolve <task-id> approved|rejected")
	return sb.String()
}
