package notify

import (
	"context"
	"fmt"

	"github.com/example/tracker/internal/ports/primary"
	"github.com/example/tracker/internal/ports/secondary"
)

// InboundMessage is the minimal view of an external message the intake
// needs: a monotonically increasing id and the sender-authored text.
type InboundMessage struct {
	ID       int64
	SenderID int64
	Text     string
}

// Source fetches inbound messages newer than the given watermark.
type Source interface {
	FetchSince(ctx context.Context, lastID int64) ([]InboundMessage, error)
}

// Intake turns inbound operator messages into goals, deduplicated by the
// per-session inbound cursor so a message is ingested exactly once across
// repeated runs.
type Intake struct {
	goals      primary.GoalService
	cursor     secondary.SessionStateRepository
	source     Source
	sessionKey string
	allowed    map[int64]struct{}
}

// NewIntake creates a goal intake for one session. An empty allow-list
// rejects everything.
func NewIntake(goals primary.GoalService, cursor secondary.SessionStateRepository, source Source, sessionKey string, allowedSenders []int64) *Intake {
	allowed := make(map[int64]struct{}, len(allowedSenders))
	for _, id := range allowedSenders {
		allowed[id] = struct{}{}
	}
	return &Intake{
		goals:      goals,
		cursor:     cursor,
		source:     source,
		sessionKey: sessionKey,
		allowed:    allowed,
	}
}

// Run performs one intake pass and returns how many goals were created.
// The cursor only advances past a message once it has been ingested (or
// rejected by the allow-list), so a failure mid-batch resumes cleanly.
func (i *Intake) Run(ctx context.Context) (int, error) {
	lastID, err := i.cursor.InboundLastTS(ctx, i.sessionKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read inbound cursor: %w", err)
	}

	messages, err := i.source.FetchSince(ctx, lastID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch inbound messages: %w", err)
	}

	created := 0
	for _, msg := range messages {
		if msg.ID <= lastID {
			continue
		}
		if _, ok := i.allowed[msg.SenderID]; ok && msg.Text != "" {
			if _, err := i.goals.AddGoal(ctx, msg.Text, "telegram"); err != nil {
				return created, fmt.Errorf("failed to ingest goal: %w", err)
			}
			created++
		}
		lastID = msg.ID
		if err := i.cursor.SetInboundLastTS(ctx, i.sessionKey, lastID); err != nil {
			return created, fmt.Errorf("failed to advance inbound cursor: %w", err)
		}
	}

	return created, nil
}
