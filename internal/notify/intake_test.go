package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/example/tracker/internal/ports/primary"
)

// fakeGoalService records ingested goals.
type fakeGoalService struct {
	added  []string
	addErr error
}

func (f *fakeGoalService) AddGoal(ctx context.Context, description, source string) (int64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	f.added = append(f.added, description)
	return int64(len(f.added)), nil
}

func (f *fakeGoalService) ActiveGoals(ctx context.Context) ([]*primary.Goal, error)   { return nil, nil }
func (f *fakeGoalService) UntaskedGoals(ctx context.Context) ([]*primary.Goal, error) { return nil, nil }
func (f *fakeGoalService) MarkTasked(ctx context.Context, goalID int64) error         { return nil }
func (f *fakeGoalService) CompleteGoal(ctx context.Context, goalID int64) error       { return nil }

// fakeCursor is an in-memory SessionStateRepository.
type fakeCursor struct {
	inbound map[string]int64
	batch   map[string]int64
}

func newFakeCursor() *fakeCursor {
	return &fakeCursor{inbound: make(map[string]int64), batch: make(map[string]int64)}
}

func (f *fakeCursor) InboundLastTS(ctx context.Context, sessionKey string) (int64, error) {
	return f.inbound[sessionKey], nil
}

func (f *fakeCursor) SetInboundLastTS(ctx context.Context, sessionKey string, ts int64) error {
	f.inbound[sessionKey] = ts
	return nil
}

func (f *fakeCursor) LastBatchSentMs(ctx context.Context, sessionKey string) (int64, error) {
	return f.batch[sessionKey], nil
}

func (f *fakeCursor) SetLastBatchSentMs(ctx context.Context, sessionKey string, ms int64) error {
	f.batch[sessionKey] = ms
	return nil
}

// fakeSource serves a fixed message list filtered by watermark.
type fakeSource struct {
	messages []InboundMessage
	fetchErr error
}

func (f *fakeSource) FetchSince(ctx context.Context, lastID int64) ([]InboundMessage, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []InboundMessage
	for _, m := range f.messages {
		if m.ID > lastID {
			out = append(out, m)
		}
	}
	return out, nil
}

func TestIntake_IngestsAllowedMessages(t *testing.T) {
	goals := &fakeGoalService{}
	cursor := newFakeCursor()
	source := &fakeSource{messages: []InboundMessage{
		{ID: 1, SenderID: 100, Text: "Refactor the importer"},
		{ID: 2, SenderID: 999, Text: "spam"},
		{ID: 3, SenderID: 100, Text: ""},
		{ID: 4, SenderID: 100, Text: "Write release notes"},
	}}
	intake := NewIntake(goals, cursor, source, "session-a", []int64{100})

	created, err := intake.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if created != 2 {
		t.Errorf("expected 2 goals, got %d", created)
	}
	if len(goals.added) != 2 || goals.added[0] != "Refactor the importer" || goals.added[1] != "Write release notes" {
		t.Errorf("unexpected goals: %v", goals.added)
	}
	// Cursor advanced past everything, rejected messages included.
	if cursor.inbound["session-a"] != 4 {
		t.Errorf("cursor = %d, want 4", cursor.inbound["session-a"])
	}
}

func TestIntake_SecondRunIsIdempotent(t *testing.T) {
	goals := &fakeGoalService{}
	cursor := newFakeCursor()
	source := &fakeSource{messages: []InboundMessage{
		{ID: 1, SenderID: 100, Text: "Only once"},
	}}
	intake := NewIntake(goals, cursor, source, "session-a", []int64{100})

	for i := 0; i < 2; i++ {
		if _, err := intake.Run(context.Background()); err != nil {
			t.Fatalf("Run %d failed: %v", i, err)
		}
	}

	if len(goals.added) != 1 {
		t.Errorf("expected the message ingested exactly once, got %d", len(goals.added))
	}
}

func TestIntake_EmptyAllowListRejectsEverything(t *testing.T) {
	goals := &fakeGoalService{}
	cursor := newFakeCursor()
	source := &fakeSource{messages: []InboundMessage{
		{ID: 1, SenderID: 100, Text: "Should be dropped"},
	}}
	intake := NewIntake(goals, cursor, source, "session-a", nil)

	created, err := intake.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if created != 0 {
		t.Errorf("expected 0 goals, got %d", created)
	}
	// Rejected messages still advance the cursor so they are not refetched.
	if cursor.inbound["session-a"] != 1 {
		t.Errorf("cursor = %d, want 1", cursor.inbound["session-a"])
	}
}

func TestIntake_MidBatchFailureResumes(t *testing.T) {
	goals := &fakeGoalService{}
	cursor := newFakeCursor()
	source := &fakeSource{messages: []InboundMessage{
		{ID: 1, SenderID: 100, Text: "First"},
		{ID: 2, SenderID: 100, Text: "Second"},
	}}
	intake := NewIntake(goals, cursor, source, "session-a", []int64{100})

	// First message succeeds, then ingestion starts failing.
	failAfter := errors.New("db locked")
	goals.addErr = nil
	if _, err := intake.Run(context.Background()); err != nil {
		t.Fatalf("setup run failed: %v", err)
	}
	if len(goals.added) != 2 {
		t.Fatalf("setup expected 2 goals, got %d", len(goals.added))
	}

	// New message arrives; the service is down.
	source.messages = append(source.messages, InboundMessage{ID: 3, SenderID: 100, Text: "Third"})
	goals.addErr = failAfter

	if _, err := intake.Run(context.Background()); err == nil {
		t.Fatal("expected error from failing goal service")
	}
	// Cursor did not advance past the failed message.
	if cursor.inbound["session-a"] != 2 {
		t.Errorf("cursor = %d, want 2", cursor.inbound["session-a"])
	}

	// Recovery picks the failed message back up.
	goals.addErr = nil
	created, err := intake.Run(context.Background())
	if err != nil {
		t.Fatalf("recovery run failed: %v", err)
	}
	if created != 1 || goals.added[len(goals.added)-1] != "Third" {
		t.Errorf("expected the failed message to be retried, created=%d goals=%v", created, goals.added)
	}
}
