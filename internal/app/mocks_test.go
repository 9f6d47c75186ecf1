package app

import (
	"context"
	"sort"

	"github.com/example/tracker/internal/core/task"
	"github.com/example/tracker/internal/errs"
	"github.com/example/tracker/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockTaskRepository implements secondary.TaskRepository in memory for
// testing. The cascade in Complete mirrors the real adapter's one-hop
// semantics.
type mockTaskRepository struct {
	tasks     map[int64]*secondary.TaskRecord
	createErr error
	listErr   error
	// claimable controls StartEligible when the task is eligible; lets a
	// test simulate losing the claim race.
	claimDenied bool
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{tasks: make(map[int64]*secondary.TaskRecord)}
}

func (m *mockTaskRepository) Create(ctx context.Context, rec *secondary.TaskRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if rec.ID == 0 {
		id, _ := m.NextID(ctx)
		rec.ID = id
	}
	cp := *rec
	m.tasks[rec.ID] = &cp
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id int64) (*secondary.TaskRecord, error) {
	if t, ok := m.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, errs.NotFound("task", id)
}

func (m *mockTaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.TaskRecord
	for _, t := range m.tasks {
		if filters.Status != "" && t.Status != filters.Status {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockTaskRepository) NextID(ctx context.Context) (int64, error) {
	var maxID int64
	for id := range m.tasks {
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1, nil
}

func (m *mockTaskRepository) PrerequisiteGraph(ctx context.Context) (map[int64][]int64, error) {
	graph := make(map[int64][]int64, len(m.tasks))
	for id, t := range m.tasks {
		graph[id] = t.Prerequisites
	}
	return graph, nil
}

func (m *mockTaskRepository) StatusesOf(ctx context.Context, ids []int64) (map[int64]string, error) {
	statuses := make(map[int64]string, len(ids))
	for _, id := range ids {
		if t, ok := m.tasks[id]; ok {
			statuses[id] = t.Status
		}
	}
	return statuses, nil
}

func (m *mockTaskRepository) UpdateStatus(ctx context.Context, id int64, status string, setStarted, setCompleted bool) error {
	t, ok := m.tasks[id]
	if !ok {
		return errs.NotFound("task", id)
	}
	t.Status = status
	return nil
}

func (m *mockTaskRepository) StartEligible(ctx context.Context, id int64) (bool, error) {
	t, ok := m.tasks[id]
	if !ok || t.Status != string(task.StatusEligible) || m.claimDenied {
		return false, nil
	}
	t.Status = string(task.StatusInProgress)
	return true, nil
}

func (m *mockTaskRepository) Complete(ctx context.Context, id int64) (*secondary.CompleteOutcome, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, errs.NotFound("task", id)
	}

	outcome := &secondary.CompleteOutcome{Previous: t.Status}
	if task.Status(t.Status) == task.StatusDone {
		outcome.AlreadyDone = true
		return outcome, nil
	}
	t.Status = string(task.StatusDone)

	statusByID := make(map[int64]task.Status, len(m.tasks))
	for tid, rec := range m.tasks {
		statusByID[tid] = task.Status(rec.Status)
	}

	var ids []int64
	for tid := range m.tasks {
		ids = append(ids, tid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, tid := range ids {
		dep := m.tasks[tid]
		if task.Status(dep.Status) != task.StatusPending {
			continue
		}
		depends := false
		for _, pre := range dep.Prerequisites {
			if pre == id {
				depends = true
				break
			}
		}
		if !depends {
			continue
		}
		if ok, _ := task.Satisfied(dep.Prerequisites, statusByID); ok {
			dep.Status = string(task.StatusEligible)
			outcome.Unblocked = append(outcome.Unblocked, tid)
		}
	}

	return outcome, nil
}

// mockApprovalRepository implements secondary.ApprovalRepository in memory.
type mockApprovalRepository struct {
	approvals  []*secondary.ApprovalRecord
	nextRowID  int64
	taskExists map[int64]bool
}

func newMockApprovalRepository() *mockApprovalRepository {
	return &mockApprovalRepository{taskExists: make(map[int64]bool)}
}

func (m *mockApprovalRepository) Create(ctx context.Context, rec *secondary.ApprovalRecord) error {
	m.nextRowID++
	cp := *rec
	cp.ID = m.nextRowID
	cp.Status = "pending"
	m.approvals = append(m.approvals, &cp)
	return nil
}

func (m *mockApprovalRepository) Latest(ctx context.Context, taskID int64) (*secondary.ApprovalRecord, error) {
	var latest *secondary.ApprovalRecord
	for _, a := range m.approvals {
		if a.TaskID == taskID && (latest == nil || a.ID > latest.ID) {
			latest = a
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (m *mockApprovalRepository) Pending(ctx context.Context) ([]*secondary.ApprovalRecord, error) {
	var out []*secondary.ApprovalRecord
	for _, a := range m.approvals {
		if a.Status == "pending" {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestedAtMs != out[j].RequestedAtMs {
			return out[i].RequestedAtMs < out[j].RequestedAtMs
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockApprovalRepository) Resolve(ctx context.Context, taskID int64, status, decisionText string, decidedAtMs int64) (bool, error) {
	var target *secondary.ApprovalRecord
	for _, a := range m.approvals {
		if a.TaskID == taskID && a.Status == "pending" && (target == nil || a.ID > target.ID) {
			target = a
		}
	}
	if target == nil {
		return false, nil
	}
	target.Status = status
	target.DecisionText = decisionText
	target.DecidedAtMs = decidedAtMs
	return true, nil
}

func (m *mockApprovalRepository) TaskExists(ctx context.Context, taskID int64) (bool, error) {
	return m.taskExists[taskID], nil
}

// mockSessionRepository implements secondary.SessionStateRepository in
// memory.
type mockSessionRepository struct {
	inbound map[string]int64
	batch   map[string]int64
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{
		inbound: make(map[string]int64),
		batch:   make(map[string]int64),
	}
}

func (m *mockSessionRepository) InboundLastTS(ctx context.Context, sessionKey string) (int64, error) {
	return m.inbound[sessionKey], nil
}

func (m *mockSessionRepository) SetInboundLastTS(ctx context.Context, sessionKey string, ts int64) error {
	m.inbound[sessionKey] = ts
	return nil
}

func (m *mockSessionRepository) LastBatchSentMs(ctx context.Context, sessionKey string) (int64, error) {
	return m.batch[sessionKey], nil
}

func (m *mockSessionRepository) SetLastBatchSentMs(ctx context.Context, sessionKey string, ms int64) error {
	m.batch[sessionKey] = ms
	return nil
}

// mockGoalRepository implements secondary.GoalRepository in memory.
type mockGoalRepository struct {
	goals  map[int64]*secondary.GoalRecord
	nextID int64
}

func newMockGoalRepository() *mockGoalRepository {
	return &mockGoalRepository{goals: make(map[int64]*secondary.GoalRecord)}
}

func (m *mockGoalRepository) Create(ctx context.Context, rec *secondary.GoalRecord) (int64, error) {
	m.nextID++
	cp := *rec
	cp.ID = m.nextID
	cp.Status = "active"
	m.goals[cp.ID] = &cp
	return cp.ID, nil
}

func (m *mockGoalRepository) GetByID(ctx context.Context, id int64) (*secondary.GoalRecord, error) {
	if g, ok := m.goals[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, errs.NotFound("goal", id)
}

func (m *mockGoalRepository) List(ctx context.Context, filters secondary.GoalFilters) ([]*secondary.GoalRecord, error) {
	var out []*secondary.GoalRecord
	for _, g := range m.goals {
		if filters.Status != "" && g.Status != filters.Status {
			continue
		}
		if filters.UntaskedOnly && g.TasksGenerated {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockGoalRepository) MarkTasked(ctx context.Context, id int64) error {
	g, ok := m.goals[id]
	if !ok {
		return errs.NotFound("goal", id)
	}
	g.TasksGenerated = true
	return nil
}

func (m *mockGoalRepository) Complete(ctx context.Context, id int64) error {
	g, ok := m.goals[id]
	if !ok {
		return errs.NotFound("goal", id)
	}
	g.Status = "completed"
	return nil
}

// mockJournalRepository implements secondary.JournalRepository in memory.
type mockJournalRepository struct {
	decisions []*secondary.DecisionRecord
	events    []*secondary.EventRecord
}

func newMockJournalRepository() *mockJournalRepository {
	return &mockJournalRepository{}
}

func (m *mockJournalRepository) AppendDecision(ctx context.Context, rec *secondary.DecisionRecord) error {
	cp := *rec
	cp.ID = int64(len(m.decisions) + 1)
	m.decisions = append(m.decisions, &cp)
	return nil
}

func (m *mockJournalRepository) ListDecisions(ctx context.Context, taskID int64, limit int) ([]*secondary.DecisionRecord, error) {
	var out []*secondary.DecisionRecord
	for i := len(m.decisions) - 1; i >= 0 && len(out) < limit; i-- {
		d := m.decisions[i]
		if taskID != 0 && d.TaskID != taskID {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockJournalRepository) AppendEvent(ctx context.Context, rec *secondary.EventRecord) error {
	cp := *rec
	cp.ID = int64(len(m.events) + 1)
	m.events = append(m.events, &cp)
	return nil
}

func (m *mockJournalRepository) ListEvents(ctx context.Context, limit int) ([]*secondary.EventRecord, error) {
	var out []*secondary.EventRecord
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *m.events[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockJournalRepository) MarkEventHandled(ctx context.Context, id int64) error {
	for _, e := range m.events {
		if e.ID == id {
			e.Handled = true
			return nil
		}
	}
	return errs.NotFound("event", id)
}

// Compile-time interface checks for the mocks
var (
	_ secondary.TaskRepository         = (*mockTaskRepository)(nil)
	_ secondary.ApprovalRepository     = (*mockApprovalRepository)(nil)
	_ secondary.SessionStateRepository = (*mockSessionRepository)(nil)
	_ secondary.GoalRepository         = (*mockGoalRepository)(nil)
	_ secondary.JournalRepository      = (*mockJournalRepository)(nil)
)
