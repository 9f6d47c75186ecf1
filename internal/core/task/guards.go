package task

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateContext provides context for task creation guards.
type CreateContext struct {
	CandidateID   int64
	Impact        int
	Urgency       int
	Effort        int
	Prerequisites []int64
	// PrereqExists records which of the listed prerequisite ids exist.
	PrereqExists map[int64]bool
	// Graph is the existing prerequisite graph (task id → prerequisite ids).
	Graph map[int64][]int64
}

// CanCreate evaluates whether a task can be created.
// Rules:
// - impact, urgency, effort each within [1,10]
// - every prerequisite id must reference an existing task
// - the prerequisite set must not reference the task itself or close a cycle
func CanCreate(ctx CreateContext) GuardResult {
	for _, s := range []struct {
		name  string
		value int
	}{{"impact", ctx.Impact}, {"urgency", ctx.Urgency}, {"effort", ctx.Effort}} {
		if s.value < MinScore || s.value > MaxScore {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("%s score %d out of range [%d,%d]", s.name, s.value, MinScore, MaxScore),
			}
		}
	}

	for _, p := range ctx.Prerequisites {
		if p == ctx.CandidateID {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("task cannot depend on itself (prerequisite %d)", p),
			}
		}
		if !ctx.PrereqExists[p] {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("unknown prerequisite task %d", p),
			}
		}
	}

	if IntroducesCycle(ctx.CandidateID, ctx.Prerequisites, ctx.Graph) {
		return GuardResult{
			Allowed: false,
			Reason:  "prerequisite set would create a cycle",
		}
	}

	return GuardResult{Allowed: true}
}

// StartContext provides context for start guards.
type StartContext struct {
	TaskID int64
	Status Status
	Unmet  []int64
}

// CanStart evaluates whether a task can be started.
// Rules:
// - status must be eligible
// - every prerequisite must be done
func CanStart(ctx StartContext) GuardResult {
	if ctx.Status != StatusEligible {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only start eligible tasks (current status: %s)", ctx.Status),
		}
	}
	if len(ctx.Unmet) > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("task %d blocked by prerequisites %v", ctx.TaskID, ctx.Unmet),
		}
	}
	return GuardResult{Allowed: true}
}

// MarkContext provides context for direct status-move guards.
type MarkContext struct {
	TaskID int64
	From   Status
	To     Status
	// Unmet is consulted only when the target status is eligible.
	Unmet []int64
}

// CanMark evaluates a direct status move.
// Rules:
// - a terminal status admits no move at all
// - the move must be legal per the transition table
// - a move to eligible requires every prerequisite done
func CanMark(ctx MarkContext) GuardResult {
	if IsTerminal(ctx.From) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("task %d is %s and cannot change status", ctx.TaskID, ctx.From),
		}
	}
	if !CanTransition(ctx.From, ctx.To) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("illegal status transition %s -> %s for task %d", ctx.From, ctx.To, ctx.TaskID),
		}
	}
	if ctx.To == StatusEligible && len(ctx.Unmet) > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("task %d blocked by prerequisites %v", ctx.TaskID, ctx.Unmet),
		}
	}
	return GuardResult{Allowed: true}
}

// CompleteWarning returns a non-empty warning when completing a task whose
// current status is unusual. Completion itself is unconditional; a done task
// is left untouched by the caller.
func CompleteWarning(current Status) string {
	switch current {
	case StatusInProgress, StatusReview:
		return ""
	case StatusDone:
		return "task is already completed"
	default:
		return fmt.Sprintf("completing task from status %s", current)
	}
}
