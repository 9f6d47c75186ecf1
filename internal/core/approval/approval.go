// Package approval contains the pure business rules for the approval gate.
package approval

import "fmt"

// Approval outcomes. A request starts pending; resolution moves it to
// approved or rejected and never back.
const (
	OutcomePending  = "pending"
	OutcomeApproved = "approved"
	OutcomeRejected = "rejected"
)

// MaxDecisionTextLen bounds stored decision free-text so an unattended agent
// loop cannot grow the approvals table without limit.
const MaxDecisionTextLen = 500

// ValidOutcome reports whether s is a legal resolution outcome.
// Pending is not a resolution.
func ValidOutcome(s string) bool {
	return s == OutcomeApproved || s == OutcomeRejected
}

// TruncateDecision caps decision text at MaxDecisionTextLen runes.
func TruncateDecision(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxDecisionTextLen {
		return text
	}
	return string(runes[:MaxDecisionTextLen])
}

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

// ResolveContext provides context for resolution guards.
type ResolveContext struct {
	TaskID  int64
	Outcome string
}

// CanResolve evaluates whether an approval resolution request is well formed.
// Whether a pending row exists is the store's concern: resolving with no
// pending request is a no-op, not an error.
func CanResolve(ctx ResolveContext) GuardResult {
	if !ValidOutcome(ctx.Outcome) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid approval outcome %q (want %s or %s)", ctx.Outcome, OutcomeApproved, OutcomeRejected),
		}
	}
	return GuardResult{Allowed: true}
}
