package task

// Score bounds for impact, urgency and effort.
const (
	MinScore = 1
	MaxScore = 10
)

// ROI computes the return-on-investment priority score:
// impact × urgency ÷ effort. Effort is clamped to 1 before division.
// The score is computed on demand and never persisted.
func ROI(impact, urgency, effort int) float64 {
	if effort < 1 {
		effort = 1
	}
	return float64(impact*urgency) / float64(effort)
}

// Ranked is the minimal view of a task the ranker needs.
type Ranked struct {
	ID      int64
	Impact  int
	Urgency int
	Effort  int
}

// Better reports whether a should be picked over b: higher ROI first,
// ties broken by lowest id for determinism.
func Better(a, b Ranked) bool {
	ra := ROI(a.Impact, a.Urgency, a.Effort)
	rb := ROI(b.Impact, b.Urgency, b.Effort)
	if ra != rb {
		return ra > rb
	}
	return a.ID < b.ID
}

// PickBest returns the index of the best candidate, or -1 when the slate is
// empty ("nothing to do" is not an error).
func PickBest(candidates []Ranked) int {
	best := -1
	for i, c := range candidates {
		if best == -1 || Better(c, candidates[best]) {
			best = i
		}
	}
	return best
}
