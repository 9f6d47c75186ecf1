package task

import "testing"

func TestROI(t *testing.T) {
	tests := []struct {
		name    string
		impact  int
		urgency int
		effort  int
		want    float64
	}{
		{"typical", 9, 8, 2, 36.0},
		{"balanced", 5, 5, 5, 5.0},
		{"max impact urgency min effort", 10, 10, 1, 100.0},
		{"effort zero clamped to one", 8, 4, 0, 32.0},
		{"effort negative clamped to one", 6, 2, -3, 12.0},
		{"fractional result", 7, 3, 2, 10.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ROI(tt.impact, tt.urgency, tt.effort); got != tt.want {
				t.Errorf("ROI(%d, %d, %d) = %v, want %v", tt.impact, tt.urgency, tt.effort, got, tt.want)
			}
		})
	}
}

func TestPickBest(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Ranked
		wantID     int64
	}{
		{
			name: "highest roi wins",
			candidates: []Ranked{
				{ID: 1, Impact: 5, Urgency: 5, Effort: 5}, // 5.0
				{ID: 2, Impact: 9, Urgency: 8, Effort: 2}, // 36.0
				{ID: 3, Impact: 3, Urgency: 3, Effort: 1}, // 9.0
			},
			wantID: 2,
		},
		{
			name: "roi tie broken by lowest id",
			candidates: []Ranked{
				{ID: 7, Impact: 6, Urgency: 4, Effort: 2}, // 12.0
				{ID: 5, Impact: 8, Urgency: 3, Effort: 2}, // 12.0
			},
			wantID: 5,
		},
		{
			name: "single candidate",
			candidates: []Ranked{
				{ID: 42, Impact: 1, Urgency: 1, Effort: 10},
			},
			wantID: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := PickBest(tt.candidates)
			if i < 0 {
				t.Fatalf("PickBest returned %d, want a valid index", i)
			}
			if got := tt.candidates[i].ID; got != tt.wantID {
				t.Errorf("PickBest chose id %d, want %d", got, tt.wantID)
			}
		})
	}
}

func TestPickBestEmpty(t *testing.T) {
	if i := PickBest(nil); i != -1 {
		t.Errorf("PickBest(nil) = %d, want -1", i)
	}
}
