package app

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/example/tracker/internal/errs"
	"github.com/example/tracker/internal/ports/primary"
	"github.com/example/tracker/internal/ports/secondary"
)

func seedMockTask(t *testing.T, repo *mockTaskRepository, id int64, status string, prereqs []int64, impact, urgency, effort int) {
	t.Helper()
	err := repo.Create(context.Background(), &secondary.TaskRecord{
		ID:            id,
		Title:         "task",
		Status:        status,
		Prerequisites: prereqs,
		Impact:        impact,
		Urgency:       urgency,
		Effort:        effort,
	})
	if err != nil {
		t.Fatalf("failed to seed task %d: %v", id, err)
	}
}

func TestSchedulerService_CreateTask(t *testing.T) {
	t.Run("no prerequisites starts eligible", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)

		resp, err := svc.CreateTask(context.Background(), primary.CreateTaskRequest{
			Title: "Standalone", Impact: 9, Urgency: 8, Effort: 2,
		})
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		if resp.Task.Status != "eligible" {
			t.Errorf("expected eligible, got %s", resp.Task.Status)
		}
		if resp.Task.ROI != 36.0 {
			t.Errorf("expected ROI 36.0, got %v", resp.Task.ROI)
		}
	})

	t.Run("with prerequisites starts pending", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "eligible", nil, 5, 5, 5)

		resp, err := svc.CreateTask(context.Background(), primary.CreateTaskRequest{
			Title: "Dependent", Impact: 5, Urgency: 5, Effort: 5,
			Prerequisites: []int64{1},
		})
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		if resp.Task.Status != "pending" {
			t.Errorf("expected pending, got %s", resp.Task.Status)
		}
	})

	t.Run("default priority is medium", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)

		resp, err := svc.CreateTask(context.Background(), primary.CreateTaskRequest{
			Title: "Plain", Impact: 5, Urgency: 5, Effort: 5,
		})
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		if resp.Task.Priority != "medium" {
			t.Errorf("expected medium, got %s", resp.Task.Priority)
		}
	})

	t.Run("score out of range is a validation error", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)

		_, err := svc.CreateTask(context.Background(), primary.CreateTaskRequest{
			Title: "Bad", Impact: 0, Urgency: 5, Effort: 5,
		})
		var ve *errs.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("unknown prerequisite is a validation error", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)

		_, err := svc.CreateTask(context.Background(), primary.CreateTaskRequest{
			Title: "Orphan", Impact: 5, Urgency: 5, Effort: 5,
			Prerequisites: []int64{42},
		})
		var ve *errs.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("nothing persisted on validation failure", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)

		_, _ = svc.CreateTask(context.Background(), primary.CreateTaskRequest{
			Title: "Rejected", Impact: 11, Urgency: 5, Effort: 5,
		})
		if len(repo.tasks) != 0 {
			t.Errorf("expected no tasks persisted, got %d", len(repo.tasks))
		}
	})

	t.Run("long free text is clipped", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)

		resp, err := svc.CreateTask(context.Background(), primary.CreateTaskRequest{
			Title:       strings.Repeat("t", maxFieldLen+50),
			Description: strings.Repeat("d", maxFieldLen+50),
			Impact:      5, Urgency: 5, Effort: 5,
		})
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		if len([]rune(resp.Task.Title)) != maxFieldLen {
			t.Errorf("title length = %d, want %d", len([]rune(resp.Task.Title)), maxFieldLen)
		}
		if len([]rune(resp.Task.Description)) != maxFieldLen {
			t.Errorf("description length = %d, want %d", len([]rune(resp.Task.Description)), maxFieldLen)
		}
	})
}

func TestSchedulerService_StartTask(t *testing.T) {
	t.Run("eligible task starts", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "eligible", nil, 5, 5, 5)

		result, err := svc.StartTask(context.Background(), 1)
		if err != nil {
			t.Fatalf("StartTask failed: %v", err)
		}
		if !result.Started {
			t.Fatalf("expected start, got reason %q", result.Reason)
		}
		if repo.tasks[1].Status != "in_progress" {
			t.Errorf("expected in_progress, got %s", repo.tasks[1].Status)
		}
	})

	t.Run("blocked start reports unmet prerequisites", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "in_progress", nil, 5, 5, 5)
		seedMockTask(t, repo, 2, "eligible", []int64{1}, 5, 5, 5)

		result, err := svc.StartTask(context.Background(), 2)
		if err != nil {
			t.Fatalf("StartTask failed: %v", err)
		}
		if result.Started {
			t.Fatal("expected a blocked start")
		}
		if !reflect.DeepEqual(result.Unmet, []int64{1}) {
			t.Errorf("expected unmet [1], got %v", result.Unmet)
		}
		if repo.tasks[2].Status != "eligible" {
			t.Errorf("blocked start must not mutate, got %s", repo.tasks[2].Status)
		}
	})

	t.Run("pending task cannot start", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "pending", nil, 5, 5, 5)

		result, err := svc.StartTask(context.Background(), 1)
		if err != nil {
			t.Fatalf("StartTask failed: %v", err)
		}
		if result.Started {
			t.Error("expected pending task to be refused")
		}
	})

	t.Run("lost claim is a structured result", func(t *testing.T) {
		repo := newMockTaskRepository()
		repo.claimDenied = true
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "eligible", nil, 5, 5, 5)

		result, err := svc.StartTask(context.Background(), 1)
		if err != nil {
			t.Fatalf("StartTask failed: %v", err)
		}
		if result.Started {
			t.Error("expected lost claim")
		}
		if !strings.Contains(result.Reason, "claimed by another caller") {
			t.Errorf("unexpected reason %q", result.Reason)
		}
	})

	t.Run("missing task errors", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)

		_, err := svc.StartTask(context.Background(), 404)
		var nf *errs.NotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})
}

func TestSchedulerService_CompleteTask(t *testing.T) {
	t.Run("completion unblocks satisfied dependents", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "in_progress", nil, 5, 5, 5)
		seedMockTask(t, repo, 2, "pending", []int64{1}, 5, 5, 5)
		seedMockTask(t, repo, 3, "pending", []int64{1, 2}, 5, 5, 5)

		result, err := svc.CompleteTask(context.Background(), 1)
		if err != nil {
			t.Fatalf("CompleteTask failed: %v", err)
		}
		if !reflect.DeepEqual(result.Unblocked, []int64{2}) {
			t.Errorf("expected unblocked [2], got %v", result.Unblocked)
		}
		if result.Warning != "" {
			t.Errorf("expected no warning, got %q", result.Warning)
		}
	})

	t.Run("completing an eligible task warns", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "eligible", nil, 5, 5, 5)

		result, err := svc.CompleteTask(context.Background(), 1)
		if err != nil {
			t.Fatalf("CompleteTask failed: %v", err)
		}
		if result.Warning != "completing task from status eligible" {
			t.Errorf("unexpected warning %q", result.Warning)
		}
	})

	t.Run("re-completion warns and does not cascade", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "completed", nil, 5, 5, 5)
		seedMockTask(t, repo, 2, "pending", []int64{1}, 5, 5, 5)

		result, err := svc.CompleteTask(context.Background(), 1)
		if err != nil {
			t.Fatalf("CompleteTask failed: %v", err)
		}
		if result.Warning != "task is already completed" {
			t.Errorf("unexpected warning %q", result.Warning)
		}
		if len(result.Unblocked) != 0 {
			t.Errorf("expected no cascade, got %v", result.Unblocked)
		}
	})
}

func TestSchedulerService_NextBestTask(t *testing.T) {
	t.Run("highest roi wins", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "eligible", nil, 5, 5, 5) // 5.0
		seedMockTask(t, repo, 2, "eligible", nil, 9, 8, 2) // 36.0
		seedMockTask(t, repo, 3, "in_progress", nil, 10, 10, 1)

		best, err := svc.NextBestTask(context.Background())
		if err != nil {
			t.Fatalf("NextBestTask failed: %v", err)
		}
		if best == nil || best.ID != 2 {
			t.Errorf("expected task 2, got %+v", best)
		}
	})

	t.Run("ties break to lowest id", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 7, "eligible", nil, 6, 4, 2) // 12.0
		seedMockTask(t, repo, 5, "eligible", nil, 8, 3, 2) // 12.0

		best, err := svc.NextBestTask(context.Background())
		if err != nil {
			t.Fatalf("NextBestTask failed: %v", err)
		}
		if best == nil || best.ID != 5 {
			t.Errorf("expected task 5 on tie, got %+v", best)
		}
	})

	t.Run("nothing eligible returns nil not error", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "pending", []int64{2}, 5, 5, 5)

		best, err := svc.NextBestTask(context.Background())
		if err != nil {
			t.Fatalf("NextBestTask failed: %v", err)
		}
		if best != nil {
			t.Errorf("expected nil, got %+v", best)
		}
	})
}

func TestSchedulerService_ListTasks(t *testing.T) {
	repo := newMockTaskRepository()
	svc := NewSchedulerService(repo)
	seedMockTask(t, repo, 1, "eligible", nil, 5, 5, 5)  // 5.0
	seedMockTask(t, repo, 2, "eligible", nil, 9, 8, 2)  // 36.0
	seedMockTask(t, repo, 3, "pending", nil, 6, 4, 2)   // 12.0
	seedMockTask(t, repo, 4, "eligible", nil, 8, 3, 2)  // 12.0, ties with 3

	tasks, err := svc.ListTasks(context.Background(), primary.TaskFilters{})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}

	got := make([]int64, len(tasks))
	for i, task := range tasks {
		got[i] = task.ID
	}
	// ROI descending, id ascending within the 12.0 tie.
	want := []int64{2, 3, 4, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	t.Run("unknown status filter is refused", func(t *testing.T) {
		_, err := svc.ListTasks(context.Background(), primary.TaskFilters{Status: "done"})
		var ve *errs.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})
}

func TestSchedulerService_MarkReview(t *testing.T) {
	t.Run("in progress moves to review", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "in_progress", nil, 5, 5, 5)

		if err := svc.MarkReview(context.Background(), 1); err != nil {
			t.Fatalf("MarkReview failed: %v", err)
		}
		if repo.tasks[1].Status != "review" {
			t.Errorf("status = %s, want review", repo.tasks[1].Status)
		}
	})

	t.Run("completed task stays completed", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "completed", nil, 5, 5, 5)

		err := svc.MarkReview(context.Background(), 1)
		var ve *errs.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if repo.tasks[1].Status != "completed" {
			t.Errorf("status = %s, want completed", repo.tasks[1].Status)
		}
	})

	t.Run("pending task is refused", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "pending", nil, 5, 5, 5)

		err := svc.MarkReview(context.Background(), 1)
		var ve *errs.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("already in review is a no-op", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "review", nil, 5, 5, 5)

		if err := svc.MarkReview(context.Background(), 1); err != nil {
			t.Fatalf("MarkReview failed: %v", err)
		}
		if repo.tasks[1].Status != "review" {
			t.Errorf("status = %s, want review", repo.tasks[1].Status)
		}
	})

	t.Run("unknown task", func(t *testing.T) {
		svc := NewSchedulerService(newMockTaskRepository())

		err := svc.MarkReview(context.Background(), 404)
		var nf *errs.NotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})
}

func TestSchedulerService_MarkEligible(t *testing.T) {
	t.Run("pending with prerequisites done becomes eligible", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "completed", nil, 5, 5, 5)
		seedMockTask(t, repo, 2, "pending", []int64{1}, 5, 5, 5)

		if err := svc.MarkEligible(context.Background(), 2); err != nil {
			t.Fatalf("MarkEligible failed: %v", err)
		}
		if repo.tasks[2].Status != "eligible" {
			t.Errorf("status = %s, want eligible", repo.tasks[2].Status)
		}
	})

	t.Run("unmet prerequisite refuses eligibility", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "pending", nil, 5, 5, 5)
		seedMockTask(t, repo, 2, "pending", []int64{1}, 5, 5, 5)

		err := svc.MarkEligible(context.Background(), 2)
		var ve *errs.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if repo.tasks[2].Status != "pending" {
			t.Errorf("status = %s, want pending", repo.tasks[2].Status)
		}
	})

	t.Run("completed task stays completed", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := NewSchedulerService(repo)
		seedMockTask(t, repo, 1, "completed", nil, 5, 5, 5)

		err := svc.MarkEligible(context.Background(), 1)
		var ve *errs.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if repo.tasks[1].Status != "completed" {
			t.Errorf("status = %s, want completed", repo.tasks[1].Status)
		}
	})
}
