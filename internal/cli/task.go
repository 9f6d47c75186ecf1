package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/tracker/internal/ports/primary"
	"github.com/example/tracker/internal/wire"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks (units of autonomous work)",
	Long:  "Create, list, start, complete, and inspect tasks in the tracker ledger",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		title := args[0]
		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetString("priority")
		impact, _ := cmd.Flags().GetInt("impact")
		urgency, _ := cmd.Flags().GetInt("urgency")
		effort, _ := cmd.Flags().GetInt("effort")
		prereqStr, _ := cmd.Flags().GetString("prereq")
		autoComplete, _ := cmd.Flags().GetBool("auto")
		criteria, _ := cmd.Flags().GetString("criteria")

		prereqs, err := parseIDList(prereqStr)
		if err != nil {
			return fmt.Errorf("bad --prereq value: %w", err)
		}

		resp, err := wire.SchedulerService().CreateTask(ctx, primary.CreateTaskRequest{
			Title:         title,
			Description:   description,
			Priority:      priority,
			Prerequisites: prereqs,
			Impact:        impact,
			Urgency:       urgency,
			Effort:        effort,
			AutoComplete:  autoComplete,
			Criteria:      criteria,
		})
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		task := resp.Task
		fmt.Printf("✓ Created task %d: %s\n", task.ID, task.Title)
		fmt.Printf("  Status: %s  ROI: %.1f\n", task.Status, task.ROI)
		if len(task.Prerequisites) > 0 {
			fmt.Printf("  Prerequisites: %s\n", formatIDList(task.Prerequisites))
		}
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks ordered by ROI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		status, _ := cmd.Flags().GetString("status")

		tasks, err := wire.SchedulerService().ListTasks(ctx, primary.TaskFilters{Status: status})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Printf("Found %d task(s):\n\n", len(tasks))
		for _, task := range tasks {
			statusIcon := getStatusIcon(task.Status)
			roi := color.New(color.FgHiYellow).Sprintf("%.1f", task.ROI)
			fmt.Printf("%s #%d: %s [%s] roi=%s\n", statusIcon, task.ID, task.Title, task.Status, roi)
			if len(task.Prerequisites) > 0 {
				fmt.Printf("   Prerequisites: %s\n", formatIDList(task.Prerequisites))
			}
		}
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}

		task, err := wire.SchedulerService().GetTask(ctx, taskID)
		if err != nil {
			return err
		}

		fmt.Printf("Task #%d: %s\n", task.ID, task.Title)
		if task.Description != "" {
			fmt.Printf("  Description: %s\n", task.Description)
		}
		fmt.Printf("  Status: %s  Priority: %s\n", task.Status, task.Priority)
		fmt.Printf("  Impact: %d/10  Urgency: %d/10  Effort: %d/10  ROI: %.1f\n",
			task.Impact, task.Urgency, task.Effort, task.ROI)
		if len(task.Prerequisites) > 0 {
			fmt.Printf("  Prerequisites: %s\n", formatIDList(task.Prerequisites))
		}
		if task.AutoComplete {
			fmt.Printf("  Auto-complete when: %s\n", task.Criteria)
		}
		fmt.Printf("  Created: %s\n", task.CreatedAt)
		if task.StartedAt != "" {
			fmt.Printf("  Started: %s\n", task.StartedAt)
		}
		if task.CompletedAt != "" {
			fmt.Printf("  Completed: %s\n", task.CompletedAt)
		}
		return nil
	},
}

var taskStartCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start an eligible task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}

		result, err := wire.SchedulerService().StartTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to start task: %w", err)
		}

		if !result.Started {
			blocked := color.New(color.FgRed).Sprint("✗ blocked")
			fmt.Printf("%s: %s\n", blocked, result.Reason)
			if len(result.Unmet) > 0 {
				fmt.Printf("  Unmet prerequisites: %s\n", formatIDList(result.Unmet))
			}
			return nil
		}

		fmt.Printf("🔧 Started task %d\n", taskID)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Complete a task and unblock its dependents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}

		result, err := wire.SchedulerService().CompleteTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		fmt.Printf("✅ Completed task %d\n", taskID)
		if result.Warning != "" {
			fmt.Printf("  Warning: %s\n", result.Warning)
		}
		if len(result.Unblocked) > 0 {
			fmt.Printf("  Now eligible: %s\n", formatIDList(result.Unblocked))
		}
		return nil
	},
}

var taskReviewCmd = &cobra.Command{
	Use:   "review [task-id]",
	Short: "Move a task into review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := wire.SchedulerService().MarkReview(ctx, taskID); err != nil {
			return fmt.Errorf("failed to mark task for review: %w", err)
		}

		fmt.Printf("👀 Task %d moved to review\n", taskID)
		return nil
	},
}

var taskEligibleCmd = &cobra.Command{
	Use:   "eligible [task-id]",
	Short: "Move a task into eligible",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := wire.SchedulerService().MarkEligible(ctx, taskID); err != nil {
			return fmt.Errorf("failed to mark task eligible: %w", err)
		}

		fmt.Printf("📦 Task %d is eligible\n", taskID)
		return nil
	},
}

var taskNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the highest-ROI eligible task",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		task, err := wire.SchedulerService().NextBestTask(ctx)
		if err != nil {
			return fmt.Errorf("failed to pick next task: %w", err)
		}

		if task == nil {
			fmt.Println("No eligible tasks. Check pending tasks with unmet prerequisites.")
			return nil
		}

		best := color.New(color.FgHiGreen).Sprintf("#%d", task.ID)
		fmt.Printf("🎯 Best next task: %s %s (roi %.1f)\n", best, task.Title, task.ROI)
		return nil
	},
}

func init() {
	// task create flags
	taskCreateCmd.Flags().StringP("description", "d", "", "Task description")
	taskCreateCmd.Flags().String("priority", "medium", "Priority (low, medium, high, critical)")
	taskCreateCmd.Flags().Int("impact", 5, "Impact score 1-10")
	taskCreateCmd.Flags().Int("urgency", 5, "Urgency score 1-10")
	taskCreateCmd.Flags().Int("effort", 5, "Effort score 1-10")
	taskCreateCmd.Flags().String("prereq", "", "Prerequisite task ids, comma separated")
	taskCreateCmd.Flags().Bool("auto", false, "Auto-complete when criteria are met")
	taskCreateCmd.Flags().String("criteria", "", "What defines done")

	// task list flags
	taskListCmd.Flags().StringP("status", "s", "", "Filter by status")

	// Register subcommands
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskStartCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskReviewCmd)
	taskCmd.AddCommand(taskEligibleCmd)
	taskCmd.AddCommand(taskNextCmd)
}

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	return taskCmd
}

// getStatusIcon returns an emoji icon for a task status
func getStatusIcon(status string) string {
	switch status {
	case "pending":
		return "⏳"
	case "eligible":
		return "📦"
	case "in_progress":
		return "🔧"
	case "review":
		return "👀"
	case "completed":
		return "✅"
	default:
		return "📋"
	}
}

// parseID parses a task id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// parseIDList parses a comma-separated id list flag.
func parseIDList(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// formatIDList renders ids for display.
func formatIDList(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
