package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/tracker/internal/ports/primary"
	"github.com/example/tracker/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current work picture",
		Long: `Display an at-a-glance summary:
- Task counts per status
- The best next task by ROI
- Pending approvals
- Goals waiting for decomposition`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			tasks, err := wire.SchedulerService().ListTasks(ctx, primary.TaskFilters{})
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			counts := map[string]int{}
			for _, t := range tasks {
				counts[t.Status]++
			}

			fmt.Println("Tracker Status")
			fmt.Println()
			fmt.Printf("Tasks: %d total\n", len(tasks))
			for _, status := range []string{"pending", "eligible", "in_progress", "review", "completed"} {
				if counts[status] > 0 {
					fmt.Printf("  %s %s: %d\n", getStatusIcon(status), status, counts[status])
				}
			}
			fmt.Println()

			next, err := wire.SchedulerService().NextBestTask(ctx)
			if err != nil {
				return fmt.Errorf("failed to pick next task: %w", err)
			}
			if next != nil {
				fmt.Printf("🎯 Next: #%d %s (roi %.1f)\n", next.ID, next.Title, next.ROI)
			} else {
				fmt.Println("🎯 Next: nothing eligible")
			}

			pending, err := wire.ApprovalService().PendingApprovals(ctx)
			if err != nil {
				return fmt.Errorf("failed to list approvals: %w", err)
			}
			if len(pending) > 0 {
				fmt.Printf("👀 Approvals waiting: %d\n", len(pending))
			}

			untasked, err := wire.GoalService().UntaskedGoals(ctx)
			if err != nil {
				return fmt.Errorf("failed to list goals: %w", err)
			}
			if len(untasked) > 0 {
				fmt.Printf("💡 Goals to decompose: %d\n", len(untasked))
			}

			return nil
		},
	}
}
