package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/tracker/internal/config"
	"github.com/example/tracker/internal/wire"
)

var approvalCmd = &cobra.Command{
	Use:   "approval",
	Short: "Manage approval requests",
	Long:  "Request, resolve, and inspect approval gates on sensitive tasks",
}

var approvalRequestCmd = &cobra.Command{
	Use:   "request [task-id]",
	Short: "Request approval for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := wire.ApprovalService().RequestApproval(ctx, taskID, cfg.SessionKey); err != nil {
			return fmt.Errorf("failed to request approval: %w", err)
		}

		// The gate only records the request; the status move is ours.
		if err := wire.SchedulerService().MarkReview(ctx, taskID); err != nil {
			return fmt.Errorf("failed to move task to review: %w", err)
		}

		fmt.Printf("👀 Task %d is awaiting approval\n", taskID)
		return nil
	},
}

var approvalResolveCmd = &cobra.Command{
	Use:   "resolve [task-id] [approved|rejected]",
	Short: "Resolve the pending approval for a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}
		outcome := args[1]
		decisionText, _ := cmd.Flags().GetString("note")

		resolved, err := wire.ApprovalService().ResolveApproval(ctx, taskID, outcome, decisionText)
		if err != nil {
			return fmt.Errorf("failed to resolve approval: %w", err)
		}

		if !resolved {
			fmt.Printf("No pending approval for task %d, nothing to resolve\n", taskID)
			return nil
		}

		icon := "✅"
		if outcome == "rejected" {
			icon = "✗"
		}
		fmt.Printf("%s Approval for task %d resolved: %s\n", icon, taskID, outcome)
		return nil
	},
}

var approvalPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending approvals, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		pending, err := wire.ApprovalService().PendingApprovals(ctx)
		if err != nil {
			return fmt.Errorf("failed to list approvals: %w", err)
		}

		if len(pending) == 0 {
			fmt.Println("No pending approvals.")
			return nil
		}

		fmt.Printf("%d approval(s) waiting:\n\n", len(pending))
		for _, appr := range pending {
			age := time.Since(time.UnixMilli(appr.RequestedAtMs)).Round(time.Minute)
			waiting := color.New(color.FgHiYellow).Sprintf("waiting %s", age)
			fmt.Printf("👀 task %d (%s)\n", appr.TaskID, waiting)
		}
		return nil
	},
}

func init() {
	approvalResolveCmd.Flags().String("note", "", "Decision note stored with the resolution")

	approvalCmd.AddCommand(approvalRequestCmd)
	approvalCmd.AddCommand(approvalResolveCmd)
	approvalCmd.AddCommand(approvalPendingCmd)
}

// ApprovalCmd returns the approval command
func ApprovalCmd() *cobra.Command {
	return approvalCmd
}
