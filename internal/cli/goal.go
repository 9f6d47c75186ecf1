package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/tracker/internal/wire"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage high-level goals",
	Long:  "Add, list, and complete goals. Goals are decomposed into tasks separately.",
}

var goalAddCmd = &cobra.Command{
	Use:   "add [description]",
	Short: "Add a new goal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		source, _ := cmd.Flags().GetString("source")

		goalID, err := wire.GoalService().AddGoal(ctx, args[0], source)
		if err != nil {
			return fmt.Errorf("failed to add goal: %w", err)
		}

		fmt.Printf("✓ Added goal %d\n", goalID)
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		untasked, _ := cmd.Flags().GetBool("untasked")

		svc := wire.GoalService()
		list, err := svc.ActiveGoals(ctx)
		if untasked {
			list, err = svc.UntaskedGoals(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No active goals.")
			return nil
		}

		fmt.Printf("Found %d goal(s):\n\n", len(list))
		for _, goal := range list {
			marker := " "
			if goal.TasksGenerated {
				marker = "📋"
			}
			fmt.Printf("%s #%d: %s (from %s)\n", marker, goal.ID, goal.Description, goal.Source)
		}
		return nil
	},
}

var goalTaskedCmd = &cobra.Command{
	Use:   "tasked [goal-id]",
	Short: "Mark a goal as decomposed into tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		goalID, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := wire.GoalService().MarkTasked(ctx, goalID); err != nil {
			return fmt.Errorf("failed to mark goal tasked: %w", err)
		}

		fmt.Printf("✓ Goal %d marked as tasked\n", goalID)
		return nil
	},
}

var goalDoneCmd = &cobra.Command{
	Use:   "done [goal-id]",
	Short: "Complete a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		goalID, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := wire.GoalService().CompleteGoal(ctx, goalID); err != nil {
			return fmt.Errorf("failed to complete goal: %w", err)
		}

		fmt.Printf("✅ Completed goal %d\n", goalID)
		return nil
	},
}

func init() {
	goalAddCmd.Flags().String("source", "user", "Where the goal came from (user, telegram)")
	goalListCmd.Flags().Bool("untasked", false, "Only goals not yet decomposed")

	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalTaskedCmd)
	goalCmd.AddCommand(goalDoneCmd)
}

// GoalCmd returns the goal command
func GoalCmd() *cobra.Command {
	return goalCmd
}
