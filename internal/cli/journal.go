package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/tracker/internal/wire"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the decision and event logs",
}

var journalLogCmd = &cobra.Command{
	Use:   "log [task-id] [decision]",
	Short: "Record a decision for a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}
		reasoning, _ := cmd.Flags().GetString("reasoning")
		outcome, _ := cmd.Flags().GetString("outcome")

		if err := wire.JournalService().LogDecision(ctx, taskID, args[1], reasoning, outcome); err != nil {
			return fmt.Errorf("failed to log decision: %w", err)
		}

		fmt.Printf("✓ Logged decision for task %d\n", taskID)
		return nil
	},
}

var journalDecisionsCmd = &cobra.Command{
	Use:   "decisions",
	Short: "List recent decisions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID, _ := cmd.Flags().GetInt64("task")
		limit, _ := cmd.Flags().GetInt("limit")

		decisions, err := wire.JournalService().Decisions(ctx, taskID, limit)
		if err != nil {
			return fmt.Errorf("failed to list decisions: %w", err)
		}

		if len(decisions) == 0 {
			fmt.Println("No decisions recorded.")
			return nil
		}

		for _, d := range decisions {
			fmt.Printf("[%s] task %d: %s\n", d.CreatedAt, d.TaskID, d.Decision)
			if d.Reasoning != "" {
				fmt.Printf("   why: %s\n", d.Reasoning)
			}
			if d.Outcome != "" {
				fmt.Printf("   outcome: %s\n", d.Outcome)
			}
		}
		return nil
	},
}

var journalEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent events, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		limit, _ := cmd.Flags().GetInt("limit")

		events, err := wire.JournalService().Events(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No events recorded.")
			return nil
		}

		for _, e := range events {
			marker := " "
			if e.Handled {
				marker = "✓"
			}
			fmt.Printf("%s [%s] %s: %s\n", marker, e.CreatedAt, e.EventType, e.Payload)
		}
		return nil
	},
}

func init() {
	journalLogCmd.Flags().String("reasoning", "", "Why this decision was made")
	journalLogCmd.Flags().String("outcome", "", "What happened as a result")
	journalDecisionsCmd.Flags().Int64("task", 0, "Only decisions for this task (0 = all)")
	journalDecisionsCmd.Flags().Int("limit", 20, "Max entries to show")
	journalEventsCmd.Flags().Int("limit", 20, "Max entries to show")

	journalCmd.AddCommand(journalLogCmd)
	journalCmd.AddCommand(journalDecisionsCmd)
	journalCmd.AddCommand(journalEventsCmd)
}

// JournalCmd returns the journal command
func JournalCmd() *cobra.Command {
	return journalCmd
}
