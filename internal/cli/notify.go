package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/tracker/internal/config"
	"github.com/example/tracker/internal/db"
	"github.com/example/tracker/internal/errs"
	"github.com/example/tracker/internal/notify"
	"github.com/example/tracker/internal/wire"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send the pending-approval batch over Telegram",
	Long:  "One notification pass: if approvals are pending and the throttle window has elapsed, send a single batched message.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, client, err := telegramSetup()
		if err != nil {
			return err
		}

		window := time.Duration(cfg.BatchWindowMinutes) * time.Minute
		batcher := notify.NewBatcher(wire.ApprovalService(), client, cfg.SessionKey, window)

		// A pass is safe to retry: the watermark only moves after a
		// successful send.
		var sent bool
		err = db.WithRetry(ctx, func() error {
			var runErr error
			sent, runErr = batcher.Run(ctx)
			return runErr
		})
		if err != nil {
			return &errs.StorageError{Op: "send approval batch", Err: err}
		}
		if !sent {
			fmt.Println("Nothing to send (no pending approvals, or window still open).")
			return nil
		}
		fmt.Println("📨 Approval batch sent.")
		return nil
	},
}

var intakeCmd = &cobra.Command{
	Use:   "intake",
	Short: "Ingest new Telegram messages as goals",
	Long:  "One intake pass: fetch messages newer than the inbound cursor and turn allow-listed ones into goals.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, client, err := telegramSetup()
		if err != nil {
			return err
		}

		intake := notify.NewIntake(wire.GoalService(), wire.SessionStateRepository(),
			client, cfg.SessionKey, cfg.AllowedSenderIDs)

		// Retry-safe: the inbound cursor advances per ingested message, so
		// a repeated pass never double-ingests.
		var created int
		err = db.WithRetry(ctx, func() error {
			var runErr error
			created, runErr = intake.Run(ctx)
			return runErr
		})
		if err != nil {
			return &errs.StorageError{Op: "ingest inbound goals", Err: err}
		}
		if created == 0 {
			fmt.Println("No new goals.")
			return nil
		}
		fmt.Printf("✓ Ingested %d goal(s) from Telegram\n", created)
		return nil
	},
}

// telegramSetup loads config and builds the Telegram client shared by
// notify and intake.
func telegramSetup() (*config.Config, *notify.TelegramClient, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config (run 'tracker init' first): %w", err)
	}
	if cfg.TelegramToken == "" {
		return nil, nil, fmt.Errorf("no telegram_token in config")
	}

	client, err := notify.NewTelegramClient(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

// NotifyCmd returns the notify command
func NotifyCmd() *cobra.Command {
	return notifyCmd
}

// IntakeCmd returns the intake command
func IntakeCmd() *cobra.Command {
	return intakeCmd
}
