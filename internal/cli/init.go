package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/tracker/internal/config"
	"github.com/example/tracker/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the tracker database",
		Long:  `Initialize the tracker database at ~/.tracker/tracker.db with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing tracker database at %s\n", dbPath)

			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			sessionKey, _ := cmd.Flags().GetString("session")
			if err := initConfig(sessionKey); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			fmt.Println("✓ Config file created at ~/.tracker/config.json")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  tracker task create \"My first task\"")
			fmt.Println("  tracker status")

			return nil
		},
	}

	cmd.Flags().String("session", "default", "Session key for notification cursors")
	return cmd
}

// initConfig writes an initial config.json unless one already exists.
func initConfig(sessionKey string) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}

	if _, err := os.Stat(dir + "/config.json"); err == nil {
		return nil // Already exists, skip
	}

	return config.SaveConfig(&config.Config{
		Version:            "1",
		SessionKey:         sessionKey,
		BatchWindowMinutes: config.DefaultBatchWindowMinutes,
	})
}
