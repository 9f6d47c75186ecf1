package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultBatchWindowMinutes is how long the notifier waits before resending
// an approval batch for the same session.
const DefaultBatchWindowMinutes = 30

// Config represents the flat tracker configuration
type Config struct {
	Version            string  `json:"version"`
	SessionKey         string  `json:"session_key,omitempty"`
	TelegramToken      string  `json:"telegram_token,omitempty"`
	TelegramChatID     int64   `json:"telegram_chat_id,omitempty"`
	AllowedSenderIDs   []int64 `json:"allowed_sender_ids,omitempty"`
	BatchWindowMinutes int     `json:"batch_window_minutes,omitempty"`
}

// Dir returns the tracker config directory (~/.tracker).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tracker"), nil
}

// LoadConfig reads config.json from the tracker directory.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.BatchWindowMinutes <= 0 {
		cfg.BatchWindowMinutes = DefaultBatchWindowMinutes
	}

	return &cfg, nil
}

// SaveConfig writes config.json to the tracker directory
func SaveConfig(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create .tracker dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
