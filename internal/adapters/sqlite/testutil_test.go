// Package sqlite_test contains integration tests for SQLite repositories.
//
// All test setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema. Do not hardcode CREATE TABLE statements here.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/tracker/internal/adapters/sqlite"
	"github.com/example/tracker/internal/db"
	"github.com/example/tracker/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedTask inserts a task with explicit id, status and prerequisites.
func seedTask(t *testing.T, repo *sqlite.TaskRepository, id int64, title, status string, prereqs []int64) {
	t.Helper()
	err := repo.Create(context.Background(), &secondary.TaskRecord{
		ID:            id,
		Title:         title,
		Status:        status,
		Priority:      "medium",
		Prerequisites: prereqs,
		Impact:        5,
		Urgency:       5,
		Effort:        5,
	})
	if err != nil {
		t.Fatalf("failed to seed task %d: %v", id, err)
	}
}
