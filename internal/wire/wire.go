// Package wire provides dependency injection for the tracker application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/tracker/internal/adapters/sqlite"
	"github.com/example/tracker/internal/app"
	"github.com/example/tracker/internal/db"
	"github.com/example/tracker/internal/ports/primary"
	"github.com/example/tracker/internal/ports/secondary"
)

var (
	schedulerService primary.SchedulerService
	approvalService  primary.ApprovalService
	goalService      primary.GoalService
	journalService   primary.JournalService
	sessionRepo      secondary.SessionStateRepository
	once             sync.Once
)

// SchedulerService returns the singleton SchedulerService instance.
func SchedulerService() primary.SchedulerService {
	once.Do(initServices)
	return schedulerService
}

// ApprovalService returns the singleton ApprovalService instance.
func ApprovalService() primary.ApprovalService {
	once.Do(initServices)
	return approvalService
}

// GoalService returns the singleton GoalService instance.
func GoalService() primary.GoalService {
	once.Do(initServices)
	return goalService
}

// JournalService returns the singleton JournalService instance.
func JournalService() primary.JournalService {
	once.Do(initServices)
	return journalService
}

// SessionStateRepository returns the singleton session cursor repository.
// The notify collaborators use it for the inbound watermark.
func SessionStateRepository() secondary.SessionStateRepository {
	once.Do(initServices)
	return sessionRepo
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	taskRepo := sqlite.NewTaskRepository(database)
	goalRepo := sqlite.NewGoalRepository(database)
	approvalRepo := sqlite.NewApprovalRepository(database)
	journalRepo := sqlite.NewJournalRepository(database)
	sessionRepo = sqlite.NewSessionStateRepository(database)

	schedulerService = app.NewSchedulerService(taskRepo)
	approvalService = app.NewApprovalService(approvalRepo, sessionRepo)
	goalService = app.NewGoalService(goalRepo)
	journalService = app.NewJournalService(journalRepo, taskRepo)
}
