package jobs

import (
	"time"

	"menu-booking-backend/internal/config"
	"menu-booking-backend/internal/logger"
	"menu-booking-backend/internal/repository"
	"menu-booking-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	items        repository.ItemRepository
	reservations repository.ReservationRepository
	email        service.EmailService
	config       *config.Config
	now          func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(items repository.ItemRepository, reservations repository.ReservationRepository, email service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		items:        items,
		reservations: reservations,
		email:        email,
		config:       cfg,
		now:          time.Now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SendBookingReminders()
}
