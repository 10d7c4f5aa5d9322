package scheduler

import (
	"fmt"
	"sync"
	"time"

	"fleettrack_server/config"
	"fleettrack_server/internal/models"
	"fleettrack_server/internal/services"
	"fleettrack_server/pkg/colors"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler drives the periodic retention sweep. On each tick it walks every
// active account and deletes events older than the account's retention
// policy, using the virtual "all" group so every device is covered.
type Scheduler struct {
	db      *gorm.DB
	cfg     *config.RetentionConfig
	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

// NewScheduler creates a retention sweep scheduler
func NewScheduler(database *gorm.DB, cfg *config.RetentionConfig) *Scheduler {
	return &Scheduler{
		db:   database,
		cfg:  cfg,
		cron: cron.New(),
	}
}

// Start registers the sweep job and starts the cron loop. Does nothing when
// scheduled sweeps are disabled.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.Enabled {
		colors.PrintInfo("Scheduled retention sweep is disabled")
		return nil
	}

	if _, err := cron.ParseStandard(s.cfg.CronSpec); err != nil {
		return fmt.Errorf("invalid retention cron schedule %q: %w", s.cfg.CronSpec, err)
	}

	if _, err := s.cron.AddFunc(s.cfg.CronSpec, s.SweepAllAccounts); err != nil {
		return fmt.Errorf("scheduling retention sweep: %w", err)
	}

	s.cron.Start()
	s.running = true
	colors.PrintSuccess("Retention sweep scheduled: %s (default %d days)",
		s.cfg.CronSpec, s.cfg.DefaultRetainedDays)
	return nil
}

// Stop stops the cron loop and waits for a running sweep to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		colors.PrintInfo("Retention sweep scheduler stopped")
	}
}

// IsRunning reports whether the cron loop is active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the time of the next scheduled sweep, or nil when no sweep
// is scheduled
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

// SweepAllAccounts runs one full retention pass over every active account
func (s *Scheduler) SweepAllAccounts() {
	runID := uuid.New().String()
	colors.PrintSweep("Scheduled retention sweep starting [run %s]", runID)

	var accounts []models.Account
	if err := s.db.Where("is_active = ?", true).Order("account_id").Find(&accounts).Error; err != nil {
		colors.PrintError("Retention sweep: unable to list accounts: %v", err)
		return
	}

	retention := services.NewRetentionService(s.db, nil)
	now := time.Now().Unix()
	var grandTotal int64
	for i := range accounts {
		account := &accounts[i]

		days := account.RetainedEventDays
		if days == 0 {
			days = s.cfg.DefaultRetainedDays
		}
		if days == 0 {
			// no policy anywhere; leave this account's events alone
			continue
		}
		cutoff := now - int64(days)*86400

		total, err := retention.DeleteOldEvents(account, models.DeviceGroupAll, cutoff, false)
		if err != nil {
			colors.PrintError("Retention sweep for %s failed after %d deletions: %v",
				account.AccountID, total, err)
			continue
		}
		if total > 0 {
			colors.PrintSweep("  %s: deleted %d events older than %d days", account.AccountID, total, days)
			grandTotal += total
		} else if total == services.EventCountUnknown {
			colors.PrintSweep("  %s: deleted an indeterminate number of events", account.AccountID)
		}
	}

	colors.PrintSweep("Scheduled retention sweep finished [run %s]: %d events deleted across %d accounts",
		runID, grandTotal, len(accounts))
}
