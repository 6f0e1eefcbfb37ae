package monitoring

import (
	"fmt"
	"log"
	"time"

	"github.com/heartwise/cardio-be/internal/services"
	"github.com/robfig/cron/v3"
)

// RetentionWorker periodically deletes prediction history older than the
// configured retention window.
type RetentionWorker struct {
	predictionSvc services.PredictionServiceProvider
	schedule      cron.Schedule
	retention     time.Duration
	nextRun       time.Time
	ticker        *time.Ticker
	done          chan bool
}

// NewRetentionWorker creates a retention worker. The schedule is a standard
// cron expression; retentionDays is how long prediction rows are kept.
func NewRetentionWorker(predictionSvc services.PredictionServiceProvider, scheduleExpr string, retentionDays int) (*RetentionWorker, error) {
	schedule, err := cron.ParseStandard(scheduleExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", scheduleExpr, err)
	}

	return &RetentionWorker{
		predictionSvc: predictionSvc,
		schedule:      schedule,
		retention:     time.Duration(retentionDays) * 24 * time.Hour,
		nextRun:       schedule.Next(time.Now()),
		done:          make(chan bool),
	}, nil
}

// Run starts the worker's ticking loop.
func (w *RetentionWorker) Run() {
	log.Println("Starting prediction retention worker...")
	w.ticker = time.NewTicker(1 * time.Minute)
	defer w.ticker.Stop()

	for {
		select {
		case <-w.done:
			log.Println("Stopping prediction retention worker.")
			return
		case <-w.ticker.C:
			w.purgeIfDue(time.Now())
		}
	}
}

// Stop halts the worker.
func (w *RetentionWorker) Stop() {
	w.done <- true
}

// purgeIfDue runs the purge when the schedule has come due.
func (w *RetentionWorker) purgeIfDue(now time.Time) {
	if now.Before(w.nextRun) {
		return
	}
	w.nextRun = w.schedule.Next(now)

	cutoff := now.Add(-w.retention)
	purged, err := w.predictionSvc.PurgeOlderThan(cutoff)
	if err != nil {
		log.Printf("Retention worker: purge failed: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Retention worker: purged %d predictions older than %s", purged, cutoff.Format(time.RFC3339))
	}
}
