// Package scheduler wires up the cron job that periodically sweeps all active
// saved candidate searches. The sweep backstops the event-driven rescan: if
// a profile-save event is lost, the next tick records the match anyway.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"jobmate/match-service/internal/savedsearch"
)

// Scheduler wraps robfig/cron and manages the saved-search sweep loop.
type Scheduler struct {
	cron     *cron.Cron
	searches *savedsearch.Service
	spec     string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(searches *savedsearch.Service, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cron.DefaultLogger)),
		searches: searches,
		spec:     fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so matches recorded while the service was down are picked up
// without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// runSweep evaluates every active saved search once.
func (s *Scheduler) runSweep(ctx context.Context) {
	log.Println("[scheduler] Saved-search sweep started")
	if err := s.searches.RunAll(ctx); err != nil {
		log.Printf("[scheduler] Sweep error: %v", err)
		return
	}
	log.Println("[scheduler] Saved-search sweep complete")
}
