// Package scheduler wires up the cron job that periodically publishes
// follow-up reminder digests for every user.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps robfig/cron and manages the digest loop.
type Scheduler struct {
	cron   *cron.Cron
	digest *Digest
	spec   string // cron spec, e.g. "@every 6h"
	wg     sync.WaitGroup
}

// New creates a Scheduler that fires every intervalHours hours.
func New(digest *Digest, intervalHours int) *Scheduler {
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo))
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		digest: digest,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Spec returns the cron schedule.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers the job and starts the scheduler. Also runs one digest
// immediately so reminders go out without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runDigest(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	slog.Info("reminder scheduler started", "spec", s.spec)

	// Run immediately on startup (non-blocking)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runDigest(ctx)
	}()

	return nil
}

// Stop halts the scheduler and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	slog.Info("reminder scheduler stopped")
}

func (s *Scheduler) runDigest(ctx context.Context) {
	sum, err := s.digest.Run(ctx)
	if err != nil {
		slog.Error("reminder digest failed", "err", err)
		return
	}
	slog.Info("reminder digest complete",
		"users", sum.Users, "sent", sum.Sent, "skipped", sum.Skipped, "failed", sum.Failed)
}
