package services

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// RateRefreshScheduler periodically replaces the active rate snapshot.
type RateRefreshScheduler struct {
	rates    portssvc.RateRefresherSvc
	interval time.Duration
	logger   *slog.Logger
	sched    gocron.Scheduler
}

// NewRateRefreshScheduler creates a scheduler that refreshes the snapshot at
// the configured interval.
func NewRateRefreshScheduler(rates portssvc.RateRefresherSvc, interval time.Duration, logger *slog.Logger) *RateRefreshScheduler {
	return &RateRefreshScheduler{
		rates:    rates,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the refresh job until ctx is canceled. Singleton mode guarantees
// overlapping runs never happen when the feed is slow.
func (s *RateRefreshScheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		if _, refreshErr := s.rates.RefreshNow(jobCtx); refreshErr != nil {
			s.logger.Error("Scheduled rate refresh failed",
				slog.String("exec_id", execID),
				slog.String("error", refreshErr.Error()),
			)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			s.logger.Error("Rate refresh scheduler shutdown error", slog.String("error", sdErr.Error()))
		}
	}()

	return nil
}

// Shutdown stops the scheduler and waits for a running job to finish.
func (s *RateRefreshScheduler) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	return s.sched.Shutdown()
}
