package scheduler

import (
	"context"
	"time"

	"airpark/config"
	cleanupService "airpark/internal/domains/cleanup/service"

	"github.com/rs/zerolog/log"
)

const defaultInterval = 5 * time.Minute

// Scheduler runs the expired booking cleanup at a fixed interval.
type Scheduler struct {
	cleanup  cleanupService.Cleanup
	interval time.Duration
}

func New(cleanup cleanupService.Cleanup, cfg *config.Config) *Scheduler {
	interval := time.Duration(cfg.App.Booking.CleanupIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Scheduler{
		cleanup:  cleanup,
		interval: interval,
	}
}

// Run cleans once immediately, then on every tick until ctx is cancelled.
// A failed run is logged and retried on the next tick.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().Dur("interval", s.interval).Msg("cleanup scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.tick(ctx)

		select {
		case <-ctx.Done():
			log.Info().Msg("cleanup scheduler stopped")

			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	res, err := s.cleanup.Run(ctx, cleanupService.TriggerSchedule)
	if err != nil {
		log.Error().Err(err).Msg("scheduled cleanup failed")

		return
	}

	if len(res.Errors) > 0 {
		log.Warn().Strs("errors", res.Errors).Int("cleaned", res.CleanedCount).Msg("scheduled cleanup finished with failed batches")
	}
}
