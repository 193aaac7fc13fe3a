package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"airpark/config"
	cleanupMocks "airpark/internal/domains/cleanup/mocks"
	cleanupService "airpark/internal/domains/cleanup/service"
	"airpark/transport/scheduler"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRun(t *testing.T) {
	t.Run("runs immediately and keeps going after a failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cleanup := cleanupMocks.NewMockCleanup(ctrl)

		cfg := &config.Config{}
		cfg.App.Booking.CleanupIntervalSeconds = 1

		ctx, cancel := context.WithCancel(context.Background())

		gomock.InOrder(
			cleanup.EXPECT().
				Run(gomock.Any(), cleanupService.TriggerSchedule).
				Return(cleanupService.Result{}, errors.New("database unavailable")),
			cleanup.EXPECT().
				Run(gomock.Any(), cleanupService.TriggerSchedule).
				DoAndReturn(func(context.Context, string) (cleanupService.Result, error) {
					cancel()

					return cleanupService.Result{CleanedCount: 2, Errors: []string{}}, nil
				}),
		)

		done := make(chan struct{})
		go func() {
			scheduler.New(cleanup, cfg).Run(ctx)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("scheduler did not stop after cancellation")
		}
	})

	t.Run("stops after the first run when already cancelled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cleanup := cleanupMocks.NewMockCleanup(ctrl)

		cleanup.EXPECT().
			Run(gomock.Any(), cleanupService.TriggerSchedule).
			Return(cleanupService.Result{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		scheduler.New(cleanup, &config.Config{}).Run(ctx)

		assert.True(t, ctrl.Satisfied())
	})
}
