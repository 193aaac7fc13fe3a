package worker

import (
	"context"
	"os/signal"
	"syscall"

	"airpark/transport/consumer"
	"airpark/transport/scheduler"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Worker hosts the background side of the service: the cleanup scheduler
// and the payment consumer.
type Worker struct {
	Scheduler *scheduler.Scheduler
	Consumer  *consumer.Consumer
}

func New(scheduler *scheduler.Scheduler, consumer *consumer.Consumer) *Worker {
	return &Worker{
		Scheduler: scheduler,
		Consumer:  consumer,
	}
}

// Run blocks until SIGINT or SIGTERM, or until the consumer fails.
func (w *Worker) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return w.RunContext(ctx)
}

func (w *Worker) RunContext(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		w.Scheduler.Run(ctx)

		return nil
	})

	group.Go(func() error {
		return w.Consumer.Run(ctx)
	})

	err := group.Wait()

	log.Info().Msg("worker stopped")

	return err
}
