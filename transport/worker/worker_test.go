package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"airpark/config"
	kafkaMocks "airpark/infras/kafka/mocks"
	"airpark/infras/otel/mocks"
	bookingMocks "airpark/internal/domains/booking/mocks"
	cleanupMocks "airpark/internal/domains/cleanup/mocks"
	cleanupService "airpark/internal/domains/cleanup/service"
	"airpark/transport/consumer"
	"airpark/transport/scheduler"
	"airpark/transport/worker"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRunContext(t *testing.T) {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.Booking.CleanupIntervalSeconds = 3600
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Kafka.Topics.PaymentCompleted = "payment.completed"

	cleanup := cleanupMocks.NewMockCleanup(ctrl)
	cleanup.EXPECT().
		Run(gomock.Any(), cleanupService.TriggerSchedule).
		Return(cleanupService.Result{}, nil).
		AnyTimes()

	client := kafkaMocks.NewMockClient(ctrl)
	client.EXPECT().
		Consume(gomock.Any(), "payment.completed", gomock.Any()).
		Return(errors.New("broker down"))

	w := worker.New(
		scheduler.New(cleanup, cfg),
		consumer.New(client, bookingMocks.NewMockBookingService(ctrl), cfg, mocks.NewOtel()),
	)

	done := make(chan error, 1)
	go func() { done <- w.RunContext(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "broker down")
	case <-time.After(5 * time.Second):
		t.Fatal("worker kept running after the consumer failed")
	}
}
