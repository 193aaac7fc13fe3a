package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"airpark/config"
	kafkaMocks "airpark/infras/kafka/mocks"
	"airpark/infras/otel/mocks"
	bookingMocks "airpark/internal/domains/booking/mocks"
	"airpark/internal/domains/booking/model"
	"airpark/internal/domains/cleanup/service"
	cacheMocks "airpark/shared/cache/mocks"
	"airpark/shared/clock"
	gDto "airpark/shared/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo  *bookingMocks.MockBooking
	kafka *kafkaMocks.MockClient
	cache *cacheMocks.MockRedisCache
	svc   service.Cleanup
}

func bucharest(t *testing.T) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Bucharest")
	require.NoError(t, err)

	return loc
}

func newFixture(t *testing.T, now time.Time, batchSize int) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.Booking.CleanupBatchSize = batchSize
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Kafka.Topics.BookingExpired = "booking.expired"

	f := fixture{
		repo:  bookingMocks.NewMockBooking(ctrl),
		kafka: kafkaMocks.NewMockClient(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.svc = service.New(f.repo, f.kafka, f.cache, cfg, clock.Fixed(now), mocks.NewOtel())

	return f
}

func active(id, endDate, endTime string) model.Booking {
	return model.Booking{
		ID:        id,
		Status:    model.StatusConfirmedPaid,
		StartDate: "2025-06-01",
		StartTime: "08:00",
		EndDate:   endDate,
		EndTime:   endTime,
	}
}

func TestPlan(t *testing.T) {
	loc := bucharest(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, loc)

	cancelled := active("cancelled", "2025-06-01", "10:00")
	cancelled.Status = model.StatusCancelled

	ids := service.Plan([]model.Booking{
		active("yesterday", "2025-06-09", "10:00"),
		active("this-morning", "2025-06-10", "11:59"),
		active("exactly-now", "2025-06-10", "12:00"),
		active("tonight", "2025-06-10", "22:00"),
		active("garbled", "2025-06-10", "late"),
		cancelled,
	}, now, loc)

	assert.Equal(t, []string{"yesterday", "this-morning", "exactly-now"}, ids)
}

func TestCleanupService_Run(t *testing.T) {
	loc := bucharest(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, loc)

	t.Run("expires due bookings and publishes events", func(t *testing.T) {
		f := newFixture(t, now, 500)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gDto.QueryParams{}, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
				where, args := filter.GetWhereClause()
				assert.Contains(t, where, "bookings.end_date <= :end_date")
				assert.Equal(t, "2025-06-10", args["end_date"])

				return []model.Booking{
					active("b-1", "2025-06-09", "10:00"),
					active("b-2", "2025-06-10", "09:00"),
					active("b-3", "2025-06-10", "20:00"),
				}, nil
			})
		f.repo.EXPECT().
			ExpireBatch(gomock.Any(), []string{"b-1", "b-2"}, now).
			Return([]model.Booking{{ID: "b-1"}, {ID: "b-2"}}, nil)
		f.kafka.EXPECT().
			SendMessages(gomock.Any(), "booking.expired", gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := f.svc.Run(context.Background(), service.TriggerCron)

		require.NoError(t, err)
		assert.Equal(t, 2, res.CleanedCount)
		assert.Empty(t, res.Errors)
	})

	t.Run("writes in bounded batches and reports failed ones", func(t *testing.T) {
		f := newFixture(t, now, 2)

		due := []model.Booking{
			active("b-1", "2025-06-01", "10:00"),
			active("b-2", "2025-06-02", "10:00"),
			active("b-3", "2025-06-03", "10:00"),
			active("b-4", "2025-06-04", "10:00"),
			active("b-5", "2025-06-05", "10:00"),
		}

		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(due, nil)
		gomock.InOrder(
			f.repo.EXPECT().ExpireBatch(gomock.Any(), []string{"b-1", "b-2"}, now).Return(due[:2], nil),
			f.repo.EXPECT().ExpireBatch(gomock.Any(), []string{"b-3", "b-4"}, now).Return(nil, errors.New("serialization failure")),
			f.repo.EXPECT().ExpireBatch(gomock.Any(), []string{"b-5"}, now).Return(due[4:], nil),
		)
		f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := f.svc.Run(context.Background(), service.TriggerSchedule)

		require.NoError(t, err)
		assert.Equal(t, 3, res.CleanedCount)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "serialization failure")
	})

	t.Run("scan failure is returned", func(t *testing.T) {
		f := newFixture(t, now, 500)

		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		_, err := f.svc.Run(context.Background(), service.TriggerCron)

		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("publish failure does not fail the run", func(t *testing.T) {
		f := newFixture(t, now, 500)

		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{active("b-1", "2025-06-09", "10:00")}, nil)
		f.repo.EXPECT().ExpireBatch(gomock.Any(), []string{"b-1"}, now).Return([]model.Booking{{ID: "b-1"}}, nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		res, err := f.svc.Run(context.Background(), service.TriggerCron)

		require.NoError(t, err)
		assert.Equal(t, 1, res.CleanedCount)
	})

	t.Run("nothing due", func(t *testing.T) {
		f := newFixture(t, now, 500)

		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{active("b-1", "2025-06-10", "18:00")}, nil)

		res, err := f.svc.Run(context.Background(), service.TriggerCron)

		require.NoError(t, err)
		assert.Zero(t, res.CleanedCount)
		assert.NotNil(t, res.Errors)
	})
}

func TestCleanupService_RunTwiceIsIdempotent(t *testing.T) {
	loc := bucharest(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, loc)
	f := newFixture(t, now, 500)

	store := map[string]model.Booking{
		"b-1": active("b-1", "2025-06-09", "10:00"),
		"b-2": active("b-2", "2025-06-10", "11:00"),
		"b-3": active("b-3", "2025-06-11", "11:00"),
	}

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, gDto.QueryParams, gDto.FilterGroup, ...string) ([]model.Booking, error) {
			var rows []model.Booking

			for _, id := range []string{"b-1", "b-2", "b-3"} {
				if b := store[id]; b.IsActive() && b.EndDate <= "2025-06-10" {
					rows = append(rows, b)
				}
			}

			return rows, nil
		}).Times(2)
	f.repo.EXPECT().ExpireBatch(gomock.Any(), gomock.Any(), now).
		DoAndReturn(func(_ context.Context, ids []string, _ time.Time) ([]model.Booking, error) {
			var expired []model.Booking

			for _, id := range ids {
				b := store[id]
				if !b.IsActive() {
					continue
				}

				b.Status = model.StatusExpired
				store[id] = b
				expired = append(expired, b)
			}

			return expired, nil
		}).Times(1)
	f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	first, err := f.svc.Run(context.Background(), service.TriggerSchedule)
	require.NoError(t, err)
	assert.Equal(t, 2, first.CleanedCount)

	second, err := f.svc.Run(context.Background(), service.TriggerSchedule)
	require.NoError(t, err)
	assert.Zero(t, second.CleanedCount)
	assert.Equal(t, model.StatusExpired, store["b-1"].Status)
	assert.Equal(t, model.StatusExpired, store["b-2"].Status)
	assert.Equal(t, model.StatusConfirmedPaid, store["b-3"].Status)
}

func TestCleanupService_TriggerRunsInBackground(t *testing.T) {
	loc := bucharest(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, loc)
	f := newFixture(t, now, 500)

	done := make(chan struct{})

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, gDto.QueryParams, gDto.FilterGroup, ...string) ([]model.Booking, error) {
			close(done)

			return nil, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	f.svc.Trigger(ctx, service.TriggerAvailability)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lazy cleanup did not run")
	}
}

func TestCleanupService_TriggerJoinsRunningPass(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, bucharest(t))
	f := newFixture(t, now, 500)

	var scans atomic.Int32

	entered := make(chan struct{}, 3)
	release := make(chan struct{})

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, gDto.QueryParams, gDto.FilterGroup, ...string) ([]model.Booking, error) {
			scans.Add(1)
			entered <- struct{}{}
			<-release

			return nil, nil
		}).
		AnyTimes()

	f.svc.Trigger(context.Background(), service.TriggerAvailability)
	<-entered

	f.svc.Trigger(context.Background(), service.TriggerStats)
	f.svc.Trigger(context.Background(), service.TriggerAvailability)
	close(release)

	assert.Never(t, func() bool { return scans.Load() > 1 }, 200*time.Millisecond, 10*time.Millisecond)
}
