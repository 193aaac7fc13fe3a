package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"
	"time"

	"airpark/config"
	"airpark/infras/kafka"
	"airpark/infras/otel"
	"airpark/internal/domains/booking/model"
	"airpark/internal/domains/booking/model/dto"
	bookingRepo "airpark/internal/domains/booking/repository"
	"airpark/shared"
	"airpark/shared/cache"
	"airpark/shared/clock"
	"airpark/shared/constant"
	gDto "airpark/shared/dto"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	maxBatchSize   = 500
	publishTimeout = 5 * time.Second
	flightKey      = "cleanup"
)

const (
	TriggerSchedule     = "schedule"
	TriggerCron         = "cron"
	TriggerAvailability = "availability"
	TriggerStats        = "stats"
)

// Result reports one cleanup pass. Errors holds one entry per failed batch.
type Result struct {
	CleanedCount int      `json:"cleanedCount"`
	Errors       []string `json:"errors"`
}

type Cleanup interface {
	Run(ctx context.Context, trigger string) (Result, error)
	Trigger(ctx context.Context, trigger string)
}

type serviceImpl struct {
	repo   bookingRepo.Booking
	kafka  kafka.Client
	cache  cache.RedisCache
	cfg    *config.Config
	clock  clock.Clock
	otel   otel.Otel
	flight singleflight.Group
}

func New(repo bookingRepo.Booking, kafka kafka.Client, cache cache.RedisCache, cfg *config.Config, clk clock.Clock, otel otel.Otel) Cleanup {
	return &serviceImpl{
		repo:  repo,
		kafka: kafka,
		cache: cache,
		cfg:   cfg,
		clock: clk,
		otel:  otel,
	}
}

// Plan returns the ids of the bookings that are due to expire at now.
func Plan(bookings []model.Booking, now time.Time, loc *time.Location) []string {
	ids := make([]string, 0, len(bookings))

	for _, b := range bookings {
		if model.IsExpired(b, now, loc) {
			ids = append(ids, b.ID)
		}
	}

	return ids
}

func (s *serviceImpl) batchSize() int {
	size := s.cfg.App.Booking.CleanupBatchSize
	if size <= 0 || size > maxBatchSize {
		return maxBatchSize
	}

	return size
}

// Run expires every due booking. Only a failure to read candidates is returned
// as an error; failed batches are reported in Result.Errors and left for the next run.
func (s *serviceImpl) Run(ctx context.Context, trigger string) (res Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".cleanup.Run")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := s.clock.Now()
	loc := s.clock.Location()
	today := now.In(loc).Format(constant.DateFormat)

	scope.SetAttributes(map[string]any{
		"cleanup.trigger": trigger,
		"cleanup.today":   today,
	})

	res.Errors = []string{}

	candidates, err := s.repo.GetAll(ctx, gDto.QueryParams{}, gDto.And(
		gDto.Filter{Field: model.FieldStatus, Table: model.TableName, Operator: gDto.FilterOperatorIn, Value: model.ActiveStatuses},
		gDto.Filter{Field: model.FieldEndDate, Table: model.TableName, Operator: gDto.FilterOperatorLessEq, Value: today},
	))
	if err != nil {
		log.Error().Err(err).Str("trigger", trigger).Msg("failed to scan bookings for cleanup")

		return res, fmt.Errorf("failed to scan bookings for cleanup: %w", err)
	}

	ids := Plan(candidates, now, loc)

	batch := 0
	for chunk := range slices.Chunk(ids, s.batchSize()) {
		batch++

		expired, err := s.repo.ExpireBatch(ctx, chunk, now)
		if err != nil {
			log.Error().Err(err).Int("batch", batch).Int("size", len(chunk)).Msg("failed to expire booking batch")
			res.Errors = append(res.Errors, fmt.Sprintf("batch %d: %v", batch, err))

			continue
		}

		res.CleanedCount += len(expired)
		s.publish(ctx, expired, now)
	}

	scope.SetAttribute("cleanup.cleaned", res.CleanedCount)

	if res.CleanedCount > 0 {
		go func() {
			c := context.WithoutCancel(ctx)

			shared.InvalidateCaches(c, s.cache, constant.CacheKeyBooking+":")
			shared.InvalidateCaches(c, s.cache, constant.CacheKeyOccupancy+":")
		}()
	}

	log.Info().
		Str("trigger", trigger).
		Int("scanned", len(candidates)).
		Int("due", len(ids)).
		Int("cleaned", res.CleanedCount).
		Int("failedBatches", len(res.Errors)).
		Msg("expired booking cleanup finished")

	return res, nil
}

// Trigger starts a background run. Triggers arriving while a run is in flight
// join it instead of starting another.
func (s *serviceImpl) Trigger(ctx context.Context, trigger string) {
	s.flight.DoChan(flightKey, func() (any, error) {
		res, err := s.Run(context.WithoutCancel(ctx), trigger)
		if err != nil {
			log.Error().Err(err).Str("trigger", trigger).Msg("lazy cleanup failed")
		}

		return res, err
	})
}

func (s *serviceImpl) publish(ctx context.Context, expired []model.Booking, at time.Time) {
	topic := s.cfg.Kafka.Topics.BookingExpired
	if len(expired) == 0 || topic == constant.Empty || len(s.cfg.Kafka.Brokers) == 0 {
		return
	}

	messages := make([]kafka.Message, 0, len(expired))
	for _, b := range expired {
		messages = append(messages, kafka.Message{
			Key: b.ID,
			Value: dto.BookingExpiredEvent{
				BookingID:    b.ID,
				LicensePlate: b.LicensePlate,
				EndDate:      b.EndDate,
				EndTime:      b.EndTime,
				ExpiredAt:    at.Format(constant.DateTimeFormat),
			},
		})
	}

	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.kafka.SendMessages(c, topic, messages...); err != nil {
		log.Warn().Err(err).Int("count", len(messages)).Msg("failed to publish booking expired events")
	}
}
