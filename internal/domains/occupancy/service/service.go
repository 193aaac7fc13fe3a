package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"airpark/config"
	"airpark/infras/otel"
	"airpark/infras/s3"
	"airpark/internal/domains/booking/model"
	bookingRepo "airpark/internal/domains/booking/repository"
	"airpark/internal/domains/occupancy/model/dto"
	settingService "airpark/internal/domains/setting/service"
	"airpark/shared"
	"airpark/shared/cache"
	"airpark/shared/clock"
	"airpark/shared/constant"
	gDto "airpark/shared/dto"

	"github.com/rs/zerolog/log"
)

const (
	cacheCurrentOccupancy = constant.CacheKeyOccupancy + ":current"
	cacheMinuteLayout     = "200601021504"
	snapshotDirectory     = "occupancy"
	snapshotLayout        = "20060102T150405"
)

type Occupancy interface {
	Current(ctx context.Context) dto.OccupancyResponse
	Snapshot(ctx context.Context) (dto.SnapshotResponse, error)
}

type serviceImpl struct {
	repo     bookingRepo.Booking
	settings settingService.Setting
	storage  s3.S3
	cache    cache.RedisCache
	cfg      *config.Config
	clock    clock.Clock
	otel     otel.Otel
}

func New(
	repo bookingRepo.Booking,
	settings settingService.Setting,
	storage s3.S3,
	cache cache.RedisCache,
	cfg *config.Config,
	clk clock.Clock,
	otel otel.Otel,
) Occupancy {
	return &serviceImpl{
		repo:     repo,
		settings: settings,
		storage:  storage,
		cache:    cache,
		cfg:      cfg,
		clock:    clk,
		otel:     otel,
	}
}

// Tally splits today's active bookings into those parked at now and those
// still due to arrive later today.
func Tally(bookings []model.Booking, now time.Time, loc *time.Location) (activeNow, scheduledToday int) {
	today := now.In(loc).Format(constant.DateFormat)

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}

		w, err := b.Window(loc)
		if err != nil {
			continue
		}

		switch {
		case w.Contains(now):
			activeNow++
		case w.Start.After(now) && b.StartDate == today:
			scheduledToday++
		}
	}

	return activeNow, scheduledToday
}

// Rate returns active as a percentage of spots, rounded to two decimals.
func Rate(active, spots int) float64 {
	if spots <= 0 {
		return 0
	}

	return math.Round(float64(active)/float64(spots)*10000) / 100
}

// Current never fails. When bookings cannot be read the counts are reported as zero.
func (s *serviceImpl) Current(ctx context.Context) (res dto.OccupancyResponse) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".occupancy.Current")
	defer scope.End()

	now := s.clock.Now()
	loc := s.clock.Location()
	cacheKey := shared.BuildCacheKey(cacheCurrentOccupancy, now.In(loc).Format(cacheMinuteLayout))

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res
	}

	res.TotalSpots = s.settings.Capacity(ctx)
	res.GeneratedAt = now.Format(constant.DateTimeFormat)

	today := now.In(loc).Format(constant.DateFormat)

	rows, err := s.repo.GetAll(ctx, gDto.QueryParams{}, gDto.And(
		gDto.Filter{Field: model.FieldStatus, Table: model.TableName, Operator: gDto.FilterOperatorIn, Value: model.ActiveStatuses},
		gDto.Filter{Field: model.FieldStartDate, Table: model.TableName, Operator: gDto.FilterOperatorLessEq, Value: today},
		gDto.Filter{Field: model.FieldEndDate, Table: model.TableName, Operator: gDto.FilterOperatorGreaterEq, Value: today},
	))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read bookings for occupancy, reporting zero")

		return res
	}

	res.ActiveNow, res.ScheduledToday = Tally(rows, now, loc)
	res.OccupancyRate = Rate(res.ActiveNow, res.TotalSpots)

	scope.SetAttributes(map[string]any{
		"occupancy.active":    res.ActiveNow,
		"occupancy.scheduled": res.ScheduledToday,
	})

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save occupancy to cache")
		}
	}()

	return res
}

// Snapshot stores the current occupancy as a JSON object under occupancy/<date>/.
func (s *serviceImpl) Snapshot(ctx context.Context) (res dto.SnapshotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".occupancy.Snapshot")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res.Occupancy = s.Current(ctx)

	payload, err := json.Marshal(res.Occupancy)
	if err != nil {
		return res, fmt.Errorf("failed to encode occupancy snapshot: %w", err)
	}

	now := s.clock.Now().In(s.clock.Location())
	directory := snapshotDirectory + "/" + now.Format(constant.DateFormat)

	res.URL, err = s.storage.UploadBytes(ctx, directory, now.Format(snapshotLayout)+".json", constant.ContentTypeJSON, payload)
	if err != nil {
		log.Error().Err(err).Str("directory", directory).Msg("failed to upload occupancy snapshot")

		return res, fmt.Errorf("failed to upload occupancy snapshot: %w", err)
	}

	log.Info().Str("url", res.URL).Int("activeNow", res.Occupancy.ActiveNow).Msg("occupancy snapshot stored")

	return res, nil
}
