package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"

	"airpark/config"
	"airpark/infras/otel"
	"airpark/internal/domains/booking/model"
	"airpark/internal/domains/booking/model/dto"
	"airpark/internal/domains/booking/repository"
	cleanupService "airpark/internal/domains/cleanup/service"
	settingService "airpark/internal/domains/setting/service"
	"airpark/shared"
	"airpark/shared/cache"
	"airpark/shared/clock"
	"airpark/shared/constant"
	gDto "airpark/shared/dto"
	"airpark/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = constant.CacheKeyBooking + ":get"
	cacheGetAllBooking = constant.CacheKeyBooking + ":gets"
	cacheStatsBooking  = constant.CacheKeyBooking + ":stats"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, bool, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	GetActive(ctx context.Context) ([]dto.BookingResponse, error)
	Stats(ctx context.Context) (dto.StatsResponse, error)
}

type serviceImpl struct {
	repo     repository.Booking
	settings settingService.Setting
	cleanup  cleanupService.Cleanup
	cfg      *config.Config
	cache    cache.RedisCache
	clock    clock.Clock
	otel     otel.Otel
}

func New(
	repo repository.Booking,
	settings settingService.Setting,
	cleanup cleanupService.Cleanup,
	cfg *config.Config,
	cache cache.RedisCache,
	clk clock.Clock,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:     repo,
		settings: settings,
		cleanup:  cleanup,
		cfg:      cfg,
		cache:    cache,
		clock:    clk,
		otel:     otel,
	}
}

// Create admits a booking when a spot is free for its whole window. The
// capacity check is repeated inside the insert transaction, so it holds even
// when concurrent requests passed the same availability check. Bookings that
// do not occupy a spot skip both the capacity and the window end checks. Creating a
// booking with an already stored payment reference returns the stored one and
// created=false.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, created bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = constant.ContextSystem
	}

	now := s.clock.Now()
	loc := s.clock.Location()

	proposed, err := model.ParseWindow(req.StartDate, req.StartTime, req.EndDate, req.EndTime, loc)
	if err != nil {
		return res, false, failure.BadRequest(err) // nolint:wrapcheck
	}

	booking := req.ToModel(user, now)

	if booking.IsActive() && !proposed.End.After(now) {
		return res, false, failure.BadRequestFromString("booking window has already ended") // nolint:wrapcheck
	}
	capacity := s.settings.Capacity(ctx)

	scope.SetAttributes(map[string]any{
		"booking.status":   booking.Status,
		"booking.capacity": capacity,
	})

	admit := func(candidates []model.Booking) error {
		if !booking.IsActive() {
			return nil
		}

		conflicts := model.CountConflicts(model.LiveWindows(candidates, now, loc), proposed)
		if conflicts+1 > capacity {
			log.Info().
				Int("conflicts", conflicts).
				Int("capacity", capacity).
				Str("startDate", booking.StartDate).
				Str("endDate", booking.EndDate).
				Msg("booking refused, capacity reached")

			return failure.CapacityExceededError
		}

		return nil
	}

	stored, created, err := s.repo.InsertAdmitted(ctx, booking, admit)
	if err != nil {
		var fail *failure.Failure
		if errors.As(err, &fail) {
			return res, false, err
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, false, fmt.Errorf("failed to create booking: %w", err)
	}

	res.FromModel(stored)

	if !created {
		log.Info().Str("paymentReference", stored.PaymentReference).Str("id", stored.ID).Msg("booking already recorded for payment reference")

		return res, false, nil
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CacheKeyBooking+":")
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyOccupancy+":")
	}()

	return res, true, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// Update edits operator fields of a booking. A status change that makes the
// booking occupy a spot passes the same capacity check as Create, under the
// same lock. Expired bookings keep their status.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := s.clock.Now()
	loc := s.clock.Location()

	if req.LicensePlate != constant.Empty {
		req.LicensePlate = dto.NormalizePlate(req.LicensePlate)
	}

	capacity := 0
	if model.IsActiveStatus(req.Status) {
		capacity = s.settings.Capacity(ctx)
	}

	updatedFields := shared.TransformFields(req, user)
	updatedFields[model.FieldLastUpdated] = now

	change := func(current model.Booking, candidates []model.Booking) (map[string]any, error) {
		if req.Status == constant.Empty || req.Status == current.Status {
			return updatedFields, nil
		}

		if current.Status == model.StatusExpired {
			return nil, failure.BadRequestFromString("expired bookings cannot change status")
		}

		if current.IsActive() || !model.IsActiveStatus(req.Status) {
			return updatedFields, nil
		}

		window, err := current.Window(loc)
		if err != nil {
			return nil, failure.BadRequest(err)
		}

		if !window.End.After(now) {
			return nil, failure.BadRequestFromString("booking window has already ended")
		}

		conflicts := model.CountConflicts(model.LiveWindows(candidates, now, loc), window)
		if conflicts+1 > capacity {
			log.Info().
				Int("conflicts", conflicts).
				Int("capacity", capacity).
				Str("id", current.ID).
				Str("status", req.Status).
				Msg("status change refused, capacity reached")

			return nil, failure.CapacityExceededError
		}

		return updatedFields, nil
	}

	found, err := s.repo.UpdateAdmitted(ctx, id, now, change)
	if err != nil {
		var fail *failure.Failure
		if errors.As(err, &fail) {
			return err
		}

		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	if !found {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CacheKeyBooking+":")
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyOccupancy+":")
	}()

	return nil
}

// GetActive lists bookings holding an active status whose end is still ahead,
// including rows the cleanup job has not reached yet only if they are still live.
func (s *serviceImpl) GetActive(ctx context.Context) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetActive")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := s.clock.Now()
	loc := s.clock.Location()

	rows, err := s.repo.GetAll(ctx,
		gDto.QueryParams{SortBy: model.FieldStartDate, SortDir: gDto.SortDirAsc},
		gDto.And(
			gDto.Filter{Field: model.FieldStatus, Table: model.TableName, Operator: gDto.FilterOperatorIn, Value: model.ActiveStatuses},
			gDto.Filter{Field: model.FieldEndDate, Table: model.TableName, Operator: gDto.FilterOperatorGreaterEq, Value: now.In(loc).Format(constant.DateFormat)},
		),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get active bookings")

		return nil, fmt.Errorf("failed to get active bookings: %w", err)
	}

	live := make([]model.Booking, 0, len(rows))

	for _, b := range rows {
		if !model.IsExpired(b, now, loc) {
			live = append(live, b)
		}
	}

	scope.SetAttribute("bookings.lazily_expired", len(rows)-len(live))

	return dto.FromModels(live), nil
}

// Stats recomputes the active count from booking rows. The stored counter is
// reported next to it for display only.
func (s *serviceImpl) Stats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if cacheErr := s.cache.Get(ctx, cacheStatsBooking, &res); cacheErr == nil {
		return res, nil
	}

	now := s.clock.Now()
	loc := s.clock.Location()

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings by status")

		return res, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	res.ByStatus = make(map[string]int, len(counts))
	for _, c := range counts {
		res.ByStatus[c.Status] = c.Total
		res.Total += c.Total
	}

	active, err := s.repo.GetAll(ctx, gDto.QueryParams{}, gDto.And(
		gDto.Filter{Field: model.FieldStatus, Table: model.TableName, Operator: gDto.FilterOperatorIn, Value: model.ActiveStatuses},
	))
	if err != nil {
		log.Error().Err(err).Msg("failed to get active bookings for stats")

		return res, fmt.Errorf("failed to get active bookings for stats: %w", err)
	}

	for _, b := range active {
		if model.IsExpired(b, now, loc) {
			res.PendingExpiry++

			continue
		}

		res.ActiveNow++
	}

	if stats, statsErr := s.settings.Stats(ctx); statsErr == nil {
		res.CachedActive = stats.ActiveBookingsCount
	}

	res.TotalSpots = s.settings.Capacity(ctx)
	res.GeneratedAt = now.Format(constant.DateTimeFormat)

	if res.PendingExpiry > 0 {
		s.cleanup.Trigger(ctx, cleanupService.TriggerStats)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheStatsBooking, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking stats to cache")
		}
	}()

	return res, nil
}
