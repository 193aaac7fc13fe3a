package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Setting=MockSettingService

import (
	"context"
	"fmt"
	"time"

	"airpark/config"
	"airpark/infras/otel"
	"airpark/internal/domains/setting/model"
	"airpark/internal/domains/setting/model/dto"
	"airpark/internal/domains/setting/repository"
	"airpark/shared/clock"
	"airpark/shared/constant"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

const cacheKeySettings = "reservation_settings"

type Setting interface {
	Capacity(ctx context.Context) int
	Get(ctx context.Context) (dto.ReservationSettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationSettingsRequest) error
	Stats(ctx context.Context) (model.ReservationStats, error)
}

type serviceImpl struct {
	repo  repository.Setting
	cfg   *config.Config
	clock clock.Clock
	local *gocache.Cache
	otel  otel.Otel
}

func New(repo repository.Setting, cfg *config.Config, clk clock.Clock, otel otel.Otel) Setting {
	ttl := time.Duration(cfg.App.Booking.SettingsCacheSeconds) * time.Second

	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		clock: clk,
		local: gocache.New(ttl, 2*ttl),
		otel:  otel,
	}
}

func (s *serviceImpl) defaultCapacity() int {
	if s.cfg.App.Booking.DefaultCapacity > 0 {
		return s.cfg.App.Booking.DefaultCapacity
	}

	return 100
}

// Capacity never fails: a missing or unreadable setting yields the configured default.
func (s *serviceImpl) Capacity(ctx context.Context) int {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".setting.Capacity")
	defer scope.End()

	settings, ok := s.load(ctx)
	if !ok {
		return s.defaultCapacity()
	}

	scope.SetAttribute("capacity", settings.MaxTotalReservations)

	return settings.MaxTotalReservations
}

func (s *serviceImpl) load(ctx context.Context) (model.ReservationSettings, bool) {
	if cached, found := s.local.Get(cacheKeySettings); found {
		if settings, ok := cached.(model.ReservationSettings); ok {
			return settings, true
		}
	}

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		log.Warn().Err(err).Int("default", s.defaultCapacity()).Msg("failed to load reservation settings, using default capacity")

		return settings, false
	}

	if settings.MaxTotalReservations <= 0 {
		log.Warn().Int("default", s.defaultCapacity()).Msg("reservation settings not configured, using default capacity")

		return settings, false
	}

	s.local.SetDefault(cacheKeySettings, settings)

	return settings, true
}

func (s *serviceImpl) Get(ctx context.Context) (res dto.ReservationSettingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".setting.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation settings")

		return res, fmt.Errorf("failed to get reservation settings: %w", err)
	}

	if settings.MaxTotalReservations <= 0 {
		res.MaxTotalReservations = s.defaultCapacity()
		res.Default = true

		return res, nil
	}

	res.FromModel(settings)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationSettingsRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".setting.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = constant.ContextSystem
	}

	settings := model.ReservationSettings{
		ID:                   model.SingletonID,
		MaxTotalReservations: req.MaxTotalReservations,
		UpdatedAt:            s.clock.Now(),
		UpdatedBy:            user,
	}

	if err = s.repo.UpsertSettings(ctx, settings); err != nil {
		log.Error().Err(err).Msg("failed to update reservation settings")

		return fmt.Errorf("failed to update reservation settings: %w", err)
	}

	s.local.Delete(cacheKeySettings)

	log.Info().Int("capacity", req.MaxTotalReservations).Str("by", user).Msg("reservation capacity updated")

	return nil
}

func (s *serviceImpl) Stats(ctx context.Context) (res model.ReservationStats, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".setting.Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.repo.GetStats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation stats")

		return res, fmt.Errorf("failed to get reservation stats: %w", err)
	}

	return res, nil
}
