package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"time"

	"airpark/infras/otel"
	"airpark/internal/domains/availability/model/dto"
	"airpark/internal/domains/booking/model"
	bookingRepo "airpark/internal/domains/booking/repository"
	cleanupService "airpark/internal/domains/cleanup/service"
	settingService "airpark/internal/domains/setting/service"
	"airpark/shared/clock"
	"airpark/shared/constant"
	gDto "airpark/shared/dto"
	"airpark/shared/failure"

	"github.com/rs/zerolog/log"
)

type Availability interface {
	Check(ctx context.Context, req dto.CheckAvailabilityRequest) (dto.AvailabilityResponse, error)
}

type serviceImpl struct {
	repo     bookingRepo.Booking
	settings settingService.Setting
	cleanup  cleanupService.Cleanup
	clock    clock.Clock
	otel     otel.Otel
}

func New(repo bookingRepo.Booking, settings settingService.Setting, cleanup cleanupService.Cleanup, clk clock.Clock, otel otel.Otel) Availability {
	return &serviceImpl{
		repo:     repo,
		settings: settings,
		cleanup:  cleanup,
		clock:    clk,
		otel:     otel,
	}
}

// Check is advisory: it takes no lock, so two callers can both be told a spot
// is free. Only a malformed window is returned as an error; a failed read
// reports the period as unavailable.
func (s *serviceImpl) Check(ctx context.Context, req dto.CheckAvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Check")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := s.clock.Now()
	loc := s.clock.Location()

	proposed, err := model.ParseWindow(req.StartDate, req.StartTime, req.EndDate, req.EndTime, loc)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	res.TotalSpots = s.settings.Capacity(ctx)

	rows, err := s.repo.GetAll(ctx, gDto.QueryParams{}, gDto.And(
		gDto.Filter{Field: model.FieldStatus, Table: model.TableName, Operator: gDto.FilterOperatorIn, Value: model.ActiveStatuses},
		gDto.Filter{Field: model.FieldStartDate, Table: model.TableName, Operator: gDto.FilterOperatorLessEq, Value: req.EndDate},
		gDto.Filter{Field: model.FieldEndDate, Table: model.TableName, Operator: gDto.FilterOperatorGreaterEq, Value: req.StartDate},
	))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("startDate", req.StartDate).Str("endDate", req.EndDate).Msg("failed to read bookings for availability, reporting unavailable")

		return dto.AvailabilityResponse{TotalSpots: res.TotalSpots}, nil
	}

	live := model.LiveWindows(rows, now, loc)

	res.ConflictingBookings = model.CountConflicts(live, proposed)
	res.MaxBookingsInPeriod = model.MaxDailyOccupancy(live, proposed, loc)
	res.Available = res.ConflictingBookings+1 <= res.TotalSpots

	scope.SetAttributes(map[string]any{
		"availability.conflicts": res.ConflictingBookings,
		"availability.available": res.Available,
	})

	if stale := countExpired(rows, now, loc); stale > 0 {
		log.Debug().Int("stale", stale).Msg("expired bookings still active, starting cleanup")
		s.cleanup.Trigger(ctx, cleanupService.TriggerAvailability)
	}

	return res, nil
}

func countExpired(rows []model.Booking, now time.Time, loc *time.Location) int {
	n := 0

	for _, b := range rows {
		if model.IsExpired(b, now, loc) {
			n++
		}
	}

	return n
}
