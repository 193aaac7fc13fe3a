package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"airpark/infras/otel/mocks"
	"airpark/internal/domains/availability/model/dto"
	"airpark/internal/domains/availability/service"
	bookingMocks "airpark/internal/domains/booking/mocks"
	"airpark/internal/domains/booking/model"
	bookingDto "airpark/internal/domains/booking/model/dto"
	cleanupMocks "airpark/internal/domains/cleanup/mocks"
	cleanupService "airpark/internal/domains/cleanup/service"
	settingMocks "airpark/internal/domains/setting/mocks"
	"airpark/shared/clock"
	gDto "airpark/shared/dto"
	"airpark/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo     *bookingMocks.MockBooking
	settings *settingMocks.MockSettingService
	cleanup  *cleanupMocks.MockCleanup
	svc      service.Availability
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Bucharest")
	require.NoError(t, err)

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:     bookingMocks.NewMockBooking(ctrl),
		settings: settingMocks.NewMockSettingService(ctrl),
		cleanup:  cleanupMocks.NewMockCleanup(ctrl),
	}
	f.svc = service.New(f.repo, f.settings, f.cleanup, clock.Fixed(time.Date(2025, 6, 10, 12, 0, 0, 0, loc)), mocks.NewOtel())

	return f
}

func request(startDate, startTime, endDate, endTime string) dto.CheckAvailabilityRequest {
	return dto.CheckAvailabilityRequest{Window: bookingDto.Window{
		StartDate: startDate,
		StartTime: startTime,
		EndDate:   endDate,
		EndTime:   endTime,
	}}
}

func paid(id, startDate, startTime, endDate, endTime string) model.Booking {
	return model.Booking{
		ID:        id,
		Status:    model.StatusConfirmedPaid,
		StartDate: startDate,
		StartTime: startTime,
		EndDate:   endDate,
		EndTime:   endTime,
	}
}

func TestAvailabilityService_Check(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		rows     []model.Booking
		expected dto.AvailabilityResponse
		cleanup  bool
	}{
		{
			name:     "free spot",
			capacity: 2,
			rows: []model.Booking{
				paid("b-1", "2025-06-11", "08:00", "2025-06-12", "08:00"),
			},
			expected: dto.AvailabilityResponse{Available: true, ConflictingBookings: 1, TotalSpots: 2, MaxBookingsInPeriod: 1},
		},
		{
			name:     "full",
			capacity: 1,
			rows: []model.Booking{
				paid("b-1", "2025-06-11", "08:00", "2025-06-12", "08:00"),
			},
			expected: dto.AvailabilityResponse{Available: false, ConflictingBookings: 1, TotalSpots: 1, MaxBookingsInPeriod: 1},
		},
		{
			name:     "touching endpoints do not conflict",
			capacity: 1,
			rows: []model.Booking{
				paid("before", "2025-06-10", "14:00", "2025-06-11", "10:00"),
				paid("after", "2025-06-13", "10:00", "2025-06-14", "10:00"),
			},
			expected: dto.AvailabilityResponse{Available: true, ConflictingBookings: 0, TotalSpots: 1, MaxBookingsInPeriod: 1},
		},
		{
			name:     "same day without overlap counts toward daily peak only",
			capacity: 3,
			rows: []model.Booking{
				paid("morning", "2025-06-11", "06:00", "2025-06-11", "09:00"),
				paid("midday", "2025-06-11", "11:00", "2025-06-11", "15:00"),
				paid("evening", "2025-06-11", "19:00", "2025-06-11", "23:00"),
			},
			expected: dto.AvailabilityResponse{Available: true, ConflictingBookings: 2, TotalSpots: 3, MaxBookingsInPeriod: 3},
		},
		{
			name:     "expired booking still marked active is ignored and cleaned",
			capacity: 1,
			rows: []model.Booking{
				paid("stale", "2025-06-08", "08:00", "2025-06-09", "20:00"),
			},
			expected: dto.AvailabilityResponse{Available: true, ConflictingBookings: 0, TotalSpots: 1, MaxBookingsInPeriod: 0},
			cleanup:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.settings.EXPECT().Capacity(gomock.Any()).Return(tt.capacity)
			f.repo.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{}, gomock.Any()).Return(tt.rows, nil)

			if tt.cleanup {
				f.cleanup.EXPECT().Trigger(gomock.Any(), cleanupService.TriggerAvailability)
			}

			res, err := f.svc.Check(context.Background(), request("2025-06-11", "10:00", "2025-06-13", "10:00"))

			require.NoError(t, err)
			assert.Equal(t, tt.expected, res)
		})
	}
}

func TestAvailabilityService_CheckQueriesDateOverlap(t *testing.T) {
	f := newFixture(t)

	f.settings.EXPECT().Capacity(gomock.Any()).Return(10)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			where, args := filter.GetWhereClause()

			assert.Contains(t, where, "bookings.status IN (")
			assert.Contains(t, where, "bookings.start_date <= :start_date")
			assert.Contains(t, where, "bookings.end_date >= :end_date")
			assert.Equal(t, "2025-06-13", args["start_date"])
			assert.Equal(t, "2025-06-11", args["end_date"])

			return nil, nil
		})

	res, err := f.svc.Check(context.Background(), request("2025-06-11", "10:00", "2025-06-13", "10:00"))

	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestAvailabilityService_CheckIsAdvisory(t *testing.T) {
	f := newFixture(t)

	rows := []model.Booking{paid("b-1", "2025-06-11", "08:00", "2025-06-12", "08:00")}

	f.settings.EXPECT().Capacity(gomock.Any()).Return(2).Times(2)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(rows, nil).Times(2)

	req := request("2025-06-11", "10:00", "2025-06-13", "10:00")

	first, err := f.svc.Check(context.Background(), req)
	require.NoError(t, err)

	second, err := f.svc.Check(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, first.Available)
	assert.True(t, second.Available)
	assert.Equal(t, first, second)
}

func TestAvailabilityService_CheckFailsClosed(t *testing.T) {
	f := newFixture(t)

	f.settings.EXPECT().Capacity(gomock.Any()).Return(100)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	res, err := f.svc.Check(context.Background(), request("2025-06-11", "10:00", "2025-06-13", "10:00"))

	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Zero(t, res.ConflictingBookings)
	assert.Zero(t, res.MaxBookingsInPeriod)
}

func TestAvailabilityService_CheckRejectsInvertedWindow(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Check(context.Background(), request("2025-06-13", "10:00", "2025-06-11", "10:00"))

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}
