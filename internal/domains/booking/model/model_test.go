package model_test

import (
	"testing"
	"time"

	"airpark/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bucharest(t *testing.T) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Bucharest")
	require.NoError(t, err)

	return loc
}

func booking(status, startDate, startTime, endDate, endTime string) model.Booking {
	return model.Booking{
		ID:        startDate + startTime + endDate + endTime,
		Status:    status,
		StartDate: startDate,
		StartTime: startTime,
		EndDate:   endDate,
		EndTime:   endTime,
	}
}

func TestIsExpiredIgnoresInactiveStatuses(t *testing.T) {
	loc := bucharest(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, loc)

	for _, status := range []string{model.StatusPending, model.StatusCancelled, model.StatusAPIError, model.StatusExpired, ""} {
		t.Run(status, func(t *testing.T) {
			b := booking(status, "2020-01-01", "00:00", "2020-01-02", "00:00")

			assert.False(t, model.IsExpired(b, now, loc))
		})
	}
}

func TestIsExpiredActiveStatuses(t *testing.T) {
	loc := bucharest(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, loc)

	tests := []struct {
		name     string
		endDate  string
		endTime  string
		expected bool
	}{
		{name: "ended yesterday", endDate: "2025-06-09", endTime: "23:59", expected: true},
		{name: "ends exactly now", endDate: "2025-06-10", endTime: "12:00", expected: true},
		{name: "ends in one minute", endDate: "2025-06-10", endTime: "12:01", expected: false},
		{name: "ends tomorrow", endDate: "2025-06-11", endTime: "00:00", expected: false},
		{name: "unparseable date", endDate: "10/06/2025", endTime: "11:00", expected: false},
		{name: "unparseable time", endDate: "2025-06-09", endTime: "noon", expected: false},
	}

	for _, status := range model.ActiveStatuses {
		for _, tt := range tests {
			t.Run(status+"/"+tt.name, func(t *testing.T) {
				b := booking(status, "2025-06-01", "08:00", tt.endDate, tt.endTime)

				assert.Equal(t, tt.expected, model.IsExpired(b, now, loc))
			})
		}
	}
}

func TestIsExpiredUsesApplicationZone(t *testing.T) {
	loc := bucharest(t)
	b := booking(model.StatusPaid, "2025-06-10", "08:00", "2025-06-10", "12:00")

	// 09:30 UTC is 12:30 in Bucharest during summer time.
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	assert.True(t, model.IsExpired(b, now, loc))
	assert.False(t, model.IsExpired(b, now, time.UTC))
}

func TestParseWindow(t *testing.T) {
	loc := bucharest(t)

	w, err := model.ParseWindow("2025-06-10", "08:00", "2025-06-12", "18:30", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 10, 8, 0, 0, 0, loc), w.Start)
	assert.Equal(t, time.Date(2025, 6, 12, 18, 30, 0, 0, loc), w.End)

	_, err = model.ParseWindow("2025-06-12", "08:00", "2025-06-10", "18:30", loc)
	assert.ErrorIs(t, err, model.ErrInvalidWindow)

	_, err = model.ParseWindow("2025-06-10", "08:00", "2025-06-10", "08:00", loc)
	assert.ErrorIs(t, err, model.ErrInvalidWindow)

	_, err = model.ParseWindow("2025-06-10", "8am", "2025-06-10", "18:00", loc)
	assert.Error(t, err)
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	loc := bucharest(t)

	a, err := model.ParseWindow("2025-06-10", "08:00", "2025-06-10", "12:00", loc)
	require.NoError(t, err)

	b, err := model.ParseWindow("2025-06-10", "12:00", "2025-06-10", "18:00", loc)
	require.NoError(t, err)

	c, err := model.ParseWindow("2025-06-10", "11:59", "2025-06-10", "18:00", loc)
	require.NoError(t, err)

	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
	assert.True(t, a.Overlaps(c))
	assert.True(t, c.Overlaps(a))
	assert.Equal(t, 0, model.CountConflicts([]model.Window{a}, b))
}

func TestLiveWindowsExcludesExpiredActiveBookings(t *testing.T) {
	loc := bucharest(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, loc)

	bookings := []model.Booking{
		booking(model.StatusConfirmedPaid, "2025-06-09", "08:00", "2025-06-10", "10:00"),
		booking(model.StatusConfirmedPaid, "2025-06-10", "08:00", "2025-06-10", "20:00"),
		booking(model.StatusPaid, "2025-06-10", "bad", "2025-06-10", "20:00"),
	}

	windows := model.LiveWindows(bookings, now, loc)
	require.Len(t, windows, 1)

	proposed, err := model.ParseWindow("2025-06-10", "06:00", "2025-06-10", "23:00", loc)
	require.NoError(t, err)

	assert.Equal(t, 1, model.CountConflicts(windows, proposed))
	assert.Equal(t, 1, model.MaxDailyOccupancy(windows, proposed, loc))
}

func TestMaxDailyOccupancy(t *testing.T) {
	loc := bucharest(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)

	bookings := []model.Booking{
		booking(model.StatusPaid, "2025-06-10", "08:00", "2025-06-10", "10:00"),
		booking(model.StatusPaid, "2025-06-11", "08:00", "2025-06-11", "10:00"),
		booking(model.StatusPaid, "2025-06-11", "12:00", "2025-06-12", "10:00"),
		booking(model.StatusPaid, "2025-06-11", "23:00", "2025-06-11", "23:30"),
		booking(model.StatusPaid, "2025-06-13", "00:00", "2025-06-14", "10:00"),
	}

	windows := model.LiveWindows(bookings, now, loc)

	proposed, err := model.ParseWindow("2025-06-10", "09:00", "2025-06-12", "09:00", loc)
	require.NoError(t, err)

	// June 11 is touched by three bookings; June 13 lies outside the proposed days.
	assert.Equal(t, 3, model.MaxDailyOccupancy(windows, proposed, loc))
	assert.Equal(t, 4, model.CountConflicts(windows, proposed))
}

func TestMaxDailyOccupancyCountsDayBoundaryTouch(t *testing.T) {
	loc := bucharest(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)

	// Ends at midnight, which is the first instant of June 11.
	windows := model.LiveWindows([]model.Booking{
		booking(model.StatusPaid, "2025-06-10", "20:00", "2025-06-11", "00:00"),
	}, now, loc)

	proposed, err := model.ParseWindow("2025-06-11", "10:00", "2025-06-11", "12:00", loc)
	require.NoError(t, err)

	assert.Equal(t, 0, model.CountConflicts(windows, proposed))
	assert.Equal(t, 1, model.MaxDailyOccupancy(windows, proposed, loc))
}

func TestWindowContains(t *testing.T) {
	loc := bucharest(t)

	w, err := model.ParseWindow("2025-06-10", "08:00", "2025-06-10", "12:00", loc)
	require.NoError(t, err)

	assert.True(t, w.Contains(time.Date(2025, 6, 10, 8, 0, 0, 0, loc)))
	assert.True(t, w.Contains(time.Date(2025, 6, 10, 12, 0, 0, 0, loc)))
	assert.False(t, w.Contains(time.Date(2025, 6, 10, 12, 0, 1, 0, loc)))
}
