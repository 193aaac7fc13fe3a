package booking_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"airpark/infras/otel/mocks"
	bookingMocks "airpark/internal/domains/booking/mocks"
	"airpark/internal/domains/booking/model/dto"
	"airpark/internal/handlers/booking"
	gDto "airpark/shared/dto"
	"airpark/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (*chi.Mux, *bookingMocks.MockBookingService) {
	t.Helper()

	svc := bookingMocks.NewMockBookingService(gomock.NewController(t))
	handler := booking.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return router, svc
}

const validBody = `{
	"startDate": "2025-06-10",
	"startTime": "14:00",
	"endDate": "2025-06-12",
	"endTime": "10:00",
	"licensePlate": "B-123-ABC",
	"status": "confirmed_paid"
}`

func post(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestCreateBooking(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{ID: "b-1"}, true, nil)

		rec := post(router, validBody)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"b-1"`)
	})

	t.Run("already recorded", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{ID: "b-1"}, false, nil)

		rec := post(router, validBody)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no spot left", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, false, failure.CapacityExceededError)

		rec := post(router, validBody)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("end before start", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := post(router, strings.Replace(validBody, `"endDate": "2025-06-12"`, `"endDate": "2025-06-09"`, 1))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed time", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := post(router, strings.Replace(validBody, `"14:00"`, `"2pm"`, 1))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing plate", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := post(router, strings.Replace(validBody, `"B-123-ABC"`, `""`, 1))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetBookingsFilters(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error) {
			where, args := filter.GetWhereClause()

			assert.Equal(t, 2, params.Page)
			assert.Equal(t, "start_date", params.SortBy)
			assert.Contains(t, where, "bookings.license_plate = :license_plate")
			assert.Equal(t, "B123ABC", args["license_plate"])
			assert.Equal(t, "2025-06-11", args["start_date"])
			assert.Equal(t, "2025-06-11", args["end_date"])

			return dto.GetBookingsResponse{}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings?page=2&sort_by=start_date&license_plate=b-123-abc&date=2025-06-11", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetBookingsRejectsBadDate(t *testing.T) {
	router, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings?date=11-06-2025", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
