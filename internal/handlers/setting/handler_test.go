package setting_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"airpark/infras/otel/mocks"
	settingMocks "airpark/internal/domains/setting/mocks"
	"airpark/internal/domains/setting/model/dto"
	"airpark/internal/handlers/setting"
	"airpark/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (*chi.Mux, *settingMocks.MockSettingService) {
	t.Helper()

	svc := settingMocks.NewMockSettingService(gomock.NewController(t))
	handler := setting.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return router, svc
}

func serve(router http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, body))

	return rec
}

func TestGetReservationSettings(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Get(gomock.Any()).Return(dto.ReservationSettingsResponse{
			MaxTotalReservations: 120,
			UpdatedAt:            "2025-06-10T12:00:00+03:00",
			UpdatedBy:            "ops-1",
		}, nil)

		rec := serve(router, http.MethodGet, "/v1/settings/reservation", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"data":{"maxTotalReservations":120,"updatedAt":"2025-06-10T12:00:00+03:00","updatedBy":"ops-1","default":false}}`,
			rec.Body.String(),
		)
	})

	t.Run("store failure", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Get(gomock.Any()).Return(dto.ReservationSettingsResponse{}, errors.New("connection refused"))

		rec := serve(router, http.MethodGet, "/v1/settings/reservation", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	})
}

func TestUpdateReservationSettings(t *testing.T) {
	t.Run("stored", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Update(gomock.Any(), dto.UpdateReservationSettingsRequest{MaxTotalReservations: 150}).Return(nil)

		rec := serve(router, http.MethodPut, "/v1/settings/reservation", strings.NewReader(`{"maxTotalReservations":150}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Reservation settings updated"}`, rec.Body.String())
	})

	t.Run("capacity must be positive", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := serve(router, http.MethodPut, "/v1/settings/reservation", strings.NewReader(`{"maxTotalReservations":0}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := serve(router, http.MethodPut, "/v1/settings/reservation", strings.NewReader(`{"maxTotalReservations":`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service refusal keeps its status", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, dto.UpdateReservationSettingsRequest) error {
				return failure.BadRequestFromString("capacity is below the active bookings")
			})

		rec := serve(router, http.MethodPut, "/v1/settings/reservation", strings.NewReader(`{"maxTotalReservations":5}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "capacity is below the active bookings")
	})
}
