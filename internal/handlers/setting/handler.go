package setting

import (
	"net/http"

	"airpark/infras/otel"
	"airpark/internal/domains/setting/model/dto"
	"airpark/internal/domains/setting/service"
	"airpark/shared/constant"
	"airpark/shared/validator"
	"airpark/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Setting
	otel    otel.Otel
}

func New(service service.Setting, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/settings", func(routerGroup chi.Router) {
		routerGroup.Get("/reservation", handler.GetReservationSettings)
		routerGroup.Put("/reservation", handler.UpdateReservationSettings)
	})
}

// GetReservationSettings returns the configured parking capacity.
// @Summary Get reservation settings
// @Tags Setting
// @Produce json
// @Success 200 {object} response.Data[dto.ReservationSettingsResponse] "Reservation settings"
// @Failure 500 {object} response.Error
// @Router /v1/settings/reservation [get]
// @Security BearerAuth
func (handler *Handler) GetReservationSettings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationSettings")
	defer scope.End()

	res, err := handler.service.Get(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation settings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateReservationSettings changes the parking capacity.
// @Summary Update reservation settings
// @Tags Setting
// @Accept json
// @Produce json
// @Param request body dto.UpdateReservationSettingsRequest true "New capacity"
// @Success 200 {object} response.Message "Reservation settings updated"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/settings/reservation [put]
// @Security BearerAuth
func (handler *Handler) UpdateReservationSettings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservationSettings")
	defer scope.End()

	req := dto.UpdateReservationSettingsRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update reservation settings")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Reservation settings updated")
}
