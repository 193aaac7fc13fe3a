package availability

import (
	"net/http"

	"airpark/infras/otel"
	"airpark/internal/domains/availability/model/dto"
	"airpark/internal/domains/availability/service"
	"airpark/shared/constant"
	"airpark/shared/validator"
	"airpark/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/availability", handler.CheckAvailability)
}

// CheckAvailability reports whether one more car fits the requested period.
// @Summary Check parking availability
// @Description Counts the bookings overlapping the requested window. The answer is advisory; creation re-checks capacity.
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.CheckAvailabilityRequest true "Requested window"
// @Success 200 {object} response.Data[dto.AvailabilityResponse] "Availability"
// @Failure 400 {object} response.Error
// @Router /v1/availability [post]
func (handler *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	req := dto.CheckAvailabilityRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Debug().Err(err).Msg("invalid availability request")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Check(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
