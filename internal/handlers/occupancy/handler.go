package occupancy

import (
	"net/http"

	"airpark/infras/otel"
	"airpark/internal/domains/occupancy/service"
	"airpark/shared/constant"
	"airpark/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Occupancy
	otel    otel.Otel
}

func New(service service.Occupancy, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/occupancy", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetOccupancy)
		routerGroup.Post("/snapshots", handler.CreateSnapshot)
	})
}

// GetOccupancy reports the current occupancy of the car park.
// @Summary Get current occupancy
// @Tags Occupancy
// @Produce json
// @Success 200 {object} response.Data[dto.OccupancyResponse] "Current occupancy"
// @Router /v1/occupancy [get]
func (handler *Handler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOccupancy")
	defer scope.End()

	response.WithJSON(w, http.StatusOK, handler.service.Current(ctx))
}

// CreateSnapshot exports the current occupancy to object storage.
// @Summary Store an occupancy snapshot
// @Tags Occupancy
// @Produce json
// @Success 201 {object} response.Data[dto.SnapshotResponse] "Stored snapshot"
// @Failure 500 {object} response.Error
// @Router /v1/occupancy/snapshots [post]
// @Security BearerAuth
func (handler *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSnapshot")
	defer scope.End()

	res, err := handler.service.Snapshot(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to store occupancy snapshot")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}
