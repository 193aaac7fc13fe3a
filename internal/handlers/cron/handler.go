package cron

import (
	"crypto/subtle"
	"net/http"

	"airpark/config"
	"airpark/infras/jwt"
	"airpark/infras/otel"
	"airpark/internal/domains/cleanup/service"
	"airpark/shared/clock"
	"airpark/shared/constant"
	"airpark/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type CleanupResponse struct {
	Success      bool     `json:"success"`
	CleanedCount int      `json:"cleanedCount"`
	Errors       []string `json:"errors"`
	Timestamp    string   `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

type Handler struct {
	service service.Cleanup
	cfg     *config.Config
	clock   clock.Clock
	otel    otel.Otel
}

func New(service service.Cleanup, cfg *config.Config, clk clock.Clock, otel otel.Otel) Handler {
	if cfg.App.Cron.Secret == constant.Empty {
		log.Warn().Msg("APP_CRON_SECRET is empty, the cleanup endpoint accepts unauthenticated calls")
	}

	return Handler{
		service: service,
		cfg:     cfg,
		clock:   clk,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/cron/cleanup-expired-bookings", handler.CleanupExpiredBookings)
}

// CleanupExpiredBookings runs the expired booking cleanup synchronously.
// @Summary Clean up expired bookings
// @Description Moves every booking whose end has passed to expired. When CRON_SECRET is set the request must carry it as a bearer token.
// @Tags Cron
// @Produce json
// @Success 200 {object} CleanupResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/cron/cleanup-expired-bookings [get]
func (handler *Handler) CleanupExpiredBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CleanupExpiredBookings")
	defer scope.End()

	if !handler.authorized(r) {
		log.Warn().Str("source", r.RemoteAddr).Msg("cron cleanup called without a valid secret")

		response.WithBody(w, http.StatusUnauthorized, ErrorResponse{
			Error:     "Unauthorized",
			Timestamp: handler.timestamp(),
		})

		return
	}

	res, err := handler.service.Run(ctx, service.TriggerCron)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("cron cleanup failed")

		response.WithBody(w, http.StatusInternalServerError, ErrorResponse{
			Error:     err.Error(),
			Timestamp: handler.timestamp(),
		})

		return
	}

	response.WithBody(w, http.StatusOK, CleanupResponse{
		Success:      true,
		CleanedCount: res.CleanedCount,
		Errors:       res.Errors,
		Timestamp:    handler.timestamp(),
	})
}

func (handler *Handler) authorized(r *http.Request) bool {
	secret := handler.cfg.App.Cron.Secret
	if secret == constant.Empty {
		return true
	}

	token, err := jwt.ExtractTokenFromHeader(r.Header.Get(constant.RequestHeaderAuthorization))
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}

func (handler *Handler) timestamp() string {
	return handler.clock.Now().Format(constant.DateTimeFormat)
}
