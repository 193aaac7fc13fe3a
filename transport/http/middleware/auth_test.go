package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airpark/config"
	"airpark/infras/jwt"
	"airpark/infras/otel/mocks"
	"airpark/permissions"
	"airpark/shared/clock"
	"airpark/shared/constant"
	"airpark/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "airpark"
	cfg.App.APIKey = "internal-key"
	cfg.JWT.AccessSecret = "test-secret"
	cfg.JWT.AccessExpireMin = 15

	return cfg
}

func newRouter(t *testing.T, cfg *config.Config) *chi.Mux {
	t.Helper()

	perms := &permissions.PermissionData{Endpoints: []permissions.Permission{
		{Path: "/v1/availability", Method: http.MethodPost, Public: true},
		{Path: "/v1/bookings/{id}", Method: http.MethodGet, Roles: []string{constant.RoleAdmin, constant.RoleSuperAdmin}},
	}}

	mw := middleware.NewAuthRoleMiddleware(jwt.New(cfg, clock.Fixed(now)), mocks.NewOtel(), perms, cfg)

	router := chi.NewRouter()
	router.Use(mw.APIKey, mw.Auth, mw.RBAC)
	router.Post("/v1/availability", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/v1/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		user, _ := r.Context().Value(constant.ContextKeyUserID).(string)
		_, _ = w.Write([]byte(user))
	})
	router.Get("/v1/reports", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return router
}

func token(t *testing.T, cfg *config.Config, issuedAt time.Time, role string, ttl time.Duration) string {
	t.Helper()

	signed, err := jwt.New(cfg, clock.Fixed(issuedAt)).Issue("ops-1", "ops@example.com", role, ttl)
	require.NoError(t, err)

	return signed
}

func TestAuthRole(t *testing.T) {
	cfg := newConfig()

	foreign := newConfig()
	foreign.JWT.AccessSecret = "another-secret"

	tests := []struct {
		name     string
		method   string
		path     string
		headers  map[string]string
		expected int
		body     string
	}{
		{
			name:     "public route needs no token",
			method:   http.MethodPost,
			path:     "/v1/availability",
			expected: http.StatusOK,
		},
		{
			name:     "protected route without token",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			expected: http.StatusUnauthorized,
		},
		{
			name:     "admin token",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			headers:  map[string]string{"Authorization": "Bearer " + token(t, cfg, now, constant.RoleAdmin, time.Minute)},
			expected: http.StatusOK,
			body:     "ops-1",
		},
		{
			name:     "role not allowed",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			headers:  map[string]string{"Authorization": "Bearer " + token(t, cfg, now, "viewer", time.Minute)},
			expected: http.StatusForbidden,
		},
		{
			name:     "expired token",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			headers:  map[string]string{"Authorization": "Bearer " + token(t, cfg, now.Add(-time.Hour), constant.RoleAdmin, time.Minute)},
			expected: http.StatusUnauthorized,
			body:     "Token has expired",
		},
		{
			name:     "token signed with another secret",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			headers:  map[string]string{"Authorization": "Bearer " + token(t, foreign, now, constant.RoleAdmin, time.Minute)},
			expected: http.StatusUnauthorized,
		},
		{
			name:     "internal api key",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			headers:  map[string]string{"X-API-Key": "internal-key"},
			expected: http.StatusOK,
			body:     constant.ContextSystem,
		},
		{
			name:     "route without a rule is denied",
			method:   http.MethodGet,
			path:     "/v1/reports",
			headers:  map[string]string{"Authorization": "Bearer " + token(t, cfg, now, constant.RoleSuperAdmin, time.Minute)},
			expected: http.StatusForbidden,
		},
		{
			name:     "wrong api key",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			headers:  map[string]string{"X-API-Key": "guess"},
			expected: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			newRouter(t, cfg).ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)

			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
		})
	}
}
