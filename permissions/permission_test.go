package permissions_test

import (
	"net/http"
	"testing"

	"airpark/permissions"
	"airpark/shared/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name   string
		method string
		path   string
		public bool
		admin  bool
	}{
		{name: "availability is public", method: http.MethodPost, path: "/v1/availability", public: true, admin: true},
		{name: "occupancy is public", method: http.MethodGet, path: "/v1/occupancy", public: true, admin: true},
		{name: "trailing slash is ignored", method: http.MethodGet, path: "/v1/occupancy/", public: true, admin: true},
		{name: "booking list needs an admin", method: http.MethodGet, path: "/v1/bookings", admin: true},
		{name: "manual booking needs an admin", method: http.MethodPost, path: "/v1/bookings/", admin: true},
		{name: "cron guards itself", method: http.MethodGet, path: "/v1/cron/cleanup-expired-bookings", public: true, admin: true},
		{name: "booking detail needs an admin", method: http.MethodGet, path: "/v1/bookings/{id}", admin: true},
		{name: "capacity change needs an admin", method: http.MethodPut, path: "/v1/settings/reservation", admin: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission, ok := data.Find(tt.path, tt.method)

			require.True(t, ok)
			assert.Equal(t, tt.public, permission.Public)
			assert.Equal(t, tt.admin, permission.Allows(constant.RoleAdmin))
			assert.Equal(t, tt.public, permission.Allows("viewer"))
		})
	}

	assert.False(t, data.Disabled)
}

func TestFindUnknownRoute(t *testing.T) {
	_, ok := permissions.Get().Find("/v1/bookings/{id}", http.MethodDelete)

	assert.False(t, ok)
}

func TestFindWithoutIndex(t *testing.T) {
	data := &permissions.PermissionData{Endpoints: []permissions.Permission{
		{Path: "/v1/bookings/", Method: http.MethodGet, Roles: []string{constant.RoleAdmin}},
	}}

	permission, ok := data.Find("/v1/bookings", http.MethodGet)

	require.True(t, ok)
	assert.Equal(t, []string{constant.RoleAdmin}, permission.Roles)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name: "valid",
			data: `{"endpoints":[{"path":"/v1/bookings/","method":"GET","permissions":["admin"]}]}`,
		},
		{
			name:    "malformed json",
			data:    `{"endpoints":`,
			wantErr: "failed to decode permissions",
		},
		{
			name:    "unknown role",
			data:    `{"endpoints":[{"path":"/v1/bookings/","method":"GET","permissions":["owner"]}]}`,
			wantErr: `unknown role "owner"`,
		},
		{
			name:    "unsupported method",
			data:    `{"endpoints":[{"path":"/v1/bookings/","method":"TRACE"}]}`,
			wantErr: "unsupported method",
		},
		{
			name: "duplicate route",
			data: `{"endpoints":[
				{"path":"/v1/bookings","method":"GET","permissions":["admin"]},
				{"path":"/v1/bookings/","method":"GET","skip":true}
			]}`,
			wantErr: "duplicate permission for GET /v1/bookings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := permissions.Parse([]byte(tt.data))

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAllows(t *testing.T) {
	open := permissions.Permission{}
	adminOnly := permissions.Permission{Roles: []string{constant.RoleAdmin}}

	assert.True(t, open.Allows("viewer"))
	assert.True(t, adminOnly.Allows(constant.RoleAdmin))
	assert.False(t, adminOnly.Allows(constant.RoleSuperAdmin))
}
