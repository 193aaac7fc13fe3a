package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"airpark/shared/constant"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleAdmin, constant.RoleSuperAdmin}

// Permission is the access rule of one route pattern. Public routes need no
// token; an empty role list admits any authenticated caller.
type Permission struct {
	Roles  []string `json:"permissions"`
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Public bool     `json:"skip"`
}

// Allows reports whether role may call the route.
func (p Permission) Allows(role string) bool {
	return p.Public || len(p.Roles) == 0 || slices.Contains(p.Roles, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	// Disabled turns every route public. Meant for local development only.
	Disabled bool `json:"skip"`

	index map[string]Permission
}

// normalize drops a trailing slash so "/v1/bookings/" and "/v1/bookings" name the same route.
func normalize(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}

	return path
}

func routeKey(method, path string) string {
	return method + " " + normalize(path)
}

// Parse decodes a permissions document, rejecting unknown methods, unknown
// roles and duplicated routes.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	permissions.index = make(map[string]Permission, len(permissions.Endpoints))

	for i := range permissions.Endpoints {
		permissions.Endpoints[i].Path = normalize(permissions.Endpoints[i].Path)
		endpoint := permissions.Endpoints[i]

		if http.MethodGet != endpoint.Method && !slices.Contains(
			[]string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}, endpoint.Method,
		) {
			return nil, fmt.Errorf("unsupported method %q for %s", endpoint.Method, endpoint.Path)
		}

		for _, role := range endpoint.Roles {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("unknown role %q for %s %s", role, endpoint.Method, endpoint.Path)
			}
		}

		key := routeKey(endpoint.Method, endpoint.Path)
		if _, exists := permissions.index[key]; exists {
			return nil, fmt.Errorf("duplicate permission for %s", key)
		}

		permissions.index[key] = endpoint
	}

	return &permissions, nil
}

// Find returns the rule of a route pattern, or a zero Permission and false when
// none is declared. Trailing slashes are ignored on both sides.
func (r *PermissionData) Find(path, method string) (Permission, bool) {
	if r.index == nil {
		idx := slices.IndexFunc(r.Endpoints, func(p Permission) bool {
			return normalize(p.Path) == normalize(path) && p.Method == method
		})
		if idx == -1 {
			return Permission{}, false
		}

		return r.Endpoints[idx], true
	}

	permission, ok := r.index[routeKey(method, path)]

	return permission, ok
}

// Get loads the embedded permissions. A broken document stops the process.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load embedded permissions")
	}

	if permissions.Disabled {
		log.Warn().Msg("Route permissions are disabled, every route is public")
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Loaded embedded permissions")

	return permissions
}
