package dto

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"airpark/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest populates QueryParams from the request query string. SortBy is
// accepted only when it is one of sortable, since it is interpolated into SQL.
// Page and Limit fall back to the defaults when missing or invalid.
func (q *QueryParams) FromRequest(r *http.Request, sortable ...string) {
	queryParams := r.URL.Query()

	q.Page = positiveInt(queryParams.Get(constant.RequestParamPage), constant.DefaultValuePage)
	q.Limit = positiveInt(queryParams.Get(constant.RequestParamLimit), constant.DefaultValueLimit)

	if sortBy := queryParams.Get(constant.RequestParamSortBy); slices.Contains(sortable, sortBy) {
		q.SortBy = sortBy
		q.SortDir = SortDirAsc
	}

	if sortDir := strings.ToUpper(queryParams.Get(constant.RequestParamSortDir)); q.SortBy != "" && (sortDir == SortDirAsc || sortDir == SortDirDesc) {
		q.SortDir = sortDir
	}
}

func positiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}

	return value
}
