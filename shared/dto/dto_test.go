package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"airpark/shared/constant"
	"airpark/shared/dto"
	"airpark/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestMetadataFromModel(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	var metadata dto.Metadata
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: createdAt.Add(time.Hour),
		CreatedBy:  "system",
		ModifiedBy: "ops-1",
	})

	assert.NotEmpty(t, metadata.CreatedAt)
	assert.NotEqual(t, metadata.CreatedAt, metadata.ModifiedAt)
	assert.Equal(t, "system", metadata.CreatedBy)
	assert.Equal(t, "ops-1", metadata.ModifiedBy)
}

func TestQueryParamsFromRequest(t *testing.T) {
	sortable := []string{"start_date", "status"}

	tests := []struct {
		name     string
		query    string
		expected dto.QueryParams
	}{
		{
			name:     "defaults",
			query:    "",
			expected: dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "explicit values",
			query:    "?page=2&limit=20&sort_by=start_date&sort_dir=desc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "start_date", SortDir: dto.SortDirDesc},
		},
		{
			name:     "sort direction defaults to ascending",
			query:    "?sort_by=status",
			expected: dto.QueryParams{Page: 1, Limit: 10, SortBy: "status", SortDir: dto.SortDirAsc},
		},
		{
			name:     "unknown sort column is dropped",
			query:    "?sort_by=id%3Bdrop%20table&sort_dir=ASC",
			expected: dto.QueryParams{Page: 1, Limit: 10},
		},
		{
			name:     "invalid numbers fall back",
			query:    "?page=-1&limit=abc",
			expected: dto.QueryParams{Page: 1, Limit: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/bookings"+tt.query, nil)

			var params dto.QueryParams
			params.FromRequest(req, sortable...)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestFilterGroupGetWhereClause(t *testing.T) {
	t.Run("in with named arguments", func(t *testing.T) {
		group := dto.And(
			dto.Filter{Field: "status", Value: []string{"confirmed", "paid"}, Operator: dto.FilterOperatorIn, Table: "bookings"},
			dto.Filter{Field: "end_date", Value: "2025-06-10", Operator: dto.FilterOperatorLessEq, Table: "bookings"},
		)

		where, args := group.GetWhereClause()

		assert.Equal(t, "(bookings.status IN (:status_0, :status_1) AND bookings.end_date <= :end_date)", where)
		assert.Equal(t, map[string]any{"status_0": "confirmed", "status_1": "paid", "end_date": "2025-06-10"}, args)
	})

	t.Run("same column twice with arg names", func(t *testing.T) {
		group := dto.And(
			dto.Filter{ArgName: "from", Field: "start_date", Value: "2025-06-01", Operator: dto.FilterOperatorGreaterEq},
			dto.Filter{ArgName: "to", Field: "start_date", Value: "2025-06-30", Operator: dto.FilterOperatorLessEq},
		)

		where, args := group.GetWhereClause()

		assert.Equal(t, "(start_date >= :from AND start_date <= :to)", where)
		assert.Len(t, args, 2)
	})

	t.Run("empty in matches nothing", func(t *testing.T) {
		group := dto.And(dto.Filter{Field: "status", Value: []string{}, Operator: dto.FilterOperatorIn})

		where, _ := group.GetWhereClause()

		assert.Equal(t, "(FALSE)", where)
	})

	t.Run("nested or group", func(t *testing.T) {
		group := dto.And(
			dto.Filter{Field: "status", Value: "confirmed", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "license_plate", Value: "b12", Operator: dto.FilterOperatorLike},
					dto.Filter{Field: "customer_name", Value: "b12", Operator: dto.FilterOperatorLike},
				},
			},
		)

		where, args := group.GetWhereClause()

		assert.Equal(t, "(status = :status AND (LOWER(license_plate) LIKE LOWER(:license_plate) OR LOWER(customer_name) LIKE LOWER(:customer_name)))", where)
		assert.Equal(t, "%b12%", args["license_plate"])
	})

	t.Run("no filters", func(t *testing.T) {
		where, args := (&dto.FilterGroup{}).GetWhereClause()

		assert.Empty(t, where)
		assert.Empty(t, args)
	})
}
