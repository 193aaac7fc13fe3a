package shared_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"airpark/shared"
	cacheMocks "airpark/shared/cache/mocks"
	"airpark/shared/constant"
	"airpark/shared/dto"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total", total: 0, limit: 10, expected: 1},
		{name: "zero limit", total: 100, limit: 0, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "remainder", total: 101, limit: 10, expected: 11},
		{name: "limit above total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type patch struct {
		LicensePlate string `db:"license_plate"`
		Status       string `db:"status"`
		CustomerName string `db:"customer_name"`
		Untagged     string
	}

	fields := shared.TransformFields(patch{LicensePlate: "B12ABC", Untagged: "skip"}, "ops-1")

	assert.Equal(t, "B12ABC", fields["license_plate"])
	assert.NotContains(t, fields, "status")
	assert.NotContains(t, fields, "customer_name")
	assert.Equal(t, "ops-1", fields[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, fields[constant.FieldModifiedAt])
	assert.Len(t, fields, 3)
}

func TestFilterByID(t *testing.T) {
	filter := shared.FilterByID("b-1", "id", "bookings")
	where, args := filter.GetWhereClause()

	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "b-1"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:get:b-1", shared.BuildCacheKey("booking:get", "b-1"))
	assert.Equal(t, "booking:stats", shared.BuildCacheKey("booking:stats"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 2, Limit: 20, SortBy: "start_date", SortDir: dto.SortDirAsc}

	filter := dto.And(
		dto.Filter{Field: "status", Value: "confirmed", Operator: dto.FilterOperatorEq},
		dto.Filter{Field: "license_plate", Value: "B12ABC", Operator: dto.FilterOperatorEq},
	)

	key := shared.BuildCacheKeyWithQuery("booking:gets", params, filter)

	assert.Equal(t,
		"booking:gets:p2:l20:start_date:ASC:(status = :status AND license_plate = :license_plate):license_plate=B12ABC&status=confirmed",
		key,
	)
	assert.Equal(t, key, shared.BuildCacheKeyWithQuery("booking:gets", params, filter))
}

func TestInvalidateCaches(t *testing.T) {
	t.Run("clears the prefix", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		redisCache := cacheMocks.NewMockRedisCache(ctrl)

		redisCache.EXPECT().Clear(gomock.Any(), "booking:*").Return(nil)

		shared.InvalidateCaches(context.Background(), redisCache, "booking:")
	})

	t.Run("swallows failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		redisCache := cacheMocks.NewMockRedisCache(ctrl)

		redisCache.EXPECT().Clear(gomock.Any(), "occupancy:*").Return(errors.New("redis down"))

		shared.InvalidateCaches(context.Background(), redisCache, "occupancy:")
	})
}
