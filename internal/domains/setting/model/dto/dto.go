package dto

import (
	"airpark/internal/domains/setting/model"
	"airpark/shared/constant"
	"airpark/shared/timezone"
)

type UpdateReservationSettingsRequest struct {
	MaxTotalReservations int `json:"maxTotalReservations" validate:"required,gte=1,lte=100000"`
}

type ReservationSettingsResponse struct {
	MaxTotalReservations int    `json:"maxTotalReservations"`
	UpdatedAt            string `json:"updatedAt,omitempty"`
	UpdatedBy            string `json:"updatedBy,omitempty"`
	Default              bool   `json:"default"`
}

func (r *ReservationSettingsResponse) FromModel(settings model.ReservationSettings) {
	r.MaxTotalReservations = settings.MaxTotalReservations
	r.UpdatedBy = settings.UpdatedBy

	if !settings.UpdatedAt.IsZero() {
		r.UpdatedAt = timezone.Format(settings.UpdatedAt, constant.DateTimeFormat)
	}
}
