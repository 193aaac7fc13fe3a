package dto

import (
	bookingDto "airpark/internal/domains/booking/model/dto"
)

type CheckAvailabilityRequest struct {
	bookingDto.Window
}

// AvailabilityResponse answers whether one more booking fits the requested window.
// MaxBookingsInPeriod is informational and does not affect Available.
type AvailabilityResponse struct {
	Available           bool `json:"available"`
	ConflictingBookings int  `json:"conflictingBookings"`
	TotalSpots          int  `json:"totalSpots"`
	MaxBookingsInPeriod int  `json:"maxBookingsInPeriod"`
}
