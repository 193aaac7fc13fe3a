package model

import "time"

const (
	SettingsTableName  = "reservation_settings"
	SettingsEntityName = "reservation_settings"
	StatsTableName     = "reservation_stats"
	StatsEntityName    = "reservation_stats"

	FieldID                   = "id"
	FieldMaxTotalReservations = "max_total_reservations"
	FieldActiveBookingsCount  = "active_bookings_count"
	FieldUpdatedAt            = "updated_at"
	FieldUpdatedBy            = "updated_by"

	// SingletonID is the primary key of the only row in both tables.
	SingletonID = 1
)

type ReservationSettings struct {
	ID                   int       `db:"id"`
	MaxTotalReservations int       `db:"max_total_reservations"`
	UpdatedAt            time.Time `db:"updated_at"`
	UpdatedBy            string    `db:"updated_by"`
}

// ReservationStats carries display-only aggregates. Decisions never read it.
type ReservationStats struct {
	ID                  int       `db:"id"`
	ActiveBookingsCount int       `db:"active_bookings_count"`
	UpdatedAt           time.Time `db:"updated_at"`
}
