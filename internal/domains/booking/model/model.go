package model

import (
	"slices"
	"time"

	"airpark/shared/model"
	"airpark/shared/timezone"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldLicensePlate     = "license_plate"
	FieldStartDate        = "start_date"
	FieldStartTime        = "start_time"
	FieldEndDate          = "end_date"
	FieldEndTime          = "end_time"
	FieldStatus           = "status"
	FieldExpiredAt        = "expired_at"
	FieldLastUpdated      = "last_updated"
	FieldCustomerName     = "customer_name"
	FieldCustomerEmail    = "customer_email"
	FieldCustomerPhone    = "customer_phone"
	FieldPaymentReference = "payment_reference"
)

const (
	StatusConfirmedPaid = "confirmed_paid"
	StatusConfirmedTest = "confirmed_test"
	StatusConfirmed     = "confirmed"
	StatusPaid          = "paid"
	StatusExpired       = "expired"
	StatusPending       = "pending"
	StatusCancelled     = "cancelled"
	StatusAPIError      = "api_error"
)

// ActiveStatuses are the statuses that occupy a parking spot.
var ActiveStatuses = []string{
	StatusConfirmedPaid,
	StatusConfirmedTest,
	StatusConfirmed,
	StatusPaid,
}

// Booking is one reserved parking window. Dates are YYYY-MM-DD and times HH:mm,
// both read in the application timezone.
type Booking struct {
	ID               string     `db:"id"`
	LicensePlate     string     `db:"license_plate"`
	StartDate        string     `db:"start_date"`
	StartTime        string     `db:"start_time"`
	EndDate          string     `db:"end_date"`
	EndTime          string     `db:"end_time"`
	Status           string     `db:"status"`
	ExpiredAt        *time.Time `db:"expired_at"`
	LastUpdated      time.Time  `db:"last_updated"`
	CustomerName     string     `db:"customer_name"`
	CustomerEmail    string     `db:"customer_email"`
	CustomerPhone    string     `db:"customer_phone"`
	PaymentReference string     `db:"payment_reference"`
	model.Metadata
}

func IsActiveStatus(status string) bool {
	return slices.Contains(ActiveStatuses, status)
}

func (b Booking) IsActive() bool {
	return IsActiveStatus(b.Status)
}

func (b Booking) StartAt(loc *time.Location) (time.Time, error) {
	return timezone.CombineIn(b.StartDate, b.StartTime, loc)
}

func (b Booking) EndAt(loc *time.Location) (time.Time, error) {
	return timezone.CombineIn(b.EndDate, b.EndTime, loc)
}

// Window returns the [start, end) interval the booking covers.
func (b Booking) Window(loc *time.Location) (Window, error) {
	return ParseWindow(b.StartDate, b.StartTime, b.EndDate, b.EndTime, loc)
}

// IsExpired reports whether an active booking has reached its end.
// Bookings with an unreadable end never expire.
func IsExpired(b Booking, now time.Time, loc *time.Location) bool {
	if !b.IsActive() {
		return false
	}

	end, err := b.EndAt(loc)
	if err != nil {
		return false
	}

	return !end.After(now)
}
