package dto

import (
	"strings"
	"time"

	"airpark/internal/domains/booking/model"
	"airpark/shared"
	"airpark/shared/constant"
	gDto "airpark/shared/dto"
	gModel "airpark/shared/model"
	"airpark/shared/timezone"

	"github.com/google/uuid"
)

// Window is the shared shape of every request naming a parking period.
type Window struct {
	StartDate string `json:"startDate" validate:"required,date"`
	StartTime string `json:"startTime" validate:"required,clock"`
	EndDate   string `json:"endDate"   validate:"required,date"`
	EndTime   string `json:"endTime"   validate:"required,clock"`
}

// Validate rejects windows that do not start strictly before they end.
// Both halves use fixed-width layouts, so string order is time order.
func (w *Window) Validate() error {
	if w.StartDate+" "+w.StartTime >= w.EndDate+" "+w.EndTime {
		return model.ErrInvalidWindow
	}

	return nil
}

type CreateBookingRequest struct {
	Window
	LicensePlate     string `json:"licensePlate"     validate:"required,max=20"`
	Status           string `json:"status"           validate:"omitempty,oneof=confirmed_paid confirmed_test confirmed paid pending"`
	CustomerName     string `json:"customerName"     validate:"omitempty,max=100"`
	CustomerEmail    string `json:"customerEmail"    validate:"omitempty,email,max=100"`
	CustomerPhone    string `json:"customerPhone"    validate:"omitempty,max=20"`
	PaymentReference string `json:"paymentReference" validate:"omitempty,max=100"`
}

func (c *CreateBookingRequest) ToModel(user string, now time.Time) model.Booking {
	status := c.Status
	if status == constant.Empty {
		status = model.StatusConfirmed
	}

	return model.Booking{
		ID:               uuid.NewString(),
		LicensePlate:     NormalizePlate(c.LicensePlate),
		StartDate:        c.StartDate,
		StartTime:        c.StartTime,
		EndDate:          c.EndDate,
		EndTime:          c.EndTime,
		Status:           status,
		LastUpdated:      now,
		CustomerName:     c.CustomerName,
		CustomerEmail:    c.CustomerEmail,
		CustomerPhone:    c.CustomerPhone,
		PaymentReference: c.PaymentReference,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// NormalizePlate upper-cases a plate and drops spaces and dashes.
func NormalizePlate(plate string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}

		return r
	}, strings.ToUpper(plate))
}

// UpdateBookingRequest corrects operator-editable fields. Dates are not editable.
type UpdateBookingRequest struct {
	LicensePlate  string `db:"license_plate"  json:"licensePlate"  validate:"omitempty,max=20"`
	Status        string `db:"status"         json:"status"        validate:"omitempty,oneof=confirmed_paid confirmed_test confirmed paid pending cancelled api_error"`
	CustomerName  string `db:"customer_name"  json:"customerName"  validate:"omitempty,max=100"`
	CustomerEmail string `db:"customer_email" json:"customerEmail" validate:"omitempty,email,max=100"`
	CustomerPhone string `db:"customer_phone" json:"customerPhone" validate:"omitempty,max=20"`
}

type BookingResponse struct {
	ID               string `json:"id"`
	LicensePlate     string `json:"licensePlate"`
	StartDate        string `json:"startDate"`
	StartTime        string `json:"startTime"`
	EndDate          string `json:"endDate"`
	EndTime          string `json:"endTime"`
	Status           string `json:"status"`
	ExpiredAt        string `json:"expiredAt,omitempty"`
	LastUpdated      string `json:"lastUpdated"`
	CustomerName     string `json:"customerName,omitempty"`
	CustomerEmail    string `json:"customerEmail,omitempty"`
	CustomerPhone    string `json:"customerPhone,omitempty"`
	PaymentReference string `json:"paymentReference,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.LicensePlate = m.LicensePlate
	r.StartDate = m.StartDate
	r.StartTime = m.StartTime
	r.EndDate = m.EndDate
	r.EndTime = m.EndTime
	r.Status = m.Status
	r.LastUpdated = timezone.Format(m.LastUpdated, constant.DateTimeFormat)
	r.CustomerName = m.CustomerName
	r.CustomerEmail = m.CustomerEmail
	r.CustomerPhone = m.CustomerPhone
	r.PaymentReference = m.PaymentReference
	r.Metadata.FromModel(m.Metadata)

	if m.ExpiredAt != nil {
		r.ExpiredAt = timezone.Format(*m.ExpiredAt, constant.DateTimeFormat)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"totalPage"`
	TotalData int               `json:"totalData"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Bookings = FromModels(models)
}

func FromModels(models []model.Booking) []BookingResponse {
	bookings := make([]BookingResponse, 0, len(models))

	for _, m := range models {
		var res BookingResponse
		res.FromModel(m)
		bookings = append(bookings, res)
	}

	return bookings
}

// StatsResponse separates the authoritative active count from the display counter.
type StatsResponse struct {
	ByStatus      map[string]int `json:"byStatus"`
	Total         int            `json:"total"`
	ActiveNow     int            `json:"activeBookings"`
	CachedActive  int            `json:"cachedActiveBookingsCount"`
	PendingExpiry int            `json:"pendingExpiry"`
	TotalSpots    int            `json:"totalSpots"`
	GeneratedAt   string         `json:"generatedAt"`
}

// PaymentCompletedEvent is the payload consumed from the payment topic.
type PaymentCompletedEvent struct {
	PaymentReference string `json:"paymentReference"`
	LicensePlate     string `json:"licensePlate"`
	StartDate        string `json:"startDate"`
	StartTime        string `json:"startTime"`
	EndDate          string `json:"endDate"`
	EndTime          string `json:"endTime"`
	CustomerName     string `json:"customerName"`
	CustomerEmail    string `json:"customerEmail"`
	CustomerPhone    string `json:"customerPhone"`
	Test             bool   `json:"test"`
}

func (e PaymentCompletedEvent) ToCreateRequest() CreateBookingRequest {
	status := model.StatusConfirmedPaid
	if e.Test {
		status = model.StatusConfirmedTest
	}

	return CreateBookingRequest{
		Window: Window{
			StartDate: e.StartDate,
			StartTime: e.StartTime,
			EndDate:   e.EndDate,
			EndTime:   e.EndTime,
		},
		LicensePlate:     e.LicensePlate,
		Status:           status,
		CustomerName:     e.CustomerName,
		CustomerEmail:    e.CustomerEmail,
		CustomerPhone:    e.CustomerPhone,
		PaymentReference: e.PaymentReference,
	}
}

// BookingExpiredEvent is published once per booking the cleanup job expires.
type BookingExpiredEvent struct {
	BookingID    string `json:"bookingId"`
	LicensePlate string `json:"licensePlate"`
	EndDate      string `json:"endDate"`
	EndTime      string `json:"endTime"`
	ExpiredAt    string `json:"expiredAt"`
}
