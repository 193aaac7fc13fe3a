// Package timezone pins the service to one IANA zone.
//
// Booking dates and clock times are stored as plain "YYYY-MM-DD" and "HH:mm"
// strings; they only become instants once combined in the application zone:
//
//	start, err := timezone.Combine("2024-06-01", "08:30")
//	today := timezone.Date(timezone.Now())
//
// The zone comes from APP_TIMEZONE (for example "Europe/Bucharest") and is
// loaded when the package is imported. Unknown or empty names fall back to UTC.
package timezone
