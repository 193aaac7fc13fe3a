package clock

import (
	"time"

	"airpark/shared/timezone"
)

// Clock is the single source of "now" for booking decisions.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct{}

// New returns the wall clock in the application timezone.
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return timezone.Now()
}

func (systemClock) Location() *time.Location {
	return timezone.GetLocation()
}

type fixedClock struct {
	now time.Time
}

// Fixed returns a clock frozen at now; its location is now's location.
func Fixed(now time.Time) Clock {
	return fixedClock{now: now}
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func (c fixedClock) Location() *time.Location {
	return c.now.Location()
}
