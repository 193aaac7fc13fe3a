package timezone

import (
	"fmt"
	"time"

	"airpark/config"
	"airpark/shared/constant"

	"github.com/rs/zerolog/log"
)

var (
	appLocation = time.UTC
)

func init() {
	cfg := config.Get()

	appLocation = Load(cfg.App.Timezone)
}

// Load resolves an IANA zone name, falling back to UTC.
func Load(name string) *time.Location {
	if name == constant.Empty {
		log.Warn().Msg("No timezone configured, using UTC as default")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(appLocation)
}

// GetLocation returns the application timezone.
func GetLocation() *time.Location {
	return appLocation
}

// Format formats t in the application timezone.
func Format(t time.Time, layout string) string {
	return t.In(appLocation).Format(layout)
}

// Combine joins a "YYYY-MM-DD" date and an "HH:mm" clock time into an instant in the application timezone.
func Combine(date, clock string) (time.Time, error) {
	return CombineIn(date, clock, appLocation)
}

// CombineIn is Combine for an explicit location.
func CombineIn(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(constant.DateFormat+" "+constant.ClockFormat, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}

	return t, nil
}

// Date returns the calendar date of t, as seen in the application timezone.
func Date(t time.Time) string {
	return Format(t, constant.DateFormat)
}
