package timezone_test

import (
	"testing"
	"time"

	"airpark/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	assert.Equal(t, time.UTC, timezone.Load(""))
	assert.Equal(t, time.UTC, timezone.Load("Mars/Olympus_Mons"))
	assert.Equal(t, "Europe/Bucharest", timezone.Load("Europe/Bucharest").String())
}

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.False(t, now.IsZero())
	assert.Equal(t, timezone.GetLocation(), now.Location())
}

func TestCombineIn(t *testing.T) {
	loc := timezone.Load("Europe/Bucharest")

	got, err := timezone.CombineIn("2024-07-01", "08:30", loc)
	require.NoError(t, err)

	// Bucharest is UTC+3 in summer.
	assert.Equal(t, time.Date(2024, 7, 1, 5, 30, 0, 0, time.UTC), got.UTC())
}

func TestCombineInvalid(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
	}{
		{name: "empty", date: "", clock: ""},
		{name: "bad date", date: "2024-13-01", clock: "10:00"},
		{name: "bad clock", date: "2024-01-01", clock: "25:00"},
		{name: "seconds not accepted", date: "2024-01-01", clock: "10:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := timezone.Combine(tt.date, tt.clock)
			assert.Error(t, err)
		})
	}
}

func TestDate(t *testing.T) {
	instant := time.Date(2024, 1, 1, 12, 0, 0, 0, timezone.GetLocation())

	assert.Equal(t, "2024-01-01", timezone.Date(instant))
}
