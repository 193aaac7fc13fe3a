package model

import (
	"errors"
	"time"

	"airpark/shared/timezone"
)

var ErrInvalidWindow = errors.New("start must be before end")

type Window struct {
	Start time.Time
	End   time.Time
}

func ParseWindow(startDate, startTime, endDate, endTime string, loc *time.Location) (Window, error) {
	start, err := timezone.CombineIn(startDate, startTime, loc)
	if err != nil {
		return Window{}, err
	}

	end, err := timezone.CombineIn(endDate, endTime, loc)
	if err != nil {
		return Window{}, err
	}

	if !start.Before(end) {
		return Window{}, ErrInvalidWindow
	}

	return Window{Start: start, End: end}, nil
}

// Overlaps uses half-open intervals: a window ending when another starts does not overlap it.
func (w Window) Overlaps(other Window) bool {
	return other.Start.Before(w.End) && other.End.After(w.Start)
}

// Touches reports whether w intersects the closed interval [from, to].
func (w Window) Touches(from, to time.Time) bool {
	return !w.Start.After(to) && !w.End.Before(from)
}

// Contains reports whether t lies within the closed interval [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// LiveWindows drops expired bookings and those whose dates cannot be read.
func LiveWindows(bookings []Booking, now time.Time, loc *time.Location) []Window {
	windows := make([]Window, 0, len(bookings))

	for _, b := range bookings {
		if IsExpired(b, now, loc) {
			continue
		}

		w, err := b.Window(loc)
		if err != nil {
			continue
		}

		windows = append(windows, w)
	}

	return windows
}

func CountConflicts(windows []Window, proposed Window) int {
	conflicts := 0

	for _, w := range windows {
		if w.Overlaps(proposed) {
			conflicts++
		}
	}

	return conflicts
}

// MaxDailyOccupancy is the highest number of windows touching any single calendar day of proposed.
func MaxDailyOccupancy(windows []Window, proposed Window, loc *time.Location) int {
	start := proposed.Start.In(loc)
	end := proposed.End.In(loc)

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)

	peak := 0

	for !day.After(last) {
		next := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc)
		dayEnd := next.Add(-time.Millisecond)

		count := 0

		for _, w := range windows {
			if w.Touches(day, dayEnd) {
				count++
			}
		}

		peak = max(peak, count)
		day = next
	}

	return peak
}
