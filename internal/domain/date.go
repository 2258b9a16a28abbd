package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// FeedDateLayout is the date format the feed API uses for query parameters
// and for the keys of near_earth_objects.
const FeedDateLayout = "2006-01-02"

// clock is a package-level time source so tests can freeze "today".
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}

// Today returns the current local date as YYYY-MM-DD.
func Today() string {
	return FormatDate(clock.Now())
}

// FormatDate renders t in local time as a zero-padded YYYY-MM-DD string.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(FeedDateLayout)
}
