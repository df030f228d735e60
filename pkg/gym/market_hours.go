package gym

import "time"

// Regular trading hours, on the clock of the bar timestamp.
const (
	marketOpenHour    = 9
	marketOpenMinute  = 30
	marketCloseHour   = 16
	marketCloseMinute = 0
)

func sessionBounds(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	open := time.Date(year, month, day, marketOpenHour, marketOpenMinute, 0, 0, t.Location())
	closing := time.Date(year, month, day, marketCloseHour, marketCloseMinute, 0, 0, t.Location())

	return open, closing
}

// IsPremarket reports whether t is before 09:30.
func IsPremarket(t time.Time) bool {
	open, _ := sessionBounds(t)

	return t.Before(open)
}

// IsAftermarket reports whether t is after 16:00.
func IsAftermarket(t time.Time) bool {
	_, closing := sessionBounds(t)

	return t.After(closing)
}

// IsMarketHours reports whether t is within 09:30 and 16:00, both ends included.
func IsMarketHours(t time.Time) bool {
	return !IsPremarket(t) && !IsAftermarket(t)
}
