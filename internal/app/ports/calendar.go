package ports

import "time"

// Calendar is implemented by calendar.Zone.
type Calendar interface {
	UtcNow() time.Time
	LocalDate(t time.Time) string
	DayWindow(t time.Time) (time.Time, time.Time)
	NextMidnight(t time.Time) time.Time
}
