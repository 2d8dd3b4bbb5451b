package calendar

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Zone defines the application-local calendar day. Storage stays in UTC; Zone
// only converts to find day boundaries.
type Zone struct {
	loc *time.Location
	now func() time.Time
}

func NewZone(loc *time.Location, now func() time.Time) Zone {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Zone{loc: loc, now: now}
}

func LoadZone(name string, now func() time.Time) (Zone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewZone(time.UTC, now), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return NewZone(loc, now), nil
}

func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return time.UTC
	}
	return z.loc
}

func (z Zone) UtcNow() time.Time {
	if z.now == nil {
		return time.Now().UTC()
	}
	return z.now().UTC()
}

func (z Zone) ToLocal(t time.Time) time.Time {
	return t.In(z.Location())
}

// ToUTC reads the wall clock fields of local as a time in the zone.
func (z Zone) ToUTC(local time.Time) time.Time {
	y, m, d := local.Date()
	hh, mm, ss := local.Clock()
	return time.Date(y, m, d, hh, mm, ss, local.Nanosecond(), z.Location()).UTC()
}

func (z Zone) LocalDate(t time.Time) string {
	return z.ToLocal(t).Format(DateLayout)
}

func (z Zone) Today() string {
	return z.LocalDate(z.UtcNow())
}

// DayWindow returns the [start, end) UTC bounds of the local day containing t.
func (z Zone) DayWindow(t time.Time) (time.Time, time.Time) {
	local := z.ToLocal(t)
	y, m, d := local.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, z.Location())
	end := time.Date(y, m, d+1, 0, 0, 0, 0, z.Location())
	return start.UTC(), end.UTC()
}

func (z Zone) NextMidnight(t time.Time) time.Time {
	_, end := z.DayWindow(t)
	return end
}

func (z Zone) UntilNextMidnight(t time.Time) time.Duration {
	return z.NextMidnight(t).Sub(t)
}
