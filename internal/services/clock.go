package services

import "time"

// Clock supplies "today" and the current month to the membership engine.
type Clock interface {
	Now() time.Time
}

type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
