package utils

import "time"

// Vietnam time location (ICT, +07:00), used when no zone is configured.
var vnLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Ho_Chi_Minh"); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*3600)
}()

func DefaultLocation() *time.Location { return vnLoc }

// LoadLocation resolves an IANA zone name, falling back to ICT.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return vnLoc
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return vnLoc
}

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayToUnix is the storage form of a calendar date.
func DayToUnix(t time.Time) int64 { return StartOfDay(t).Unix() }

// AddDays moves a date by n calendar days, keeping midnight across DST changes.
func AddDays(t time.Time, n int) time.Time {
	return StartOfDay(t).AddDate(0, 0, n)
}

// MonthBounds returns [start, end) of the calendar month (year and month) containing t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// ParseDay parses YYYY-MM-DD in loc.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, loc)
}

func FromUnixDay(sec int64, loc *time.Location) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).In(loc)
}

func FormatDay(sec *int64, loc *time.Location) string {
	if sec == nil {
		return ""
	}
	return FromUnixDay(*sec, loc).Format("2006-01-02")
}

func FormatRFC3339(sec int64, loc *time.Location) string {
	if sec <= 0 {
		return ""
	}
	return time.Unix(sec, 0).In(loc).Format(time.RFC3339)
}
