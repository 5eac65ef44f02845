package entry

import (
	"time"
)

// FromMillis converts milliseconds since the epoch to a time in loc. A nil
// location means time.Local.
func FromMillis(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc)
}

// ToMillis converts t to milliseconds since the epoch.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// ParseTime parses an RFC3339 timestamp.
func ParseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatTime renders v as RFC3339 in UTC.
func FormatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339Nano)
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// SameMonthDay reports whether a and b share month and day of month in their
// own locations, ignoring the year.
func SameMonthDay(a, b time.Time) bool {
	return a.Month() == b.Month() && a.Day() == b.Day()
}
