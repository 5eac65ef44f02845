// Package datelabel converts between entry timestamps and the canonical
// per-category period labels.
//
//	DAILY    2024-03-09
//	WEEKLY   2024 W10
//	MONTHLY  2024-03
//	YEARLY   2024
package datelabel

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/journal/pkg/category"
)

var (
	// ErrUnknownCategory is returned for a category outside the closed set.
	ErrUnknownCategory = errors.New("datelabel: unknown category")
	// ErrInvalidLabel is returned when a label does not parse for its category.
	ErrInvalidLabel = errors.New("datelabel: invalid label")
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
	yearLayout  = "2006"
)

var (
	weekPattern  = regexp.MustCompile(`^(\d{4})(?: W|-W|W)(\d{1,2})$`)
	dailyLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", dayLayout}
)

// Label returns the canonical label of the period containing t, computed on
// the calendar date of t in its own location.
func Label(c category.Category, t time.Time) (string, error) {
	switch c {
	case category.Daily:
		return t.Format(dayLayout), nil
	case category.Weekly:
		year, week := ISOWeek(t)
		return weekLabel(year, week), nil
	case category.Monthly:
		return t.Format(monthLayout), nil
	case category.Yearly:
		return t.Format(yearLayout), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
}

// MustLabel is Label for callers holding an already validated category.
func MustLabel(c category.Category, t time.Time) string {
	l, err := Label(c, t)
	if err != nil {
		panic(err)
	}
	return l
}

// ISOWeek returns the ISO-8601 week-numbering year and week of the local
// calendar date of t. The date is shifted to the Thursday of its week; that
// Thursday decides the year.
func ISOWeek(t time.Time) (year, week int) {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dow := int(day.Weekday())
	if dow == 0 {
		dow = 7
	}
	thursday := day.AddDate(0, 0, 4-dow)
	start := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := thursday.Sub(start).Hours() / 24
	return thursday.Year(), int(math.Ceil((days + 1) / 7))
}

// Timestamp reconstructs a representative instant from a label. DAILY also
// accepts a local date-time, which is returned exactly.
func Timestamp(c category.Category, label string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	label = strings.TrimSpace(label)
	switch c {
	case category.Daily:
		for _, layout := range dailyLayouts {
			if t, err := time.ParseInLocation(layout, label, loc); err == nil {
				return t, nil
			}
		}
	case category.Weekly:
		year, week, err := parseWeek(label)
		if err != nil {
			return time.Time{}, err
		}
		return weekAnchor(year, week, loc), nil
	case category.Monthly:
		if t, err := time.ParseInLocation(monthLayout, label, loc); err == nil {
			return t, nil
		}
	case category.Yearly:
		if t, err := time.ParseInLocation(yearLayout, label, loc); err == nil {
			return t, nil
		}
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
	return time.Time{}, fmt.Errorf("%w: %s %q", ErrInvalidLabel, c.Label(), label)
}

// Edit interprets raw date-picker input for the category and returns the new
// timestamp together with the label to store. Coarse periods resolve to the
// last millisecond of the period.
func Edit(c category.Category, raw string, loc *time.Location) (time.Time, string, error) {
	if loc == nil {
		loc = time.Local
	}
	raw = strings.TrimSpace(raw)
	switch c {
	case category.Daily:
		t, err := Timestamp(c, raw, loc)
		if err != nil {
			return time.Time{}, "", err
		}
		return t, t.Format(dayLayout), nil
	case category.Weekly:
		year, week, err := parseWeek(raw)
		if err != nil {
			return time.Time{}, "", err
		}
		t := weekAnchor(year, week, loc)
		dow := int(t.Weekday())
		if dow == 0 {
			dow = 7
		}
		y, m, d := t.AddDate(0, 0, 7-dow).Date()
		return endOfDay(y, m, d, loc), weekLabel(year, week), nil
	case category.Monthly:
		t, err := Timestamp(c, raw, loc)
		if err != nil {
			return time.Time{}, "", err
		}
		// Day 0 of the next month is the last day of this one.
		return endOfDay(t.Year(), t.Month()+1, 0, loc), t.Format(monthLayout), nil
	case category.Yearly:
		t, err := Timestamp(c, raw, loc)
		if err != nil {
			return time.Time{}, "", err
		}
		return endOfDay(t.Year(), time.December, 31, loc), t.Format(yearLayout), nil
	}
	return time.Time{}, "", fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
}

// SamePeriod reports whether a and b fall in the same period of c.
func SamePeriod(c category.Category, a, b time.Time) bool {
	la, err := Label(c, a)
	if err != nil {
		return false
	}
	lb, err := Label(c, b)
	if err != nil {
		return false
	}
	return la == lb
}

// WeekPickerValue converts a stored weekly label to the `YYYY-Wnn` form used
// by week pickers. Labels that are not weekly come back empty.
func WeekPickerValue(label string) string {
	year, week, err := parseWeek(label)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func weekLabel(year, week int) string {
	return fmt.Sprintf("%04d W%02d", year, week)
}

// weekAnchor is day (week-1)*7+4 of January. Jan 4 is always in ISO week 1,
// so the anchor lands inside the requested week but not on its Thursday.
func weekAnchor(year, week int, loc *time.Location) time.Time {
	return time.Date(year, time.January, (week-1)*7+4, 0, 0, 0, 0, loc)
}

func endOfDay(y int, m time.Month, d int, loc *time.Location) time.Time {
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}

// weeksInYear is 52 or 53. Dec 28 always falls in the last ISO week.
func weeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

func parseWeek(raw string) (int, int, error) {
	m := weekPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: weekly %q", ErrInvalidLabel, raw)
	}
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])
	if week < 1 || week > weeksInYear(year) {
		return 0, 0, fmt.Errorf("%w: week %d out of range for %d", ErrInvalidLabel, week, year)
	}
	return year, week, nil
}
