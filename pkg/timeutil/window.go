// Package timeutil parses the date bounds accepted by list filters and the
// entries API.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/journal/pkg/entry"
)

const day = 24 * time.Hour

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitMap       = map[string]time.Duration{
		"h":     time.Hour,
		"hour":  time.Hour,
		"hours": time.Hour,
		"d":     day,
		"day":   day,
		"days":  day,
		"w":     7 * day,
		"wk":    7 * day,
		"week":  7 * day,
		"weeks": 7 * day,
		"y":     365 * day,
		"yr":    365 * day,
		"year":  365 * day,
		"years": 365 * day,
	}
)

// ParseWindow parses a compact look-back window such as "3d", "2w" or
// "1w2d".
func ParseWindow(input string) (time.Duration, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		return 0, fmt.Errorf("empty window")
	}
	total := time.Duration(0)
	for len(remaining) > 0 {
		m := windowPattern.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return 0, fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid window value %q: %w", m[1], err)
		}
		unit, ok := unitMap[m[2]]
		if !ok {
			return 0, fmt.Errorf("unsupported window unit %q", m[2])
		}
		total += time.Duration(value) * unit
		remaining = remaining[len(m[0]):]
	}
	if total <= 0 {
		return 0, fmt.Errorf("window must be greater than zero")
	}
	return total, nil
}

// FormatWindow renders d with week, day and hour tokens.
func FormatWindow(d time.Duration) string {
	if d < time.Hour {
		return "0h"
	}
	var b strings.Builder
	for _, u := range []struct {
		label string
		value time.Duration
	}{{"w", 7 * day}, {"d", day}, {"h", time.Hour}} {
		if d < u.value {
			continue
		}
		n := d / u.value
		d -= n * u.value
		fmt.Fprintf(&b, "%d%s", n, u.label)
	}
	return b.String()
}

// StartOfDay is local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseBound turns a filter bound into epoch milliseconds. It accepts
// "today", "yesterday", a YYYY-MM-DD date or RFC 3339 time (interpreted in
// now's location), raw milliseconds, or a window such as "2w" meaning the
// start of the day that long before now. Empty input is zero, which
// disables the bound.
func ParseBound(raw string, now time.Time) (int64, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "today":
		return entry.ToMillis(StartOfDay(now)), nil
	case "yesterday":
		return entry.ToMillis(StartOfDay(now).AddDate(0, 0, -1)), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return entry.ToMillis(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return entry.ToMillis(t), nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	if d, err := ParseWindow(s); err == nil {
		return entry.ToMillis(StartOfDay(now.Add(-d))), nil
	}
	return 0, fmt.Errorf("invalid date %q", raw)
}
