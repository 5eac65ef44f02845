package query

import (
	"fmt"
	"strings"

	"tableflip.dev/journal/pkg/entry"
)

// Direction moves the cursor through a newest-first list.
type Direction string

const (
	// Next steps toward more recent entries, which sit at lower indexes.
	Next Direction = "next"
	// Prev steps toward older entries.
	Prev Direction = "prev"
)

// ParseDirection accepts "next" or "prev" in any case.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case Next:
		return Next, nil
	case Prev:
		return Prev, nil
	}
	return "", fmt.Errorf("query: unknown direction %q", raw)
}

// Neighbor returns the entry beside currentID in ordered. It returns nil when
// the id is absent or the step would leave the list; it never wraps.
func Neighbor(ordered []*entry.Entry, currentID string, d Direction) *entry.Entry {
	idx := -1
	for i, e := range ordered {
		if e.ID == currentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	switch d {
	case Next:
		idx--
	case Prev:
		idx++
	default:
		return nil
	}
	if idx < 0 || idx >= len(ordered) {
		return nil
	}
	return ordered[idx]
}

// InRange keeps entries with start <= timestamp <= end. A zero bound is open.
func InRange(entries []*entry.Entry, start, end int64) []*entry.Entry {
	return keep(entries, func(e *entry.Entry) bool {
		if start != 0 && e.Timestamp < start {
			return false
		}
		if end != 0 && e.Timestamp > end {
			return false
		}
		return true
	})
}
