// Package category defines journal entry categories and the per-category
// view configuration that controls hierarchical inclusion.
package category

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Category is the period granularity of an entry.
type Category string

const (
	// Daily entries describe a single local calendar day.
	Daily Category = "DAILY"
	// Weekly entries describe an ISO-8601 week.
	Weekly Category = "WEEKLY"
	// Monthly entries describe a calendar month.
	Monthly Category = "MONTHLY"
	// Yearly entries describe a calendar year.
	Yearly Category = "YEARLY"
)

// All returns the supported categories, finest granularity first.
func All() []Category {
	return []Category{
		Daily,
		Weekly,
		Monthly,
		Yearly,
	}
}

// Parse converts a string to a Category or returns an error for unknown values.
// Matching is case-insensitive; an empty string yields Daily.
func Parse(raw string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if c == "" {
		return Daily, nil
	}
	for _, candidate := range All() {
		if candidate == c {
			return candidate, nil
		}
	}
	return Daily, fmt.Errorf("category: unknown category %q", raw)
}

// MustParse parses the input and panics on error. Intended for tests/config.
func MustParse(raw string) Category {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, candidate := range All() {
		if candidate == c {
			return true
		}
	}
	return false
}

// Rank orders categories by granularity. Daily is 0.
func (c Category) Rank() int {
	for i, candidate := range All() {
		if candidate == c {
			return i
		}
	}
	return -1
}

// Label is the lower-case display name.
func (c Category) Label() string {
	return strings.ToLower(string(c))
}

func (c Category) String() string {
	return string(c)
}

// ViewMode is the default rendering mode for a category.
type ViewMode string

const (
	ViewGrid     ViewMode = "grid"
	ViewTimeline ViewMode = "timeline"
	ViewCalendar ViewMode = "calendar"
	ViewAtlas    ViewMode = "atlas"
	ViewGallery  ViewMode = "gallery"
)

// Config is the per-category configuration stored under settings.
type Config struct {
	ViewMode       ViewMode `json:"viewMode"`
	IncludeDaily   bool     `json:"includeDaily,omitempty"`
	IncludeWeekly  bool     `json:"includeWeekly,omitempty"`
	IncludeMonthly bool     `json:"includeMonthly,omitempty"`
}

// Configs maps a category to its configuration.
type Configs map[Category]Config

// Defaults mirrors the configuration a fresh journal starts with: every
// category renders as a grid and includes nothing beneath it.
func Defaults() Configs {
	out := make(Configs, len(All()))
	for _, c := range All() {
		out[c] = Config{ViewMode: ViewGrid}
	}
	return out
}

// Allowed resolves the active category against its configuration.
func (cs Configs) Allowed(active Category) Set {
	if cs == nil {
		return Allowed(active, nil)
	}
	cfg, ok := cs[active]
	if !ok {
		return Allowed(active, nil)
	}
	return Allowed(active, &cfg)
}

// Set is a set of categories.
type Set map[Category]struct{}

// NewSet builds a set from the given categories.
func NewSet(cs ...Category) Set {
	s := make(Set, len(cs))
	for _, c := range cs {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether c is in the set.
func (s Set) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the members ordered by granularity.
func (s Set) Sorted() []Category {
	out := make([]Category, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Rank() < out[j].Rank()
	})
	return out
}

// MarshalJSON renders the set as a sorted array.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}
