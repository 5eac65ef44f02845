// Package entry defines the journal data model shared by every component.
package entry

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/journal/pkg/category"
)

// Mode selects how the content of an entry is represented.
type Mode string

const (
	// Structured entries answer questions keyed by question id.
	Structured Mode = "structured"
	// Free entries carry a single rich-text blob.
	Free Mode = "free"
)

// ParseMode converts a string to a Mode. Empty input is Structured.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", Structured:
		return Structured, nil
	case Free:
		return Free, nil
	default:
		return Structured, fmt.Errorf("entry: unknown mode %q", raw)
	}
}

// Weather is the weather snapshot attached to an entry.
type Weather struct {
	Temp      float64 `json:"temp"`
	Condition string  `json:"condition"`
	Location  string  `json:"location"`
	Icon      string  `json:"icon,omitempty"`
}

// GPS is a coordinate pair.
type GPS struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Entry is one journal record.
type Entry struct {
	ID                string            `json:"id"`
	NotebookID        string            `json:"notebookId,omitempty"`
	Timestamp         int64             `json:"timestamp"`
	DateLabel         string            `json:"dateLabel"`
	Title             string            `json:"title,omitempty"`
	Category          category.Category `json:"category"`
	Responses         map[string]string `json:"responses"`
	HabitValues       map[string]any    `json:"habitValues,omitempty"`
	EntryMode         Mode              `json:"entryMode,omitempty"`
	FreeTextContent   string            `json:"freeTextContent,omitempty"`
	Mood              string            `json:"mood,omitempty"`
	Photo             string            `json:"photo,omitempty"`
	Photos            []string          `json:"photos,omitempty"`
	Weather           *Weather          `json:"weather,omitempty"`
	Location          string            `json:"location,omitempty"`
	GPS               *GPS              `json:"gps,omitempty"`
	IsPrivate         bool              `json:"isPrivate,omitempty"`
	IsLocationPrivate bool              `json:"isLocationPrivate,omitempty"`
	Tags              []string          `json:"tags,omitempty"`
	IsDraft           bool              `json:"isDraft,omitempty"`
	IsTrashed         bool              `json:"isTrashed,omitempty"`
	IsFavorite        bool              `json:"isFavorite,omitempty"`
}

// Mode returns the entry mode, treating an absent value as Structured.
func (e *Entry) Mode() Mode {
	if e.EntryMode == "" {
		return Structured
	}
	return e.EntryMode
}

// Time returns the entry timestamp in loc.
func (e *Entry) Time(loc *time.Location) time.Time {
	return FromMillis(e.Timestamp, loc)
}

// DisplayTitle is the title, or the date label when the title is blank.
func (e *Entry) DisplayTitle() string {
	if strings.TrimSpace(e.Title) != "" {
		return e.Title
	}
	return e.DateLabel
}

// AllPhotos returns photos, falling back to the single legacy photo.
func (e *Entry) AllPhotos() []string {
	if len(e.Photos) > 0 {
		return e.Photos
	}
	if e.Photo != "" {
		return []string{e.Photo}
	}
	return nil
}

// HasPhoto reports whether any photo is attached.
func (e *Entry) HasPhoto() bool {
	return len(e.AllPhotos()) > 0
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	cp := *e
	if e.Responses != nil {
		cp.Responses = make(map[string]string, len(e.Responses))
		for k, v := range e.Responses {
			cp.Responses[k] = v
		}
	}
	if e.HabitValues != nil {
		cp.HabitValues = make(map[string]any, len(e.HabitValues))
		for k, v := range e.HabitValues {
			cp.HabitValues[k] = v
		}
	}
	if e.Photos != nil {
		cp.Photos = append([]string(nil), e.Photos...)
	}
	if e.Tags != nil {
		cp.Tags = append([]string(nil), e.Tags...)
	}
	if e.Weather != nil {
		w := *e.Weather
		cp.Weather = &w
	}
	if e.GPS != nil {
		g := *e.GPS
		cp.GPS = &g
	}
	return &cp
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s [%s] %s", e.DateLabel, e.Category.Label(), e.DisplayTitle())
}

// Patch is a partial update. Nil fields are left untouched. The timestamp
// and date label are fixed at creation and cannot be patched.
type Patch struct {
	Title             *string   `json:"title,omitempty"`
	Mood              *string   `json:"mood,omitempty"`
	Location          *string   `json:"location,omitempty"`
	FreeTextContent   *string   `json:"freeTextContent,omitempty"`
	IsPrivate         *bool     `json:"isPrivate,omitempty"`
	IsLocationPrivate *bool     `json:"isLocationPrivate,omitempty"`
	IsTrashed         *bool     `json:"isTrashed,omitempty"`
	IsFavorite        *bool     `json:"isFavorite,omitempty"`
	IsDraft           *bool     `json:"isDraft,omitempty"`
	Tags              *[]string `json:"tags,omitempty"`
}

// Apply writes the non-nil patch fields onto e.
func (p Patch) Apply(e *Entry) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.FreeTextContent != nil {
		e.FreeTextContent = *p.FreeTextContent
	}
	if p.IsPrivate != nil {
		e.IsPrivate = *p.IsPrivate
	}
	if p.IsLocationPrivate != nil {
		e.IsLocationPrivate = *p.IsLocationPrivate
	}
	if p.IsTrashed != nil {
		e.IsTrashed = *p.IsTrashed
	}
	if p.IsFavorite != nil {
		e.IsFavorite = *p.IsFavorite
	}
	if p.IsDraft != nil {
		e.IsDraft = *p.IsDraft
	}
	if p.Tags != nil {
		e.Tags = append([]string(nil), (*p.Tags)...)
	}
}

// Bool returns a pointer to v, for building patches.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for building patches.
func String(v string) *string { return &v }
