package query

import "tableflip.dev/journal/pkg/entry"

// Caller identifies who a result set is being built for.
type Caller struct {
	IsAdmin bool
}

// Admin is a privileged caller.
var Admin = Caller{IsAdmin: true}

// Visible drops private entries unless the caller is an admin. The input is
// never modified.
func Visible(entries []*entry.Entry, c Caller) []*entry.Entry {
	out := make([]*entry.Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsPrivate && !c.IsAdmin {
			continue
		}
		out = append(out, e)
	}
	return out
}

// MapPoint is one marker on the atlas.
type MapPoint struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	DateLabel string    `json:"dateLabel"`
	Timestamp int64     `json:"timestamp"`
	Location  string    `json:"location,omitempty"`
	GPS       entry.GPS `json:"gps"`
	Mood      string    `json:"mood,omitempty"`
}

// MapPoints builds the marker layer. Entries without coordinates contribute
// nothing, nor do location-private entries for non-admin callers.
func MapPoints(entries []*entry.Entry, c Caller) []MapPoint {
	var out []MapPoint
	for _, e := range Visible(entries, c) {
		if e.GPS == nil {
			continue
		}
		if e.IsLocationPrivate && !c.IsAdmin {
			continue
		}
		out = append(out, MapPoint{
			ID:        e.ID,
			Title:     e.DisplayTitle(),
			DateLabel: e.DateLabel,
			Timestamp: e.Timestamp,
			Location:  e.Location,
			GPS:       *e.GPS,
			Mood:      e.Mood,
		})
	}
	return out
}

// Redact returns e unchanged for admins or entries without a private
// location. Otherwise it returns a copy with location and coordinates cleared.
func Redact(e *entry.Entry, c Caller) *entry.Entry {
	if e == nil || c.IsAdmin || !e.IsLocationPrivate {
		return e
	}
	cp := e.Clone()
	cp.Location = ""
	cp.GPS = nil
	if cp.Weather != nil {
		cp.Weather.Location = ""
	}
	return cp
}
