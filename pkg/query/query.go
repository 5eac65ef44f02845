// Package query turns the entry collection into the ordered lists the views
// render: visibility rules, category inclusion, search and sort, plus the
// cursor used to step through a result.
package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/entry"
)

// GlobalView is a cross-cutting view that overrides category browsing.
type GlobalView string

const (
	ViewNone      GlobalView = ""
	ViewTrash     GlobalView = "trash"
	ViewStats     GlobalView = "stats"
	ViewStreak    GlobalView = "streak"
	ViewAtlas     GlobalView = "atlas"
	ViewGallery   GlobalView = "gallery"
	ViewOnThisDay GlobalView = "onThisDay"
	ViewTags      GlobalView = "tags"
)

// ParseView accepts a global view name in any case. "" and "none" mean the
// default category view.
func ParseView(raw string) (GlobalView, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return ViewNone, nil
	case "trash":
		return ViewTrash, nil
	case "stats":
		return ViewStats, nil
	case "streak":
		return ViewStreak, nil
	case "atlas", "map":
		return ViewAtlas, nil
	case "gallery":
		return ViewGallery, nil
	case "onthisday", "on-this-day":
		return ViewOnThisDay, nil
	case "tags":
		return ViewTags, nil
	}
	return ViewNone, fmt.Errorf("query: unknown view %q", raw)
}

// crossCategory views span every category.
func (v GlobalView) crossCategory() bool {
	switch v {
	case ViewStats, ViewStreak, ViewAtlas, ViewGallery:
		return true
	}
	return false
}

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// Filters are the optional narrowing controls shared by every view.
type Filters struct {
	// From keeps entries at or after this instant (ms). Zero disables.
	From int64
	// To keeps entries up to one day past this instant (ms), so a date
	// picked as the end of the range is included whole. Zero disables.
	To       int64
	Mood     string
	HasPhoto bool
}

// Options are every input of Query. Nothing is read from ambient state.
type Options struct {
	Active  category.Category
	Configs category.Configs
	Caller  Caller
	Search  string
	View    GlobalView
	Filters Filters
	// Now anchors the on-this-day view. Zero means time.Now.
	Now time.Time
}

// Query returns the ordered entry list for the given view, newest first.
// Cross-category views skip only the category filter.
func Query(entries []*entry.Entry, o Options) []*entry.Entry {
	out := Visible(entries, o.Caller)

	if o.View == ViewTrash {
		return sortDesc(keep(out, func(e *entry.Entry) bool { return e.IsTrashed }))
	}
	out = keep(out, func(e *entry.Entry) bool { return !e.IsTrashed })

	search := o.Search
	switch {
	case o.View.crossCategory():
	case o.View == ViewOnThisDay:
		now := o.Now
		if now.IsZero() {
			now = time.Now()
		}
		out = keep(out, func(e *entry.Entry) bool {
			return entry.SameMonthDay(e.Time(now.Location()), now)
		})
	case o.View == ViewTags:
		if strings.HasPrefix(search, "#") {
			tag := strings.ToLower(search[1:])
			out = keep(out, func(e *entry.Entry) bool {
				for _, t := range e.Tags {
					if strings.ToLower(t) == tag {
						return true
					}
				}
				return false
			})
			// The tag is the whole search.
			search = ""
		}
	default:
		active := o.Active
		if active == "" {
			active = category.Daily
		}
		allowed := o.Configs.Allowed(active)
		out = keep(out, func(e *entry.Entry) bool { return allowed.Has(e.Category) })
	}

	f := o.Filters
	if f.From != 0 {
		out = keep(out, func(e *entry.Entry) bool { return e.Timestamp >= f.From })
	}
	if f.To != 0 {
		end := f.To + dayMillis
		out = keep(out, func(e *entry.Entry) bool { return e.Timestamp <= end })
	}
	if f.Mood != "" {
		out = keep(out, func(e *entry.Entry) bool { return e.Mood == f.Mood })
	}
	if f.HasPhoto {
		out = keep(out, func(e *entry.Entry) bool { return e.HasPhoto() })
	}

	if search != "" {
		q := strings.ToLower(search)
		out = keep(out, func(e *entry.Entry) bool { return Matches(e, q) })
	}
	return sortDesc(out)
}

// Matches reports whether e contains the lowercase query q in its title,
// location, free text, any response or any tag. For tags the first '#' of q
// is ignored.
func Matches(e *entry.Entry, q string) bool {
	if contains(e.Title, q) || contains(e.Location, q) || contains(e.FreeTextContent, q) {
		return true
	}
	for _, r := range e.Responses {
		if contains(r, q) {
			return true
		}
	}
	tq := strings.Replace(q, "#", "", 1)
	for _, t := range e.Tags {
		if contains(t, tq) {
			return true
		}
	}
	return false
}

func contains(field, q string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), q)
}

func keep(entries []*entry.Entry, pred func(*entry.Entry) bool) []*entry.Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

func sortDesc(entries []*entry.Entry) []*entry.Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	return entries
}
