package query

import (
	"fmt"
	"time"

	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/timeutil"
)

// Params are query options in the string form they arrive in from flags
// and URL parameters.
type Params struct {
	Category string
	Search   string
	View     string
	Mood     string
	From     string
	To       string
	HasPhoto bool
}

// Options parses p. Date bounds are resolved against now.
func (p Params) Options(configs category.Configs, caller Caller, now time.Time) (Options, error) {
	active, err := category.Parse(p.Category)
	if err != nil {
		return Options{}, err
	}
	view, err := ParseView(p.View)
	if err != nil {
		return Options{}, err
	}
	from, err := timeutil.ParseBound(p.From, now)
	if err != nil {
		return Options{}, fmt.Errorf("query: from: %w", err)
	}
	to, err := timeutil.ParseBound(p.To, now)
	if err != nil {
		return Options{}, fmt.Errorf("query: to: %w", err)
	}
	return Options{
		Active:  active,
		Configs: configs,
		Caller:  caller,
		Search:  p.Search,
		View:    view,
		Filters: Filters{From: from, To: to, Mood: p.Mood, HasPhoto: p.HasPhoto},
		Now:     now,
	}, nil
}
