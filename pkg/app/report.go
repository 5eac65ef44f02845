package app

import (
	"time"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/query"
	"tableflip.dev/journal/pkg/stats"
)

// ReportResult summarizes the entries written in a window.
type ReportResult struct {
	// Since is zero for an all-time report.
	Since   time.Time
	Until   time.Time
	Summary stats.Summary
	// Streak is computed over the whole journal regardless of the window.
	Streak stats.Streak
}

// Report summarizes the visible, untrashed entries written between since
// and until. A zero since covers everything up to until.
func (s *Service) Report(caller query.Caller, since, until time.Time) ReportResult {
	if !since.IsZero() && since.After(until) {
		since, until = until, since
	}
	all := query.Query(s.Journal().Entries(), query.Options{View: query.ViewStats, Caller: caller})

	var start int64
	if !since.IsZero() {
		start = entry.ToMillis(since)
	}
	windowed := query.InRange(all, start, entry.ToMillis(until))
	return ReportResult{
		Since:   since,
		Until:   until,
		Summary: stats.Summarize(windowed, until),
		Streak:  stats.Streaks(all, until),
	}
}
