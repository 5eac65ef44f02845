// Package stats provides the runner that summarizes journal activity.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/query"
)

// Stats prints the report for a window and an activity calendar.
type Stats struct {
	// Since is zero for all time.
	Since time.Time
	Until time.Time
	// Year prints the calendar for the whole year of Until.
	Year    bool
	Caller  query.Caller
	JSON    bool
	Service *app.Service
	Out     io.Writer
}

func (n *Stats) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not summarize, no journal")
	}
	until := n.Until
	if until.IsZero() {
		until = n.Service.Journal().Now()
	}
	report := n.Service.Report(n.Caller, n.Since, until)

	out := n.Out
	if out == nil {
		out = color.Output
	}
	if n.JSON {
		return json.NewEncoder(out).Encode(report)
	}

	pp := printers.PrettyPrint{Out: out, Location: n.Service.Journal().Location()}
	pp.NewLine()
	pp.Summary(report.Summary, report.Streak)
	if n.Year {
		pp.ActivityYear(until, report.Summary.Activity)
	} else {
		pp.Activity(until, report.Summary.Activity)
	}
	return nil
}
