package printers

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/stats"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
	// Location renders entry times, defaults to time.Local.
	Location *time.Location
}

const idWidth = 38

var (
	spacing = strings.Repeat(" ", idWidth)
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) loc() *time.Location {
	if pp.Location != nil {
		return pp.Location
	}
	return time.Local
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// Entries prints one line per entry, newest first as given.
func (pp *PrettyPrint) Entries(entries ...*entry.Entry) {
	w := pp.out()
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(w, spacing)
		}
		_, _ = f.Fprint(w, " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	d := color.New(color.FgCyan)
	c := color.New(color.Faint)
	t := color.New()
	flag := color.New(color.FgRed)

	for _, e := range entries {
		if pp.ShowID {
			_, _ = y.Fprint(w, e.ID)
			if pad := idWidth - len(e.ID); pad > 0 {
				_, _ = y.Fprint(w, strings.Repeat(" ", pad))
			} else {
				_, _ = y.Fprint(w, " ")
			}
		}
		_, _ = d.Fprintf(w, "%-16s ", e.Time(pp.loc()).Format("2006-01-02 15:04"))
		_, _ = c.Fprintf(w, "%-8s ", e.Category.Label())
		_, _ = t.Fprint(w, e.DisplayTitle())
		if e.Mood != "" {
			_, _ = c.Fprintf(w, " (%s)", e.Mood)
		}
		if e.IsPrivate {
			_, _ = flag.Fprint(w, " private")
		}
		if e.IsTrashed {
			_, _ = flag.Fprint(w, " trashed")
		}
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintln(w)
}

// Entry prints a single entry in full. Questions resolve response ids to
// their text; responses to deleted questions are shown by id.
func (pp *PrettyPrint) Entry(e *entry.Entry, questions []entry.Question) {
	w := pp.out()
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	_, _ = bold.Fprintln(w, e.DisplayTitle())
	_, _ = faint.Fprintf(w, "%s  %s  %s\n", e.DateLabel, e.Category.Label(), e.Time(pp.loc()).Format(time.RFC1123))
	if pp.ShowID {
		_, _ = faint.Fprintf(w, "id: %s\n", e.ID)
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	if e.Mood != "" {
		tbl.AddRow("Mood", e.Mood)
	}
	if e.Location != "" {
		tbl.AddRow("Location", e.Location)
	}
	if e.Weather != nil {
		tbl.AddRow("Weather", fmt.Sprintf("%.1f°C %s", e.Weather.Temp, e.Weather.Condition))
	}
	if len(e.Tags) > 0 {
		tbl.AddRow("Tags", strings.Join(e.Tags, ", "))
	}
	if photos := e.AllPhotos(); len(photos) > 0 {
		tbl.AddRow("Photos", strings.Join(photos, "\n"))
	}
	if len(tbl.Rows) > 0 {
		_, _ = fmt.Fprintln(w, tbl)
	}
	_, _ = fmt.Fprintln(w)

	if e.Mode() == entry.Free {
		if text := strings.TrimSpace(e.FreeTextContent); text != "" {
			_, _ = fmt.Fprintln(w, wordwrap.String(text, 80))
			_, _ = fmt.Fprintln(w)
		}
		return
	}

	for _, id := range responseOrder(e, questions) {
		answer := strings.TrimSpace(e.Responses[id])
		if answer == "" {
			continue
		}
		_, _ = bold.Fprintln(w, questionText(id, questions))
		_, _ = fmt.Fprintln(w, wordwrap.String(answer, 80))
		_, _ = fmt.Fprintln(w)
	}
}

// responseOrder lists response keys in question order, then the orphans
// sorted by id.
func responseOrder(e *entry.Entry, questions []entry.Question) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(e.Responses))
	for _, q := range questions {
		if _, ok := e.Responses[q.ID]; ok {
			out = append(out, q.ID)
			seen[q.ID] = true
		}
	}
	var orphans []string
	for id := range e.Responses {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return append(out, orphans...)
}

func questionText(id string, questions []entry.Question) string {
	for _, q := range questions {
		if q.ID == id {
			return q.Text
		}
	}
	return id
}

// Questions prints the question catalogue as a table.
func (pp *PrettyPrint) Questions(questions ...entry.Question) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Category"), bold.Sprint("Active"), bold.Sprint("Question"))
	for _, q := range questions {
		active := "yes"
		if !q.IsActive {
			active = faint.Sprint("no")
		}
		tbl.AddRow(q.ID, q.Category.Label(), active, q.Text)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Summary prints the headline numbers of a stats summary.
func (pp *PrettyPrint) Summary(s stats.Summary, streak stats.Streak) {
	w := pp.out()
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Entries"), s.Entries)
	tbl.AddRow(bold.Sprint("Words"), s.Words)
	if s.LongestTitle != "" {
		tbl.AddRow(bold.Sprint("Longest"), fmt.Sprintf("%s (%d words)", s.LongestTitle, s.LongestWords))
	}
	tbl.AddRow(bold.Sprint("Streak"), fmt.Sprintf("%d days (longest %d)", streak.Current, streak.Longest))
	if s.Earliest != 0 {
		tbl.AddRow(bold.Sprint("Since"), entry.FromMillis(s.Earliest, pp.loc()).Format("2006-01-02"))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w)

	pp.counts("Moods", s.Moods)
	pp.counts("Locations", s.Locations)
}

func (pp *PrettyPrint) counts(title string, counts []stats.Count) {
	if len(counts) == 0 {
		return
	}
	pp.Title(title)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, c := range counts {
		tbl.AddRow(c.Key, c.Count)
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out())
}
