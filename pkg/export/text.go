package export

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/journal/pkg/entry"
)

const (
	textWidth  = 80
	heavyRule  = "===================================="
	lightRule  = "------------------------------------"
	timeLayout = "2006-01-02 15:04"
)

// Text writes a plain text report of the prepared entries.
func Text(w io.Writer, data entry.AppData, o Options) error {
	bw := bufio.NewWriter(w)
	loc := o.location()

	fmt.Fprintf(bw, "JOURNAL EXPORT - %s\n%s\n\n", o.now().Format("2006-01-02"), heavyRule)
	for _, e := range Prepare(data, o) {
		fmt.Fprintf(bw, "[%s] %s (%s)\n", e.Time(loc).Format(timeLayout), e.DisplayTitle(), e.Category.Label())
		if e.Mood != "" {
			fmt.Fprintf(bw, "Mood: %s\n", e.Mood)
		}
		if e.Weather != nil {
			fmt.Fprintf(bw, "Weather: %s\n", weatherLine(e.Weather))
		}
		if e.Location != "" {
			fmt.Fprintf(bw, "Location: %s\n", e.Location)
		}
		if len(e.Tags) > 0 {
			fmt.Fprintf(bw, "Tags: #%s\n", strings.Join(e.Tags, " #"))
		}
		fmt.Fprintln(bw, lightRule)
		if e.Mode() == entry.Free {
			fmt.Fprintln(bw, wordwrap.String(htmlToText(e.FreeTextContent), textWidth))
			fmt.Fprintln(bw)
		}
		for _, a := range answers(e, data.Questions) {
			fmt.Fprintf(bw, "Q: %s\nA: %s\n\n", a.Question, wordwrap.String(a.Answer, textWidth))
		}
		for _, p := range e.Photos {
			fmt.Fprintf(bw, "Photo: %s\n", p)
		}
		fmt.Fprintf(bw, "\n%s\n\n", heavyRule)
	}
	return bw.Flush()
}

func weatherLine(w *entry.Weather) string {
	line := fmt.Sprintf("%g°C, %s", w.Temp, w.Condition)
	if w.Location != "" {
		line += fmt.Sprintf(" (%s)", w.Location)
	}
	return line
}

var (
	commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockEnd       = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li)>`)
	lineBreak      = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag         = regexp.MustCompile(`<[^>]+>`)
	blankRun       = regexp.MustCompile(`\n{3,}`)
)

// htmlToText flattens editor HTML to paragraphs of plain text.
func htmlToText(s string) string {
	s = commentPattern.ReplaceAllString(s, "")
	s = blockEnd.ReplaceAllString(s, "\n\n")
	s = lineBreak.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = blankRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
