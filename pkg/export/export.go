// Package export renders a journal to JSON, plain text, HTML and WordPress
// WXR, and reads JSON and WXR back in.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/query"
)

// Format names an export renderer.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "txt"
	FormatHTML Format = "html"
	FormatWXR  Format = "wxr"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatText, FormatHTML, FormatWXR}
}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(raw string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), ".") {
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	case "html", "htm":
		return FormatHTML, nil
	case "wxr", "xml":
		return FormatWXR, nil
	}
	return "", fmt.Errorf("export: unknown format %q", raw)
}

// Extension is the file extension used for f.
func (f Format) Extension() string {
	if f == FormatWXR {
		return "xml"
	}
	return string(f)
}

// Options bound an export.
type Options struct {
	// Start and End are inclusive millisecond bounds. Zero is unbounded.
	Start, End     int64
	IncludePrivate bool
	// Location renders timestamps. Nil means time.Local.
	Location *time.Location
	// Now stamps the export header. Zero means time.Now.
	Now time.Time
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now().In(o.location())
	}
	return o.Now
}

// Prepare selects the entries to export: inside the range, private ones only
// when asked for, photos normalized from the legacy photo field, oldest
// first. data is not modified.
func Prepare(data entry.AppData, o Options) []*entry.Entry {
	selected := query.InRange(data.Entries, o.Start, o.End)
	out := make([]*entry.Entry, 0, len(selected))
	for _, e := range selected {
		if e.IsPrivate && !o.IncludePrivate {
			continue
		}
		cp := e.Clone()
		if len(cp.Photos) == 0 && cp.Photo != "" {
			cp.Photos = []string{cp.Photo}
		}
		out = append(out, cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// Write renders data in format f.
func Write(w io.Writer, f Format, data entry.AppData, o Options) error {
	switch f {
	case FormatJSON:
		return JSON(w, data, o)
	case FormatText:
		return Text(w, data, o)
	case FormatHTML:
		return HTML(w, data, o)
	case FormatWXR:
		return WXR(w, data, o)
	}
	return fmt.Errorf("export: unknown format %q", string(f))
}

// answer is one resolved question and its response.
type answer struct {
	Question string
	Answer   string
}

// answers resolves responses in question order. Orphaned and empty
// responses are skipped.
func answers(e *entry.Entry, questions []entry.Question) []answer {
	var out []answer
	for _, q := range questions {
		if a, ok := e.Responses[q.ID]; ok && strings.TrimSpace(a) != "" {
			out = append(out, answer{Question: q.Text, Answer: a})
		}
	}
	return out
}
