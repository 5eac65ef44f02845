package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"tableflip.dev/journal/pkg/entry"
)

// Answers and free text are markdown. Raw HTML from the rich text editor is
// passed through.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
)

func markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}

type htmlEntry struct {
	Time     string
	Title    string
	Category string
	Weather  string
	Mood     string
	Location string
	Tags     []string
	Photos   []template.URL
	Free     template.HTML
	Answers  []htmlAnswer
}

type htmlAnswer struct {
	Question string
	Answer   template.HTML
}

var htmlTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; background: #f4f4f5; color: #18181b; }
.entry { background: white; padding: 20px; margin-bottom: 20px; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
.meta { font-size: 0.85em; color: #71717a; margin-bottom: 10px; }
.title { font-size: 1.5em; font-weight: bold; color: #059669; margin: 0 0 5px 0; }
.qa { margin-bottom: 15px; }
.q { font-weight: bold; color: #3f3f46; font-size: 0.9em; }
.tags { font-size: 0.85em; color: #059669; }
.photo { max-width: 100%; height: auto; margin-top: 10px; border-radius: 4px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Entries}}<div class="entry">
<div class="meta">{{.Time}} | {{.Category}}{{if .Weather}} | {{.Weather}}{{end}}{{if .Mood}} | {{.Mood}}{{end}}{{if .Location}} | {{.Location}}{{end}}</div>
<h2 class="title">{{.Title}}</h2>
{{range .Photos}}<img src="{{.}}" class="photo" alt="Entry photo" />
{{end}}{{if .Tags}}<div class="tags">{{range .Tags}}#{{.}} {{end}}</div>
{{end}}<hr />
{{if .Free}}<div class="free">{{.Free}}</div>
{{end}}{{range .Answers}}<div class="qa"><div class="q">{{.Question}}</div><div class="a">{{.Answer}}</div></div>
{{end}}</div>
{{end}}</body>
</html>
`))

// HTML writes a standalone HTML page of the prepared entries.
func HTML(w io.Writer, data entry.AppData, o Options) error {
	loc := o.location()
	page := struct {
		Title   string
		Entries []htmlEntry
	}{Title: "Journal Export " + o.now().Format("2006-01-02")}

	for _, e := range Prepare(data, o) {
		he := htmlEntry{
			Time:     e.Time(loc).Format(timeLayout),
			Title:    e.DisplayTitle(),
			Category: e.Category.Label(),
			Mood:     e.Mood,
			Location: e.Location,
			Tags:     e.Tags,
		}
		for _, p := range e.Photos {
			// Photos are our own upload paths or data URLs.
			he.Photos = append(he.Photos, template.URL(p))
		}
		if e.Weather != nil {
			he.Weather = weatherLine(e.Weather)
		}
		if e.Mode() == entry.Free && strings.TrimSpace(e.FreeTextContent) != "" {
			he.Free = markdown(e.FreeTextContent)
		}
		for _, a := range answers(e, data.Questions) {
			he.Answers = append(he.Answers, htmlAnswer{Question: a.Question, Answer: markdown(a.Answer)})
		}
		page.Entries = append(page.Entries, he)
	}
	if err := htmlTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("export: render html: %w", err)
	}
	return nil
}
