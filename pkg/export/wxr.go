package export

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/datelabel"
	"tableflip.dev/journal/pkg/entry"
)

const (
	contentNS = "http://purl.org/rss/1.0/modules/content/"
	wpNS      = "http://wordpress.org/export/1.2/"
	wpLayout  = "2006-01-02 15:04:05"
)

type cdata struct {
	Text string `xml:",cdata"`
}

type wxrCategory struct {
	Domain   string `xml:"domain,attr"`
	Nicename string `xml:"nicename,attr"`
	Name     string `xml:",cdata"`
}

type wxrItem struct {
	Title      string        `xml:"title"`
	PubDate    string        `xml:"pubDate"`
	GUID       string        `xml:"guid"`
	Content    cdata         `xml:"content:encoded"`
	PostID     string        `xml:"wp:post_id"`
	PostDate   string        `xml:"wp:post_date"`
	Status     string        `xml:"wp:status"`
	PostType   string        `xml:"wp:post_type"`
	Categories []wxrCategory `xml:"category"`
}

type wxrChannel struct {
	Title       string    `xml:"title"`
	Description string    `xml:"description"`
	PubDate     string    `xml:"pubDate"`
	WXRVersion  string    `xml:"wp:wxr_version"`
	Items       []wxrItem `xml:"item"`
}

type wxrDocument struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	ContentNS string     `xml:"xmlns:content,attr"`
	WPNS      string     `xml:"xmlns:wp,attr"`
	Channel   wxrChannel `xml:"channel"`
}

// WXR writes the prepared entries as a WordPress eXtended RSS document.
// Private entries are exported as private posts.
func WXR(w io.Writer, data entry.AppData, o Options) error {
	loc := o.location()
	doc := wxrDocument{
		Version:   "2.0",
		ContentNS: contentNS,
		WPNS:      wpNS,
		Channel: wxrChannel{
			Title:       "Journal",
			Description: "Journal export",
			PubDate:     o.now().Format(time.RFC1123Z),
			WXRVersion:  "1.2",
		},
	}
	for _, e := range Prepare(data, o) {
		t := e.Time(loc)
		status := "publish"
		if e.IsPrivate {
			status = "private"
		}
		item := wxrItem{
			Title:    e.DisplayTitle(),
			PubDate:  t.Format(time.RFC1123Z),
			GUID:     e.ID,
			Content:  cdata{Text: wxrContent(e, data.Questions)},
			PostID:   e.ID,
			PostDate: t.Format(wpLayout),
			Status:   status,
			PostType: "post",
			Categories: []wxrCategory{{
				Domain:   "category",
				Nicename: e.Category.Label(),
				Name:     e.Category.Label(),
			}},
		}
		for _, tag := range e.Tags {
			item.Categories = append(item.Categories, wxrCategory{Domain: "post_tag", Nicename: tag, Name: tag})
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: encode wxr: %w", err)
	}
	return enc.Flush()
}

func wxrContent(e *entry.Entry, questions []entry.Question) string {
	var b strings.Builder
	if e.Mood != "" {
		fmt.Fprintf(&b, "<strong>Mood: %s</strong><br/>", html.EscapeString(e.Mood))
	}
	if e.Weather != nil {
		fmt.Fprintf(&b, "<em>Weather: %s</em><br/>", html.EscapeString(weatherLine(e.Weather)))
	}
	for _, p := range e.Photos {
		fmt.Fprintf(&b, `<img src="%s" />`, html.EscapeString(p))
	}
	if b.Len() > 0 {
		b.WriteString("<hr/>")
	}
	if e.Mode() == entry.Free {
		b.WriteString(e.FreeTextContent)
	}
	for _, a := range answers(e, questions) {
		fmt.Fprintf(&b, "<p><strong>%s</strong><br/>%s</p>", html.EscapeString(a.Question), html.EscapeString(a.Answer))
	}
	return b.String()
}

// ImportOptions configure ImportWXR.
type ImportOptions struct {
	// NewID generates entry ids. Nil means uuid.NewString.
	NewID func() string
	// Location interprets wp:post_date. Nil means time.Local.
	Location *time.Location
	// Now is used for items without any date. Zero means time.Now.
	Now time.Time
}

type nsText struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

type wxrInItem struct {
	Title      string   `xml:"title"`
	Encoded    []nsText `xml:"encoded"`
	PostDate   string   `xml:"post_date"`
	PubDate    string   `xml:"pubDate"`
	Categories []struct {
		Domain   string `xml:"domain,attr"`
		Nicename string `xml:"nicename,attr"`
	} `xml:"category"`
}

// content picks content:encoded over excerpt:encoded, which share a local name.
func (it wxrInItem) content() string {
	for _, n := range it.Encoded {
		if n.XMLName.Space == contentNS || n.XMLName.Space == "content" {
			return n.Text
		}
	}
	return ""
}

var (
	moodPattern    = regexp.MustCompile(`<strong>(?:Mood|Hangulat): (.*?)</strong>`)
	imgPattern     = regexp.MustCompile(`<img src="(.*?)"`)
	moodLine       = regexp.MustCompile(`<strong>(?:Mood|Hangulat):.*?</strong><br/>`)
	weatherPattern = regexp.MustCompile(`<em>(?:Weather|Időjárás):.*?</em><br/>`)
	imgTag         = regexp.MustCompile(`<img src=".*?" />`)
	hrTag          = regexp.MustCompile(`<hr\s*/?>`)
)

// ImportWXR reads WordPress items as free entries. The category comes from
// the item category nicename; mood and the first image are recovered from
// markup written by WXR.
func ImportWXR(r io.Reader, o ImportOptions) ([]*entry.Entry, error) {
	newID := o.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	loc := o.Location
	if loc == nil {
		loc = time.Local
	}
	now := o.Now
	if now.IsZero() {
		now = time.Now()
	}

	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var doc struct {
		Channel struct {
			Items []wxrInItem `xml:"item"`
		} `xml:"channel"`
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("export: decode wxr: %w", err)
	}

	out := make([]*entry.Entry, 0, len(doc.Channel.Items))
	for _, it := range doc.Channel.Items {
		ts := now
		if it.PostDate != "" && !strings.HasPrefix(it.PostDate, "0000") {
			if t, err := time.ParseInLocation(wpLayout, strings.TrimSpace(it.PostDate), loc); err == nil {
				ts = t
			}
		} else if it.PubDate != "" {
			if t, err := time.Parse(time.RFC1123Z, strings.TrimSpace(it.PubDate)); err == nil {
				ts = t
			} else if t, err := time.Parse(time.RFC1123, strings.TrimSpace(it.PubDate)); err == nil {
				ts = t
			}
		}

		c := category.Daily
		for _, cat := range it.Categories {
			if cat.Domain != "category" || cat.Nicename == "" {
				continue
			}
			if parsed, err := category.Parse(cat.Nicename); err == nil {
				c = parsed
			}
		}

		content := it.content()
		e := &entry.Entry{
			ID:        newID(),
			Timestamp: entry.ToMillis(ts),
			DateLabel: datelabel.MustLabel(c, ts.In(loc)),
			Title:     strings.TrimSpace(it.Title),
			Category:  c,
			Responses: map[string]string{},
			EntryMode: entry.Free,
		}
		if m := moodPattern.FindStringSubmatch(content); m != nil {
			e.Mood = html.UnescapeString(m[1])
		}
		if m := imgPattern.FindStringSubmatch(content); m != nil {
			e.Photo = html.UnescapeString(m[1])
			e.Photos = []string{e.Photo}
		}
		e.FreeTextContent = cleanContent(content)
		out = append(out, e)
	}
	return out, nil
}

func cleanContent(s string) string {
	s = commentPattern.ReplaceAllString(s, "")
	s = moodLine.ReplaceAllString(s, "")
	s = weatherPattern.ReplaceAllString(s, "")
	s = imgTag.ReplaceAllString(s, "")
	s = hrTag.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "</p>", "\n\n")
	s = strings.ReplaceAll(s, "<p>", "")
	s = strings.ReplaceAll(s, "<br/>", "\n")
	return strings.TrimSpace(s)
}
