package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/datelabel"
	"tableflip.dev/journal/pkg/entry"
)

// AddOptions holds the fields of a new entry.
type AddOptions struct {
	Category string
	Title    string
	Mood     string
	Location string
	Tags     []string
	Private  bool
	Free     bool
	Date     string
}

func AddEntryArgs(cmd *cobra.Command, o *AddOptions) {
	cmd.Flags().StringVarP(&o.Category, "category", "c", "daily",
		"Category of the entry: daily, weekly, monthly or yearly.")
	cmd.Flags().StringVarP(&o.Title, "title", "t", "",
		"Title of the entry.")
	cmd.Flags().StringVarP(&o.Mood, "mood", "m", "",
		"Mood label.")
	cmd.Flags().StringVarP(&o.Location, "location", "l", "",
		"Free text location.")
	cmd.Flags().StringSliceVar(&o.Tags, "tag", nil,
		"Tag to attach, may be repeated.")
	cmd.Flags().BoolVar(&o.Private, "private", false,
		"Hide the entry from non-admin readers.")
	cmd.Flags().BoolVar(&o.Free, "free", false,
		"Store the text as free writing instead of answers.")
	cmd.Flags().StringVar(&o.Date, "date", "",
		`Period of the entry in picker form, example: --date="2024-03-09", "2024-W10", "2024-03" or "2024".`)
}

// Entry builds the partial entry described by the flags. text becomes the
// free text in free mode.
func (o *AddOptions) Entry(text string, loc *time.Location) (entry.Entry, error) {
	c, err := category.Parse(o.Category)
	if err != nil {
		return entry.Entry{}, err
	}
	e := entry.Entry{
		Category:  c,
		Title:     o.Title,
		Mood:      o.Mood,
		Location:  o.Location,
		Tags:      o.Tags,
		IsPrivate: o.Private,
	}
	if o.Free || text != "" {
		e.EntryMode = entry.Free
		e.FreeTextContent = text
	}
	if o.Date != "" {
		t, label, err := datelabel.Edit(c, o.Date, loc)
		if err != nil {
			return entry.Entry{}, err
		}
		e.Timestamp = entry.ToMillis(t)
		e.DateLabel = label
	}
	return e, nil
}
