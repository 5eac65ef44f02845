package get

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/query"
)

// List prints the entries selected by Params.
type List struct {
	Params  query.Params
	Caller  query.Caller
	ShowID  bool
	JSON    bool
	Service *app.Service
	Out     io.Writer
}

func output(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}

func (n *List) options() (query.Options, error) {
	j := n.Service.Journal()
	s := j.Settings()
	return n.Params.Options(s.Configs(), n.Caller, j.Now())
}

func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list, no journal")
	}
	o, err := n.options()
	if err != nil {
		return err
	}
	all := redact(n.Service.List(o), n.Caller)
	out := output(n.Out)

	if n.JSON {
		return json.NewEncoder(out).Encode(all)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: out, Location: n.Service.Journal().Location()}
	pp.NewLine()
	pp.TitleWithCount(title(o), len(all))
	pp.Entries(all...)
	return nil
}

func title(o query.Options) string {
	if o.View != query.ViewNone {
		return string(o.View)
	}
	return o.Active.Label()
}

// Show prints one entry. With a direction it prints the neighbor of ID in
// the list selected by Params instead.
type Show struct {
	ID        string
	Direction query.Direction
	Params    query.Params
	Caller    query.Caller
	JSON      bool
	Service   *app.Service
	Out       io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not show, no journal")
	}
	e, err := n.Service.Get(n.ID)
	if err != nil {
		return err
	}
	if len(query.Visible([]*entry.Entry{e}, n.Caller)) == 0 {
		return app.ErrNotFound
	}

	if n.Direction != "" {
		list := List{Params: n.Params, Caller: n.Caller, Service: n.Service}
		if list.Params.Category == "" {
			list.Params.Category = string(e.Category)
		}
		o, err := list.options()
		if err != nil {
			return err
		}
		next := n.Service.Neighbor(o, n.ID, n.Direction)
		if next == nil {
			return fmt.Errorf("no %s entry after %s", n.Direction, n.ID)
		}
		e = next
	}
	e = query.Redact(e, n.Caller)

	out := output(n.Out)
	if n.JSON {
		return json.NewEncoder(out).Encode(e)
	}
	j := n.Service.Journal()
	pp := printers.PrettyPrint{ShowID: true, Out: out, Location: j.Location()}
	pp.NewLine()
	pp.Entry(e, j.Questions())
	return nil
}

func redact(entries []*entry.Entry, c query.Caller) []*entry.Entry {
	out := make([]*entry.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, query.Redact(e, c))
	}
	return out
}
