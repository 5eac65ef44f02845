package add

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/printers"
)

type Add struct {
	// Entry is the partial entry; the journal fills in what is missing.
	Entry entry.Entry

	Service *app.Service
	JSON    bool
	Out     io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no journal")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	e, err := n.Service.Add(ctx, n.Entry)
	if err != nil {
		return err
	}

	if n.JSON {
		return json.NewEncoder(out).Encode(e)
	}
	j := n.Service.Journal()
	pp := printers.PrettyPrint{ShowID: true, Out: out, Location: j.Location()}
	pp.Entry(e, j.Questions())
	return nil
}
