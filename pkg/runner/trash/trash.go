// Package trash holds the runners that move entries in and out of the trash.
package trash

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/query"
)

// Action is what happens to the entry.
type Action string

const (
	ActionTrash   Action = "trash"
	ActionRestore Action = "restore"
	ActionDelete  Action = "delete"
)

// Trash applies Action to the entry with ID and reprints the trash.
type Trash struct {
	ID      string
	Action  Action
	Service *app.Service
	Out     io.Writer
}

func (n *Trash) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not change trash, no journal")
	}

	var err error
	switch n.Action {
	case ActionTrash, "":
		_, err = n.Service.Trash(ctx, n.ID)
	case ActionRestore:
		_, err = n.Service.Restore(ctx, n.ID)
	case ActionDelete:
		err = n.Service.Delete(ctx, n.ID)
	default:
		return fmt.Errorf("unknown trash action %q", n.Action)
	}
	if err != nil {
		return err
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	pp := printers.PrettyPrint{ShowID: true, Out: out, Location: n.Service.Journal().Location()}
	all := n.Service.List(query.Options{View: query.ViewTrash, Caller: query.Admin})
	pp.NewLine()
	pp.TitleWithCount("Trash", len(all))
	pp.Entries(all...)
	return nil
}

// Empty deletes everything in the trash.
type Empty struct {
	Service *app.Service
	Out     io.Writer
}

func (n *Empty) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not empty trash, no journal")
	}
	count, err := n.Service.EmptyTrash(ctx)
	if err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "Deleted %d trashed entries.\n", count)
	return nil
}
