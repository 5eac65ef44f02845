// Package export provides the runner that writes the journal to a file.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/export"
	"tableflip.dev/journal/pkg/timeutil"
)

// Export renders the journal in Format to Path, or to Out when Path is empty.
type Export struct {
	Format         export.Format
	Path           string
	From           string
	To             string
	IncludePrivate bool
	Service        *app.Service
	Out            io.Writer
}

func (n *Export) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not export, no journal")
	}
	j := n.Service.Journal()
	now := j.Now()

	o := export.Options{IncludePrivate: n.IncludePrivate, Location: j.Location(), Now: now}
	var err error
	if o.Start, err = timeutil.ParseBound(n.From, now); err != nil {
		return fmt.Errorf("from: %w", err)
	}
	if o.End, err = timeutil.ParseBound(n.To, now); err != nil {
		return fmt.Errorf("to: %w", err)
	}
	if o.End != 0 {
		// The end date is included whole.
		o.End += int64(24*time.Hour/time.Millisecond) - 1
	}

	w := n.Out
	if w == nil {
		w = os.Stdout
	}
	if n.Path != "" {
		f, err := os.Create(n.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := export.Write(w, n.Format, j.Data(), o); err != nil {
		return err
	}
	if n.Path != "" {
		_, _ = fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", len(export.Prepare(j.Data(), o)), n.Path)
	}
	return nil
}
