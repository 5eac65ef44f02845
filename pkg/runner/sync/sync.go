// Package sync holds the runners that move the journal to and from a remote
// server.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/app"
)

// Push sends the local journal to the configured remote.
type Push struct {
	Service *app.Service
	Out     io.Writer
}

func (n *Push) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not push, no journal")
	}
	if err := n.Service.Push(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(output(n.Out), "Pushed %d entries.\n", len(n.Service.Journal().Entries()))
	return nil
}

// Pull replaces the local journal with the remote copy.
type Pull struct {
	Remote  app.Loader
	Service *app.Service
	Out     io.Writer
}

func (n *Pull) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not pull, no journal")
	}
	if err := n.Service.Pull(ctx, n.Remote); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(output(n.Out), "Pulled %d entries.\n", len(n.Service.Journal().Entries()))
	return nil
}

func output(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}
