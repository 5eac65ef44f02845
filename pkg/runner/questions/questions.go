// Package questions holds the runners that manage the question catalogue.
package questions

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/printers"
)

// Questions lists the catalogue, optionally narrowed to one category.
type Questions struct {
	Category category.Category
	JSON     bool
	Service  *app.Service
	Out      io.Writer
}

func (n *Questions) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list questions, no journal")
	}
	all := n.Service.Journal().Questions()
	if n.Category != "" {
		filtered := make([]entry.Question, 0, len(all))
		for _, q := range all {
			if q.Category == n.Category {
				filtered = append(filtered, q)
			}
		}
		all = filtered
	}
	return n.print(all)
}

func (n *Questions) print(qs []entry.Question) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}
	if n.JSON {
		return json.NewEncoder(out).Encode(qs)
	}
	pp := printers.PrettyPrint{Out: out}
	pp.NewLine()
	pp.Questions(qs...)
	return nil
}

// Add creates a question.
type Add struct {
	Text     string
	Category category.Category
	Service  *app.Service
	Out      io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add question, no journal")
	}
	if n.Text == "" {
		return errors.New("question text is required")
	}
	q, err := n.Service.AddQuestion(ctx, n.Text, n.Category)
	if err != nil {
		return err
	}
	list := Questions{Service: n.Service, Out: n.Out}
	return list.print([]entry.Question{q})
}

// Toggle flips a question between active and inactive.
type Toggle struct {
	ID      string
	Service *app.Service
	Out     io.Writer
}

func (n *Toggle) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not toggle question, no journal")
	}
	if err := n.Service.ToggleQuestion(ctx, n.ID); err != nil {
		return err
	}
	list := Questions{Service: n.Service, Out: n.Out}
	return list.Do(ctx)
}

// Delete removes a question. Existing answers are kept on their entries.
type Delete struct {
	ID      string
	Service *app.Service
	Out     io.Writer
}

func (n *Delete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete question, no journal")
	}
	if err := n.Service.DeleteQuestion(ctx, n.ID); err != nil {
		return err
	}
	list := Questions{Service: n.Service, Out: n.Out}
	return list.Do(ctx)
}
