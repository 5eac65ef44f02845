// Package importer provides the runner that reads a JSON backup or a
// WordPress export into the journal.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/export"
)

// Import reads Path. A JSON backup replaces the journal unless Merge is set;
// WXR items are always merged.
type Import struct {
	Path string
	// Format overrides detection by file extension.
	Format  export.Format
	Merge   bool
	Service *app.Service
	Out     io.Writer
}

// Detect picks the import format from a file name.
func Detect(path string) (export.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return export.FormatJSON, nil
	case ".xml", ".wxr":
		return export.FormatWXR, nil
	}
	return "", fmt.Errorf("can not tell the format of %q, pass --format", path)
}

func (n *Import) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not import, no journal")
	}
	format := n.Format
	if format == "" {
		var err error
		if format, err = Detect(n.Path); err != nil {
			return err
		}
	}

	f, err := os.Open(n.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	out := n.Out
	if out == nil {
		out = color.Output
	}

	switch format {
	case export.FormatJSON:
		data, err := export.ImportJSON(f)
		if err != nil {
			return err
		}
		if !n.Merge {
			if err := n.Service.Replace(ctx, data); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "Replaced journal with %d entries from %s\n", len(data.Entries), n.Path)
			return nil
		}
		count, err := n.Service.Merge(ctx, data.Entries)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Merged %d entries from %s\n", count, n.Path)
		return nil
	case export.FormatWXR:
		j := n.Service.Journal()
		entries, err := export.ImportWXR(f, export.ImportOptions{Location: j.Location(), Now: j.Now()})
		if err != nil {
			return err
		}
		count, err := n.Service.Merge(ctx, entries)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Imported %d posts from %s\n", count, n.Path)
		return nil
	}
	return fmt.Errorf("can not import %s files", format)
}
