package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/query"
)

// ExportOptions
type ExportOptions struct {
	Format         string
	Out            string
	Range          query.Params
	IncludePrivate bool
}

func AddExportArgs(cmd *cobra.Command, o *ExportOptions) {
	cmd.Flags().StringVarP(&o.Format, "format", "f", "json",
		"Export format: json, txt, html or wxr.")
	cmd.Flags().StringVarP(&o.Out, "out", "o", "",
		"Output file, defaults to stdout.")
	cmd.Flags().BoolVar(&o.IncludePrivate, "include-private", false,
		"Include private entries.")
	AddRangeArgs(cmd, &o.Range)
}
