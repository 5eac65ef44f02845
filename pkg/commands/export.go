package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/export"
	runexport "tableflip.dev/journal/pkg/runner/export"
	"tableflip.dev/journal/pkg/runner/importer"
)

func addExport(topLevel *cobra.Command) {
	eo := &options.ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write entries as JSON, text, HTML or a WordPress export",
		Example: `
journal export --out backup.json
journal export --format html --from 2024-01-01 --to 2024-12-31 --out 2024.html
journal export --format wxr --include-private --admin-password secret
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(eo.Format)
			if err != nil {
				return output.HandleError(err)
			}
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := runexport.Export{
				Format: format,
				Path:   eo.Out,
				From:   eo.Range.From,
				To:     eo.Range.To,
				// Private entries leave the journal only for the admin.
				IncludePrivate: eo.IncludePrivate && s.caller().IsAdmin,
				Service:        s.svc,
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddExportArgs(cmd, eo)
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, f := range export.Formats() {
			out = append(out, string(f))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	var (
		format string
		merge  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Read a JSON backup or a WordPress export",
		Long: `Import a JSON backup, which replaces the journal unless --merge is set, or
merge the posts of a WordPress WXR export as free entries.`,
		Example: `
journal import backup.json
journal import --merge backup.json
journal import wordpress.xml
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := importer.Import{Path: args[0], Merge: merge}
			if format != "" {
				f, err := export.ParseFormat(format)
				if err != nil {
					return output.HandleError(err)
				}
				r.Format = f
			}
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r.Service = s.svc
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Format of the file: json or wxr. Detected from the extension by default.")
	cmd.Flags().BoolVar(&merge, "merge", false, "Merge a JSON backup into the journal instead of replacing it.")

	topLevel.AddCommand(cmd)
}
