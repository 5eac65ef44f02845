package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/runner/serve"
	"tableflip.dev/journal/pkg/server"
)

func addServe(topLevel *cobra.Command) {
	so := &options.ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the self-hosted journal API",
		Long: `Serve stores journals as JSON files below the server root, one file per
ISO week of posts, and answers the status, data and upload routes the
browser build and "journal push" talk to.`,
		Example: `
journal serve
journal serve --addr :9000 --root /srv/journal --require-auth
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sc := server.Config{
				Addr:        cfg.Server.Addr,
				Root:        cfg.Server.Root,
				Rate:        cfg.Server.Rate,
				Burst:       cfg.Server.Burst,
				RequireAuth: so.RequireAuth,
				Version:     version,
				Quiet:       so.Quiet,
			}
			if so.Addr != "" {
				sc.Addr = so.Addr
			}
			if so.Root != "" {
				sc.Root = so.Root
			}
			r := serve.Serve{Config: sc, Auth: authenticator(cfg)}
			return r.Do(cmd.Context())
		},
	}

	options.AddServeArgs(cmd, so)
	topLevel.AddCommand(cmd)
}
