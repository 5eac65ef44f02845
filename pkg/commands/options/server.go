package options

import (
	"github.com/spf13/cobra"
)

// ServeOptions override the server section of the config file.
type ServeOptions struct {
	Addr        string
	Root        string
	RequireAuth bool
	Quiet       bool
}

func AddServeArgs(cmd *cobra.Command, o *ServeOptions) {
	cmd.Flags().StringVar(&o.Addr, "addr", "",
		"Listen address, defaults to server.addr.")
	cmd.Flags().StringVar(&o.Root, "root", "",
		"Data directory, defaults to server.root.")
	cmd.Flags().BoolVar(&o.RequireAuth, "require-auth", false,
		"Require the admin password for data routes.")
	cmd.Flags().BoolVarP(&o.Quiet, "quiet", "q", false,
		"Disable request logging.")
}
