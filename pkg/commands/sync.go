package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/runner/info"
	"tableflip.dev/journal/pkg/runner/sync"
)

var errNoRemote = errors.New("no remote configured, set remote.url")

func addSync(topLevel *cobra.Command) {
	push := &cobra.Command{
		Use:   "push",
		Short: "Send the journal to the remote server",
		Long: `Push replaces the journal on the server with the local copy. The last
write wins; nothing on the server is merged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()
			if s.svc.Syncer == nil {
				return output.HandleError(errNoRemote)
			}

			r := sync.Push{Service: s.svc}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	pull := &cobra.Command{
		Use:   "pull",
		Short: "Replace the local journal with the remote copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()
			client := remoteClient(s.cfg)
			if client == nil {
				return output.HandleError(errNoRemote)
			}

			r := sync.Pull{Remote: client, Service: s.svc}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(push, pull)
}

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "info",
		Aliases: []string{"status"},
		Short:   "Where the journal is stored and whether it is in sync",
		Example: `
journal info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := info.Info{
				Config:  s.cfg,
				Service: s.svc,
				Remote:  remoteClient(s.cfg),
				JSON:    output.JSON,
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
