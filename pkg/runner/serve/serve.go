// Package serve provides the runner for the self-hosted journal API.
package serve

import (
	"context"

	"tableflip.dev/journal/pkg/auth"
	"tableflip.dev/journal/pkg/server"
)

// Serve runs the API server until ctx is done.
type Serve struct {
	Config server.Config
	Auth   *auth.Authenticator
}

func (n *Serve) Do(ctx context.Context) error {
	srv, err := server.New(n.Config, n.Auth)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
