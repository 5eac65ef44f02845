package commands

import (
	"context"
	"strings"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/auth"
	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/config"
	"tableflip.dev/journal/pkg/query"
	"tableflip.dev/journal/pkg/remote"
	"tableflip.dev/journal/pkg/store"
)

// session is what most commands need: the resolved config and the opened
// journal.
type session struct {
	cfg     *config.Config
	svc     *app.Service
	persist store.Persistence
}

func (s *session) Close() {
	if s.svc != nil && s.svc.Syncer != nil {
		// Give a scheduled push the chance to land before the process exits.
		_ = s.svc.Syncer.Flush(context.Background())
	}
	if s.persist != nil {
		_ = s.persist.Close()
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(global.ConfigFile)
}

// open resolves the config and loads the journal. With a remote configured,
// every commit is pushed in the background.
func open(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	p, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := app.Open(ctx, p)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	if client := remoteClient(cfg); client != nil {
		svc.Syncer = remote.NewSyncer(client, p, cfg.Remote.Debounce)
	}
	return &session{cfg: cfg, svc: svc, persist: p}, nil
}

func remoteClient(cfg *config.Config) *remote.Client {
	if cfg == nil || cfg.Remote.URL == "" {
		return nil
	}
	var opts []remote.Option
	if global.AdminPassword != "" {
		opts = append(opts, remote.WithToken(global.AdminPassword))
	}
	return remote.New(cfg.Remote.URL, opts...)
}

func authenticator(cfg *config.Config) *auth.Authenticator {
	override := ""
	if cfg != nil {
		override = cfg.AdminPassword
	}
	return auth.New(override)
}

// caller is the admin only when --admin-password unlocks the journal.
func (s *session) caller() query.Caller {
	if global.AdminPassword == "" {
		return query.Caller{}
	}
	settings := s.svc.Journal().Settings()
	return query.Caller{IsAdmin: authenticator(s.cfg).Check(&settings, global.AdminPassword)}
}

func categoryCompletions(toComplete string) []string {
	out := make([]string, 0, len(category.All()))
	for _, c := range category.All() {
		name := strings.ToLower(string(c))
		if strings.HasPrefix(name, strings.ToLower(toComplete)) {
			out = append(out, name)
		}
	}
	return out
}

// idCompletions lists entry ids for shell completion. Failures complete
// nothing.
func idCompletions(ctx context.Context, toComplete string) []string {
	s, err := open(ctx)
	if err != nil {
		return nil
	}
	defer s.Close()
	var ids []string
	for _, e := range query.Visible(s.svc.Journal().Entries(), s.caller()) {
		if strings.HasPrefix(e.ID, toComplete) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}
