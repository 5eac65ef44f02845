package app

import (
	"context"
	"errors"

	"tableflip.dev/journal/pkg/entry"
)

// Loader fetches a whole journal. *remote.Client is a Loader.
type Loader interface {
	Load(ctx context.Context) (*entry.AppData, error)
}

var errEmptyRemote = errors.New("app: remote returned no data")

// Pull replaces the local journal with the remote copy. The result counts as
// in sync.
func (s *Service) Pull(ctx context.Context, l Loader) error {
	if l == nil {
		return ErrNoRemote
	}
	data, err := l.Load(ctx)
	if err != nil {
		return err
	}
	if data == nil {
		return errEmptyRemote
	}
	if data.Entries == nil {
		data.Entries = []*entry.Entry{}
	}
	s.replace(*data)
	if err := s.Persistence.Save(ctx, s.Journal().Data()); err != nil {
		return err
	}
	return s.Persistence.SetDirty(ctx, false)
}

// Push sends the journal to the remote now, waiting for any scheduled push
// first.
func (s *Service) Push(ctx context.Context) error {
	if s.Syncer == nil {
		return ErrNoRemote
	}
	if err := s.Syncer.Flush(ctx); err != nil {
		return err
	}
	return s.Syncer.Push(ctx, s.Journal().Data())
}

// Dirty reports whether local changes have not been pushed.
func (s *Service) Dirty(ctx context.Context) bool {
	if s.Persistence == nil {
		return false
	}
	return s.Persistence.Dirty(ctx)
}

// Replace swaps the whole journal for data, as a JSON import does.
func (s *Service) Replace(ctx context.Context, data entry.AppData) error {
	if data.Entries == nil {
		data.Entries = []*entry.Entry{}
	}
	s.replace(data)
	return s.Commit(ctx)
}

// Merge saves each entry into the journal, replacing entries that share an
// id, and returns how many were stored. Entries without an id or date label
// are skipped.
func (s *Service) Merge(ctx context.Context, entries []*entry.Entry) (int, error) {
	j := s.Journal()
	n := 0
	for i := len(entries) - 1; i >= 0; i-- {
		if j.Save(entries[i]) {
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, s.Commit(ctx)
}
