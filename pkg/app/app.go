// Package app ties a journal to its persistence and remote sync so the CLI,
// the terminal browser and the MCP server share one set of operations.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/query"
	"tableflip.dev/journal/pkg/remote"
	"tableflip.dev/journal/pkg/store"
)

var (
	ErrNoPersistence = errors.New("app: no persistence configured")
	ErrNotFound      = errors.New("app: entry not found")
	ErrInvalidEntry  = errors.New("app: entry needs an id and a date label")
	ErrNoRemote      = errors.New("app: no remote configured")
)

// Service provides high-level operations over a persisted journal. Every
// mutation is written through to persistence and handed to the syncer.
type Service struct {
	Persistence store.Persistence
	// Syncer, when set, receives a snapshot after every commit.
	Syncer *remote.Syncer

	opts    []journal.Option
	mu      sync.Mutex
	journal *journal.Journal
}

// Open loads the stored journal. An empty store yields a fresh journal with
// the default questions and settings.
func Open(ctx context.Context, p store.Persistence, opts ...journal.Option) (*Service, error) {
	if p == nil {
		return nil, ErrNoPersistence
	}
	s := &Service{Persistence: p, opts: opts}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory journal with what is stored.
func (s *Service) Reload(ctx context.Context) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	data, err := s.Persistence.Load(ctx)
	if err != nil {
		return err
	}
	if data == nil {
		empty := entry.Empty()
		data = &empty
	}
	s.replace(*data)
	return nil
}

func (s *Service) replace(data entry.AppData) {
	j := journal.New(data, s.opts...)
	s.mu.Lock()
	s.journal = j
	s.mu.Unlock()
}

// Journal is the current in-memory journal.
func (s *Service) Journal() *journal.Journal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.journal
}

// Commit saves the journal, marks it as not yet pushed and schedules a push.
func (s *Service) Commit(ctx context.Context) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	data := s.Journal().Data()
	if err := s.Persistence.Save(ctx, data); err != nil {
		return err
	}
	if err := s.Persistence.SetDirty(ctx, true); err != nil {
		return err
	}
	if s.Syncer != nil {
		s.Syncer.Notify(data)
	}
	return nil
}

// Add creates an entry from partial and stores it.
func (s *Service) Add(ctx context.Context, partial entry.Entry) (*entry.Entry, error) {
	j := s.Journal()
	e := j.Create(partial)
	if !j.Save(e) {
		return nil, ErrInvalidEntry
	}
	if err := s.Commit(ctx); err != nil {
		return nil, err
	}
	saved, _ := j.Get(e.ID)
	return saved, nil
}

// Save stores a complete entry, replacing any entry with the same id.
func (s *Service) Save(ctx context.Context, e *entry.Entry) (*entry.Entry, error) {
	j := s.Journal()
	if !j.Save(e) {
		return nil, ErrInvalidEntry
	}
	if err := s.Commit(ctx); err != nil {
		return nil, err
	}
	saved, _ := j.Get(e.ID)
	return saved, nil
}

// Get returns the entry with the given id.
func (s *Service) Get(id string) (*entry.Entry, error) {
	e, ok := s.Journal().Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// Update applies a patch to one entry.
func (s *Service) Update(ctx context.Context, id string, p entry.Patch) (*entry.Entry, error) {
	e, ok := s.Journal().Patch(id, p)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.Commit(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Trash moves an entry to the trash.
func (s *Service) Trash(ctx context.Context, id string) (*entry.Entry, error) {
	return s.Update(ctx, id, entry.Patch{IsTrashed: entry.Bool(true)})
}

// Restore takes an entry out of the trash.
func (s *Service) Restore(ctx context.Context, id string) (*entry.Entry, error) {
	return s.Update(ctx, id, entry.Patch{IsTrashed: entry.Bool(false)})
}

// Delete removes an entry for good.
func (s *Service) Delete(ctx context.Context, id string) error {
	j := s.Journal()
	if _, ok := j.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	j.Delete(id)
	return s.Commit(ctx)
}

// EmptyTrash deletes every trashed entry and returns how many went.
func (s *Service) EmptyTrash(ctx context.Context) (int, error) {
	n := s.Journal().EmptyTrash()
	if n == 0 {
		return 0, nil
	}
	return n, s.Commit(ctx)
}

// Options fills in the category configuration from settings when o has none.
func (s *Service) Options(o query.Options) query.Options {
	if o.Configs == nil {
		settings := s.Journal().Settings()
		o.Configs = settings.Configs()
	}
	return o
}

// List runs the query pipeline over the journal.
func (s *Service) List(o query.Options) []*entry.Entry {
	return query.Query(s.Journal().Entries(), s.Options(o))
}

// Neighbor steps from id through the list o selects.
func (s *Service) Neighbor(o query.Options, id string, d query.Direction) *entry.Entry {
	return query.Neighbor(s.List(o), id, d)
}

// AddQuestion creates an active question and stores it.
func (s *Service) AddQuestion(ctx context.Context, text string, c category.Category) (entry.Question, error) {
	q := s.Journal().AddQuestion(text, c)
	return q, s.Commit(ctx)
}

// ToggleQuestion flips a question between active and inactive.
func (s *Service) ToggleQuestion(ctx context.Context, id string) error {
	if !s.Journal().ToggleQuestion(id) {
		return fmt.Errorf("app: question not found: %s", id)
	}
	return s.Commit(ctx)
}

// DeleteQuestion removes a question. Answers already given stay on entries.
func (s *Service) DeleteQuestion(ctx context.Context, id string) error {
	if !s.Journal().DeleteQuestion(id) {
		return fmt.Errorf("app: question not found: %s", id)
	}
	return s.Commit(ctx)
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Watch(ctx)
}
