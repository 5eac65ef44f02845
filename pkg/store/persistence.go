package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"tableflip.dev/journal/pkg/entry"
)

// Persistence is the local persistence collaborator of a journal.
type Persistence interface {
	// Load returns the stored journal, or nil when nothing is stored yet.
	Load(ctx context.Context) (*entry.AppData, error)
	// Save replaces the stored journal with data.
	Save(ctx context.Context, data entry.AppData) error
	// Dirty reports whether local changes have not reached the remote.
	Dirty(ctx context.Context) bool
	SetDirty(ctx context.Context, dirty bool) error
	// Watch streams change notifications until ctx is done.
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Document keys. Each part of the journal is stored under its own key, the
// way the browser build used separate storage slots.
const (
	KeyEntries   = "entries"
	KeyQuestions = "questions"
	KeySettings  = "settings"
	KeyHabits    = "habits"
	KeyTemplates = "templates"
	KeyDirty     = "dirty"
	// KeyLegacy held the whole journal in one document. It is split on load.
	KeyLegacy = "data_v1"
)

var errNotFound = errors.New("store: document not found")

type document struct {
	key  string
	body []byte
}

// documents is the key/value surface a backend provides.
type documents interface {
	get(ctx context.Context, key string) ([]byte, error)
	putAll(ctx context.Context, docs []document) error
	erase(ctx context.Context, key string) error
	watchPath() string
	keyForPath(path string) string
	close() error
}

type journalStore struct {
	docs documents
}

type slot struct {
	key    string
	target any
}

func slots(data *entry.AppData) []slot {
	return []slot{
		{key: KeyEntries, target: &data.Entries},
		{key: KeyQuestions, target: &data.Questions},
		{key: KeySettings, target: &data.Settings},
		{key: KeyHabits, target: &data.Habits},
		{key: KeyTemplates, target: &data.Templates},
	}
}

func (s *journalStore) Load(ctx context.Context) (*entry.AppData, error) {
	if err := s.migrateLegacy(ctx); err != nil {
		return nil, err
	}
	var data entry.AppData
	found := false
	for _, sl := range slots(&data) {
		b, err := s.docs.get(ctx, sl.key)
		if errors.Is(err, errNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("store: read %s: %w", sl.key, err)
		}
		if err := json.Unmarshal(b, sl.target); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", sl.key, err)
			continue
		}
		found = true
	}
	if !found {
		return nil, nil
	}
	if data.Entries == nil {
		data.Entries = []*entry.Entry{}
	}
	return &data, nil
}

func (s *journalStore) Save(ctx context.Context, data entry.AppData) error {
	if data.Entries == nil {
		data.Entries = []*entry.Entry{}
	}
	if data.Questions == nil {
		data.Questions = []entry.Question{}
	}
	var docs []document
	for _, sl := range slots(&data) {
		b, err := json.Marshal(sl.target)
		if err != nil {
			return fmt.Errorf("store: encode %s: %w", sl.key, err)
		}
		docs = append(docs, document{key: sl.key, body: b})
	}
	if err := s.docs.putAll(ctx, docs); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	return nil
}

func (s *journalStore) Dirty(ctx context.Context) bool {
	b, err := s.docs.get(ctx, KeyDirty)
	return err == nil && string(b) == "true"
}

func (s *journalStore) SetDirty(ctx context.Context, dirty bool) error {
	if !dirty {
		if err := s.docs.erase(ctx, KeyDirty); err != nil && !errors.Is(err, errNotFound) {
			return fmt.Errorf("store: clear dirty flag: %w", err)
		}
		return nil
	}
	return s.docs.putAll(ctx, []document{{key: KeyDirty, body: []byte("true")}})
}

func (s *journalStore) Watch(ctx context.Context) (<-chan Event, error) {
	return watch(ctx, s.docs.watchPath(), s.docs.keyForPath)
}

func (s *journalStore) Close() error {
	return s.docs.close()
}

// migrateLegacy splits a combined legacy document into per-key documents.
// Split documents already present win over the legacy copy.
func (s *journalStore) migrateLegacy(ctx context.Context) error {
	b, err := s.docs.get(ctx, KeyLegacy)
	if errors.Is(err, errNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: read legacy data: %w", err)
	}
	if _, err := s.docs.get(ctx, KeyEntries); errors.Is(err, errNotFound) {
		var legacy entry.AppData
		if err := json.Unmarshal(b, &legacy); err != nil {
			return fmt.Errorf("store: decode legacy data: %w", err)
		}
		if err := s.Save(ctx, legacy); err != nil {
			return err
		}
	}
	if err := s.docs.erase(ctx, KeyLegacy); err != nil && !errors.Is(err, errNotFound) {
		return fmt.Errorf("store: erase legacy data: %w", err)
	}
	return nil
}
