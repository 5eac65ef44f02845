package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/entry"
)

type backendConfig struct {
	path    string
	backend string
}

func (b backendConfig) BasePath() string { return b.path }
func (b backendConfig) Backend() string  { return b.backend }

func sampleData() entry.AppData {
	data := entry.Empty()
	data.Entries = []*entry.Entry{
		{ID: "b", Timestamp: 2000, DateLabel: "2024 W10", Category: category.Weekly, Title: "week", Responses: map[string]string{"w1": "good"}},
		{ID: "a", Timestamp: 1000, DateLabel: "2024-03-04", Category: category.Daily, Title: "day", Responses: map[string]string{}},
	}
	data.Settings.Extra = map[string]any{"theme": "dark"}
	return data
}

func backends(t *testing.T) map[string]Persistence {
	t.Helper()
	out := map[string]Persistence{}
	for _, name := range []string{BackendDiskv, BackendSQLite} {
		p, err := Open(backendConfig{path: t.TempDir(), backend: name})
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		t.Cleanup(func() { p.Close() })
		out[name] = p
	}
	return out
}

func TestLoadEmpty(t *testing.T) {
	for name, p := range backends(t) {
		data, err := p.Load(context.Background())
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if data != nil {
			t.Fatalf("%s: expected nil data for empty store, got %+v", name, data)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, p := range backends(t) {
		want := sampleData()
		if err := p.Save(ctx, want); err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}
		got, err := p.Load(ctx)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if !reflect.DeepEqual(&want, got) {
			t.Fatalf("%s: round trip mismatch:\n%#v\n%#v", name, want, *got)
		}

		// A second save replaces rather than merges.
		want.Entries = want.Entries[:1]
		if err := p.Save(ctx, want); err != nil {
			t.Fatalf("%s: save again: %v", name, err)
		}
		got, err = p.Load(ctx)
		if err != nil {
			t.Fatalf("%s: load again: %v", name, err)
		}
		if len(got.Entries) != 1 || got.Entries[0].ID != "b" {
			t.Fatalf("%s: expected one entry after replace, got %d", name, len(got.Entries))
		}
	}
}

func TestDirtyFlag(t *testing.T) {
	ctx := context.Background()
	for name, p := range backends(t) {
		if p.Dirty(ctx) {
			t.Fatalf("%s: expected clean store", name)
		}
		if err := p.SetDirty(ctx, true); err != nil {
			t.Fatalf("%s: set dirty: %v", name, err)
		}
		if !p.Dirty(ctx) {
			t.Fatalf("%s: expected dirty", name)
		}
		if err := p.SetDirty(ctx, false); err != nil {
			t.Fatalf("%s: clear dirty: %v", name, err)
		}
		if err := p.SetDirty(ctx, false); err != nil {
			t.Fatalf("%s: clearing twice must be fine: %v", name, err)
		}
		if p.Dirty(ctx) {
			t.Fatalf("%s: expected clean after clear", name)
		}
	}
}

func TestLegacyMigration(t *testing.T) {
	base := t.TempDir()
	legacy := sampleData()
	b, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	dir := filepath.Join(base, keyPrefix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, KeyLegacy), b, 0o644); err != nil {
		t.Fatalf("write legacy: %v", err)
	}

	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	got, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || len(got.Entries) != 2 {
		t.Fatalf("expected migrated entries, got %+v", got)
	}
	if _, err := os.Stat(filepath.Join(dir, KeyLegacy)); !os.IsNotExist(err) {
		t.Fatalf("expected legacy document removed, stat err %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, KeyEntries)); err != nil {
		t.Fatalf("expected split entries document: %v", err)
	}
}

func TestCorruptDocumentIsSkipped(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	ctx := context.Background()
	if err := p.Save(ctx, sampleData()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, keyPrefix, KeySettings), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	// Reopen so the diskv cache does not hide the corrupt file.
	p, err = Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("reload persistence: %v", err)
	}
	got, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Settings != nil {
		t.Fatalf("expected corrupt settings skipped, got %+v", got.Settings)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("expected entries still loaded, got %d", len(got.Entries))
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(backendConfig{path: t.TempDir(), backend: "mongo"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
