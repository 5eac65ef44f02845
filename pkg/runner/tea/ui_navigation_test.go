package teaui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/query"
	"tableflip.dev/journal/pkg/store"
)

type dirConfig string

func (d dirConfig) BasePath() string { return string(d) }

var fixedNow = time.Date(2024, time.March, 9, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *app.Service {
	t.Helper()
	p, err := store.Open(dirConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })

	n := 0
	svc, err := app.Open(context.Background(), p,
		journal.WithClock(func() time.Time { return fixedNow }),
		journal.WithIDs(func() string { n++; return fmt.Sprintf("ui-%d", n) }),
		journal.WithLocation(time.UTC),
	)
	if err != nil {
		t.Fatalf("app.Open() error: %v", err)
	}
	return svc
}

func addEntry(t *testing.T, svc *app.Service, e entry.Entry) *entry.Entry {
	t.Helper()
	saved, err := svc.Add(context.Background(), e)
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	return saved
}

func day(d int) int64 {
	return entry.ToMillis(time.Date(2024, time.March, d, 9, 0, 0, 0, time.UTC))
}

// seeded returns a model over two daily entries and one monthly entry with
// the initial load applied.
func seeded(t *testing.T, caller query.Caller) (Model, *app.Service) {
	t.Helper()
	svc := newTestService(t)
	addEntry(t, svc, entry.Entry{Title: "Hiking", Timestamp: day(1)})
	addEntry(t, svc, entry.Entry{Title: "Reading", Timestamp: day(5)})
	addEntry(t, svc, entry.Entry{Title: "Plans", Category: category.Monthly, Timestamp: day(2)})
	addEntry(t, svc, entry.Entry{Title: "Secret", Timestamp: day(7), IsPrivate: true})

	m := New(svc, caller)
	m = load(t, m)
	return m, svc
}

func load(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, m.loadEntries()())
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", next)
	}
	return mm, cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, key(k))
	}
	return m
}

func key(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

func titles(m Model) []string {
	var out []string
	for _, it := range m.entList.Items() {
		out = append(out, it.(entryItem).e.Title)
	}
	return out
}

func TestLoadEntriesNewestFirst(t *testing.T) {
	m, _ := seeded(t, query.Admin)
	got := strings.Join(titles(m), ",")
	if got != "Secret,Reading,Hiking" {
		t.Fatalf("unexpected daily list %q", got)
	}
	if m.activity["2024-03-05"] != 1 {
		t.Fatalf("expected activity for the 5th, got %v", m.activity)
	}
}

func TestPrivateEntriesHiddenForGuests(t *testing.T) {
	m, _ := seeded(t, query.Caller{})
	if got := strings.Join(titles(m), ","); got != "Reading,Hiking" {
		t.Fatalf("unexpected guest list %q", got)
	}
}

func TestFocusAndSourceSelection(t *testing.T) {
	m, _ := seeded(t, query.Admin)
	if m.focus != 1 || !strings.HasPrefix(m.entList.Title, "» ") {
		t.Fatalf("expected entries pane focused, title=%q", m.entList.Title)
	}

	m = press(t, m, "h")
	if m.focus != 0 || !strings.HasPrefix(m.srcList.Title, "» ") {
		t.Fatalf("expected sources pane focused, title=%q", m.srcList.Title)
	}

	var cmd tea.Cmd
	m, cmd = update(t, m, key("j"))
	if cmd == nil {
		t.Fatalf("expected reload command after moving source")
	}
	if got := m.selectedSource().category; got != category.Weekly {
		t.Fatalf("expected weekly source, got %q", got)
	}

	m = press(t, m, "j")
	m = load(t, m)
	if got := strings.Join(titles(m), ","); !strings.Contains(got, "Plans") {
		t.Fatalf("expected monthly entry in monthly view, got %q", got)
	}

	m = press(t, m, "l")
	if m.focus != 1 {
		t.Fatalf("expected focus back on entries")
	}
}

func TestDetailNeighborNavigation(t *testing.T) {
	m, _ := seeded(t, query.Admin)
	m = press(t, m, "j", "enter")
	if m.mode != modeDetail {
		t.Fatalf("expected detail mode, got %v", m.mode)
	}
	if m.detail.Title() != "Reading" {
		t.Fatalf("expected Reading in detail, got %q", m.detail.Title())
	}

	m = press(t, m, "p")
	if m.detail.Title() != "Hiking" || m.entList.Index() != 2 {
		t.Fatalf("expected older entry selected, got %q at %d", m.detail.Title(), m.entList.Index())
	}

	m = press(t, m, "p")
	if m.detail.Title() != "Hiking" || m.status != "No older entry" {
		t.Fatalf("expected to stay on the oldest entry, status=%q", m.status)
	}

	m = press(t, m, "n", "n")
	if m.detail.Title() != "Secret" {
		t.Fatalf("expected newest entry, got %q", m.detail.Title())
	}

	m = press(t, m, "esc")
	if m.mode != modeNormal || m.detailID != "" {
		t.Fatalf("expected detail closed")
	}
}

func TestTrashAndRestore(t *testing.T) {
	m, svc := seeded(t, query.Admin)
	target := m.currentEntry()
	if target == nil {
		t.Fatalf("expected a selected entry")
	}

	m = press(t, m, "t")
	got, err := svc.Get(target.ID)
	if err != nil || !got.IsTrashed {
		t.Fatalf("expected %s trashed, got %+v %v", target.ID, got, err)
	}
	m = load(t, m)
	if len(m.entList.Items()) != 2 {
		t.Fatalf("expected trashed entry to leave the list, got %v", titles(m))
	}

	m = press(t, m, "h", "j", "j", "j", "j", "j", "j", "j", "j")
	m = load(t, m)
	if src := m.selectedSource(); src.view != query.ViewTrash {
		t.Fatalf("expected trash view, got %+v", src)
	}
	if got := titles(m); len(got) != 1 || got[0] != target.Title {
		t.Fatalf("unexpected trash list %v", got)
	}

	m = press(t, m, "l", "u")
	restored, _ := svc.Get(target.ID)
	if restored.IsTrashed {
		t.Fatalf("expected entry restored")
	}
}

func TestSearchMode(t *testing.T) {
	m, _ := seeded(t, query.Admin)
	m = press(t, m, "/")
	if m.mode != modeSearch {
		t.Fatalf("expected search mode")
	}
	m.input.SetValue("HIK")
	m = press(t, m, "enter")
	if m.mode != modeNormal || m.search != "HIK" {
		t.Fatalf("expected search applied, mode=%v search=%q", m.mode, m.search)
	}
	m = load(t, m)
	if got := strings.Join(titles(m), ","); got != "Hiking" {
		t.Fatalf("unexpected search result %q", got)
	}

	m = press(t, m, "/", "esc")
	if m.search != "" {
		t.Fatalf("expected search cleared")
	}
}

func TestCommandMode(t *testing.T) {
	m, svc := seeded(t, query.Admin)
	m = press(t, m, "t", ":")
	if m.mode != modeCommand {
		t.Fatalf("expected command mode")
	}
	m.input.SetValue("empty-trash")
	m = press(t, m, "enter")
	if m.status != "Deleted 1 trashed entries" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if n := len(svc.List(query.Options{View: query.ViewTrash, Caller: query.Admin})); n != 0 {
		t.Fatalf("expected empty trash, got %d", n)
	}

	m = press(t, m, ":")
	m.input.SetValue("bogus")
	m = press(t, m, "enter")
	if m.status != "Unknown command: bogus" {
		t.Fatalf("unexpected status %q", m.status)
	}

	m = press(t, m, ":")
	m.input.SetValue("q")
	_, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestWatchEventReloads(t *testing.T) {
	m, _ := seeded(t, query.Admin)
	_, cmd := update(t, m, watchEventMsg{event: store.Event{Type: store.EventDocumentChanged}})
	if cmd == nil {
		t.Fatalf("expected reload command after a store event")
	}

	m, cmd = update(t, m, watchStoppedMsg{})
	if cmd == nil {
		t.Fatalf("expected watch restart after stop")
	}
	if m.watchCh != nil {
		t.Fatalf("expected watch channel cleared")
	}
}

func TestNilServiceIsSafe(t *testing.T) {
	m := New(nil, query.Caller{})
	m = load(t, m)
	m = press(t, m, "enter", "t", "u", "r")
	if len(m.entList.Items()) != 0 {
		t.Fatalf("expected no entries without a service")
	}
	if m.Init() == nil {
		t.Fatalf("expected init command")
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
