package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/query"
	"tableflip.dev/journal/pkg/store"
)

type dirConfig string

func (d dirConfig) BasePath() string { return string(d) }

var fixedNow = time.Date(2024, time.March, 9, 10, 30, 0, 0, time.UTC)

func newService(t *testing.T, caller query.Caller) *Service {
	t.Helper()
	p, err := store.Open(dirConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })

	n := 0
	svc, err := app.Open(context.Background(), p,
		journal.WithClock(func() time.Time { return fixedNow }),
		journal.WithIDs(func() string { n++; return fmt.Sprintf("mcp-%d", n) }),
		journal.WithLocation(time.UTC),
	)
	if err != nil {
		t.Fatalf("app.Open() error: %v", err)
	}
	return NewService(svc, caller)
}

func TestServiceAddEntryDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, query.Admin)

	dto, err := svc.AddEntry(ctx, AddEntryOptions{Title: "Morning"})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if dto.ID != "mcp-1" {
		t.Fatalf("expected generated id mcp-1, got %s", dto.ID)
	}
	if dto.Category != "DAILY" {
		t.Fatalf("expected DAILY, got %s", dto.Category)
	}
	if dto.DateLabel != "2024-03-09" {
		t.Fatalf("unexpected date label %q", dto.DateLabel)
	}
	if dto.Mode != string(entry.Structured) {
		t.Fatalf("expected structured entry, got %s", dto.Mode)
	}
	if len(dto.Responses) != 3 {
		t.Fatalf("expected 3 seeded daily responses, got %d", len(dto.Responses))
	}
	if dto.Responses[0].Question == "" {
		t.Fatalf("expected question text on response %+v", dto.Responses[0])
	}
}

func TestServiceAddFreeEntryWithDate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, query.Admin)

	dto, err := svc.AddEntry(ctx, AddEntryOptions{
		Category: "weekly",
		Text:     "A quiet week #rest",
		Tags:     ParseTags("walk, #garden"),
		Date:     "2024-W10",
	})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if dto.Category != "WEEKLY" || dto.DateLabel != "2024 W10" {
		t.Fatalf("unexpected category/label %s %q", dto.Category, dto.DateLabel)
	}
	if dto.Mode != string(entry.Free) || dto.Text != "A quiet week #rest" {
		t.Fatalf("expected free text entry, got %+v", dto)
	}
	got := strings.Join(dto.Tags, ",")
	if got != "walk,garden,rest" {
		t.Fatalf("expected merged tags, got %q", got)
	}
}

func TestServicePrivateEntriesHidden(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, query.Admin)

	private, err := svc.AddEntry(ctx, AddEntryOptions{Title: "Secret", Private: true})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if _, err := svc.AddEntry(ctx, AddEntryOptions{Title: "Public"}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	public := NewService(svc.App, query.Caller{})
	entries, err := public.ListEntries(ctx, query.Params{}, 0)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Public" {
		t.Fatalf("expected only the public entry, got %+v", entries)
	}
	if _, err := public.EntryByID(ctx, private.ID); err == nil {
		t.Fatalf("expected private entry to be hidden")
	}

	all, err := svc.ListEntries(ctx, query.Params{}, 1)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(all))
	}
}

func TestServiceAnswerAndTrash(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, query.Admin)

	dto, err := svc.AddEntry(ctx, AddEntryOptions{})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	answered, err := svc.AnswerQuestion(ctx, dto.ID, "d1", "Coffee")
	if err != nil {
		t.Fatalf("AnswerQuestion failed: %v", err)
	}
	found := false
	for _, r := range answered.Responses {
		if r.QuestionID == "d1" && r.Answer == "Coffee" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected answer on entry, got %+v", answered.Responses)
	}
	if _, err := svc.AnswerQuestion(ctx, dto.ID, "nope", "x"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected unknown question error")
	}

	trashed, err := svc.TrashEntry(ctx, dto.ID, false)
	if err != nil || !trashed.IsTrashed {
		t.Fatalf("TrashEntry: %+v %v", trashed, err)
	}
	entries, _ := svc.ListEntries(ctx, query.Params{}, 0)
	if len(entries) != 0 {
		t.Fatalf("trashed entry should leave the default view, got %d", len(entries))
	}
	restored, err := svc.TrashEntry(ctx, dto.ID, true)
	if err != nil || restored.IsTrashed {
		t.Fatalf("restore: %+v %v", restored, err)
	}
}

func TestServiceUpdateEntry(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, query.Admin)

	dto, err := svc.AddEntry(ctx, AddEntryOptions{Title: "Before", Mood: "ok"})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	title := "After"
	fav := true
	updated, err := svc.UpdateEntry(ctx, UpdateEntryOptions{ID: dto.ID, Title: &title, Favorite: &fav})
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if updated.Title != "After" || !updated.IsFavorite || updated.Mood != "ok" {
		t.Fatalf("unexpected update result %+v", updated)
	}
}

func TestServiceSearchAndNeighbor(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, query.Admin)

	older, err := svc.AddEntry(ctx, AddEntryOptions{Title: "Hiking", Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	newer, err := svc.AddEntry(ctx, AddEntryOptions{Title: "Reading", Date: "2024-03-05"})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if _, err := svc.AddEntry(ctx, AddEntryOptions{Category: "monthly", Title: "hike plans"}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	results, err := svc.SearchEntries(ctx, "HIK", 10)
	if err != nil {
		t.Fatalf("SearchEntries failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected search across categories, got %+v", results)
	}
	if _, err := svc.SearchEntries(ctx, "  ", 10); err == nil {
		t.Fatalf("expected empty query error")
	}

	next, err := svc.Neighbor(ctx, older.ID, query.Next)
	if err != nil {
		t.Fatalf("Neighbor failed: %v", err)
	}
	if next == nil || next.ID != newer.ID {
		t.Fatalf("expected newer entry next, got %+v", next)
	}
	none, err := svc.Neighbor(ctx, newer.ID, query.Next)
	if err != nil || none != nil {
		t.Fatalf("expected no neighbor past the end, got %+v %v", none, err)
	}
}

func TestServiceCategoriesAndStats(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, query.Admin)

	if _, err := svc.AddEntry(ctx, AddEntryOptions{Title: "One", Text: "three words here"}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	cats, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != 4 || cats[0].Category != "DAILY" || cats[0].EntryCount != 1 || cats[0].LatestTitle != "One" {
		t.Fatalf("unexpected summaries %+v", cats)
	}

	report, err := svc.Stats(ctx, "7d")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if report.Summary.Entries != 1 || report.Summary.Words != 3 {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}
	if _, err := svc.Stats(ctx, "soon"); err == nil {
		t.Fatalf("expected invalid window error")
	}
}

func TestTemplateArg(t *testing.T) {
	tests := map[string]struct {
		args map[string]any
		uri  string
		want string
	}{
		"string":   {args: map[string]any{"id": "a"}, uri: entriesURI + "/a", want: "a"},
		"list":     {args: map[string]any{"id": []string{"b"}}, uri: entriesURI + "/b", want: "b"},
		"fallback": {uri: entriesURI + "/c", want: "c"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var req mcp.ReadResourceRequest
			req.Params.URI = tc.uri
			req.Params.Arguments = tc.args
			if got := templateArg(req, "id", entriesURI+"/"); got != tc.want {
				t.Fatalf("templateArg() = %q, want %q", got, tc.want)
			}
		})
	}
}
