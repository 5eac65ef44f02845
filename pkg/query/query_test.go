package query

import (
	"reflect"
	"testing"
	"time"

	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/entry"
)

func ids(entries []*entry.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func sample() []*entry.Entry {
	return []*entry.Entry{
		{ID: "d1", Timestamp: 100, Category: category.Daily, Title: "Morning run", Tags: []string{"Fitness"}},
		{ID: "w1", Timestamp: 300, Category: category.Weekly, Title: "Week review", Responses: map[string]string{"q": "Shipped the ABC release"}},
		{ID: "d2", Timestamp: 200, Category: category.Daily, Title: "Secret", IsPrivate: true},
		{ID: "m1", Timestamp: 400, Category: category.Monthly, Location: "Lisbon", Mood: "great"},
		{ID: "y1", Timestamp: 50, Category: category.Yearly, EntryMode: entry.Free, FreeTextContent: "a long year"},
		{ID: "t1", Timestamp: 500, Category: category.Daily, Title: "Deleted", IsTrashed: true},
	}
}

func TestVisible(t *testing.T) {
	entries := []*entry.Entry{{ID: "1", IsPrivate: true}, {ID: "2"}}
	if got := ids(Visible(entries, Caller{})); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("expected only public entry, got %v", got)
	}
	if got := ids(Visible(entries, Admin)); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("expected admin to see both, got %v", got)
	}
}

func TestMapPoints(t *testing.T) {
	entries := []*entry.Entry{
		{ID: "a", GPS: &entry.GPS{Lat: 1, Lon: 2}},
		{ID: "b", GPS: &entry.GPS{Lat: 3, Lon: 4}, IsLocationPrivate: true},
		{ID: "c"},
		{ID: "d", GPS: &entry.GPS{Lat: 5, Lon: 6}, IsPrivate: true},
	}
	var got []string
	for _, p := range MapPoints(entries, Caller{}) {
		got = append(got, p.ID)
	}
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("expected only a for guests, got %v", got)
	}
	got = nil
	for _, p := range MapPoints(entries, Admin) {
		got = append(got, p.ID)
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "d"}) {
		t.Fatalf("expected a, b, d for admin, got %v", got)
	}
}

func TestRedact(t *testing.T) {
	e := &entry.Entry{ID: "a", Location: "Home", GPS: &entry.GPS{Lat: 1}, IsLocationPrivate: true}
	r := Redact(e, Caller{})
	if r.Location != "" || r.GPS != nil {
		t.Fatalf("expected location cleared, got %+v", r)
	}
	if e.Location != "Home" || e.GPS == nil {
		t.Fatalf("redact modified the original")
	}
	if Redact(e, Admin) != e {
		t.Fatalf("expected admin to get the entry untouched")
	}
}

func TestQueryDefaultView(t *testing.T) {
	got := ids(Query(sample(), Options{Active: category.Daily}))
	if !reflect.DeepEqual(got, []string{"d1"}) {
		t.Fatalf("expected only public daily, got %v", got)
	}
	got = ids(Query(sample(), Options{Active: category.Daily, Caller: Admin}))
	if !reflect.DeepEqual(got, []string{"d2", "d1"}) {
		t.Fatalf("expected admin dailies newest first, got %v", got)
	}
}

func TestQueryHierarchy(t *testing.T) {
	cfg := category.Configs{
		category.Yearly: {IncludeWeekly: true},
	}
	got := ids(Query(sample(), Options{Active: category.Yearly, Configs: cfg}))
	if !reflect.DeepEqual(got, []string{"w1", "y1"}) {
		t.Fatalf("expected weekly and yearly only, got %v", got)
	}
}

func TestQuerySortedAndDeterministic(t *testing.T) {
	cfg := category.Configs{
		category.Yearly: {IncludeDaily: true, IncludeWeekly: true, IncludeMonthly: true},
	}
	opts := Options{Active: category.Yearly, Configs: cfg, Caller: Admin}
	first := Query(sample(), opts)
	second := Query(sample(), opts)
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Fatalf("query not deterministic: %v vs %v", ids(first), ids(second))
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].Timestamp < first[i].Timestamp {
			t.Fatalf("not sorted descending at %d: %v", i, ids(first))
		}
	}
	if len(first) != 5 {
		t.Fatalf("expected five untrashed entries, got %v", ids(first))
	}
}

func TestQueryStableTies(t *testing.T) {
	entries := []*entry.Entry{
		{ID: "a", Timestamp: 10},
		{ID: "b", Timestamp: 10},
		{ID: "c", Timestamp: 20},
	}
	got := ids(Query(entries, Options{Active: ""}))
	if !reflect.DeepEqual(got, []string{}) {
		// Entries without a category are not in any allowed set.
		t.Fatalf("expected nothing, got %v", got)
	}
	for _, e := range entries {
		e.Category = category.Daily
	}
	got = ids(Query(entries, Options{Active: category.Daily}))
	if !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("expected stable ties, got %v", got)
	}
}

func TestQuerySearchOR(t *testing.T) {
	entries := []*entry.Entry{
		{ID: "title", Category: category.Daily, Title: "abc", FreeTextContent: "unrelated"},
		{ID: "none", Category: category.Daily, Title: "xyz", FreeTextContent: "nothing"},
		{ID: "response", Category: category.Daily, Responses: map[string]string{"q": "the ABC way"}},
		{ID: "free", Category: category.Daily, FreeTextContent: "xxabcxx"},
		{ID: "location", Category: category.Daily, Location: "ABC street"},
		{ID: "tag", Category: category.Daily, Tags: []string{"abcd"}},
	}
	got := ids(Query(entries, Options{Active: category.Daily, Search: "AbC"}))
	want := []string{"title", "response", "free", "location", "tag"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	got = ids(Query(entries, Options{Active: category.Daily, Search: "#abcd"}))
	if !reflect.DeepEqual(got, []string{"tag"}) {
		t.Fatalf("expected tag search to strip '#', got %v", got)
	}
}

func TestQueryTrash(t *testing.T) {
	got := ids(Query(sample(), Options{View: ViewTrash}))
	if !reflect.DeepEqual(got, []string{"t1"}) {
		t.Fatalf("expected only trashed entry, got %v", got)
	}
	for _, e := range Query(sample(), Options{View: ViewGallery, Caller: Admin}) {
		if e.IsTrashed {
			t.Fatalf("trashed entry %s leaked into gallery", e.ID)
		}
	}
}

func TestQueryCrossCategorySearchesAndSorts(t *testing.T) {
	entries := []*entry.Entry{
		{ID: "old", Timestamp: 10, Category: category.Daily, Title: "abc"},
		{ID: "new", Timestamp: 30, Category: category.Yearly, Title: "abc"},
		{ID: "mid", Timestamp: 20, Category: category.Weekly, Title: "zzz"},
	}
	for _, v := range []GlobalView{ViewAtlas, ViewGallery, ViewStats, ViewStreak} {
		got := ids(Query(entries, Options{View: v, Active: category.Daily, Search: "abc"}))
		if want := []string{"new", "old"}; !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: expected search across categories newest first, got %v", v, got)
		}
		got = ids(Query(entries, Options{View: v, Active: category.Daily}))
		if want := []string{"new", "mid", "old"}; !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: expected every category newest first, got %v", v, got)
		}
	}
}

func TestQueryAlwaysNewestFirst(t *testing.T) {
	for _, v := range []GlobalView{ViewNone, ViewTrash, ViewStats, ViewAtlas, ViewGallery, ViewTags} {
		got := Query(sample(), Options{View: v, Caller: Admin, Configs: category.Configs{
			category.Daily: {IncludeWeekly: true, IncludeMonthly: true},
		}})
		for i := 1; i < len(got); i++ {
			if got[i-1].Timestamp < got[i].Timestamp {
				t.Fatalf("%s: %s (%d) sorted before %s (%d)", v, got[i-1].ID, got[i-1].Timestamp, got[i].ID, got[i].Timestamp)
			}
		}
	}
}

func TestQueryTags(t *testing.T) {
	got := ids(Query(sample(), Options{View: ViewTags, Search: "#fitness"}))
	if !reflect.DeepEqual(got, []string{"d1"}) {
		t.Fatalf("expected exact tag match, got %v", got)
	}
	if got := Query(sample(), Options{View: ViewTags, Search: "#fit"}); len(got) != 0 {
		t.Fatalf("expected partial tag not to match, got %v", ids(got))
	}
	if got := Query(sample(), Options{View: ViewTags}); len(got) != 4 {
		t.Fatalf("expected every visible entry without a tag search, got %v", ids(got))
	}
}

func TestQueryOnThisDay(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	entries := []*entry.Entry{
		{ID: "last-year", Timestamp: time.Date(2023, 3, 9, 8, 0, 0, 0, time.UTC).UnixMilli()},
		{ID: "other", Timestamp: time.Date(2023, 3, 10, 8, 0, 0, 0, time.UTC).UnixMilli()},
		{ID: "two-years", Timestamp: time.Date(2022, 3, 9, 8, 0, 0, 0, time.UTC).UnixMilli()},
	}
	got := ids(Query(entries, Options{View: ViewOnThisDay, Now: now}))
	if !reflect.DeepEqual(got, []string{"last-year", "two-years"}) {
		t.Fatalf("unexpected on-this-day result %v", got)
	}
}

func TestQueryFilters(t *testing.T) {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	entries := []*entry.Entry{
		{ID: "before", Category: category.Daily, Timestamp: day.AddDate(0, 0, -1).UnixMilli()},
		{ID: "start", Category: category.Daily, Timestamp: day.UnixMilli(), Mood: "good", Photo: "img/a.png"},
		{ID: "end-of-day", Category: category.Daily, Timestamp: day.Add(20 * time.Hour).UnixMilli(), Mood: "good"},
		{ID: "after", Category: category.Daily, Timestamp: day.AddDate(0, 0, 2).UnixMilli()},
	}
	f := Filters{From: day.UnixMilli(), To: day.UnixMilli()}
	got := ids(Query(entries, Options{Active: category.Daily, Filters: f}))
	if !reflect.DeepEqual(got, []string{"end-of-day", "start"}) {
		t.Fatalf("expected the whole end day, got %v", got)
	}
	got = ids(Query(entries, Options{Active: category.Daily, Filters: Filters{Mood: "good", HasPhoto: true}}))
	if !reflect.DeepEqual(got, []string{"start"}) {
		t.Fatalf("expected mood and photo filter, got %v", got)
	}
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	entries := sample()
	before := ids(entries)
	Query(entries, Options{Active: category.Yearly, Caller: Admin, Configs: category.Configs{
		category.Yearly: {IncludeDaily: true, IncludeWeekly: true, IncludeMonthly: true},
	}})
	if !reflect.DeepEqual(before, ids(entries)) {
		t.Fatalf("input reordered: %v -> %v", before, ids(entries))
	}
}

func TestDailyEntryUnderWeeklyInclusion(t *testing.T) {
	now := time.Now()
	e := &entry.Entry{ID: "today", Category: category.Daily, Timestamp: now.UnixMilli(), DateLabel: now.Format("2006-01-02")}
	entries := []*entry.Entry{e}

	with := category.Configs{category.Weekly: {IncludeDaily: true}}
	if got := ids(Query(entries, Options{Active: category.Weekly, Configs: with})); !reflect.DeepEqual(got, []string{"today"}) {
		t.Fatalf("expected daily entry with includeDaily, got %v", got)
	}
	without := category.Configs{category.Weekly: {IncludeDaily: false}}
	if got := Query(entries, Options{Active: category.Weekly, Configs: without}); len(got) != 0 {
		t.Fatalf("expected no entries without includeDaily, got %v", ids(got))
	}
}

func TestParamsOptions(t *testing.T) {
	now := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	o, err := Params{Category: "weekly", View: "trash", From: "2024-03-01", Mood: "happy", HasPhoto: true}.
		Options(category.Defaults(), Admin, now)
	if err != nil {
		t.Fatalf("Options() error: %v", err)
	}
	if o.Active != category.Weekly || o.View != ViewTrash || !o.Caller.IsAdmin {
		t.Errorf("options = %+v", o)
	}
	want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if o.Filters.From != want || o.Filters.To != 0 || o.Filters.Mood != "happy" || !o.Filters.HasPhoto {
		t.Errorf("filters = %+v", o.Filters)
	}

	for _, p := range []Params{{Category: "hourly"}, {View: "nope"}, {To: "later"}} {
		if _, err := p.Options(nil, Caller{}, now); err == nil {
			t.Errorf("Options(%+v) should fail", p)
		}
	}
}
