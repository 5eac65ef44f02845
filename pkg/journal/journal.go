// Package journal holds the in-memory entry store: the ordered entry
// collection, the question list and the settings of one journal.
package journal

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/datelabel"
	"tableflip.dev/journal/pkg/entry"
)

// Option configures a Journal.
type Option func(*Journal)

// WithClock overrides the time source used by Create.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// WithIDs overrides the id generator used by Create and AddQuestion.
func WithIDs(newID func() string) Option {
	return func(j *Journal) { j.newID = newID }
}

// WithLocation sets the location labels are computed in.
func WithLocation(loc *time.Location) Option {
	return func(j *Journal) { j.loc = loc }
}

// Journal is safe for concurrent use. It never performs I/O.
type Journal struct {
	mu        sync.RWMutex
	entries   []*entry.Entry
	questions []entry.Question
	habits    []entry.Habit
	templates []entry.Template
	settings  *entry.Settings

	now   func() time.Time
	newID func() string
	loc   *time.Location
}

// New builds a Journal over a copy of data.
func New(data entry.AppData, opts ...Option) *Journal {
	j := &Journal{
		now:   time.Now,
		newID: uuid.NewString,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(j)
	}
	j.entries = make([]*entry.Entry, 0, len(data.Entries))
	for _, e := range data.Entries {
		if e != nil {
			j.entries = append(j.entries, e.Clone())
		}
	}
	j.questions = append([]entry.Question(nil), data.Questions...)
	j.habits = append([]entry.Habit(nil), data.Habits...)
	j.templates = append([]entry.Template(nil), data.Templates...)
	if data.Settings != nil {
		s := *data.Settings
		j.settings = &s
	}
	return j
}

// Location returns the location labels are computed in.
func (j *Journal) Location() *time.Location {
	return j.loc
}

// Now returns the current time of the journal clock in its location.
func (j *Journal) Now() time.Time {
	return j.now().In(j.loc)
}

// Create returns a new unsaved entry built from partial. Missing id,
// timestamp, category, label and mode are filled in and responses are seeded
// for the active questions of the category.
func (j *Journal) Create(partial entry.Entry) *entry.Entry {
	e := partial.Clone()
	if e.ID == "" {
		e.ID = j.newID()
	}
	if e.Timestamp == 0 {
		e.Timestamp = entry.ToMillis(j.now())
	}
	if e.Category == "" {
		e.Category = category.Daily
	}
	if e.DateLabel == "" {
		if label, err := datelabel.Label(e.Category, e.Time(j.loc)); err == nil {
			e.DateLabel = label
		}
	}
	if e.EntryMode == "" {
		e.EntryMode = entry.Structured
	}
	if e.Responses == nil {
		e.Responses = map[string]string{}
	}
	for _, q := range j.seedQuestions(e.Category) {
		if _, ok := e.Responses[q.ID]; !ok {
			e.Responses[q.ID] = ""
		}
	}
	return e
}

// seedQuestions picks the default template of c when one exists, otherwise
// every active question of c.
func (j *Journal) seedQuestions(c category.Category) []entry.Question {
	j.mu.RLock()
	defer j.mu.RUnlock()

	for _, t := range j.templates {
		if !t.IsDefault || t.Category != c {
			continue
		}
		var qs []entry.Question
		for _, text := range t.Questions {
			for _, q := range j.questions {
				if q.Text == text && q.Category == c {
					qs = append(qs, q)
					break
				}
			}
		}
		return qs
	}
	return j.activeQuestions(c)
}

// Save inserts e at the head of the collection, replacing any entry with the
// same id. Entries without an id or date label are ignored and Save returns
// false.
func (j *Journal) Save(e *entry.Entry) bool {
	if e == nil || e.ID == "" || e.DateLabel == "" {
		return false
	}
	cp := e.Clone()
	if strings.TrimSpace(cp.Title) == "" {
		cp.Title = cp.DateLabel
	}
	cp.Tags = mergeTags(cp.Tags, hashtags(cp))

	j.mu.Lock()
	defer j.mu.Unlock()
	kept := make([]*entry.Entry, 0, len(j.entries)+1)
	kept = append(kept, cp)
	for _, existing := range j.entries {
		if existing.ID != cp.ID {
			kept = append(kept, existing)
		}
	}
	j.entries = kept
	return true
}

// Delete removes the entry with id. Missing ids are ignored.
func (j *Journal) Delete(id string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	kept := j.entries[:0]
	for _, e := range j.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	j.entries = kept
}

// Patch applies p to the entry with id in place, keeping its position.
func (j *Journal) Patch(id string, p entry.Patch) (*entry.Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, e := range j.entries {
		if e.ID == id {
			p.Apply(e)
			return e.Clone(), true
		}
	}
	return nil, false
}

// Trash moves the entry to the trash.
func (j *Journal) Trash(id string) bool {
	_, ok := j.Patch(id, entry.Patch{IsTrashed: entry.Bool(true)})
	return ok
}

// Restore takes the entry back out of the trash.
func (j *Journal) Restore(id string) bool {
	_, ok := j.Patch(id, entry.Patch{IsTrashed: entry.Bool(false)})
	return ok
}

// EmptyTrash deletes every trashed entry and returns how many were removed.
func (j *Journal) EmptyTrash() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	kept := j.entries[:0]
	removed := 0
	for _, e := range j.entries {
		if e.IsTrashed {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	j.entries = kept
	return removed
}

// Entries returns copies of all entries in store order.
func (j *Journal) Entries() []*entry.Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]*entry.Entry, len(j.entries))
	for i, e := range j.entries {
		out[i] = e.Clone()
	}
	return out
}

// Get returns a copy of the entry with id.
func (j *Journal) Get(id string) (*entry.Entry, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	for _, e := range j.entries {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return nil, false
}

// Settings returns a copy of the settings, or the defaults when none are set.
func (j *Journal) Settings() entry.Settings {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.settings == nil {
		return entry.DefaultSettings()
	}
	return *j.settings
}

// SetSettings replaces the settings.
func (j *Journal) SetSettings(s entry.Settings) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.settings = &s
}

// Data snapshots the journal for persistence.
func (j *Journal) Data() entry.AppData {
	j.mu.RLock()
	defer j.mu.RUnlock()
	data := entry.AppData{
		Entries:   make([]*entry.Entry, len(j.entries)),
		Questions: append([]entry.Question{}, j.questions...),
		Habits:    append([]entry.Habit(nil), j.habits...),
		Templates: append([]entry.Template(nil), j.templates...),
	}
	for i, e := range j.entries {
		data.Entries[i] = e.Clone()
	}
	if j.settings != nil {
		s := *j.settings
		data.Settings = &s
	}
	return data
}

var hashtagPattern = regexp.MustCompile(`#[\w\x{00C0}-\x{00FF}]+`)

func hashtags(e *entry.Entry) []string {
	parts := []string{e.Title, e.FreeTextContent}
	keys := make([]string, 0, len(e.Responses))
	for k := range e.Responses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, e.Responses[k])
	}
	var tags []string
	for _, m := range hashtagPattern.FindAllString(strings.Join(parts, " "), -1) {
		tags = append(tags, m[1:])
	}
	return tags
}

func mergeTags(existing, found []string) []string {
	if len(found) == 0 {
		return existing
	}
	seen := make(map[string]struct{}, len(existing)+len(found))
	var out []string
	for _, list := range [][]string{existing, found} {
		for _, t := range list {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
