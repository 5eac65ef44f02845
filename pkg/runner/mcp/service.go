// Package mcp provides the Model Context Protocol server integration for the
// journal.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/datelabel"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/query"
	"tableflip.dev/journal/pkg/timeutil"
)

// Service adapts the journal to the shapes the MCP tools and resources use.
type Service struct {
	App *app.Service
	// Caller decides whether private entries are visible over MCP.
	Caller query.Caller
}

var errNoJournal = errors.New("journal is not configured")

// ErrUnknownQuestion is returned when answering a question id the journal
// does not have.
var ErrUnknownQuestion = errors.New("mcp: unknown question")

// AddEntryOptions captures the parameters used to create a new entry.
type AddEntryOptions struct {
	Category string
	Title    string
	Text     string
	Mood     string
	Location string
	Tags     []string
	Private  bool
	// Date is picker input for the category, empty for now.
	Date string
}

// UpdateEntryOptions holds the fields to change. Nil fields are kept.
type UpdateEntryOptions struct {
	ID       string
	Title    *string
	Text     *string
	Mood     *string
	Location *string
	Private  *bool
	Favorite *bool
	Tags     *[]string
}

// CategorySummary describes one category and its latest entry.
type CategorySummary struct {
	Category    string `json:"category"`
	Label       string `json:"label"`
	EntryCount  int    `json:"entryCount"`
	LastUpdated string `json:"lastUpdated,omitempty"`
	LatestTitle string `json:"latestTitle,omitempty"`
}

// ResponseDTO is an answer paired with its question text.
type ResponseDTO struct {
	QuestionID string `json:"questionId"`
	Question   string `json:"question,omitempty"`
	Answer     string `json:"answer"`
}

// EntryDTO is a transport-friendly projection of an entry.
type EntryDTO struct {
	ID         string        `json:"id"`
	Category   string        `json:"category"`
	DateLabel  string        `json:"dateLabel"`
	Title      string        `json:"title,omitempty"`
	CreatedISO string        `json:"created"`
	Timestamp  int64         `json:"timestamp"`
	Mode       string        `json:"entryMode"`
	Text       string        `json:"freeTextContent,omitempty"`
	Responses  []ResponseDTO `json:"responses,omitempty"`
	Mood       string        `json:"mood,omitempty"`
	Location   string        `json:"location,omitempty"`
	Tags       []string      `json:"tags,omitempty"`
	Photos     []string      `json:"photos,omitempty"`
	IsPrivate  bool          `json:"isPrivate"`
	IsTrashed  bool          `json:"isTrashed"`
	IsFavorite bool          `json:"isFavorite"`
}

// NewService wraps svc for MCP callers.
func NewService(svc *app.Service, caller query.Caller) *Service {
	return &Service{App: svc, Caller: caller}
}

func (s *Service) ready() error {
	if s == nil || s.App == nil {
		return errNoJournal
	}
	return nil
}

// ListCategories summarizes every category.
func (s *Service) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	j := s.App.Journal()
	visible := query.Query(j.Entries(), query.Options{View: query.ViewStats, Caller: s.Caller})

	summaries := make([]CategorySummary, 0, len(category.All()))
	for _, c := range category.All() {
		sum := CategorySummary{Category: string(c), Label: c.Label()}
		var latest *entry.Entry
		for _, e := range visible {
			if e.Category != c {
				continue
			}
			sum.EntryCount++
			if latest == nil || e.Timestamp > latest.Timestamp {
				latest = e
			}
		}
		if latest != nil {
			sum.LastUpdated = entry.FormatTime(latest.Time(j.Location()))
			sum.LatestTitle = latest.DisplayTitle()
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// ListEntries runs the query pipeline with string parameters. A positive
// limit caps the result.
func (s *Service) ListEntries(ctx context.Context, p query.Params, limit int) ([]EntryDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	o, err := s.options(p)
	if err != nil {
		return nil, err
	}
	all := s.App.List(o)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return s.toDTOs(all), nil
}

func (s *Service) options(p query.Params) (query.Options, error) {
	j := s.App.Journal()
	settings := j.Settings()
	return p.Options(settings.Configs(), s.Caller, j.Now())
}

// SearchEntries matches text across every category.
func (s *Service) SearchEntries(ctx context.Context, text string, limit int) ([]EntryDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil, errors.New("query is required")
	}
	all := query.Query(s.App.Journal().Entries(), query.Options{View: query.ViewStats, Caller: s.Caller})
	matches := make([]*entry.Entry, 0)
	for _, e := range all {
		if query.Matches(e, needle) {
			matches = append(matches, e)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp > matches[j].Timestamp
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return s.toDTOs(matches), nil
}

// EntryByID returns a single entry.
func (s *Service) EntryByID(ctx context.Context, id string) (*EntryDTO, error) {
	e, err := s.find(id)
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(e)
	return &dto, nil
}

// find looks up an entry the caller may see.
func (s *Service) find(id string) (*entry.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	e, err := s.App.Get(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if e.IsPrivate && !s.Caller.IsAdmin {
		return nil, app.ErrNotFound
	}
	return e, nil
}

// Neighbor steps from id through its category list.
func (s *Service) Neighbor(ctx context.Context, id string, d query.Direction) (*EntryDTO, error) {
	e, err := s.find(id)
	if err != nil {
		return nil, err
	}
	o, err := s.options(query.Params{Category: string(e.Category)})
	if err != nil {
		return nil, err
	}
	next := s.App.Neighbor(o, e.ID, d)
	if next == nil {
		return nil, nil
	}
	dto := s.toDTO(next)
	return &dto, nil
}

// AddEntry creates an entry. Text makes it a free-writing entry.
func (s *Service) AddEntry(ctx context.Context, opts AddEntryOptions) (*EntryDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	c, err := category.Parse(opts.Category)
	if err != nil {
		return nil, err
	}
	partial := entry.Entry{
		Category:  c,
		Title:     strings.TrimSpace(opts.Title),
		Mood:      opts.Mood,
		Location:  opts.Location,
		Tags:      opts.Tags,
		IsPrivate: opts.Private,
	}
	if text := strings.TrimSpace(opts.Text); text != "" {
		partial.EntryMode = entry.Free
		partial.FreeTextContent = text
	}
	if strings.TrimSpace(opts.Date) != "" {
		t, label, err := datelabel.Edit(c, opts.Date, s.App.Journal().Location())
		if err != nil {
			return nil, err
		}
		partial.Timestamp = entry.ToMillis(t)
		partial.DateLabel = label
	}
	e, err := s.App.Add(ctx, partial)
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(e)
	return &dto, nil
}

// UpdateEntry patches the given fields.
func (s *Service) UpdateEntry(ctx context.Context, opts UpdateEntryOptions) (*EntryDTO, error) {
	if _, err := s.find(opts.ID); err != nil {
		return nil, err
	}
	e, err := s.App.Update(ctx, opts.ID, entry.Patch{
		Title:           opts.Title,
		FreeTextContent: opts.Text,
		Mood:            opts.Mood,
		Location:        opts.Location,
		IsPrivate:       opts.Private,
		IsFavorite:      opts.Favorite,
		Tags:            opts.Tags,
	})
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(e)
	return &dto, nil
}

// AnswerQuestion stores the answer to one question on an entry.
func (s *Service) AnswerQuestion(ctx context.Context, id, questionID, answer string) (*EntryDTO, error) {
	e, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if _, ok := s.App.Journal().QuestionText(questionID); !ok {
		if _, answered := e.Responses[questionID]; !answered {
			return nil, fmt.Errorf("%w %q", ErrUnknownQuestion, questionID)
		}
	}
	cp := e.Clone()
	if cp.Responses == nil {
		cp.Responses = map[string]string{}
	}
	cp.Responses[questionID] = answer
	saved, err := s.App.Save(ctx, cp)
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(saved)
	return &dto, nil
}

// TrashEntry moves an entry to the trash, or back out when restore is set.
func (s *Service) TrashEntry(ctx context.Context, id string, restore bool) (*EntryDTO, error) {
	if _, err := s.find(id); err != nil {
		return nil, err
	}
	var (
		e   *entry.Entry
		err error
	)
	if restore {
		e, err = s.App.Restore(ctx, id)
	} else {
		e, err = s.App.Trash(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(e)
	return &dto, nil
}

// Questions lists the catalogue, optionally for one category.
func (s *Service) Questions(ctx context.Context, c string) ([]entry.Question, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	all := s.App.Journal().Questions()
	if strings.TrimSpace(c) == "" {
		return all, nil
	}
	want, err := category.Parse(c)
	if err != nil {
		return nil, err
	}
	out := make([]entry.Question, 0, len(all))
	for _, q := range all {
		if q.Category == want {
			out = append(out, q)
		}
	}
	return out, nil
}

// Stats reports on the window ending now. An empty window covers all time.
func (s *Service) Stats(ctx context.Context, window string) (app.ReportResult, error) {
	if err := s.ready(); err != nil {
		return app.ReportResult{}, err
	}
	now := s.App.Journal().Now()
	var since time.Time
	if strings.TrimSpace(window) != "" {
		d, err := timeutil.ParseWindow(window)
		if err != nil {
			return app.ReportResult{}, err
		}
		since = timeutil.StartOfDay(now.Add(-d))
	}
	return s.App.Report(s.Caller, since, now), nil
}

func (s *Service) toDTOs(entries []*entry.Entry) []EntryDTO {
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.toDTO(e))
	}
	return out
}

func (s *Service) toDTO(e *entry.Entry) EntryDTO {
	j := s.App.Journal()
	e = query.Redact(e, s.Caller)
	dto := EntryDTO{
		ID:         e.ID,
		Category:   string(e.Category),
		DateLabel:  e.DateLabel,
		Title:      e.Title,
		CreatedISO: entry.FormatTime(e.Time(j.Location())),
		Timestamp:  e.Timestamp,
		Mode:       string(e.Mode()),
		Text:       e.FreeTextContent,
		Mood:       e.Mood,
		Location:   e.Location,
		Tags:       e.Tags,
		Photos:     e.AllPhotos(),
		IsPrivate:  e.IsPrivate,
		IsTrashed:  e.IsTrashed,
		IsFavorite: e.IsFavorite,
	}
	ids := make([]string, 0, len(e.Responses))
	for id := range e.Responses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		text, _ := j.QuestionText(id)
		dto.Responses = append(dto.Responses, ResponseDTO{QuestionID: id, Question: text, Answer: e.Responses[id]})
	}
	return dto
}

// ParseTags splits a comma separated tag list.
func ParseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimPrefix(strings.TrimSpace(t), "#")
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
