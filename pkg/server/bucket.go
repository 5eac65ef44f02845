package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"tableflip.dev/journal/pkg/datelabel"
	"tableflip.dev/journal/pkg/entry"
)

// DefaultUser owns the data served by the single-user /api/data routes.
const DefaultUser = "default"

const (
	usersDir   = "users"
	postsDir   = "posts"
	imgDir     = "img"
	backupsDir = "backups"
	usersFile  = "users.json"
)

// Sibling documents of the posts tree. Any other JSON file under posts is a
// week bucket.
var sideFiles = map[string]bool{
	"settings.json":  true,
	"questions.json": true,
	"habits.json":    true,
	"templates.json": true,
	"tags.json":      true,
}

var (
	errMissingUser = errors.New("server: missing userId")
	errBadName     = errors.New("server: invalid file name")
)

// Payload is the body of a POST /api/data request. Nil fields were absent
// and leave the stored document untouched.
type Payload struct {
	Action    string            `json:"action,omitempty"`
	Filename  string            `json:"filename,omitempty"`
	UserID    string            `json:"userId,omitempty"`
	Users     json.RawMessage   `json:"users,omitempty"`
	Entries   *[]*entry.Entry   `json:"entries,omitempty"`
	Questions *[]entry.Question `json:"questions,omitempty"`
	Habits    *[]entry.Habit    `json:"habits,omitempty"`
	Templates *[]entry.Template `json:"templates,omitempty"`
	Settings  *entry.Settings   `json:"settings,omitempty"`
}

// PayloadOf wraps a whole journal.
func PayloadOf(data entry.AppData) Payload {
	p := Payload{
		Entries:   &data.Entries,
		Questions: &data.Questions,
		Settings:  data.Settings,
	}
	if data.Habits != nil {
		p.Habits = &data.Habits
	}
	if data.Templates != nil {
		p.Templates = &data.Templates
	}
	return p
}

// BackupInfo describes one snapshot file.
type BackupInfo struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Date     int64  `json:"date"`
}

// Bucket is the on-disk layout served by the API:
//
//	users/<id>/posts/<year>/<week>.json
//	users/<id>/{settings,questions,habits,templates}.json
//	users.json
//	backups/<stamp>.json
//	img/<name>
type Bucket struct {
	root string
	loc  *time.Location
	now  func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewBucket creates the directory skeleton under root. Entries are bucketed
// by their local date in loc; nil means time.Local.
func NewBucket(root string, loc *time.Location) (*Bucket, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, dir := range []string{usersDir, imgDir, backupsDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return nil, fmt.Errorf("server: create %s: %w", dir, err)
		}
	}
	return &Bucket{root: root, loc: loc, now: time.Now, locks: map[string]*sync.Mutex{}}, nil
}

// Root is the bucket directory.
func (b *Bucket) Root() string {
	return b.root
}

// ImageDir holds uploaded images.
func (b *Bucket) ImageDir() string {
	return filepath.Join(b.root, imgDir)
}

func (b *Bucket) userLock(id string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.locks[id]
	if !ok {
		l = &sync.Mutex{}
		b.locks[id] = l
	}
	return l
}

func (b *Bucket) userDir(id string) (string, error) {
	if err := validName(id); err != nil {
		return "", err
	}
	return filepath.Join(b.root, usersDir, id), nil
}

// validName rejects anything that could escape its directory.
func validName(name string) error {
	if name == "" {
		return errMissingUser
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", errBadName, name)
	}
	return nil
}

// WeekPath is the bucket file of an entry, relative to the posts dir: the
// calendar year of the local date and the zero-padded ISO week.
func WeekPath(ms int64, loc *time.Location) string {
	t := entry.FromMillis(ms, loc)
	_, week := datelabel.ISOWeek(t)
	return filepath.Join(fmt.Sprintf("%04d", t.Year()), fmt.Sprintf("%02d.json", week))
}

// Load reads everything stored for a user. Unreadable documents are skipped;
// a user that was never saved yields an empty journal.
func (b *Bucket) Load(userID string) (entry.AppData, error) {
	dir, err := b.userDir(userID)
	if err != nil {
		return entry.AppData{}, err
	}
	l := b.userLock(userID)
	l.Lock()
	defer l.Unlock()

	data := entry.AppData{Entries: []*entry.Entry{}, Questions: []entry.Question{}}
	posts := filepath.Join(dir, postsDir)
	err = filepath.WalkDir(posts, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" || sideFiles[d.Name()] {
			return nil
		}
		var week []*entry.Entry
		if readJSON(path, &week) {
			data.Entries = append(data.Entries, week...)
		}
		return nil
	})
	if err != nil {
		return entry.AppData{}, fmt.Errorf("server: walk posts: %w", err)
	}

	var settings entry.Settings
	if readJSON(filepath.Join(dir, "settings.json"), &settings) {
		data.Settings = &settings
	}
	readJSON(filepath.Join(dir, "questions.json"), &data.Questions)
	readJSON(filepath.Join(dir, "habits.json"), &data.Habits)
	readJSON(filepath.Join(dir, "templates.json"), &data.Templates)
	if data.Questions == nil {
		data.Questions = []entry.Question{}
	}
	return data, nil
}

// readJSON decodes path into v, reporting whether it succeeded.
func readJSON(path string, v any) bool {
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "journal: read %s: %v\n", path, err)
		}
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		fmt.Fprintf(os.Stderr, "journal: decode %s: %v\n", path, err)
		return false
	}
	return true
}

// Save writes the documents present in p. Entries replace the whole posts
// tree of the user.
func (b *Bucket) Save(userID string, p Payload) error {
	dir, err := b.userDir(userID)
	if err != nil {
		return err
	}
	l := b.userLock(userID)
	l.Lock()
	defer l.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("server: create user dir: %w", err)
	}
	docs := []struct {
		name string
		v    any
		ok   bool
	}{
		{"settings.json", p.Settings, p.Settings != nil},
		{"questions.json", p.Questions, p.Questions != nil},
		{"habits.json", p.Habits, p.Habits != nil},
		{"templates.json", p.Templates, p.Templates != nil},
	}
	for _, d := range docs {
		if !d.ok {
			continue
		}
		if err := writeJSON(filepath.Join(dir, d.name), d.v); err != nil {
			return err
		}
	}
	if p.Entries != nil {
		return b.replacePosts(dir, *p.Entries)
	}
	return nil
}

// replacePosts builds the new tree beside the old one and swaps it in.
func (b *Bucket) replacePosts(dir string, entries []*entry.Entry) error {
	grouped := map[string][]*entry.Entry{}
	for _, e := range entries {
		if e == nil {
			continue
		}
		key := WeekPath(e.Timestamp, b.loc)
		grouped[key] = append(grouped[key], e)
	}

	staging, err := os.MkdirTemp(dir, "posts-*.tmp")
	if err != nil {
		return fmt.Errorf("server: stage posts: %w", err)
	}
	defer os.RemoveAll(staging)

	for key, week := range grouped {
		path := filepath.Join(staging, key)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("server: create year dir: %w", err)
		}
		if err := writeJSON(path, week); err != nil {
			return err
		}
	}

	posts := filepath.Join(dir, postsDir)
	old := posts + ".old"
	_ = os.RemoveAll(old)
	if err := os.Rename(posts, old); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("server: retire posts: %w", err)
	}
	if err := os.Rename(staging, posts); err != nil {
		_ = os.Rename(old, posts)
		return fmt.Errorf("server: install posts: %w", err)
	}
	return os.RemoveAll(old)
}

// writeJSON replaces path atomically.
func writeJSON(path string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("server: encode %s: %w", filepath.Base(path), err)
	}
	return writeFile(path, b)
}

func writeFile(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("server: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("server: write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("server: close %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmpPath, path)
}

// Reset removes everything stored for a user.
func (b *Bucket) Reset(userID string) error {
	dir, err := b.userDir(userID)
	if err != nil {
		return err
	}
	l := b.userLock(userID)
	l.Lock()
	defer l.Unlock()
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("server: reset %s: %w", userID, err)
	}
	return nil
}

// Users returns the raw users document, or an empty list.
func (b *Bucket) Users() json.RawMessage {
	raw, err := os.ReadFile(filepath.Join(b.root, usersFile))
	if err != nil || !json.Valid(raw) {
		return json.RawMessage("[]")
	}
	return raw
}

// SaveUsers replaces the users document.
func (b *Bucket) SaveUsers(users json.RawMessage) error {
	if !json.Valid(users) {
		return errors.New("server: users is not valid JSON")
	}
	return writeFile(filepath.Join(b.root, usersFile), users)
}

const backupLayout = "20060102-150405"

// Backup snapshots a user's journal and returns the file name.
func (b *Bucket) Backup(userID string) (string, error) {
	data, err := b.Load(userID)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s.json", userID, b.now().UTC().Format(backupLayout))
	if err := writeJSON(filepath.Join(b.root, backupsDir, name), data); err != nil {
		return "", err
	}
	return name, nil
}

// Backups lists snapshot files, newest first.
func (b *Bucket) Backups() ([]BackupInfo, error) {
	des, err := os.ReadDir(filepath.Join(b.root, backupsDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("server: list backups: %w", err)
	}
	out := []BackupInfo{}
	for _, de := range des {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, BackupInfo{
			Filename: de.Name(),
			Size:     info.Size(),
			Date:     entry.ToMillis(info.ModTime()),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Filename > out[j].Filename
	})
	return out, nil
}

// Restore replaces a user's journal with a snapshot.
func (b *Bucket) Restore(userID, filename string) error {
	if err := validName(filename); err != nil || filepath.Ext(filename) != ".json" {
		return fmt.Errorf("%w: %q", errBadName, filename)
	}
	var data entry.AppData
	path := filepath.Join(b.root, backupsDir, filename)
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("server: read backup: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("server: decode backup: %w", err)
	}
	if data.Entries == nil {
		data.Entries = []*entry.Entry{}
	}
	return b.Save(userID, PayloadOf(data))
}
