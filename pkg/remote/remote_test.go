package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/journal/pkg/entry"
)

func TestClientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `{"status":"online","type":"go","version":"v1"}`)
	}))
	defer srv.Close()

	s, err := New(srv.URL + "/").Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if !s.Online() || s.Type != "go" || s.Version != "v1" {
		t.Errorf("status = %+v", s)
	}
}

func TestClientLoad(t *testing.T) {
	tests := map[string]struct {
		body    string
		code    int
		want    int
		wantNil bool
		wantErr bool
	}{
		"object":     {body: `{"entries":[{"id":"a","timestamp":1,"dateLabel":"x","category":"DAILY","responses":{}}],"questions":[]}`, want: 1},
		"empty":      {body: `{}`, want: 0},
		"array":      {body: `[]`, wantNil: true},
		"not json":   {body: `<?php echo 1;`, wantNil: true},
		"http error": {body: `boom`, code: http.StatusInternalServerError, wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.code != 0 {
					w.WriteHeader(tc.code)
				}
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			data, err := New(srv.URL).Load(context.Background())
			if (err != nil) != tc.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				var se *StatusError
				if !errors.As(err, &se) || se.Code != tc.code {
					t.Errorf("error = %v, want StatusError %d", err, tc.code)
				}
				return
			}
			if tc.wantNil {
				if data != nil {
					t.Errorf("Load() = %+v, want nil", data)
				}
				return
			}
			if data == nil || len(data.Entries) != tc.want {
				t.Errorf("Load() = %+v, want %d entries", data, tc.want)
			}
		})
	}
}

func TestClientSave(t *testing.T) {
	var got map[string]json.RawMessage
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	data := entry.AppData{Entries: []*entry.Entry{{ID: "a", DateLabel: "2024-01-01"}}, Questions: []entry.Question{}}
	if err := New(srv.URL, WithToken("pw")).Save(context.Background(), data); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if string(got["action"]) != `"save"` {
		t.Errorf("action = %s", got["action"])
	}
	if _, ok := got["entries"]; !ok {
		t.Errorf("entries missing from body: %v", got)
	}
	if auth != "Bearer pw" {
		t.Errorf("authorization = %q", auth)
	}
}

func TestClientSaveError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"Unknown action"}`)
	}))
	defer srv.Close()

	err := New(srv.URL).Save(context.Background(), entry.AppData{})
	if err == nil || !strings.Contains(err.Error(), "Unknown action") {
		t.Errorf("Save() error = %v", err)
	}
}

func TestClientUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		if hdr.Filename != "cat.png" || string(b) != "png-bytes" {
			t.Errorf("got %q %q", hdr.Filename, b)
		}
		io.WriteString(w, `{"url":"img/abc.png"}`)
	}))
	defer srv.Close()

	u, err := New(srv.URL).Upload(context.Background(), "cat.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if u != "img/abc.png" {
		t.Errorf("url = %q", u)
	}
}

type fakePusher struct {
	mu    sync.Mutex
	saved []entry.AppData
	err   error
	done  chan struct{}
}

func (f *fakePusher) Save(_ context.Context, data entry.AppData) error {
	f.mu.Lock()
	f.saved = append(f.saved, data)
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
	return f.err
}

func (f *fakePusher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeDirty struct {
	mu    sync.Mutex
	dirty []bool
}

func (f *fakeDirty) SetDirty(_ context.Context, dirty bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirty = append(f.dirty, dirty)
	return nil
}

func (f *fakeDirty) last() (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.dirty) == 0 {
		return false, false
	}
	return f.dirty[len(f.dirty)-1], true
}

func snapshot(id string) entry.AppData {
	return entry.AppData{Entries: []*entry.Entry{{ID: id}}}
}

func TestSyncerDebounces(t *testing.T) {
	p := &fakePusher{done: make(chan struct{}, 4)}
	d := &fakeDirty{}
	s := NewSyncer(p, d, 20*time.Millisecond)

	s.Notify(snapshot("first"))
	s.Notify(snapshot("second"))

	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatal("push never happened")
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if p.count() != 1 {
		t.Fatalf("pushed %d times, want 1", p.count())
	}
	if got := p.saved[0].Entries[0].ID; got != "second" {
		t.Errorf("pushed %q, want the latest snapshot", got)
	}
	if dirty, ok := d.last(); !ok || dirty {
		t.Errorf("dirty = %v (set %v), want clean", dirty, ok)
	}
}

func TestSyncerFlush(t *testing.T) {
	p := &fakePusher{err: errors.New("offline")}
	d := &fakeDirty{}
	s := NewSyncer(p, d, time.Hour)

	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() with nothing pending = %v", err)
	}

	s.Notify(snapshot("a"))
	if err := s.Flush(context.Background()); err == nil {
		t.Fatal("Flush() should report the push failure")
	}
	if p.count() != 1 {
		t.Errorf("pushed %d times, want 1", p.count())
	}
	if dirty, ok := d.last(); !ok || !dirty {
		t.Errorf("failed push should mark dirty")
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Errorf("second Flush() = %v, want nothing pending", err)
	}
}

type gatedPusher struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gatedPusher) Save(context.Context, entry.AppData) error {
	g.entered <- struct{}{}
	<-g.release
	return nil
}

func TestSyncerFlushWaitsForBackgroundPush(t *testing.T) {
	g := &gatedPusher{entered: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewSyncer(g, nil, time.Millisecond)

	s.Notify(snapshot("a"))
	select {
	case <-g.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("background push never started")
	}

	flushed := make(chan error, 1)
	go func() { flushed <- s.Flush(context.Background()) }()
	select {
	case <-flushed:
		t.Fatal("Flush() returned while a push was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(g.release)
	select {
	case err := <-flushed:
		if err != nil {
			t.Fatalf("Flush() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Flush() never returned")
	}
}

func TestSyncerNotifyDuringFlush(t *testing.T) {
	p := &fakePusher{}
	s := NewSyncer(p, nil, time.Microsecond)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.Notify(snapshot("n"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := s.Flush(context.Background()); err != nil {
				t.Errorf("Flush() error: %v", err)
			}
		}
	}()
	wg.Wait()

	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("final Flush() error: %v", err)
	}
	if p.count() == 0 {
		t.Fatal("nothing was pushed")
	}
}
