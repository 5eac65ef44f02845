package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/journal/pkg/entry"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func TestPersistenceWatchEmitsDocumentChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	// Create the document directory up front so the watcher sees file writes.
	if err := p.Save(context.Background(), entry.Empty()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	data := entry.Empty()
	data.Entries = append(data.Entries, &entry.Entry{ID: "a", DateLabel: "2024-03-09"})
	if err := p.Save(context.Background(), data); err != nil {
		t.Fatalf("save: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				return
			}
			if evt.Type == EventDocumentChanged {
				switch evt.Key {
				case KeyEntries, KeyQuestions, KeySettings, KeyHabits, KeyTemplates:
					return
				}
				t.Fatalf("unexpected document key %q", evt.Key)
			}
		case <-deadline:
			t.Fatal("timed out waiting for document change event")
		}
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 8)
	send := func(ev Event) { got <- ev }
	th.Enqueue(Event{Type: EventDocumentChanged, Key: KeyEntries}, send)
	th.Enqueue(Event{Type: EventDocumentChanged, Key: KeyEntries}, send)

	select {
	case ev := <-got:
		if ev.Key != KeyEntries {
			t.Fatalf("expected entries event, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for flush")
	}
	select {
	case ev := <-got:
		t.Fatalf("expected one coalesced event, got extra %+v", ev)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestEventThrottleStopDropsPendingFlush(t *testing.T) {
	th := newEventThrottle(10 * time.Millisecond)

	events := make(chan Event, 8)
	th.Enqueue(Event{Type: EventDocumentChanged, Key: KeyEntries}, func(ev Event) { events <- ev })
	th.Stop()
	close(events)

	// A flush firing now would panic on the closed channel.
	time.Sleep(40 * time.Millisecond)
	if ev, ok := <-events; ok {
		t.Fatalf("expected no event after stop, got %+v", ev)
	}
	th.Enqueue(Event{Type: EventInvalidated}, func(Event) { t.Error("send after stop") })
	time.Sleep(30 * time.Millisecond)
}

func TestEventThrottleStopWaitsForRunningFlush(t *testing.T) {
	th := newEventThrottle(time.Millisecond)

	entered := make(chan struct{})
	release := make(chan struct{})
	events := make(chan Event, 8)
	th.Enqueue(Event{Type: EventDocumentChanged, Key: KeyEntries}, func(ev Event) {
		close(entered)
		<-release
		events <- ev
	})

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for flush to start")
	}

	stopped := make(chan struct{})
	go func() {
		th.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
		t.Fatal("stop returned while a flush was still sending")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop never returned")
	}
	close(events)
	if ev := <-events; ev.Key != KeyEntries {
		t.Fatalf("expected the in-flight event, got %+v", ev)
	}
}

func TestPersistenceWatchCancelDuringBurst(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	if err := p.Save(context.Background(), entry.Empty()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := p.Watch(ctx)
		if err != nil {
			t.Fatalf("watch: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
		if err := p.Save(context.Background(), entry.Empty()); err != nil {
			t.Fatalf("save: %v", err)
		}
		// Cancel while the throttle still holds the burst.
		time.Sleep(time.Duration(80+i*10) * time.Millisecond)
		cancel()
		for range ch {
		}
	}
}

func TestKeyForPath(t *testing.T) {
	d := &diskvDocuments{basePath: "/base"}
	if got := d.keyForPath("/base/journal/entries"); got != KeyEntries {
		t.Fatalf("expected entries, got %q", got)
	}
	if got := d.keyForPath("/base/other/entries"); got != "" {
		t.Fatalf("expected no key, got %q", got)
	}
	if !isTemp("/base", "/base/.tmp/123") {
		t.Fatalf("expected temp path")
	}
}
