package remote

import (
	"context"
	"log"
	"sync"
	"time"

	"tableflip.dev/journal/pkg/entry"
)

// Pusher saves a whole journal somewhere. *Client is a Pusher.
type Pusher interface {
	Save(ctx context.Context, data entry.AppData) error
}

// DirtyMarker records whether local changes still need a push.
type DirtyMarker interface {
	SetDirty(ctx context.Context, dirty bool) error
}

// DefaultDebounce is used when NewSyncer is given a non-positive delay.
const DefaultDebounce = 2 * time.Second

const pushTimeout = 30 * time.Second

// Syncer pushes the latest journal snapshot after a quiet period. Pushes
// are fire-and-forget: failures are logged and mark the journal dirty.
type Syncer struct {
	pusher Pusher
	dirty  DirtyMarker
	delay  time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *entry.AppData
	// inflight counts background pushes; idle is signalled when it hits zero.
	inflight int
	idle     *sync.Cond
}

// NewSyncer returns a Syncer. dirty may be nil.
func NewSyncer(p Pusher, dirty DirtyMarker, delay time.Duration) *Syncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	s := &Syncer{pusher: p, dirty: dirty, delay: delay}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Notify schedules data to be pushed, replacing any snapshot still waiting.
func (s *Syncer) Notify(data entry.AppData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = &data
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

func (s *Syncer) fire() {
	s.mu.Lock()
	data := s.pending
	s.pending = nil
	s.timer = nil
	if data != nil {
		s.inflight++
	}
	s.mu.Unlock()
	if data == nil {
		return
	}
	defer s.done()

	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	_ = s.push(ctx, *data)
}

func (s *Syncer) done() {
	s.mu.Lock()
	s.inflight--
	if s.inflight == 0 {
		s.idle.Broadcast()
	}
	s.mu.Unlock()
}

func (s *Syncer) take() *entry.AppData {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	data := s.pending
	s.pending = nil
	return data
}

// Flush pushes any waiting snapshot now and waits for background pushes
// to finish. It returns the error of the flushed push.
func (s *Syncer) Flush(ctx context.Context) error {
	var err error
	if data := s.take(); data != nil {
		err = s.push(ctx, *data)
	}
	s.mu.Lock()
	for s.inflight > 0 {
		s.idle.Wait()
	}
	s.mu.Unlock()
	return err
}

// Push saves data immediately, bypassing the debounce.
func (s *Syncer) Push(ctx context.Context, data entry.AppData) error {
	return s.push(ctx, data)
}

func (s *Syncer) push(ctx context.Context, data entry.AppData) error {
	err := s.pusher.Save(ctx, data)
	if err != nil {
		log.Printf("journal: sync failed: %v", err)
	}
	if s.dirty != nil {
		if derr := s.dirty.SetDirty(ctx, err != nil); derr != nil {
			log.Printf("journal: record sync state: %v", derr)
		}
	}
	return err
}
