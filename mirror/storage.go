// Package mirror models the browser side of the session: a shared watchable
// key-value storage (the localStorage analogue) and per-tab mirrors that
// reconcile logout, tenant switches and support-mode toggles observed from
// other tabs. Watchers never see their own writes, matching the browser's
// storage-event semantics that the synchronizer relies on.
package mirror

import (
	"context"
	"sync"
)

// Storage keys, one per independently synchronized piece of client state.
// Removal of KeyAccessToken is the universal logged-out signal.
const (
	KeyAccessToken    = "auth_token"
	KeyRefreshToken   = "refresh_token"
	KeyTokenExpiry    = "token_expires_at"
	KeyUser           = "user"
	KeySupportContext = "support_context"
	KeyUserBackup     = "user_backup"
)

// Event is one observed storage mutation from another origin.
type Event struct {
	Origin string
	Key    string
	Old    string // previous value, "" when the key was absent
	New    string // new value, "" when the key was removed
}

type subscriber struct {
	origin string
	ch     chan Event
}

// Storage is the shared, eventually-consistent store all tabs read and
// write. Last writer wins; there is no replay for late subscribers.
type Storage struct {
	mu   sync.RWMutex
	data map[string]string
	subs map[int]subscriber
	next int
}

func NewStorage() *Storage {
	return &Storage{data: make(map[string]string), subs: make(map[int]subscriber)}
}

// Get returns the current value of a key.
func (s *Storage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Set writes a key and notifies every watcher except the originating one.
func (s *Storage) Set(origin, key, value string) {
	s.mu.Lock()
	old := s.data[key]
	s.data[key] = value
	s.notifyLocked(Event{Origin: origin, Key: key, Old: old, New: value})
	s.mu.Unlock()
}

// Remove deletes a key and notifies every watcher except the originating one.
func (s *Storage) Remove(origin, key string) {
	s.mu.Lock()
	old, ok := s.data[key]
	if ok {
		delete(s.data, key)
		s.notifyLocked(Event{Origin: origin, Key: key, Old: old, New: ""})
	}
	s.mu.Unlock()
}

// Watch registers an observer. The channel receives mutations made by other
// origins and is closed when ctx ends.
func (s *Storage) Watch(ctx context.Context, origin string) <-chan Event {
	ch := make(chan Event, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = subscriber{origin: origin, ch: ch}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

func (s *Storage) notifyLocked(evt Event) {
	for _, sub := range s.subs {
		if sub.origin == evt.Origin {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// Drop when the observer is slow to avoid blocking writers.
		}
	}
}
