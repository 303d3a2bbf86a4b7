package conversation

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Run the janitor with
// StartJanitor to reclaim expired entries nobody reads again.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[int64]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[int64]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, chatID int64) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[chatID]
	if !ok {
		return Session{}, ErrNoSession
	}

	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, chatID)
		return Session{}, ErrNoSession
	}

	return entry.session, nil
}

func (s *MemoryStore) Put(_ context.Context, chatID int64, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[chatID] = memoryEntry{
		session:   session,
		expiresAt: s.now().Add(s.ttl),
	}

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, chatID)

	return nil
}

// Sweep removes expired entries and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for chatID, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, chatID)
			removed++
		}
	}

	return removed
}

// StartJanitor sweeps every interval until ctx is done.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}
