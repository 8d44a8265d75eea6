package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type record struct {
	payload   Payload
	expiresAt time.Time
}

// MemoryStore keeps sessions in a process-wide map. Entries expire after a
// fixed TTL and are swept by a janitor goroutine; everything is lost on
// restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]record
	ttl     time.Duration
	closed  bool
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryStore{
		records: make(map[string]record),
		ttl:     ttl,
	}
}

func (s *MemoryStore) Create(_ context.Context, payload Payload) (string, error) {
	id := uuid.NewString()

	copied := make(Payload, len(payload))
	for k, v := range payload {
		copied[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrStoreClosed
	}
	s.records[id] = record{payload: copied, expiresAt: time.Now().Add(s.ttl)}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Payload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok || time.Now().After(rec.expiresAt) {
		return nil, ErrNotFound
	}

	copied := make(Payload, len(rec.payload))
	for k, v := range rec.payload {
		copied[k] = v
	}
	return copied, nil
}

// Close marks the store closed and drops its records. The map stays
// allocated so a late Get cannot hit a nil map.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = make(map[string]record)
	return nil
}

// StartJanitor sweeps expired records until the context is cancelled.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.removeExpired(time.Now())
			}
		}
	}()
}

func (s *MemoryStore) removeExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if now.After(rec.expiresAt) {
			delete(s.records, id)
		}
	}
}

func (s *MemoryStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
