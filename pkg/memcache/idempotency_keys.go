// pkg/memcache/idempotency_keys.go
package mem

import (
	"sync"
	"time"
)

// IdempotencyStore remembers which tour a client-supplied Idempotency-Key
// produced, so a retried POST /tours returns the first booking.
type IdempotencyStore interface {
	Set(key string, tourID string, ttl time.Duration)

	// Peek returns the tour id for key if present and not expired.
	Peek(key string) (string, bool)
}

type entry struct {
	tourID    string
	expiresAt time.Time
}

type IdempotencyKeys struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewIdempotencyKeys() *IdempotencyKeys {
	return &IdempotencyKeys{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *IdempotencyKeys) Set(key string, tourID string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.data[key] = entry{
		tourID:    tourID,
		expiresAt: s.now().Add(ttl),
	}
}

func (s *IdempotencyKeys) Peek(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || s.now().After(e.expiresAt) {
		return "", false
	}
	return e.tourID, true
}

// sweepLocked drops expired entries; caller holds mu.
func (s *IdempotencyKeys) sweepLocked() {
	now := s.now()
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
}
