package store

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"NotionVoice/internal/entity"
)

const pendingAuthTTL = 10 * time.Minute

type IPendingAuthStore interface {
	Create(userID string) (string, error)
	Consume(code string) (string, bool)
}

// pendingAuthStore maps one-time OAuth state codes to user ids. A code is
// consumable exactly once and expires after ten minutes.
type pendingAuthStore struct {
	mu      sync.Mutex
	pending map[string]entity.PendingAuth
	now     func() time.Time
}

func NewPendingAuthStore() IPendingAuthStore {
	return &pendingAuthStore{
		pending: make(map[string]entity.PendingAuth),
		now:     time.Now,
	}
}

func (s *pendingAuthStore) Create(userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()

	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	code := hex.EncodeToString(raw)

	s.pending[code] = entity.PendingAuth{
		UserID:    userID,
		ExpiresAt: s.now().Add(pendingAuthTTL),
	}
	return code, nil
}

// Consume removes the code regardless of outcome; an expired code yields
// no user id.
func (s *pendingAuthStore) Consume(code string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[code]
	if !ok {
		return "", false
	}
	delete(s.pending, code)

	if s.now().After(entry.ExpiresAt) {
		return "", false
	}
	return entry.UserID, true
}

func (s *pendingAuthStore) purgeLocked() {
	now := s.now()
	for code, entry := range s.pending {
		if now.After(entry.ExpiresAt) {
			delete(s.pending, code)
		}
	}
}
