package store

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"NotionVoice/internal/entity"
	cryptoPkg "NotionVoice/pkg/crypto"
)

type ITokenStore interface {
	Set(userID string, token entity.NotionToken) error
	Get(userID string) (entity.NotionToken, bool)
	Has(userID string) bool
	Delete(userID string)
}

// tokenStore keeps per-user Notion credentials encrypted at rest in memory.
// Tokens do not survive a restart; users re-link after one.
type tokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
	crypto cryptoPkg.ICrypto
	log    *logrus.Logger
}

func NewTokenStore(crypto cryptoPkg.ICrypto, log *logrus.Logger) ITokenStore {
	return &tokenStore{
		tokens: make(map[string]string),
		crypto: crypto,
		log:    log,
	}
}

func (s *tokenStore) Set(userID string, token entity.NotionToken) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return err
	}

	encrypted, err := s.crypto.Encrypt(string(raw))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tokens[userID] = encrypted
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"user_id":      userID,
		"workspace_id": token.WorkspaceID,
	}).Info("Notion token stored")
	return nil
}

func (s *tokenStore) Get(userID string) (entity.NotionToken, bool) {
	s.mu.Lock()
	encrypted, ok := s.tokens[userID]
	s.mu.Unlock()
	if !ok {
		return entity.NotionToken{}, false
	}

	decrypted, err := s.crypto.Decrypt(encrypted)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to decrypt Notion token")
		return entity.NotionToken{}, false
	}

	var token entity.NotionToken
	if err := json.Unmarshal([]byte(decrypted), &token); err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to unmarshal Notion token")
		return entity.NotionToken{}, false
	}
	return token, true
}

func (s *tokenStore) Has(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[userID]
	return ok
}

func (s *tokenStore) Delete(userID string) {
	s.mu.Lock()
	delete(s.tokens, userID)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
	}).Info("Notion token deleted")
}
