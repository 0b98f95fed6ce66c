package store

import (
	"bytes"
	"testing"

	"NotionVoice/internal/entity"
	cryptoPkg "NotionVoice/pkg/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenStore(t *testing.T) ITokenStore {
	t.Helper()
	crypto, err := cryptoPkg.NewWithKey(bytes.Repeat([]byte{0x07}, 32))
	require.NoError(t, err)
	return NewTokenStore(crypto, newTestLogger())
}

func TestTokenStore_RoundTrip(t *testing.T) {
	s := newTestTokenStore(t)

	token := entity.NotionToken{
		AccessToken: "secret_abc123",
		WorkspaceID: "ws-1",
		BotID:       "bot-1",
	}
	require.NoError(t, s.Set("user-1", token))

	got, ok := s.Get("user-1")
	require.True(t, ok)
	assert.Equal(t, token, got)
	assert.True(t, s.Has("user-1"))
}

func TestTokenStore_MissingUser(t *testing.T) {
	s := newTestTokenStore(t)

	_, ok := s.Get("nobody")
	assert.False(t, ok)
	assert.False(t, s.Has("nobody"))
}

func TestTokenStore_Delete(t *testing.T) {
	s := newTestTokenStore(t)

	require.NoError(t, s.Set("user-1", entity.NotionToken{AccessToken: "secret"}))
	s.Delete("user-1")

	assert.False(t, s.Has("user-1"))
}
