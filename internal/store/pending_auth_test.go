package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingAuthStore_ConsumeOnce(t *testing.T) {
	s := NewPendingAuthStore()

	code, err := s.Create("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, code)

	userID, ok := s.Consume(code)
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)

	_, ok = s.Consume(code)
	assert.False(t, ok, "a code is consumable exactly once")
}

func TestPendingAuthStore_UnknownCode(t *testing.T) {
	s := NewPendingAuthStore()

	_, ok := s.Consume("no-such-code")
	assert.False(t, ok)
}

func TestPendingAuthStore_CodesAreUnique(t *testing.T) {
	s := NewPendingAuthStore()

	codeA, err := s.Create("user-1")
	require.NoError(t, err)
	codeB, err := s.Create("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, codeA, codeB)
}

func TestPendingAuthStore_Expiry(t *testing.T) {
	s := NewPendingAuthStore().(*pendingAuthStore)

	current := time.Now()
	s.now = func() time.Time { return current }

	code, err := s.Create("user-1")
	require.NoError(t, err)

	current = current.Add(pendingAuthTTL + time.Second)

	_, ok := s.Consume(code)
	assert.False(t, ok, "expired codes are inert even if never consumed")
}
