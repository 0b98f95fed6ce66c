package crypto

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCrypto(t *testing.T) ICrypto {
	t.Helper()
	c, err := NewWithKey(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)
	return c
}

func TestCrypto_RoundTrip(t *testing.T) {
	c := newTestCrypto(t)

	encrypted, err := c.Encrypt("secret-notion-token")
	require.NoError(t, err)
	assert.Len(t, strings.Split(encrypted, ":"), 3)

	plaintext, err := c.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "secret-notion-token", plaintext)
}

func TestCrypto_NondeterministicIV(t *testing.T) {
	c := newTestCrypto(t)

	first, err := c.Encrypt("same plaintext")
	require.NoError(t, err)
	second, err := c.Encrypt("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	decryptedFirst, err := c.Decrypt(first)
	require.NoError(t, err)
	decryptedSecond, err := c.Decrypt(second)
	require.NoError(t, err)
	assert.Equal(t, decryptedFirst, decryptedSecond)
}

func TestCrypto_InvalidFormat(t *testing.T) {
	c := newTestCrypto(t)

	_, err := c.Decrypt("only-one-segment")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = c.Decrypt("aa:bb")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = c.Decrypt("zz:not:hex")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestCrypto_TamperedCiphertextFailsAuthentication(t *testing.T) {
	c := newTestCrypto(t)

	encrypted, err := c.Encrypt("secret-notion-token")
	require.NoError(t, err)

	// Flip the trailing ciphertext nibble.
	tampered := encrypted[:len(encrypted)-1]
	if strings.HasSuffix(encrypted, "0") {
		tampered += "1"
	} else {
		tampered += "0"
	}

	_, err = c.Decrypt(tampered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decryption failed")
}

func TestCrypto_KeyMustBe32Bytes(t *testing.T) {
	_, err := NewWithKey([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}
