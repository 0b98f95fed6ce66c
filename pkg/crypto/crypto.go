package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
)

const ivLength = 16

var (
	ErrInvalidFormat = errors.New("invalid encrypted data format")
	ErrInvalidKey    = errors.New("encryption key must be 32 bytes, base64 encoded")
)

type ICrypto interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encrypted string) (string, error)
}

type aesCrypto struct {
	key []byte
}

func New() (ICrypto, error) {
	raw := os.Getenv("ENCRYPTION_KEY")
	if raw == "" {
		return nil, ErrInvalidKey
	}

	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidKey
	}

	return NewWithKey(key)
}

func NewWithKey(key []byte) (ICrypto, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}
	return &aesCrypto{key: key}, nil
}

// Encrypt seals the plaintext with AES-256-GCM under a random IV and returns
// iv:authTag:ciphertext, each part hex encoded. Encrypting the same plaintext
// twice yields different outputs.
func (c *aesCrypto) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, ivLength)
	if err != nil {
		return "", err
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)

	// Seal appends the auth tag to the ciphertext.
	tagStart := len(sealed) - gcm.Overhead()
	ciphertext := sealed[:tagStart]
	authTag := sealed[tagStart:]

	return fmt.Sprintf("%s:%s:%s",
		hex.EncodeToString(iv),
		hex.EncodeToString(authTag),
		hex.EncodeToString(ciphertext),
	), nil
}

func (c *aesCrypto) Decrypt(encrypted string) (string, error) {
	parts := strings.Split(encrypted, ":")
	if len(parts) != 3 {
		return "", ErrInvalidFormat
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != ivLength {
		return "", ErrInvalidFormat
	}
	authTag, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", ErrInvalidFormat
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", ErrInvalidFormat
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, ivLength)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, iv, append(ciphertext, authTag...), nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}

	return string(plaintext), nil
}
