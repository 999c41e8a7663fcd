package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// TokenCipher seals OAuth tokens at rest with XChaCha20-Poly1305.
// The output layout is nonce || ciphertext.
type TokenCipher struct {
	key [chacha20poly1305.KeySize]byte
}

// NewTokenCipher derives a 32-byte key from passphrase using SHA-256.
func NewTokenCipher(passphrase string) (*TokenCipher, error) {
	if passphrase == "" {
		return nil, errors.New("token cipher: empty passphrase")
	}
	return &TokenCipher{key: sha256.Sum256([]byte(passphrase))}, nil
}

func (c *TokenCipher) Encrypt(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return nil, fmt.Errorf("token cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("token cipher: failed to generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *TokenCipher) Decrypt(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return nil, fmt.Errorf("token cipher: %w", err)
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, errors.New("token cipher: ciphertext too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("token cipher: failed to decrypt: %w", err)
	}
	return plaintext, nil
}
