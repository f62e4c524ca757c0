// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// sealedPrefix marks a value produced by Seal.
const sealedPrefix = "sealed:v1:"

// keySalt domain-separates the derived key from other uses of the secret.
var keySalt = []byte("go-repo-sync/credentials")

// aesSealer is the AES-256-GCM implementation of [CredentialSealer].
type aesSealer struct {
	aead cipher.AEAD
}

// plainSealer is used when no key is configured.
type plainSealer struct{}

// NewCredentialSealer derives a 256-bit key from secret with Argon2id and
// returns a sealer using it. An empty secret returns a sealer that stores
// values as given.
//
// Argon2id parameters follow OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
func NewCredentialSealer(secret string) (CredentialSealer, error) {
	if secret == "" {
		return plainSealer{}, nil
	}

	key := argon2.IDKey([]byte(secret), keySalt, 1, 64*1024, 4, 32)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return &aesSealer{aead: gcm}, nil
}

// Seal implements [CredentialSealer]. The stored form is
// sealedPrefix + base64(nonce ‖ ciphertext).
func (s *aesSealer) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	blob := s.aead.Seal(nonce, nonce, []byte(plain), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(blob), nil
}

// Open implements [CredentialSealer].
func (s *aesSealer) Open(stored string) (string, error) {
	encoded, ok := strings.CutPrefix(stored, sealedPrefix)
	if !ok {
		return stored, nil
	}

	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedSeal, err)
	}

	nonceSize := s.aead.NonceSize()
	if len(blob) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrMalformedSeal)
	}

	// an authentication failure almost always means a changed key
	plain, err := s.aead.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		return "", ErrWrongKey
	}
	return string(plain), nil
}

func (plainSealer) Seal(plain string) (string, error) { return plain, nil }

func (plainSealer) Open(stored string) (string, error) {
	if strings.HasPrefix(stored, sealedPrefix) {
		return "", ErrNoKey
	}
	return stored, nil
}
