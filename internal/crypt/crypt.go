// Package crypt seals refined artifacts for storage at rest.
//
// A sealed blob is "RFN1" followed by a 24-byte nonce and the
// XChaCha20-Poly1305 ciphertext of the zstd-compressed plaintext. The AEAD
// key is derived from the configured secret with HKDF-SHA256, so the same
// secret always opens what it sealed.
package crypt

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	magic = "RFN1"

	hkdfSalt = "refiner-artifact-encryption"
	hkdfInfo = "refined-database"
)

var (
	// ErrEmptyKey is returned when a Sealer is created without a secret.
	ErrEmptyKey = errors.New("crypt: encryption key is empty")

	// ErrNotSealed is returned by Open for data that was not produced by Seal.
	ErrNotSealed = errors.New("crypt: data is not a sealed artifact")

	// ErrDecrypt is returned when authentication fails, usually because the
	// key is wrong or the blob was modified.
	ErrDecrypt = errors.New("crypt: decryption failed")
)

// Sealer encrypts and decrypts artifacts with one derived key.
// Safe for concurrent use.
type Sealer struct {
	aead    cipher.AEAD
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewSealer derives the artifact key from secret.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, ErrEmptyKey
	}

	key := make([]byte, chacha20poly1305.KeySize)
	r := hkdf.New(sha256.New, []byte(secret), []byte(hkdfSalt), []byte(hkdfInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("crypt: HKDF derivation failed: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("crypt: %w", err)
	}

	// EncodeAll and DecodeAll are safe for concurrent use.
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("crypt: failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("crypt: failed to create zstd decoder: %w", err)
	}

	return &Sealer{aead: aead, encoder: encoder, decoder: decoder}, nil
}

// Seal compresses and encrypts plain.
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	compressed := s.encoder.EncodeAll(plain, nil)

	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(compressed)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("crypt: failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(magic)+cap(nonce))
	out = append(out, magic...)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, compressed, []byte(magic)), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, ErrNotSealed
	}

	body := sealed[len(magic):]
	nonceSize := s.aead.NonceSize()
	if len(body) < nonceSize+s.aead.Overhead() {
		return nil, ErrNotSealed
	}

	compressed, err := s.aead.Open(nil, body[:nonceSize], body[nonceSize:], []byte(magic))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}

	plain, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("crypt: failed to decompress: %w", err)
	}
	return plain, nil
}

// Close releases the compression resources.
func (s *Sealer) Close() {
	_ = s.encoder.Close()
	s.decoder.Close()
}

// IsSealed reports whether data starts with the sealed artifact header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(magic))
}
