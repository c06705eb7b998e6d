// Package metadata stamps emitted payloads with an identity and a content hash.
package metadata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Metadata describes one emitted payload.
type Metadata struct {
	EmittedAt time.Time `json:"emitted_at"`
	Hash      string    `json:"hash"`
	ID        uuid.UUID `json:"id"`
}

// New creates metadata for content with a fresh id and the current UTC time.
func New(content []byte) *Metadata {
	return &Metadata{
		ID:        uuid.New(),
		Hash:      CalculateHash(content),
		EmittedAt: time.Now().UTC(),
	}
}

// CalculateHash computes the SHA-256 hash of content.
func CalculateHash(content []byte) string {
	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:])
}

// Sign returns the hex HMAC-SHA256 of content keyed by secret.
func Sign(content []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(content)

	return hex.EncodeToString(mac.Sum(nil))
}
