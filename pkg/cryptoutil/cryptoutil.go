// Package cryptoutil provides the small cryptographic surface the core
// needs: secure random generation and content digests.
package cryptoutil

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// RandomBytes returns n cryptographically secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("byte count must not be negative: %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("could not generate random bytes: %w", err)
	}
	return buf, nil
}

// RandomString returns a URL-safe base64 string built from n random bytes,
// suitable for nonces, states, and similar one-shot identifiers.
func RandomString(n int) (string, error) {
	buf, err := RandomBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// SHA256Hex returns the SHA-256 digest of data as lowercase hex.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
