package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// generateToken creates an unguessable opaque session token with 256 bits of
// entropy, encoded as URL-safe base64 without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
