package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/docufile/authkit/pkg/clientip"
)

// Generate derives a device fingerprint from stable request characteristics:
// user agent, accept headers and client IP. The result is a 32-character hex
// string; identical clients produce identical fingerprints.
func Generate(r *http.Request) string {
	components := []string{
		r.UserAgent(),
		r.Header.Get("Accept-Language"),
		r.Header.Get("Accept-Encoding"),
		r.Header.Get("Accept"),
		clientip.GetIP(r),
	}

	var parts []string
	for _, c := range components {
		if c != "" {
			parts = append(parts, c)
		}
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:16])
}

// Matches compares the current request's fingerprint with a stored one.
func Matches(r *http.Request, stored string) bool {
	return stored != "" && Generate(r) == stored
}
