package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/docufile/authkit/pkg/clientip"
	"github.com/docufile/authkit/pkg/fingerprint"
)

// HeaderName is the fallback header checked when no bearer token is present.
const HeaderName = "X-Session-Token"

// TokenFromRequest extracts the bearer session token from a request. It
// checks the Authorization header first, then the X-Session-Token header.
func TokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(HeaderName))
}

// MetadataFromRequest builds session provenance metadata from a request. It
// is intended for login handlers calling Create.
func MetadataFromRequest(r *http.Request) Metadata {
	return Metadata{
		IPAddress:         clientip.GetIP(r),
		UserAgent:         r.UserAgent(),
		DeviceFingerprint: fingerprint.Generate(r),
	}
}

// Middleware validates the request's session token and, when valid, injects
// the session into the request context. Requests without a valid session
// pass through unauthenticated; use RequireSession to reject them.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.ValidateToken(r.Context(), TokenFromRequest(r))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// RequireSession rejects requests that do not carry a valid session token.
// Missing, expired, invalidated and suspicious sessions all map to 401;
// storage failures map to a generic 500 with no internal detail leaked.
func (m *Manager) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.ValidateToken(r.Context(), TokenFromRequest(r))
		if err != nil {
			switch {
			case errors.Is(err, ErrSessionNotFound),
				errors.Is(err, ErrSessionExpired),
				errors.Is(err, ErrSessionInvalid):
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
			default:
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}
