package session

import (
	"time"

	"github.com/google/uuid"
)

// Metadata carries optional client provenance captured when a session is
// created. It is informational only: the suspicious-activity detector reads
// it, nothing else depends on it.
type Metadata struct {
	IPAddress         string
	UserAgent         string
	DeviceFingerprint string
}

// Session is a single authenticated session. ID is assigned at creation and
// never changes; Token is the opaque bearer secret the client presents and is
// replaced on rotation. Token must never appear in logs.
type Session struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Token             string    `json:"token"`
	IPAddress         string    `json:"ip_address,omitempty"`
	UserAgent         string    `json:"user_agent,omitempty"`
	DeviceFingerprint string    `json:"device_fingerprint,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	LastAccessedAt    time.Time `json:"last_accessed_at"`
	ExpiresAt         time.Time `json:"expires_at"`
	IsActive          bool      `json:"is_active"`
	IsSuspicious      bool      `json:"is_suspicious"`
	SuspiciousReason  string    `json:"suspicious_reason,omitempty"`
}

// IsExpired reports whether the session's absolute expiry has passed.
func (s *Session) IsExpired() bool {
	return s != nil && !time.Now().Before(s.ExpiresAt)
}

// IsValid reports whether the session may be used. This predicate is the
// single source of truth for usability and is re-derived on every check,
// never stored precomputed.
func (s *Session) IsValid() bool {
	return s != nil && s.IsActive && !s.IsSuspicious && time.Now().Before(s.ExpiresAt)
}

// ExpiresWithin reports whether the session expires within d from now.
func (s *Session) ExpiresWithin(d time.Duration) bool {
	return s != nil && time.Until(s.ExpiresAt) <= d
}
