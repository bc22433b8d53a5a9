package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines durable session persistence. It is the single authority
// for session state; the cache only accelerates reads.
//
// Updates are modeled as one method per field combination rather than an open
// partial-update record, so the set of legal mutations is closed and visible
// in the interface.
type Repository interface {
	// Create persists a new session row
	Create(ctx context.Context, sess *Session) error

	// FindByID returns the session with the given id, or ErrSessionNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// FindByToken returns the session holding the given token, or ErrSessionNotFound
	FindByToken(ctx context.Context, token string) (*Session, error)

	// FindActiveByUserID returns all of a user's sessions with IsActive set
	FindActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*Session, error)

	// FindByUserSince returns the user's sessions created at or after since,
	// newest first
	FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*Session, error)

	// ExtendExpiry moves the session's absolute expiry
	ExtendExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) error

	// RotateToken replaces the session's token and extends its expiry in one
	// update; the id never changes
	RotateToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error

	// UpdateLastAccessed records an access-time freshness marker
	UpdateLastAccessed(ctx context.Context, id uuid.UUID, at time.Time) error

	// MarkSuspicious sets the sticky suspicious flag with its reason
	MarkSuspicious(ctx context.Context, id uuid.UUID, reason string) error

	// Invalidate clears IsActive on a single session; the row is retained
	Invalidate(ctx context.Context, id uuid.UUID) error

	// InvalidateAllForUser clears IsActive on all of a user's sessions
	InvalidateAllForUser(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired physically removes rows whose expiry has passed and
	// returns how many were deleted
	DeleteExpired(ctx context.Context) (int64, error)
}
