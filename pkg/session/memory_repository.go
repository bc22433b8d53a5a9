package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository implements Repository with mutex-guarded maps. It backs
// tests and single-process deployments; production runs on PostgresRepository.
type MemoryRepository struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*Session
	tokenIdx map[string]uuid.UUID
}

// NewMemoryRepository creates an empty in-memory session repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:     make(map[uuid.UUID]*Session),
		tokenIdx: make(map[string]uuid.UUID),
	}
}

// Create stores a new session row
func (r *MemoryRepository) Create(ctx context.Context, sess *Session) error {
	if sess == nil || sess.Token == "" {
		return ErrSessionInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *sess
	r.byID[cp.ID] = &cp
	r.tokenIdx[cp.Token] = cp.ID
	return nil
}

// FindByID returns a copy of the session with the given id
func (r *MemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.byID[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

// FindByToken returns a copy of the session holding the given token
func (r *MemoryRepository) FindByToken(ctx context.Context, token string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.tokenIdx[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess, ok := r.byID[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

// FindActiveByUserID returns copies of the user's active sessions
func (r *MemoryRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Session
	for _, sess := range r.byID {
		if sess.UserID == userID && sess.IsActive {
			cp := *sess
			out = append(out, &cp)
		}
	}
	return out, nil
}

// FindByUserSince returns the user's sessions created at or after since,
// newest first
func (r *MemoryRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Session
	for _, sess := range r.byID {
		if sess.UserID == userID && !sess.CreatedAt.Before(since) {
			cp := *sess
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ExtendExpiry moves a session's absolute expiry
func (r *MemoryRepository) ExtendExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.byID[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.ExpiresAt = expiresAt
	return nil
}

// RotateToken replaces a session's token and extends its expiry
func (r *MemoryRepository) RotateToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.byID[id]
	if !ok {
		return ErrSessionNotFound
	}
	delete(r.tokenIdx, sess.Token)
	sess.Token = token
	sess.ExpiresAt = expiresAt
	r.tokenIdx[token] = id
	return nil
}

// UpdateLastAccessed records the access-time freshness marker
func (r *MemoryRepository) UpdateLastAccessed(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.byID[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.LastAccessedAt = at
	return nil
}

// MarkSuspicious sets the sticky suspicious flag
func (r *MemoryRepository) MarkSuspicious(ctx context.Context, id uuid.UUID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.byID[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.IsSuspicious = true
	sess.SuspiciousReason = reason
	return nil
}

// Invalidate clears IsActive on a single session
func (r *MemoryRepository) Invalidate(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.byID[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.IsActive = false
	return nil
}

// InvalidateAllForUser clears IsActive on all of a user's sessions
func (r *MemoryRepository) InvalidateAllForUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sess := range r.byID {
		if sess.UserID == userID {
			sess.IsActive = false
		}
	}
	return nil
}

// DeleteExpired removes rows whose expiry has passed
func (r *MemoryRepository) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var n int64
	for id, sess := range r.byID {
		if now.After(sess.ExpiresAt) {
			delete(r.tokenIdx, sess.Token)
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}
