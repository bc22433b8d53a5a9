package session

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manager orchestrates the session lifecycle against a Repository and a
// best-effort Cache. It holds no session state of its own, so any number of
// Managers may run concurrently across processes over the same stores.
//
// The repository is always authoritative. Cache entries are keyed by token
// with a TTL far shorter than the session lifetime, bounding how stale a
// cached read can be; every cache failure is logged and swallowed.
type Manager struct {
	repo     Repository
	cache    Cache
	detector *Detector
	config   Config
	log      *slog.Logger
}

// New creates a session manager. A repository is required; everything else
// has working defaults.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.repo == nil {
		// Fail fast on misconfiguration: without durable storage every
		// operation would be a silent no-op
		panic(ErrNoRepository)
	}
	if m.cache == nil {
		m.cache = NopCache{}
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.detector == nil {
		m.detector = NewDetector(m.config)
	}

	return m
}

// Create issues a new session for an already-authenticated user. If the user
// is at the session ceiling, the oldest sessions by last access are
// invalidated first, exactly enough to make room. The new session is screened
// by the suspicious-activity detector before it is returned; a flagged
// session is still handed back to the caller and only rejected on its first
// re-validation.
//
// The ceiling check and the create are not atomic: concurrent logins for the
// same user can transiently exceed the ceiling. This is accepted.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID, meta Metadata) (*Session, error) {
	active, err := m.repo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Join(ErrSessionCreationFailed, err)
	}

	if excess := len(active) - m.config.MaxSessionsPerUser + 1; excess > 0 {
		if err := m.evictOldest(ctx, active, excess); err != nil {
			return nil, errors.Join(ErrSessionCreationFailed, err)
		}
	}

	token, err := generateToken()
	if err != nil {
		return nil, errors.Join(ErrSessionCreationFailed, err)
	}

	now := time.Now()
	sess := &Session{
		ID:                uuid.New(),
		UserID:            userID,
		Token:             token,
		IPAddress:         meta.IPAddress,
		UserAgent:         meta.UserAgent,
		DeviceFingerprint: meta.DeviceFingerprint,
		CreatedAt:         now,
		LastAccessedAt:    now,
		ExpiresAt:         now.Add(m.config.SessionDuration),
		IsActive:          true,
	}

	if err := m.repo.Create(ctx, sess); err != nil {
		return nil, errors.Join(ErrSessionCreationFailed, err)
	}

	m.cacheSet(ctx, sess)
	m.screen(ctx, sess)

	return sess, nil
}

// evictOldest invalidates the n least-recently-accessed sessions.
func (m *Manager) evictOldest(ctx context.Context, active []*Session, n int) error {
	sort.Slice(active, func(i, j int) bool {
		return active[i].LastAccessedAt.Before(active[j].LastAccessedAt)
	})
	if n > len(active) {
		n = len(active)
	}

	for _, victim := range active[:n] {
		if err := m.repo.Invalidate(ctx, victim.ID); err != nil {
			return err
		}
		m.cacheDelete(ctx, victim.Token)
		m.log.InfoContext(ctx, "session evicted at ceiling",
			slog.String("session_id", victim.ID.String()),
			slog.String("user_id", victim.UserID.String()))
	}
	return nil
}

// screen runs the detector over the user's recent session history. Failures
// here degrade detection, never creation.
func (m *Manager) screen(ctx context.Context, sess *Session) {
	since := sess.CreatedAt.Add(-m.config.RecentWindow)
	history, err := m.repo.FindByUserSince(ctx, sess.UserID, since)
	if err != nil {
		m.log.WarnContext(ctx, "suspicious-activity screening skipped",
			slog.String("session_id", sess.ID.String()),
			slog.Any("error", errors.Join(ErrRecentSessions, err)))
		return
	}

	recent := make([]*Session, 0, maxRecentHistory)
	for _, s := range history {
		if s.ID == sess.ID {
			continue
		}
		recent = append(recent, s)
		if len(recent) == maxRecentHistory {
			break
		}
	}

	reasons := m.detector.Evaluate(sess, recent)
	if len(reasons) == 0 {
		return
	}

	reason := strings.Join(reasons, "; ")
	if err := m.repo.MarkSuspicious(ctx, sess.ID, reason); err != nil {
		m.log.ErrorContext(ctx, "failed to persist suspicious flag",
			slog.String("session_id", sess.ID.String()),
			slog.Any("error", errors.Join(ErrMarkSuspicious, err)))
		return
	}

	sess.IsSuspicious = true
	sess.SuspiciousReason = reason
	// Drop the cache entry so the next token validation re-derives the
	// verdict from the repository
	m.cacheDelete(ctx, sess.Token)

	m.log.WarnContext(ctx, "session flagged as suspicious",
		slog.String("session_id", sess.ID.String()),
		slog.String("user_id", sess.UserID.String()),
		slog.String("reason", reason))
}

// Validate looks a session up by id and applies the validity predicate. It is
// the choke point every protected route depends on: all failure modes come
// back as typed errors, never panics. The lookup always goes to the
// repository; the token-keyed cache cannot serve an id-only call.
func (m *Manager) Validate(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess, err := m.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrSessionValidation, err)
	}
	return m.admit(ctx, sess)
}

// ValidateToken is the hot path used by the auth middleware: a token-keyed
// cache read first, falling back to the repository on any miss or cache
// failure. The TTL on cache entries bounds how long a stale verdict can live.
func (m *Manager) ValidateToken(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	if sess, ok := m.cacheGet(ctx, token); ok {
		if sess.IsExpired() {
			return nil, ErrSessionExpired
		}
		if !sess.IsActive || sess.IsSuspicious {
			return nil, ErrSessionInvalid
		}
		// Rewrite the entry after a successful touch, otherwise every
		// subsequent hit would see the stale marker and write again
		if m.touch(ctx, sess) {
			m.cacheSet(ctx, sess)
		}
		return sess, nil
	}

	sess, err := m.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrSessionValidation, err)
	}
	return m.admit(ctx, sess)
}

// admit applies the validity predicate to a repository-loaded session, then
// performs the throttled access-time update and cache refill.
func (m *Manager) admit(ctx context.Context, sess *Session) (*Session, error) {
	if sess.IsExpired() {
		return nil, ErrSessionExpired
	}
	if !sess.IsActive || sess.IsSuspicious {
		return nil, ErrSessionInvalid
	}

	m.touch(ctx, sess)
	m.cacheSet(ctx, sess)
	return sess, nil
}

// touch updates LastAccessedAt at most once per TouchInterval and reports
// whether the marker moved. The marker feeds ceiling-eviction ordering and
// observability; a failed update is a warning, not a validation failure.
func (m *Manager) touch(ctx context.Context, sess *Session) bool {
	now := time.Now()
	if now.Sub(sess.LastAccessedAt) < m.config.TouchInterval {
		return false
	}
	if err := m.repo.UpdateLastAccessed(ctx, sess.ID, now); err != nil {
		m.log.WarnContext(ctx, "last-access update failed",
			slog.String("session_id", sess.ID.String()),
			slog.Any("error", err))
		return false
	}
	sess.LastAccessedAt = now
	return true
}

// Refresh extends a session that is close to expiring. Outside the refresh
// threshold it returns the session unchanged, so repeated calls are
// idempotent; inside it, the expiry moves to a full SessionDuration from now.
func (m *Manager) Refresh(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess, err := m.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrSessionRefresh, err)
	}
	if sess.IsExpired() {
		return nil, ErrSessionExpired
	}
	if !sess.IsActive {
		return nil, ErrSessionInvalid
	}

	if !sess.ExpiresWithin(m.config.RefreshThreshold) {
		return sess, nil
	}

	expiresAt := time.Now().Add(m.config.SessionDuration)
	if err := m.repo.ExtendExpiry(ctx, sess.ID, expiresAt); err != nil {
		return nil, errors.Join(ErrSessionRefresh, err)
	}
	sess.ExpiresAt = expiresAt
	m.cacheSet(ctx, sess)

	return sess, nil
}

// Rotate replaces the session's token after a privilege-relevant event,
// keeping the id stable and extending the expiry. The old token's cache
// entry is removed so it cannot pass another token validation; the
// suspicious flag, if set, survives rotation.
func (m *Manager) Rotate(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess, err := m.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrSessionRotationFailed, err)
	}
	if sess.IsExpired() {
		return nil, ErrSessionExpired
	}
	if !sess.IsActive {
		return nil, ErrSessionInvalid
	}

	token, err := generateToken()
	if err != nil {
		return nil, errors.Join(ErrSessionRotationFailed, err)
	}

	expiresAt := time.Now().Add(m.config.SessionDuration)
	if err := m.repo.RotateToken(ctx, sess.ID, token, expiresAt); err != nil {
		return nil, errors.Join(ErrSessionRotationFailed, err)
	}

	m.cacheDelete(ctx, sess.Token)
	sess.Token = token
	sess.ExpiresAt = expiresAt
	m.cacheSet(ctx, sess)

	return sess, nil
}

// Invalidate administratively ends a single session. The row is retained
// with IsActive cleared; only the cleanup sweep removes it. Not reversible:
// regaining access requires a fresh Create.
func (m *Manager) Invalidate(ctx context.Context, id uuid.UUID) error {
	sess, err := m.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return errors.Join(ErrSessionInvalidation, err)
	}

	if err := m.repo.Invalidate(ctx, sess.ID); err != nil {
		return errors.Join(ErrSessionInvalidation, err)
	}
	m.cacheDelete(ctx, sess.Token)
	return nil
}

// InvalidateAllForUser ends every active session a user owns, e.g. on
// password change or account compromise.
func (m *Manager) InvalidateAllForUser(ctx context.Context, userID uuid.UUID) error {
	active, err := m.repo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return errors.Join(ErrUserSessionInvalidation, err)
	}

	if err := m.repo.InvalidateAllForUser(ctx, userID); err != nil {
		return errors.Join(ErrUserSessionInvalidation, err)
	}

	for _, sess := range active {
		m.cacheDelete(ctx, sess.Token)
	}
	return nil
}

// CleanupExpired batch-deletes rows whose expiry has passed and returns the
// number removed. Delete-only, so it is safe to run on a schedule while live
// traffic validates sessions.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := m.repo.DeleteExpired(ctx)
	if err != nil {
		return 0, errors.Join(ErrSessionCleanup, err)
	}
	if n > 0 {
		m.log.InfoContext(ctx, "expired sessions removed", slog.Int64("count", n))
	}
	return n, nil
}

// MarkSuspicious is the escape hatch for fraud and risk tooling outside this
// package. The flag is sticky: nothing short of invalidation clears it. The
// cache entry is purged so the next validation re-derives the verdict from
// the repository.
func (m *Manager) MarkSuspicious(ctx context.Context, id uuid.UUID, reason string) error {
	sess, err := m.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return errors.Join(ErrMarkSuspicious, err)
	}

	if err := m.repo.MarkSuspicious(ctx, sess.ID, reason); err != nil {
		return errors.Join(ErrMarkSuspicious, err)
	}
	m.cacheDelete(ctx, sess.Token)

	m.log.WarnContext(ctx, "session reported as suspicious",
		slog.String("session_id", sess.ID.String()),
		slog.String("user_id", sess.UserID.String()),
		slog.String("reason", reason))
	return nil
}

// cacheGet reads through the cache, treating errors as misses.
func (m *Manager) cacheGet(ctx context.Context, token string) (*Session, bool) {
	sess, ok, err := m.cache.Get(ctx, cacheKey(token))
	if err != nil {
		m.log.WarnContext(ctx, "session cache read failed", slog.Any("error", err))
		return nil, false
	}
	return sess, ok
}

// cacheSet writes through the cache; failures are logged and swallowed.
func (m *Manager) cacheSet(ctx context.Context, sess *Session) {
	if err := m.cache.Set(ctx, cacheKey(sess.Token), sess, m.config.CacheTTL); err != nil {
		m.log.WarnContext(ctx, "session cache write failed",
			slog.String("session_id", sess.ID.String()),
			slog.Any("error", err))
	}
}

// cacheDelete purges a token's cache entry; failures are logged and swallowed.
func (m *Manager) cacheDelete(ctx context.Context, token string) {
	if err := m.cache.Delete(ctx, cacheKey(token)); err != nil {
		m.log.WarnContext(ctx, "session cache delete failed", slog.Any("error", err))
	}
}
