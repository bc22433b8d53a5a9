package session

import "errors"

var (
	// ErrSessionCreationFailed indicates the session could not be persisted
	ErrSessionCreationFailed = errors.New("session.creation_failed")

	// ErrSessionNotFound indicates no session matched the given id or token
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired indicates the session's absolute expiry has passed
	ErrSessionExpired = errors.New("session.expired")

	// ErrSessionInvalid indicates the session is inactive or flagged suspicious
	ErrSessionInvalid = errors.New("session.invalid")

	// ErrSessionValidation indicates a storage failure during validation
	ErrSessionValidation = errors.New("session.validation_error")

	// ErrSessionRefresh indicates a storage failure during expiry extension
	ErrSessionRefresh = errors.New("session.refresh_error")

	// ErrSessionRotationFailed indicates token rotation could not be persisted
	ErrSessionRotationFailed = errors.New("session.rotation_failed")

	// ErrSessionInvalidation indicates a single-session invalidation failed
	ErrSessionInvalidation = errors.New("session.invalidation_error")

	// ErrUserSessionInvalidation indicates a bulk per-user invalidation failed
	ErrUserSessionInvalidation = errors.New("session.user_invalidation_error")

	// ErrSessionCleanup indicates the expired-session sweep failed
	ErrSessionCleanup = errors.New("session.cleanup_error")

	// ErrMarkSuspicious indicates the suspicious flag could not be persisted
	ErrMarkSuspicious = errors.New("session.mark_suspicious_error")

	// ErrRecentSessions indicates the detector's history lookup failed
	ErrRecentSessions = errors.New("session.recent_sessions_failed")

	// ErrTokenGeneration indicates the system entropy source failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrDuplicateToken indicates an insert collided with an existing token
	ErrDuplicateToken = errors.New("session.duplicate_token")

	// ErrNoRepository indicates the manager was built without a repository
	ErrNoRepository = errors.New("session.no_repository")
)
