package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docufile/authkit/pkg/pg"
)

// PostgresRepository implements Repository over a pgx connection pool. The
// schema lives in migrations/ and is applied with pg.Migrate.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository over an existing pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const sessionColumns = `id, user_id, token, ip_address, user_agent, device_fingerprint,
	created_at, last_accessed_at, expires_at, is_active, is_suspicious, suspicious_reason`

func scanSession(row pgx.Row) (*Session, error) {
	var sess Session
	err := row.Scan(
		&sess.ID, &sess.UserID, &sess.Token,
		&sess.IPAddress, &sess.UserAgent, &sess.DeviceFingerprint,
		&sess.CreatedAt, &sess.LastAccessedAt, &sess.ExpiresAt,
		&sess.IsActive, &sess.IsSuspicious, &sess.SuspiciousReason,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}

// Create persists a new session row
func (r *PostgresRepository) Create(ctx context.Context, sess *Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		sess.ID, sess.UserID, sess.Token,
		sess.IPAddress, sess.UserAgent, sess.DeviceFingerprint,
		sess.CreatedAt, sess.LastAccessedAt, sess.ExpiresAt,
		sess.IsActive, sess.IsSuspicious, sess.SuspiciousReason,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDuplicateToken
		}
		return err
	}
	return nil
}

// FindByID returns the session with the given id
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

// FindByToken returns the session holding the given token
func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*Session, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE token = $1`, token)
	return scanSession(row)
}

// FindActiveByUserID returns all of a user's active sessions
func (r *PostgresRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE user_id = $1 AND is_active`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// FindByUserSince returns the user's sessions created at or after since,
// newest first
func (r *PostgresRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

func collectSessions(rows pgx.Rows) ([]*Session, error) {
	var out []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// ExtendExpiry moves the session's absolute expiry
func (r *PostgresRepository) ExtendExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	return r.exec(ctx, `UPDATE sessions SET expires_at = $2 WHERE id = $1`, id, expiresAt)
}

// RotateToken replaces the session's token and extends its expiry
func (r *PostgresRepository) RotateToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	return r.exec(ctx, `UPDATE sessions SET token = $2, expires_at = $3 WHERE id = $1`, id, token, expiresAt)
}

// UpdateLastAccessed records an access-time freshness marker
func (r *PostgresRepository) UpdateLastAccessed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.exec(ctx, `UPDATE sessions SET last_accessed_at = $2 WHERE id = $1`, id, at)
}

// MarkSuspicious sets the sticky suspicious flag with its reason
func (r *PostgresRepository) MarkSuspicious(ctx context.Context, id uuid.UUID, reason string) error {
	return r.exec(ctx, `UPDATE sessions SET is_suspicious = TRUE, suspicious_reason = $2 WHERE id = $1`, id, reason)
}

// Invalidate clears IsActive on a single session
func (r *PostgresRepository) Invalidate(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `UPDATE sessions SET is_active = FALSE WHERE id = $1`, id)
}

// InvalidateAllForUser clears IsActive on all of a user's sessions
func (r *PostgresRepository) InvalidateAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE sessions SET is_active = FALSE WHERE user_id = $1`, userID)
	return err
}

// DeleteExpired physically removes rows whose expiry has passed
func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// exec runs a single-row update and maps a zero-row result to not found.
func (r *PostgresRepository) exec(ctx context.Context, sql string, args ...any) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}
