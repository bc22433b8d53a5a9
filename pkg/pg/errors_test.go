package pg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/docufile/authkit/pkg/pg"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	t.Run("no rows", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pg.IsNotFoundError(pgx.ErrNoRows))
	})

	t.Run("wrapped no rows", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pg.IsNotFoundError(fmt.Errorf("scan session: %w", pgx.ErrNoRows)))
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.False(t, pg.IsNotFoundError(nil))
	})

	t.Run("unrelated error", func(t *testing.T) {
		t.Parallel()
		assert.False(t, pg.IsNotFoundError(errors.New("connection reset")))
	})
}

func TestIsDuplicateKeyError(t *testing.T) {
	t.Parallel()

	t.Run("unique violation", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pg.IsDuplicateKeyError(&pgconn.PgError{Code: "23505"}))
	})

	t.Run("wrapped unique violation", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("insert session: %w", &pgconn.PgError{Code: "23505"})
		assert.True(t, pg.IsDuplicateKeyError(err))
	})

	t.Run("other constraint violation", func(t *testing.T) {
		t.Parallel()
		assert.False(t, pg.IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.False(t, pg.IsDuplicateKeyError(nil))
	})

	t.Run("non-postgres error", func(t *testing.T) {
		t.Parallel()
		assert.False(t, pg.IsDuplicateKeyError(errors.New("connection reset")))
	})
}
