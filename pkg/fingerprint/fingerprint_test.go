package fingerprint_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docufile/authkit/pkg/fingerprint"
)

func TestGenerate(t *testing.T) {
	t.Run("deterministic for identical requests", func(t *testing.T) {
		r1 := httptest.NewRequest("GET", "/", nil)
		r1.Header.Set("User-Agent", "chrome")
		r1.Header.Set("Accept-Language", "en-US")

		r2 := httptest.NewRequest("GET", "/", nil)
		r2.Header.Set("User-Agent", "chrome")
		r2.Header.Set("Accept-Language", "en-US")

		assert.Equal(t, fingerprint.Generate(r1), fingerprint.Generate(r2))
	})

	t.Run("differs when the user agent differs", func(t *testing.T) {
		r1 := httptest.NewRequest("GET", "/", nil)
		r1.Header.Set("User-Agent", "chrome")

		r2 := httptest.NewRequest("GET", "/", nil)
		r2.Header.Set("User-Agent", "firefox")

		assert.NotEqual(t, fingerprint.Generate(r1), fingerprint.Generate(r2))
	})

	t.Run("is 32 hex characters", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("User-Agent", "chrome")
		assert.Len(t, fingerprint.Generate(r), 32)
	})
}

func TestMatches(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("User-Agent", "chrome")

	t.Run("matching fingerprint", func(t *testing.T) {
		assert.True(t, fingerprint.Matches(r, fingerprint.Generate(r)))
	})

	t.Run("mismatched fingerprint", func(t *testing.T) {
		assert.False(t, fingerprint.Matches(r, "deadbeefdeadbeefdeadbeefdeadbeef"))
	})

	t.Run("empty stored fingerprint never matches", func(t *testing.T) {
		assert.False(t, fingerprint.Matches(r, ""))
	})
}
