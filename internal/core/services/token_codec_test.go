package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steptzi/api/internal/core/domain"
)

func TestTokenCodecRoundtrip(t *testing.T) {
	codec := NewTokenCodec("secret", 30*time.Minute, 24*time.Hour, 30*time.Minute)
	userID := uuid.New()

	for _, scope := range []domain.Scope{
		domain.ScopeAccess,
		domain.ScopeRefresh,
		domain.ScopeEmailVerification,
		domain.ScopeResetPassword,
	} {
		token, err := codec.Issue(userID, scope)
		require.NoError(t, err)

		got, err := codec.Verify(token, scope)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	}
}

func TestTokenCodecRejectsWrongScope(t *testing.T) {
	codec := NewTokenCodec("secret", 30*time.Minute, 24*time.Hour, 30*time.Minute)

	access, err := codec.Issue(uuid.New(), domain.ScopeAccess)
	require.NoError(t, err)

	// A token minted for one purpose is useless for every other one.
	for _, scope := range []domain.Scope{
		domain.ScopeRefresh,
		domain.ScopeEmailVerification,
		domain.ScopeResetPassword,
	} {
		_, err := codec.Verify(access, scope)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "scope %s", scope)
	}
}

func TestTokenCodecRejectsExpired(t *testing.T) {
	codec := NewTokenCodec("secret", -time.Minute, 24*time.Hour, 30*time.Minute)

	token, err := codec.Issue(uuid.New(), domain.ScopeAccess)
	require.NoError(t, err)

	_, err = codec.Verify(token, domain.ScopeAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenCodecRejectsWrongSecret(t *testing.T) {
	codec := NewTokenCodec("secret", 30*time.Minute, 24*time.Hour, 30*time.Minute)
	other := NewTokenCodec("other-secret", 30*time.Minute, 24*time.Hour, 30*time.Minute)

	token, err := codec.Issue(uuid.New(), domain.ScopeAccess)
	require.NoError(t, err)

	_, err = other.Verify(token, domain.ScopeAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenCodecRejectsGarbage(t *testing.T) {
	codec := NewTokenCodec("secret", 30*time.Minute, 24*time.Hour, 30*time.Minute)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := codec.Verify(token, domain.ScopeAccess)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	}
}
