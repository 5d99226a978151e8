package auth

import (
	"context"
	"testing"
	"time"

	"bookcatalog/internal/platform/clock"
	"bookcatalog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestTokenService_RoundTrip(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour, nil)

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	userID, err := tokens.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenService_AcceptsTestToken(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour, nil)

	userID, err := tokens.Authenticate(context.Background(), testutil.GenerateTestToken(testSecret, 9))
	require.NoError(t, err)
	assert.Equal(t, int64(9), userID)
}

func TestTokenService_Rejects(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour, nil)
	stale := NewTokenService(testSecret, time.Hour, clock.Fixed(time.Now().Add(-3*time.Hour)))
	staleToken, err := stale.Issue(1)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":        staleToken,
		"expired helper": testutil.GenerateExpiredToken(testSecret, 1),
		"wrong secret":   testutil.GenerateTestToken("other-secret", 1),
		"garbage":        "not.a.valid.token",
		"empty":          "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Authenticate(context.Background(), token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}
