package auth

import (
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, duration time.Duration) *TokenService {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	svc, err := NewTokenService(hex.EncodeToString(key), duration)
	require.NoError(t, err)
	return svc
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	user := &domain.User{ID: "user-1", Email: "ayu@example.com"}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ayu@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Expiration, time.Minute)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)
	user := &domain.User{ID: "user-1", Email: "ayu@example.com"}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	issuer := newTestTokenService(t, time.Hour)
	verifier := newTestTokenService(t, time.Hour)

	token, err := issuer.GenerateAccessToken(&domain.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	_, err := svc.VerifyAccessToken("v4.local.garbage")
	assert.Error(t, err)
}

func TestNewTokenService_RejectsBadKey(t *testing.T) {
	_, err := NewTokenService("deadbeef", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(string(make([]byte, 64)), time.Hour)
	assert.Error(t, err)
}
