package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasoahq/checkout-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "kasoa-test"}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now(), userID, "ama@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ama@example.com", claims.Email)
	assert.Equal(t, "kasoa-test", claims.Issuer)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), uuid.New(), "ama@example.com", time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	require.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := MintAccessToken(testJWTConfig(), time.Now(), uuid.New(), "ama@example.com", time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(config.JWTConfig{Secret: "other", Issuer: "kasoa-test"}, token)
	require.Error(t, err)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	token, err := MintAccessToken(config.JWTConfig{Secret: "test-secret", Issuer: "someone-else"}, time.Now(), uuid.New(), "", time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(testJWTConfig(), token)
	require.Error(t, err)
}
