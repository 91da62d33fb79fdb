package auth

import (
	"testing"
	"time"

	"github.com/erp/pricesync/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-characters"

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "erp-backend"})
}

func TestJWTService_ValidateAccessToken(t *testing.T) {
	service := newTestService()
	userID := uuid.New()

	t.Run("accepts an issued token", func(t *testing.T) {
		token, err := service.IssueAccessToken(userID, "alice", []string{"price:update"}, time.Hour)
		require.NoError(t, err)

		claims, err := service.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "alice", claims.Username)
		assert.True(t, claims.HasPermission("price:update"))
		assert.False(t, claims.HasPermission("price:delete"))
	})

	t.Run("rejects expired token", func(t *testing.T) {
		token, err := service.IssueAccessToken(userID, "alice", nil, -time.Minute)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-characters!!", Issuer: "erp-backend"})
		token, err := other.IssueAccessToken(userID, "alice", nil, time.Hour)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token from another issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "someone-else"})
		token, err := other.IssueAccessToken(userID, "alice", nil, time.Hour)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects refresh tokens", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "erp-backend",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			UserID:    userID.String(),
			TokenType: "refresh",
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("rejects token without user", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "erp-backend",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			TokenType: TokenTypeAccess,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrMissingUserID)
	})

	t.Run("rejects none algorithm", func(t *testing.T) {
		claims := &Claims{UserID: userID.String(), TokenType: TokenTypeAccess}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := service.ValidateAccessToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
