package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "thisisasecretkeythatis32charslong!!",
		TokenLifetimeMinutes: 60,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("secret too short", func(t *testing.T) {
		cfg := testAuthConfig()
		cfg.JWTSecret = "tooshort"
		svc, err := NewJWTService(cfg)
		assert.Error(t, err)
		assert.Nil(t, svc)
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	ctx := context.Background()
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	userID := uuid.New()

	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 3, len(strings.Split(token, ".")), "expected a three-part JWT")

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestValidateToken_Failures(t *testing.T) {
	ctx := context.Background()
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	t.Run("malformed token", func(t *testing.T) {
		claims, err := svc.ValidateToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("token signed with different key", func(t *testing.T) {
		otherCfg := testAuthConfig()
		otherCfg.JWTSecret = "anothersecretkeythatis32charslong!!!"
		otherSvc, err := NewJWTService(otherCfg)
		require.NoError(t, err)

		token, err := otherSvc.GenerateToken(ctx, uuid.New())
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		impl := &hmacJWTService{
			signingKey:    []byte(testAuthConfig().JWTSecret),
			tokenLifetime: time.Hour,
			timeFunc:      time.Now,
			clockSkew:     0,
		}

		// Issue a token in the past, beyond its lifetime
		issuedAt := time.Now().Add(-2 * time.Hour)
		impl.timeFunc = func() time.Time { return issuedAt }

		token, err := impl.GenerateToken(ctx, uuid.New())
		require.NoError(t, err)

		// Validate with the real clock
		impl.timeFunc = time.Now

		claims, err := impl.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.Nil(t, claims)
	})

	t.Run("correctly signed token without exp", func(t *testing.T) {
		// jwt/v5 accepts a missing exp claim by default; the parser must
		// not, and must not crash reading the absent time claims.
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
			UserID: uuid.New(),
		})
		signed, err := token.SignedString([]byte(testAuthConfig().JWTSecret))
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("correctly signed token without iat", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
			UserID: uuid.New(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		signed, err := token.SignedString([]byte(testAuthConfig().JWTSecret))
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("token within clock skew still valid", func(t *testing.T) {
		impl := &hmacJWTService{
			signingKey:    []byte(testAuthConfig().JWTSecret),
			tokenLifetime: time.Hour,
			timeFunc:      time.Now,
			clockSkew:     2 * time.Minute,
		}

		// Expired one minute ago, inside the two-minute leeway
		issuedAt := time.Now().Add(-61 * time.Minute)
		impl.timeFunc = func() time.Time { return issuedAt }

		token, err := impl.GenerateToken(ctx, uuid.New())
		require.NoError(t, err)

		impl.timeFunc = time.Now

		_, err = impl.ValidateToken(ctx, token)
		assert.NoError(t, err)
	})
}
