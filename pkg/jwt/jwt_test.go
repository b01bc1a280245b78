package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	Configure(Config{Secret: "test-secret"})

	access, err := GenerateToken(7, "alice", "USER", "v1")
	require.NoError(t, err)

	claims, err := ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestValidateTokenOfType(t *testing.T) {
	Configure(Config{Secret: "test-secret"})

	refresh, err := GenerateRefreshToken(1, "bob", "ADMIN", "v2")
	require.NoError(t, err)

	_, err = ValidateTokenOfType(refresh, TokenTypeRefresh)
	assert.NoError(t, err)

	_, err = ValidateTokenOfType(refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestValidateToken_Rejects(t *testing.T) {
	Configure(Config{Secret: "test-secret"})

	t.Run("empty", func(t *testing.T) {
		_, err := ValidateToken("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1})
		signed, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			UserID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		})
		signed, err := token.SignedString(GetSecretKey())
		require.NoError(t, err)

		_, err = ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
