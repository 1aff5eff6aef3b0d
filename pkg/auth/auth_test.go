package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	token, err := issuer.GenerateToken(42, "alice")
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Len(t, claims.ID, 24)
}

func TestTokenRejected(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, err := issuer.GenerateToken(1, "bob")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewIssuer("other", time.Hour).ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewIssuer("secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.ValidateToken(token)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.ValidateToken("not.a.token")
		require.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.ValidateToken(s)
		require.Error(t, err)
	})
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)
	require.True(t, CheckPasswordHash("hunter22", hash))
	require.False(t, CheckPasswordHash("hunter23", hash))
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, ValidatePassword("abcdefg1"))
	require.ErrorContains(t, ValidatePassword("short1"), "at least 8 characters")
	require.ErrorContains(t, ValidatePassword("abcdefgh"), "a digit")
	require.ErrorContains(t, ValidatePassword("12345678"), "a letter")
}

func TestValidateUsername(t *testing.T) {
	require.NoError(t, ValidateUsername("player_1"))
	require.Error(t, ValidateUsername("ab"))
	require.Error(t, ValidateUsername("bad name"))
	require.Error(t, ValidateUsername("semi;colon"))
}
