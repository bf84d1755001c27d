package users_test

import (
	"testing"
	"time"

	"github.com/chatkeep/chatkeep-server/users"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := users.HashPassword("pw123")
	require.NoError(t, err)
	require.NotEqual(t, "pw123", hash)

	require.True(t, users.CheckPasswordHash("pw123", hash))
	require.False(t, users.CheckPasswordHash("pw124", hash))
	require.False(t, users.CheckPasswordHash("pw123", "not-a-hash"))
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := users.HashPassword("pw123")
	require.NoError(t, err)
	second, err := users.HashPassword("pw123")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestValidatePasswordStrength(t *testing.T) {
	require.Error(t, users.ValidatePasswordStrength("short1"))
	require.Error(t, users.ValidatePasswordStrength("lettersonly"))
	require.Error(t, users.ValidatePasswordStrength("12345678"))
	require.NoError(t, users.ValidatePasswordStrength("letters123"))
}

func TestHasActiveSession(t *testing.T) {
	user := &users.User{}
	require.False(t, user.HasActiveSession())

	hash := "stored-hash"
	exp := time.Now().Add(time.Hour)
	user.RefreshTokenHash = &hash
	user.RefreshTokenExp = &exp
	require.True(t, user.HasActiveSession())
}
