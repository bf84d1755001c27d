package token_test

import (
	"testing"
	"time"

	"github.com/chatkeep/chatkeep-server/token"
	"github.com/stretchr/testify/require"
)

func TestHashForStorageIsDeterministicAndOneWay(t *testing.T) {
	guard := token.NewGuard(7 * 24 * time.Hour)

	raw := "some.signed.token"
	hash := guard.HashForStorage(raw)
	require.NotEqual(t, raw, hash)
	require.Equal(t, hash, guard.HashForStorage(raw))
	require.NotEqual(t, hash, guard.HashForStorage(raw+"x"))
}

func TestMatches(t *testing.T) {
	guard := token.NewGuard(7 * 24 * time.Hour)

	raw := "some.signed.token"
	hash := guard.HashForStorage(raw)

	require.True(t, guard.Matches(raw, hash))
	require.False(t, guard.Matches("other.token", hash))
	require.False(t, guard.Matches(raw, ""))
	require.False(t, guard.Matches(raw, "not-a-hash"))
}

func TestSessionExpiryFrom(t *testing.T) {
	guard := token.NewGuard(7 * 24 * time.Hour)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, now.Add(7*24*time.Hour), guard.SessionExpiryFrom(now))
}
