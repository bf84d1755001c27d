package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/chatkeep/chatkeep-server/token"
	"github.com/chatkeep/chatkeep-server/users"
	"github.com/stretchr/testify/require"
)

const testSecret = "issuer-test-secret"

func testUser() *users.User {
	return &users.User{ID: "user-1", Username: "alice", Nickname: "Alice"}
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func newTestIssuer(nowFunc func() time.Time) *token.Issuer {
	return token.NewIssuer(token.NewHMACSigner(testSecret), token.WithNowFunc(nowFunc))
}

func TestIssueAccessToken(t *testing.T) {
	issuer := newTestIssuer(fixedNow)

	signed, err := issuer.IssueAccessToken(testUser())
	require.NoError(t, err)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, fixedNow().Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
	require.NotEmpty(t, claims.ID)
}

func TestIssueRefreshTokenHasNoUsernameClaim(t *testing.T) {
	issuer := newTestIssuer(fixedNow)

	signed, err := issuer.IssueRefreshToken(testUser())
	require.NoError(t, err)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Empty(t, claims.Username)
	require.Equal(t, fixedNow().Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	issuer := newTestIssuer(fixedNow)

	signed, err := issuer.IssueAccessToken(testUser())
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = issuer.Verify(tampered)
	require.ErrorIs(t, err, token.ErrTokenInvalid)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := newTestIssuer(fixedNow)
	other := token.NewIssuer(token.NewHMACSigner("other-secret"), token.WithNowFunc(fixedNow))

	signed, err := other.IssueAccessToken(testUser())
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	require.ErrorIs(t, err, token.ErrTokenInvalid)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	now := fixedNow()
	issuer := token.NewIssuer(token.NewHMACSigner(testSecret),
		token.WithNowFunc(func() time.Time { return now }))

	signed, err := issuer.IssueAccessToken(testUser())
	require.NoError(t, err)

	now = now.Add(16 * time.Minute)

	_, err = issuer.Verify(signed)
	require.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(fixedNow)

	_, err := issuer.Verify("garbage")
	require.ErrorIs(t, err, token.ErrTokenInvalid)
}
