package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chatkeep/chatkeep-server/auth"
	"github.com/chatkeep/chatkeep-server/token"
	"github.com/chatkeep/chatkeep-server/users"
	"github.com/chatkeep/chatkeep-server/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	secretStr        = "test-secret-1234"
	testUserID       = "0b2f1f5e-4c43-4a91-9f6e-3a1c1b9a0001"
	testUsername     = "alice"
	testUserPassword = "pw123"
	testNickname     = "Alice"

	accessTokenExpiry  = 15 * time.Minute
	refreshTokenExpiry = 7 * 24 * time.Hour
)

// testFixture holds all test dependencies
type testFixture struct {
	userRepo *repofake.FakeUserRepo
	issuer   *token.Issuer
	guard    token.Guard
	service  *auth.Service
	now      time.Time
	nowLock  sync.Mutex
}

func (f *testFixture) nowFunc() time.Time {
	f.nowLock.Lock()
	defer f.nowLock.Unlock()
	return f.now
}

func (f *testFixture) advance(d time.Duration) {
	f.nowLock.Lock()
	defer f.nowLock.Unlock()
	f.now = f.now.Add(d)
}

type fixtureOption func(*testFixture)

// withIssuerExpiry overrides the issuer's embedded token lifetimes without
// touching the guard's stored-hash window.
func withIssuerExpiry(access, refresh time.Duration) fixtureOption {
	return func(f *testFixture) {
		f.issuer = token.NewIssuer(token.NewHMACSigner(secretStr),
			token.WithTokenExpiry(access, refresh),
			token.WithNowFunc(f.nowFunc))
	}
}

func setupTestFixture(t *testing.T, options ...fixtureOption) *testFixture {
	t.Helper()

	f := &testFixture{
		userRepo: repofake.NewFakeUserRepo(),
		now:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.issuer = token.NewIssuer(token.NewHMACSigner(secretStr),
		token.WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry),
		token.WithNowFunc(f.nowFunc))
	f.guard = token.NewGuard(refreshTokenExpiry)

	for _, opt := range options {
		opt(f)
	}

	service, err := auth.NewService(f.userRepo, f.issuer, f.guard, auth.WithNowFunc(f.nowFunc))
	require.NoError(t, err)
	f.service = service
	return f
}

// createTestUser registers a user directly through the store.
func (f *testFixture) createTestUser(t *testing.T) *users.User {
	t.Helper()

	passwordHash, err := users.HashPassword(testUserPassword)
	require.NoError(t, err)

	user := &users.User{
		ID:           testUserID,
		Username:     testUsername,
		Nickname:     testNickname,
		PasswordHash: passwordHash,
		CreatedAt:    f.nowFunc(),
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user
}

func TestLoginReturnsTokensForSubject(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	pair, err := f.service.Login(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)
	require.Equal(t, testUserID, pair.UserID)
	require.Equal(t, testNickname, pair.Nickname)

	accessClaims, err := f.issuer.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, testUserID, accessClaims.Subject)
	require.Equal(t, testUsername, accessClaims.Username)
	require.Equal(t, f.nowFunc().Add(accessTokenExpiry).Unix(), accessClaims.ExpiresAt.Unix())

	refreshClaims, err := f.issuer.Verify(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, testUserID, refreshClaims.Subject)
	require.Empty(t, refreshClaims.Username)
	require.Equal(t, f.nowFunc().Add(refreshTokenExpiry).Unix(), refreshClaims.ExpiresAt.Unix())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	_, wrongPasswordErr := f.service.Login(context.Background(), testUsername, "wrong-password")
	require.ErrorIs(t, wrongPasswordErr, auth.ErrInvalidCredentials)

	_, unknownUserErr := f.service.Login(context.Background(), "nobody", testUserPassword)
	require.ErrorIs(t, unknownUserErr, auth.ErrInvalidCredentials)

	require.Equal(t, wrongPasswordErr.Error(), unknownUserErr.Error())
}

func TestLoginPersistsHashedSession(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	pair, err := f.service.Login(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)

	stored, err := f.userRepo.GetByID(context.Background(), testUserID)
	require.NoError(t, err)
	require.True(t, stored.HasActiveSession())
	require.NotEqual(t, pair.RefreshToken, *stored.RefreshTokenHash)
	require.Equal(t, f.guard.SessionExpiryFrom(f.nowFunc()), *stored.RefreshTokenExp)
}

func TestRefreshRoundTrip(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	pair, err := f.service.Login(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)

	refreshed, err := f.service.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, testUserID, refreshed.UserID)
	require.NotEqual(t, pair.RefreshToken, refreshed.RefreshToken)
}

func TestRefreshRotationInvalidatesOldToken(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	pair, err := f.service.Login(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)

	_, err = f.service.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	_, err = f.service.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestRefreshAfterLogoutFails(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	pair, err := f.service.Login(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), testUserID))

	_, err = f.service.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	_, err := f.service.Login(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), testUserID))
	require.NoError(t, f.service.Logout(context.Background(), testUserID))

	stored, err := f.userRepo.GetByID(context.Background(), testUserID)
	require.NoError(t, err)
	require.False(t, stored.HasActiveSession())
}

func TestLogoutUnknownIdentity(t *testing.T) {
	f := setupTestFixture(t)

	err := f.service.Logout(context.Background(), "no-such-id")
	require.ErrorIs(t, err, auth.ErrIdentityNotFound)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Refresh(context.Background(), "not-a-token")
	require.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestRefreshRejectsTokenSignedWithOtherSecret(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)

	otherIssuer := token.NewIssuer(token.NewHMACSigner("another-secret"))
	forged, err := otherIssuer.IssueRefreshToken(user)
	require.NoError(t, err)

	_, err = f.service.Refresh(context.Background(), forged)
	require.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	pair, err := f.service.Login(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)

	f.advance(refreshTokenExpiry + time.Minute)

	_, err = f.service.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
}

// The stored-hash window is enforced independently of the token's own expiry:
// a still-valid token must be rejected once the persisted session has lapsed.
func TestRefreshRejectsLapsedStoredSession(t *testing.T) {
	f := setupTestFixture(t, withIssuerExpiry(accessTokenExpiry, 14*24*time.Hour))
	f.createTestUser(t)

	pair, err := f.service.Login(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)

	f.advance(8 * 24 * time.Hour) // token still valid for 14d, window is 7d

	_, err = f.service.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestConcurrentRefreshRotatesExactlyOnce(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	pair, err := f.service.Login(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)

	const callers = 4
	results := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Refresh(context.Background(), pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, auth.ErrSessionNotFound)
		}
	}
	require.Equal(t, 1, successes)
}

func TestRegisterHashesPassword(t *testing.T) {
	f := setupTestFixture(t)

	user, err := f.service.Register(context.Background(), auth.RegisterParams{
		Username: "bob",
		Password: "Str0ngpassword",
		Nickname: "Bob",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEqual(t, "Str0ngpassword", user.PasswordHash)
	require.True(t, users.CheckPasswordHash("Str0ngpassword", user.PasswordHash))

	_, err = f.service.Register(context.Background(), auth.RegisterParams{
		Username: "bob",
		Password: "Str0ngpassword",
	})
	require.ErrorIs(t, err, users.ErrAlreadyExists)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Register(context.Background(), auth.RegisterParams{
		Username: "carol",
		Password: "short",
	})
	require.Error(t, err)
}

func TestNewLoginOverwritesPreviousSession(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	first, err := f.service.Login(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)

	second, err := f.service.Login(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)

	_, err = f.service.Refresh(context.Background(), first.RefreshToken)
	require.ErrorIs(t, err, auth.ErrSessionNotFound)

	refreshed, err := f.service.Refresh(context.Background(), second.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, testUserID, refreshed.UserID)
}
