package auth

import (
	"context"
	"time"

	"github.com/chatkeep/chatkeep-server/token"
	"github.com/chatkeep/chatkeep-server/users"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// timingEqualizerHash is compared against when a login names an unknown
// username, so a lookup miss costs a bcrypt verify just like a wrong password.
var timingEqualizerHash = func() string {
	hash, err := users.HashPassword(uuid.New().String())
	if err != nil {
		panic(err)
	}
	return hash
}()

// TokenPair is what login and refresh hand back to the transport layer. The
// refresh token is returned exactly once and is never retrievable again; only
// its hash survives server-side.
type TokenPair struct {
	UserID       string `json:"id"`
	Nickname     string `json:"nickname"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterParams are the fields accepted at registration. Gender and
// BirthDate are inert profile data.
type RegisterParams struct {
	Username  string
	Password  string
	Nickname  string
	Gender    string
	BirthDate string
}

// Service orchestrates the session lifecycle: login verifies credentials and
// persists the refresh hash, refresh rotates it, logout clears it. The user
// row is the session - there is no in-memory session state.
type Service struct {
	users   users.Repo
	issuer  *token.Issuer
	guard   token.Guard
	nowFunc func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(userRepo users.Repo, issuer *token.Issuer, guard token.Guard, options ...ServiceOption) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewService] token issuer is required")
	}

	s := &Service{
		users:   userRepo,
		issuer:  issuer,
		guard:   guard,
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// Register hashes the password and creates the user. The password hash is
// written once here and is immutable afterwards.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*users.User, error) {
	if err := users.ValidatePasswordStrength(params.Password); err != nil {
		return nil, err
	}

	passwordHash, err := users.HashPassword(params.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] HashPassword")
	}

	user := &users.User{
		ID:           uuid.New().String(),
		Username:     params.Username,
		Nickname:     params.Nickname,
		PasswordHash: passwordHash,
		Gender:       params.Gender,
		BirthDate:    params.BirthDate,
		CreatedAt:    s.nowFunc(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrAlreadyExists) {
			return nil, users.ErrAlreadyExists
		}
		return nil, errors.Wrap(err, "[Service.Register] Create")
	}
	return user, nil
}

// Login verifies the credentials, issues an access/refresh token pair and
// persists the refresh hash with its expiry window. A new login overwrites
// whatever session was active before - one active session per user.
func (s *Service) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			users.CheckPasswordHash(password, timingEqualizerHash)
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "[Service.Login] GetByUsername")
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueAndPersist(ctx, user, func(hash string, exp time.Time) error {
		return s.users.UpdateRefreshSession(ctx, user.ID, hash, exp)
	})
}

// Logout clears the persisted refresh session. Idempotent: logging out an
// already logged-out user succeeds.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.users.ClearRefreshSession(ctx, userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return ErrIdentityNotFound
		}
		return errors.Wrap(err, "[Service.Logout] ClearRefreshSession")
	}
	return nil
}

// Refresh verifies the presented token's signature and embedded expiry, then
// checks it against the stored hash and its server-side expiry window. Both
// checks must pass. On success the session is rotated: a new pair is issued
// and the stored hash swapped, so the presented token cannot be replayed.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	claims, err := s.issuer.Verify(rawToken)
	if err != nil {
		return nil, err // ErrTokenInvalid or ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "[Service.Refresh] GetByID")
	}

	if !user.HasActiveSession() {
		return nil, ErrSessionNotFound
	}
	if s.nowFunc().After(*user.RefreshTokenExp) {
		return nil, ErrSessionNotFound
	}
	if !s.guard.Matches(rawToken, *user.RefreshTokenHash) {
		return nil, ErrSessionNotFound
	}

	oldHash := *user.RefreshTokenHash
	return s.issueAndPersist(ctx, user, func(newHash string, exp time.Time) error {
		err := s.users.RotateRefreshSession(ctx, user.ID, oldHash, newHash, exp)
		if errors.Is(err, users.ErrSessionMismatch) {
			// A concurrent refresh or logout won the swap.
			return ErrSessionNotFound
		}
		return err
	})
}

func (s *Service) issueAndPersist(ctx context.Context, user *users.User, persist func(hash string, exp time.Time) error) (*TokenPair, error) {
	accessToken, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.issueAndPersist] IssueAccessToken")
	}
	refreshToken, err := s.issuer.IssueRefreshToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.issueAndPersist] IssueRefreshToken")
	}

	hash := s.guard.HashForStorage(refreshToken)
	exp := s.guard.SessionExpiryFrom(s.nowFunc())
	if err := persist(hash, exp); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, "[Service.issueAndPersist] persist refresh session")
	}

	return &TokenPair{
		UserID:       user.ID,
		Nickname:     user.Nickname,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
