package token

import (
	"time"

	"github.com/chatkeep/chatkeep-server/users"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Claims carried by both token kinds. The access token additionally embeds
// the username; the refresh token is subject-only.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Issuer mints signed, time-bounded access and refresh tokens. It is
// stateless - persistence of the refresh hash is the auth service's job.
type Issuer struct {
	signer             Signer
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	nowFunc            func() time.Time
}

type IssuerOption func(*Issuer)

// WithTokenExpiry overrides the default access/refresh token lifetimes.
func WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry time.Duration) IssuerOption {
	return func(i *Issuer) {
		i.accessTokenExpiry = accessTokenExpiry
		i.refreshTokenExpiry = refreshTokenExpiry
	}
}

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

func NewIssuer(signer Signer, options ...IssuerOption) *Issuer {
	i := &Issuer{
		signer: signer,
	}

	for _, opt := range options {
		opt(i)
	}

	if i.accessTokenExpiry == 0 {
		i.accessTokenExpiry = 15 * time.Minute
	}
	if i.refreshTokenExpiry == 0 {
		i.refreshTokenExpiry = 7 * 24 * time.Hour
	}
	if i.nowFunc == nil {
		i.nowFunc = time.Now
	}
	return i
}

// IssueAccessToken mints the short-lived token presented on every resource
// request. It is never persisted server-side.
func (i *Issuer) IssueAccessToken(user *users.User) (string, error) {
	now := i.nowFunc()
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTokenExpiry)),
			ID:        uuid.New().String(),
		},
	}
	signed, err := i.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "Issuer.IssueAccessToken")
	}
	return signed, nil
}

// IssueRefreshToken mints the long-lived token exchanged at the refresh
// endpoint. No claims beyond the standard ones.
func (i *Issuer) IssueRefreshToken(user *users.User) (string, error) {
	now := i.nowFunc()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.refreshTokenExpiry)),
			ID:        uuid.New().String(),
		},
	}
	signed, err := i.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "Issuer.IssueRefreshToken")
	}
	return signed, nil
}

// Verify parses rawToken and checks its signature and embedded expiry.
// Returns ErrTokenExpired when only the expiry has passed, ErrTokenInvalid
// for anything else that fails verification.
func (i *Issuer) Verify(rawToken string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(rawToken, claims, i.signer.Keyfunc,
		jwt.WithTimeFunc(i.nowFunc),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
