package token

import "errors"

var (
	// ErrTokenInvalid covers signature and structural verification failures.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired means the token's own embedded expiry has passed.
	ErrTokenExpired = errors.New("token expired")
)
