package auth

import (
	"errors"

	"github.com/chatkeep/chatkeep-server/token"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords. Callers must not be able to tell which one occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionNotFound means a token verified but no matching active
	// stored hash exists for its subject: logged out, rotated away, or
	// never logged in.
	ErrSessionNotFound = errors.New("session not found")

	// ErrIdentityNotFound is an internal consistency failure: an operation
	// addressed a user id missing from the store.
	ErrIdentityNotFound = errors.New("identity not found")

	// Token verification failures pass through from the token package so
	// callers can branch on one package's sentinels.
	ErrTokenInvalid = token.ErrTokenInvalid
	ErrTokenExpired = token.ErrTokenExpired
)
