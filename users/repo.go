package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("username already taken")

	// ErrSessionMismatch is returned by RotateRefreshSession when the stored
	// hash no longer equals the expected one - a concurrent rotation or a
	// logout got there first.
	ErrSessionMismatch = errors.New("refresh session mismatch")
)

// Repo is the credential store for users. The refresh session methods mutate
// the hash/expiry pair as a unit; no other code writes those columns.
type Repo interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)

	// UpdateRefreshSession overwrites the stored refresh hash and its expiry,
	// replacing whatever session was active before.
	UpdateRefreshSession(ctx context.Context, id, hash string, exp time.Time) error

	// RotateRefreshSession swaps oldHash for newHash atomically. It must only
	// succeed if the stored hash still equals oldHash, so concurrent refreshes
	// for the same user cannot overwrite each other's in-flight token.
	RotateRefreshSession(ctx context.Context, id, oldHash, newHash string, exp time.Time) error

	// ClearRefreshSession nulls the hash/expiry pair. Clearing an already
	// cleared session is a no-op, not an error.
	ClearRefreshSession(ctx context.Context, id string) error
}
