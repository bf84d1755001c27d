package repofake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chatkeep/chatkeep-server/users"
	"github.com/google/uuid"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users       map[string]*users.User
	usernameIds map[string]string // username to user id
	lock        sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:       make(map[string]*users.User),
		usernameIds: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.usernameIds[user.Username]; ok {
		return users.ErrAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	copied := *user
	ur.users[copied.ID] = &copied
	ur.usernameIds[copied.Username] = copied.ID
	return nil
}

func (ur *FakeUserRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.usernameIds[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	return ur.copyOf(id)
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	return ur.copyOf(id)
}

func (ur *FakeUserRepo) List(_ context.Context, offset, limit int) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	all := make([]*users.User, 0, len(ur.users))
	for id := range ur.users {
		u, _ := ur.copyOf(id)
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (ur *FakeUserRepo) UpdateRefreshSession(_ context.Context, id, hash string, exp time.Time) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return users.ErrNotFound
	}
	user.RefreshTokenHash = &hash
	user.RefreshTokenExp = &exp
	return nil
}

func (ur *FakeUserRepo) RotateRefreshSession(_ context.Context, id, oldHash, newHash string, exp time.Time) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return users.ErrNotFound
	}
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != oldHash {
		return users.ErrSessionMismatch
	}
	user.RefreshTokenHash = &newHash
	user.RefreshTokenExp = &exp
	return nil
}

func (ur *FakeUserRepo) ClearRefreshSession(_ context.Context, id string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return users.ErrNotFound
	}
	user.RefreshTokenHash = nil
	user.RefreshTokenExp = nil
	return nil
}

// copyOf returns a copy so callers cannot mutate the stored record. Callers
// must hold at least the read lock.
func (ur *FakeUserRepo) copyOf(id string) (*users.User, error) {
	user, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *user
	if user.RefreshTokenHash != nil {
		h := *user.RefreshTokenHash
		copied.RefreshTokenHash = &h
	}
	if user.RefreshTokenExp != nil {
		e := *user.RefreshTokenExp
		copied.RefreshTokenExp = &e
	}
	return &copied, nil
}
