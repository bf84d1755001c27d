package folders

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("folder not found")

// Folder groups a user's chat posts.
type Folder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo interface {
	Create(ctx context.Context, folder *Folder) error
	GetByID(ctx context.Context, id string) (*Folder, error)
	ListAll(ctx context.Context) ([]*Folder, error)
	ListByUserID(ctx context.Context, userID string) ([]*Folder, error)
	Update(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}
