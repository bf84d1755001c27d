package chatposts

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("chat post not found")

// ChatPost is an archived chat conversation: a title plus its ordered
// question/answer pairs, optionally filed into a folder.
type ChatPost struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	FolderID  *string    `json:"folder_id,omitempty"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	Pairs     []ChatPair `json:"pairs,omitempty"`
}

// ChatPair is one question/answer exchange within a post.
type ChatPair struct {
	ID         string `json:"id"`
	ChatPostID string `json:"chat_post_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Seq        int    `json:"seq"`
}

type Repo interface {
	// Create stores the post together with its pairs.
	Create(ctx context.Context, post *ChatPost) error
	GetByID(ctx context.Context, id string) (*ChatPost, error)
	ListAll(ctx context.Context) ([]*ChatPost, error)
	ListByUserID(ctx context.Context, userID string) ([]*ChatPost, error)
	// UpdateMeta changes the title and folder assignment; pairs are immutable.
	UpdateMeta(ctx context.Context, id, title string, folderID *string) error
	Delete(ctx context.Context, id string) error
}
