package repofake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chatkeep/chatkeep-server/chatposts"
	"github.com/google/uuid"
)

var _ chatposts.Repo = (*FakeChatPostRepo)(nil)

type FakeChatPostRepo struct {
	posts map[string]*chatposts.ChatPost
	lock  sync.RWMutex
}

func NewFakeChatPostRepo() *FakeChatPostRepo {
	return &FakeChatPostRepo{posts: make(map[string]*chatposts.ChatPost)}
}

func (pr *FakeChatPostRepo) Create(_ context.Context, post *chatposts.ChatPost) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	for i := range post.Pairs {
		if post.Pairs[i].ID == "" {
			post.Pairs[i].ID = uuid.New().String()
		}
		post.Pairs[i].ChatPostID = post.ID
		post.Pairs[i].Seq = i
	}
	pr.posts[post.ID] = copyPost(post)
	return nil
}

func (pr *FakeChatPostRepo) GetByID(_ context.Context, id string) (*chatposts.ChatPost, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	post, ok := pr.posts[id]
	if !ok {
		return nil, chatposts.ErrNotFound
	}
	return copyPost(post), nil
}

func (pr *FakeChatPostRepo) ListAll(_ context.Context) ([]*chatposts.ChatPost, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()
	return pr.list(func(*chatposts.ChatPost) bool { return true }), nil
}

func (pr *FakeChatPostRepo) ListByUserID(_ context.Context, userID string) ([]*chatposts.ChatPost, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()
	return pr.list(func(p *chatposts.ChatPost) bool { return p.UserID == userID }), nil
}

func (pr *FakeChatPostRepo) UpdateMeta(_ context.Context, id, title string, folderID *string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	post, ok := pr.posts[id]
	if !ok {
		return chatposts.ErrNotFound
	}
	post.Title = title
	post.FolderID = folderID
	return nil
}

func (pr *FakeChatPostRepo) Delete(_ context.Context, id string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if _, ok := pr.posts[id]; !ok {
		return chatposts.ErrNotFound
	}
	delete(pr.posts, id)
	return nil
}

func (pr *FakeChatPostRepo) list(match func(*chatposts.ChatPost) bool) []*chatposts.ChatPost {
	all := make([]*chatposts.ChatPost, 0)
	for _, post := range pr.posts {
		if match(post) {
			all = append(all, copyPost(post))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all
}

func copyPost(post *chatposts.ChatPost) *chatposts.ChatPost {
	copied := *post
	copied.Pairs = append([]chatposts.ChatPair(nil), post.Pairs...)
	if post.FolderID != nil {
		f := *post.FolderID
		copied.FolderID = &f
	}
	return &copied
}
