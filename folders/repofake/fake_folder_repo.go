package repofake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chatkeep/chatkeep-server/folders"
	"github.com/google/uuid"
)

var _ folders.Repo = (*FakeFolderRepo)(nil)

type FakeFolderRepo struct {
	folders map[string]*folders.Folder
	lock    sync.RWMutex
}

func NewFakeFolderRepo() *FakeFolderRepo {
	return &FakeFolderRepo{folders: make(map[string]*folders.Folder)}
}

func (fr *FakeFolderRepo) Create(_ context.Context, folder *folders.Folder) error {
	fr.lock.Lock()
	defer fr.lock.Unlock()

	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now()
	}
	copied := *folder
	fr.folders[copied.ID] = &copied
	return nil
}

func (fr *FakeFolderRepo) GetByID(_ context.Context, id string) (*folders.Folder, error) {
	fr.lock.RLock()
	defer fr.lock.RUnlock()

	folder, ok := fr.folders[id]
	if !ok {
		return nil, folders.ErrNotFound
	}
	copied := *folder
	return &copied, nil
}

func (fr *FakeFolderRepo) ListAll(_ context.Context) ([]*folders.Folder, error) {
	fr.lock.RLock()
	defer fr.lock.RUnlock()
	return fr.list(func(*folders.Folder) bool { return true }), nil
}

func (fr *FakeFolderRepo) ListByUserID(_ context.Context, userID string) ([]*folders.Folder, error) {
	fr.lock.RLock()
	defer fr.lock.RUnlock()
	return fr.list(func(f *folders.Folder) bool { return f.UserID == userID }), nil
}

func (fr *FakeFolderRepo) Update(_ context.Context, id, name string) error {
	fr.lock.Lock()
	defer fr.lock.Unlock()

	folder, ok := fr.folders[id]
	if !ok {
		return folders.ErrNotFound
	}
	folder.Name = name
	return nil
}

func (fr *FakeFolderRepo) Delete(_ context.Context, id string) error {
	fr.lock.Lock()
	defer fr.lock.Unlock()

	if _, ok := fr.folders[id]; !ok {
		return folders.ErrNotFound
	}
	delete(fr.folders, id)
	return nil
}

func (fr *FakeFolderRepo) list(match func(*folders.Folder) bool) []*folders.Folder {
	all := make([]*folders.Folder, 0)
	for _, folder := range fr.folders {
		if match(folder) {
			copied := *folder
			all = append(all, &copied)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all
}
