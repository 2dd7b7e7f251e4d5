package persistent

import (
	"context"
	"sort"
	"sync"
	"time"

	"post-board/services/post/internal/entity"
)

type memoryPost struct {
	post      entity.Post
	deletedAt *time.Time
}

type memoryPostRepository struct {
	mu     sync.RWMutex
	nextID uint
	posts  map[uint]*memoryPost
	now    func() time.Time
}

// NewMemoryPostRepository returns a PostRepository kept in process memory.
func NewMemoryPostRepository() PostRepository {
	return &memoryPostRepository{
		nextID: 1,
		posts:  map[uint]*memoryPost{},
		now:    time.Now,
	}
}

func (r *memoryPostRepository) Insert(_ context.Context, post *entity.Post) (uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *post
	stored.ID = r.nextID
	stored.CreatedAt = r.now()
	r.nextID++

	r.posts[stored.ID] = &memoryPost{post: stored}
	*post = stored
	return stored.ID, nil
}

func (r *memoryPostRepository) FindByID(_ context.Context, id uint) (*entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found, ok := r.live(id)
	if !ok {
		return nil, ErrPostNotFound
	}
	post := found.post
	return &post, nil
}

func (r *memoryPostRepository) Update(_ context.Context, id uint, author, title, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found, ok := r.live(id)
	if !ok {
		return ErrPostNotFound
	}
	found.post.Author = author
	found.post.Title = title
	found.post.Content = content
	return nil
}

func (r *memoryPostRepository) SoftDelete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found, ok := r.live(id)
	if !ok {
		return ErrPostNotFound
	}
	deletedAt := r.now()
	found.deletedAt = &deletedAt
	return nil
}

func (r *memoryPostRepository) Search(_ context.Context, filter entity.SearchFilter) ([]*entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]*entity.Post, 0, entity.PageSize)
	for _, stored := range r.posts {
		if stored.deletedAt != nil || !filter.Matches(&stored.post) {
			continue
		}
		post := stored.post
		posts = append(posts, &post)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID > posts[j].ID
	})
	if len(posts) > entity.PageSize {
		posts = posts[:entity.PageSize]
	}
	return posts, nil
}

func (r *memoryPostRepository) live(id uint) (*memoryPost, bool) {
	found, ok := r.posts[id]
	if !ok || found.deletedAt != nil {
		return nil, false
	}
	return found, true
}
