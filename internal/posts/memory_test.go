package posts_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/questlog/questlog/internal/posts"
)

type memoryPosts struct {
	mu     sync.Mutex
	posts  map[int64]*posts.Post
	nextID int64
	err    error
}

func newMemoryPosts(seed ...posts.Post) *memoryPosts {
	m := &memoryPosts{posts: make(map[int64]*posts.Post), nextID: 100}
	for i := range seed {
		p := seed[i]
		m.posts[p.ID] = &p
	}
	return m
}

func (m *memoryPosts) List(_ context.Context, limit, offset int) ([]posts.Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	all := make([]posts.Post, 0, len(m.posts))
	for _, p := range m.posts {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if offset >= len(all) {
		return nil, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (m *memoryPosts) Get(_ context.Context, id int64) (*posts.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, posts.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryPosts) Create(_ context.Context, in posts.NewPost, slug string) (*posts.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now()
	p := &posts.Post{ID: m.nextID, UserID: in.UserID, Title: in.Title, Slug: slug, Content: in.Content, ImageURL: in.ImageURL, CreatedAt: now, UpdatedAt: now}
	m.posts[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *memoryPosts) Update(_ context.Context, id int64, in posts.PostUpdate, slug *string) (*posts.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, posts.ErrPostNotFound
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if slug != nil {
		p.Slug = *slug
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	cp := *p
	return &cp, nil
}

func (m *memoryPosts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return posts.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memoryPosts) OwnerID(ctx context.Context, id int64) (int64, error) {
	p, err := m.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.UserID, nil
}

func (m *memoryPosts) has(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.posts[id]
	return ok
}
