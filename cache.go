package blog

import (
	"context"
	"sync"
	"time"
)

// PostCache is an in-memory TTL cache of published posts in front of any
// PostSource. It implements PostSource itself.
type PostCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	bySlug  map[string]int
	fetched time.Time
	ttl     time.Duration
	source  PostSource
	now     func() time.Time
}

// NewPostCache creates a PostCache backed by source.
func NewPostCache(source PostSource, ttl time.Duration) *PostCache {
	return &PostCache{source: source, ttl: ttl, now: time.Now}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.bySlug = nil
	c.mu.Unlock()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.source.ListPosts(ctx)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []BlogPost{}
	}
	bySlug := make(map[string]int, len(posts))
	for i, p := range posts {
		if _, dup := bySlug[p.Slug]; !dup {
			bySlug[p.Slug] = i
		}
	}
	c.posts = posts
	c.bySlug = bySlug
	c.fetched = c.now()
	return nil
}

// ensureLoaded returns cached posts after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]BlogPost, map[string]int, error) {
	c.mu.RLock()
	if c.valid() {
		posts, bySlug := c.posts, c.bySlug
		c.mu.RUnlock()
		return posts, bySlug, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.posts, c.bySlug, nil
}

// ListPosts returns the cached published posts, newest first.
func (c *PostCache) ListPosts(ctx context.Context) ([]BlogPost, error) {
	posts, _, err := c.ensureLoaded(ctx)
	return posts, err
}

// GetPost returns a single published post by slug from the cache.
func (c *PostCache) GetPost(ctx context.Context, slug string) (BlogPost, error) {
	posts, bySlug, err := c.ensureLoaded(ctx)
	if err != nil {
		return BlogPost{}, err
	}
	i, ok := bySlug[slug]
	if !ok {
		return BlogPost{}, ErrNotFound
	}
	return posts[i], nil
}
