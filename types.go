package blog

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("blog: post not found")

// BlogPost is the core content type served by the blog pages.
type BlogPost struct {
	Slug        string
	Title       string
	Description string // optional
	Author      string
	HeroImage   string // optional; absolute URL or site-relative path
	PubDate     time.Time
	UpdatedDate time.Time // zero when the post was never updated
	Tags        []string
	Content     string // markdown source
	Published   bool
}

// EffectiveDate is the last-modified time of the post. It never precedes PubDate.
func (p BlogPost) EffectiveDate() time.Time {
	if p.UpdatedDate.IsZero() || p.UpdatedDate.Before(p.PubDate) {
		return p.PubDate
	}
	return p.UpdatedDate
}

// Link returns the site-relative URL of the post.
func (p BlogPost) Link() string {
	return "/blog/" + EncodePathSegment(p.Slug)
}

// PostSource is the content service the handlers read from.
// ListPosts returns published posts newest first; GetPost returns
// ErrNotFound when no published post has the slug.
type PostSource interface {
	ListPosts(ctx context.Context) ([]BlogPost, error)
	GetPost(ctx context.Context, slug string) (BlogPost, error)
}
