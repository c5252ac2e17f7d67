// Package content loads blog posts from a directory of markdown files with
// YAML frontmatter and watches that directory for changes.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mindmeld360/blog"
	"github.com/mindmeld360/blog/markdown"
)

// frontmatter is the YAML header of a post file. Dates are decoded as
// strings so both "2024-01-15" and full RFC 3339 timestamps are accepted.
type frontmatter struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	Author      string   `yaml:"author"`
	PubDate     string   `yaml:"pubDate"`
	UpdatedDate string   `yaml:"updatedDate"`
	HeroImage   string   `yaml:"heroImage"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"Jan 2 2006",
	"Jan 02 2006",
}

// Directory reads posts from *.md files directly under Dir.
// It implements blog.PostSource.
type Directory struct {
	Dir    string
	parser *markdown.Parser
}

// NewDirectory returns a Directory source rooted at dir.
func NewDirectory(dir string) *Directory {
	return &Directory{Dir: dir, parser: markdown.NewParser()}
}

// ListPosts loads every published post, newest first. Files that cannot be
// parsed are skipped with a warning; a repeated slug keeps the first file
// in name order.
func (d *Directory) ListPosts(ctx context.Context) ([]blog.BlogPost, error) {
	files, err := filepath.Glob(filepath.Join(d.Dir, "*.md"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	posts := make([]blog.BlogPost, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		post, err := d.Load(file)
		if err != nil {
			slog.Warn("skipping post file", "file", file, "error", err)
			continue
		}
		if !post.Published {
			continue
		}
		if first, dup := seen[post.Slug]; dup {
			slog.Warn("duplicate post slug", "slug", post.Slug, "file", file, "kept", first)
			continue
		}
		seen[post.Slug] = file
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PubDate.After(posts[j].PubDate)
	})
	return posts, nil
}

// GetPost returns the published post with slug, or blog.ErrNotFound.
func (d *Directory) GetPost(ctx context.Context, slug string) (blog.BlogPost, error) {
	posts, err := d.ListPosts(ctx)
	if err != nil {
		return blog.BlogPost{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return blog.BlogPost{}, blog.ErrNotFound
}

// Load parses a single markdown file. Drafts are returned with Published
// set to false.
func (d *Directory) Load(path string) (blog.BlogPost, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return blog.BlogPost{}, err
	}
	return d.parse(path, src)
}

func (d *Directory) parse(path string, src []byte) (blog.BlogPost, error) {
	var fm frontmatter
	ok, err := d.parser.Frontmatter(src, &fm)
	if err != nil {
		return blog.BlogPost{}, fmt.Errorf("decode frontmatter: %w", err)
	}
	if !ok {
		return blog.BlogPost{}, errors.New("missing frontmatter")
	}
	if strings.TrimSpace(fm.Title) == "" {
		return blog.BlogPost{}, errors.New("missing title")
	}
	pub, err := parseDate(fm.PubDate)
	if err != nil {
		return blog.BlogPost{}, fmt.Errorf("pubDate: %w", err)
	}
	var updated time.Time
	if fm.UpdatedDate != "" {
		if updated, err = parseDate(fm.UpdatedDate); err != nil {
			return blog.BlogPost{}, fmt.Errorf("updatedDate: %w", err)
		}
	}

	slug := fm.Slug
	if slug == "" {
		slug = blog.Slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	if slug == "" {
		return blog.BlogPost{}, errors.New("empty slug")
	}

	return blog.BlogPost{
		Slug:        slug,
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(fm.Description),
		Author:      strings.TrimSpace(fm.Author),
		HeroImage:   strings.TrimSpace(fm.HeroImage),
		PubDate:     pub,
		UpdatedDate: updated,
		Tags:        fm.Tags,
		Content:     string(src),
		Published:   !fm.Draft,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
