package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// timeLayout keeps stored timestamps fixed-width so they sort as text.
const timeLayout = "2006-01-02T15:04:05Z"

// Store keeps blog posts in SQLite or PostgreSQL. It implements PostSource.
type Store struct {
	db     *sqlx.DB
	driver string
}

type postRow struct {
	Slug        string `db:"slug"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Author      string `db:"author"`
	HeroImage   string `db:"hero_image"`
	PubDate     string `db:"pub_date"`
	UpdatedDate string `db:"updated_date"`
	Tags        string `db:"tags"`
	Content     string `db:"content"`
	Published   int    `db:"published"`
}

const postColumns = `slug, title, description, author, hero_image, pub_date, updated_date, tags, content, published`

// NewStore connects to the database, creating the SQLite data directory if
// needed, and applies the embedded migrations. driver is "sqlite" or "pgx".
func NewStore(driver, dsn string) (*Store, error) {
	if driver == "sqlite" {
		path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
	}
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// WAL lets readers proceed during writes; the busy timeout makes
		// writers wait instead of failing with SQLITE_BUSY.
		if _, err := db.Exec(`
			PRAGMA journal_mode=WAL;
			PRAGMA busy_timeout=5000;
			PRAGMA synchronous=NORMAL;
		`); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure sqlite: %w", err)
		}
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := migrate(db.DB, driver); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("database connected", "driver", driver)
	return &Store{db: db, driver: driver}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB, driver string) error {
	dialect := "postgres"
	if driver == "sqlite" {
		dialect = "sqlite3"
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

// ListPosts returns all published posts ordered by publication date, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]BlogPost, error) {
	return s.selectPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE published = 1 ORDER BY pub_date DESC, slug`)
}

// ListAllPosts returns every post, drafts included, newest first.
func (s *Store) ListAllPosts(ctx context.Context) ([]BlogPost, error) {
	return s.selectPosts(ctx, `SELECT `+postColumns+` FROM posts ORDER BY pub_date DESC, slug`)
}

func (s *Store) selectPosts(ctx context.Context, query string, args ...any) ([]BlogPost, error) {
	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts := make([]BlogPost, 0, len(rows))
	for _, r := range rows {
		p, err := r.post()
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// GetPost returns a single published post by slug, or ErrNotFound.
func (s *Store) GetPost(ctx context.Context, slug string) (BlogPost, error) {
	var r postRow
	err := s.db.GetContext(ctx, &r, s.db.Rebind(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND published = 1`), slug)
	if errors.Is(err, sql.ErrNoRows) {
		return BlogPost{}, ErrNotFound
	}
	if err != nil {
		return BlogPost{}, fmt.Errorf("get post %q: %w", slug, err)
	}
	return r.post()
}

// SavePost inserts or replaces a post. Tags are normalized to lowercase.
func (s *Store) SavePost(ctx context.Context, p BlogPost) error {
	if p.Slug == "" {
		return errors.New("save post: empty slug")
	}
	updated := ""
	if !p.UpdatedDate.IsZero() {
		updated = p.UpdatedDate.UTC().Format(timeLayout)
	}
	published := 0
	if p.Published {
		published = 1
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (slug) DO UPDATE SET
    title = excluded.title,
    description = excluded.description,
    author = excluded.author,
    hero_image = excluded.hero_image,
    pub_date = excluded.pub_date,
    updated_date = excluded.updated_date,
    tags = excluded.tags,
    content = excluded.content,
    published = excluded.published`),
		p.Slug, p.Title, p.Description, p.Author, p.HeroImage,
		p.PubDate.UTC().Format(timeLayout), updated, JoinTags(p.Tags), p.Content, published)
	if err != nil {
		return fmt.Errorf("save post %q: %w", p.Slug, err)
	}
	return nil
}

// DeletePost removes a post by slug.
func (s *Store) DeletePost(ctx context.Context, slug string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM posts WHERE slug = ?`), slug); err != nil {
		return fmt.Errorf("delete post %q: %w", slug, err)
	}
	return nil
}

func (r postRow) post() (BlogPost, error) {
	pub, err := time.Parse(timeLayout, r.PubDate)
	if err != nil {
		return BlogPost{}, fmt.Errorf("post %q: parse pub_date: %w", r.Slug, err)
	}
	var updated time.Time
	if r.UpdatedDate != "" {
		if updated, err = time.Parse(timeLayout, r.UpdatedDate); err != nil {
			return BlogPost{}, fmt.Errorf("post %q: parse updated_date: %w", r.Slug, err)
		}
	}
	return BlogPost{
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Author:      r.Author,
		HeroImage:   r.HeroImage,
		PubDate:     pub,
		UpdatedDate: updated,
		Tags:        ParseTags(r.Tags),
		Content:     r.Content,
		Published:   r.Published == 1,
	}, nil
}

// JoinTags encodes tags as ",a,b," so a single tag can be matched with instr.
func JoinTags(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			normalized = append(normalized, t)
		}
	}
	if len(normalized) == 0 {
		return ""
	}
	return "," + strings.Join(normalized, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
