package blog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore("sqlite", filepath.Join(t.TempDir(), "data", "blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testPost(slug string, pub time.Time) BlogPost {
	return BlogPost{
		Slug:        slug,
		Title:       "Title " + slug,
		Description: "About " + slug,
		Author:      "Ada",
		PubDate:     pub,
		Tags:        []string{"Go", " web "},
		Content:     "# " + slug,
		Published:   true,
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := testPost("hello", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC))
	p.HeroImage = "/images/hero.png"
	p.UpdatedDate = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if err := s.SavePost(ctx, p); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	got, err := s.GetPost(ctx, "hello")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != p.Title || got.Author != "Ada" || got.HeroImage != "/images/hero.png" {
		t.Errorf("unexpected post: %+v", got)
	}
	if !got.PubDate.Equal(p.PubDate) || !got.UpdatedDate.Equal(p.UpdatedDate) {
		t.Errorf("dates = %v / %v", got.PubDate, got.UpdatedDate)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "web" {
		t.Errorf("Tags = %v, want [go web]", got.Tags)
	}
}

func TestStoreUpsert(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := testPost("hello", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	if err := s.SavePost(ctx, p); err != nil {
		t.Fatal(err)
	}
	p.Title = "Updated"
	if err := s.SavePost(ctx, p); err != nil {
		t.Fatalf("second SavePost failed: %v", err)
	}

	all, err := s.ListAllPosts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Title != "Updated" {
		t.Errorf("posts = %+v, want one Updated post", all)
	}
}

func TestStoreNotFoundAndUnpublished(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.GetPost(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing post: got %v, want ErrNotFound", err)
	}

	draft := testPost("draft", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	draft.Published = false
	if err := s.SavePost(ctx, draft); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetPost(ctx, "draft"); !errors.Is(err, ErrNotFound) {
		t.Errorf("draft post: got %v, want ErrNotFound", err)
	}
	posts, err := s.ListPosts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 0 {
		t.Errorf("ListPosts returned drafts: %+v", posts)
	}
}

func TestStoreListOrderAndDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, p := range []BlogPost{
		testPost("old", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)),
		testPost("new", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		testPost("mid", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)),
	} {
		if err := s.SavePost(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	posts, err := s.ListPosts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var slugs []string
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	if len(slugs) != 3 || slugs[0] != "new" || slugs[1] != "mid" || slugs[2] != "old" {
		t.Errorf("order = %v, want [new mid old]", slugs)
	}

	if err := s.DeletePost(ctx, "mid"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPost(ctx, "mid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted post still found: %v", err)
	}
}

func TestStoreRejectsEmptySlug(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SavePost(context.Background(), BlogPost{Title: "x"}); err == nil {
		t.Fatal("expected error for empty slug")
	}
}

func TestJoinAndParseTags(t *testing.T) {
	if got := JoinTags([]string{"Go", "", " Web "}); got != ",go,web," {
		t.Errorf("JoinTags = %q, want ,go,web,", got)
	}
	if got := JoinTags(nil); got != "" {
		t.Errorf("JoinTags(nil) = %q, want empty", got)
	}
	if got := ParseTags(",go,web,"); len(got) != 2 || got[1] != "web" {
		t.Errorf("ParseTags = %v", got)
	}
	if got := ParseTags(""); got != nil {
		t.Errorf("ParseTags(\"\") = %v, want nil", got)
	}
}
