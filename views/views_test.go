package views

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mindmeld360/blog"
)

type memSource []blog.BlogPost

func (m memSource) ListPosts(context.Context) ([]blog.BlogPost, error) { return m, nil }

func (m memSource) GetPost(_ context.Context, slug string) (blog.BlogPost, error) {
	for _, p := range m {
		if p.Slug == slug {
			return p, nil
		}
	}
	return blog.BlogPost{}, blog.ErrNotFound
}

var testPosts = memSource{
	{
		Slug:        "hello",
		Title:       "Hello",
		Description: "First post",
		Author:      "Ada",
		HeroImage:   "/images/hero.png",
		PubDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"go"},
		Content:     "# Hello\n\nSome **bold** text.",
		Published:   true,
	},
	{
		Slug:      "plain",
		Title:     "Plain <Title>",
		Author:    "Bob",
		PubDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Tags:      []string{"go"},
		Content:   "plain body",
		Published: true,
	},
}

func newTestApp(t *testing.T, mutate func(*blog.Config)) *blog.App {
	t.Helper()
	cfg := blog.Config{
		Site: blog.SiteConfig{
			Title:        "Mind Meld",
			Description:  "Notes on software",
			PublisherURL: "https://mindmeld.example",
			MediumURL:    "https://medium.com/@mindmeld",
		},
	}
	cfg.Server.StaticDir = t.TempDir()
	if mutate != nil {
		mutate(&cfg)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return blog.New(cfg, testPosts, Funcs(), blog.WithLogger(logger))
}

func get(t *testing.T, app *blog.App, path string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = "blog.example"
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	if err != nil {
		t.Fatalf("parse HTML: %v", err)
	}
	return rec, doc
}

func metaContent(doc *goquery.Document, selector string) (string, bool) {
	return doc.Find(selector).First().Attr("content")
}

func jsonLDOf(t *testing.T, doc *goquery.Document) map[string]any {
	t.Helper()
	raw := doc.Find(`script[type="application/ld+json"]`).First().Text()
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("JSON-LD is not valid JSON: %v\n%s", err, raw)
	}
	return out
}

func TestIndexPage(t *testing.T) {
	rec, doc := get(t, newTestApp(t, nil), "/blog")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if got := doc.Find("title").Text(); got != "Mind Meld" {
		t.Errorf("title = %q, want Mind Meld", got)
	}
	if href, _ := doc.Find(`link[rel="canonical"]`).Attr("href"); href != "https://blog.example/blog" {
		t.Errorf("canonical = %q", href)
	}
	if v, _ := metaContent(doc, `meta[property="og:type"]`); v != "website" {
		t.Errorf("og:type = %q, want website", v)
	}
	if v, _ := metaContent(doc, `meta[name="description"]`); v != "Notes on software" {
		t.Errorf("description = %q", v)
	}
	if doc.Find(`meta[property="og:image"]`).Length() != 0 {
		t.Error("index page should not carry og:image")
	}

	links := doc.Find("article.post-summary h2 a")
	if links.Length() != 2 {
		t.Fatalf("got %d post links, want 2", links.Length())
	}
	if href, _ := links.First().Attr("href"); href != "/blog/hello" {
		t.Errorf("first link = %q, want /blog/hello", href)
	}
	if got := links.Eq(1).Text(); got != "Plain <Title>" {
		t.Errorf("second title = %q", got)
	}

	ld := jsonLDOf(t, doc)
	if ld["@type"] != "Blog" || ld["url"] != "https://blog.example/blog" {
		t.Errorf("unexpected JSON-LD: %v", ld)
	}
	if href, _ := doc.Find("a.medium-link").Attr("href"); href != "https://medium.com/@mindmeld" {
		t.Errorf("medium link = %q", href)
	}
}

func TestPostPage(t *testing.T) {
	rec, doc := get(t, newTestApp(t, nil), "/blog/hello")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if got := doc.Find("title").Text(); got != "Hello — Mind Meld" {
		t.Errorf("title = %q", got)
	}
	if href, _ := doc.Find(`link[rel="canonical"]`).Attr("href"); href != "https://blog.example/blog/hello" {
		t.Errorf("canonical = %q", href)
	}
	checks := map[string]string{
		`meta[property="og:type"]`:                "article",
		`meta[property="og:title"]`:               "Hello",
		`meta[property="og:image"]`:               "https://blog.example/images/hero.png",
		`meta[property="article:published_time"]`: "2024-01-15T00:00:00Z",
		`meta[property="article:modified_time"]`:  "2024-01-15T00:00:00Z",
		`meta[property="article:author"]`:         "Ada",
	}
	for sel, want := range checks {
		if got, _ := metaContent(doc, sel); got != want {
			t.Errorf("%s = %q, want %q", sel, got, want)
		}
	}

	if got := doc.Find(".post-body strong").Text(); got != "bold" {
		t.Errorf("rendered markdown missing, strong = %q", got)
	}
	if got := doc.Find(".related a").Text(); got != "Plain <Title>" {
		t.Errorf("related = %q", got)
	}

	ld := jsonLDOf(t, doc)
	if ld["@type"] != "BlogPosting" || ld["headline"] != "Hello" {
		t.Errorf("unexpected JSON-LD: %v", ld)
	}
	if ld["image"] != "https://blog.example/images/hero.png" {
		t.Errorf("JSON-LD image = %v", ld["image"])
	}
}

func TestPostPageWithoutHeroImage(t *testing.T) {
	_, doc := get(t, newTestApp(t, nil), "/blog/plain")

	if doc.Find(`meta[property="og:image"]`).Length() != 0 {
		t.Error("og:image should be absent without a hero image")
	}
	if doc.Find(`meta[name="description"]`).Length() != 0 {
		t.Error("meta description should be absent for a post without description")
	}
	ld := jsonLDOf(t, doc)
	if _, ok := ld["image"]; ok {
		t.Error("JSON-LD image should be absent without a hero image")
	}
	if d, ok := ld["description"]; !ok || d != "" {
		t.Errorf("JSON-LD description = %v, want empty string", d)
	}
}

func TestNotFoundPage(t *testing.T) {
	rec, doc := get(t, newTestApp(t, nil), "/blog/missing-post")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := doc.Find("main code").Text(); got != "/blog/missing-post" {
		t.Errorf("slug shown = %q", got)
	}
	if doc.Find(`link[rel="canonical"]`).Length() != 0 {
		t.Error("not-found page should have no canonical link")
	}
	if doc.Find(`script[type="application/ld+json"]`).Length() != 0 {
		t.Error("not-found page should have no JSON-LD")
	}
	if v, _ := metaContent(doc, `meta[name="robots"]`); v != "noindex" {
		t.Errorf("robots = %q, want noindex", v)
	}
}

func TestUnknownRouteUsesNotFoundView(t *testing.T) {
	rec, doc := get(t, newTestApp(t, nil), "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if doc.Find("main.not-found").Length() != 1 {
		t.Error("expected the not-found view")
	}
}

func TestDisqusAndSharing(t *testing.T) {
	app := newTestApp(t, func(c *blog.Config) {
		c.Site.Disqus = blog.DisqusConfig{Enabled: true, Shortname: "mindmeld"}
		c.Site.SocialSharing.Enabled = true
	})
	_, doc := get(t, app, "/blog/hello")

	if doc.Find("#disqus_thread").Length() != 1 {
		t.Error("disqus thread missing")
	}
	if !strings.Contains(doc.Find(".comments script").Text(), `"mindmeld"`) {
		t.Error("disqus shortname not embedded")
	}
	href, _ := doc.Find("a.share-twitter").Attr("href")
	if !strings.Contains(href, "https%3a%2f%2fblog.example%2fblog%2fhello") &&
		!strings.Contains(href, "https%3A%2F%2Fblog.example%2Fblog%2Fhello") {
		t.Errorf("share link does not carry the canonical URL: %q", href)
	}
}

func TestDisqusAndSharingDisabled(t *testing.T) {
	_, doc := get(t, newTestApp(t, nil), "/blog/hello")
	if doc.Find("#disqus_thread").Length() != 0 {
		t.Error("disqus should be off by default")
	}
	if doc.Find("nav.share").Length() != 0 {
		t.Error("sharing links should be off by default")
	}
}

func TestFooterPublisherLink(t *testing.T) {
	_, doc := get(t, newTestApp(t, nil), "/blog")
	link := doc.Find("footer a.publisher-link")
	if href, _ := link.Attr("href"); href != "https://mindmeld.example" {
		t.Errorf("publisher href = %q", href)
	}
	if got := link.Text(); got != "Mind Meld" {
		t.Errorf("publisher text = %q, want the blog title", got)
	}

	app := newTestApp(t, func(c *blog.Config) { c.Site.PublisherName = "MindMeld360" })
	_, doc = get(t, app, "/blog")
	if got := doc.Find("footer a.publisher-link").Text(); got != "MindMeld360" {
		t.Errorf("publisher text = %q, want MindMeld360", got)
	}
}
