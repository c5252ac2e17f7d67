package blog

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

func (a *App) handleIndex(c echo.Context) error {
	posts, err := a.Posts.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	a.log.Info("blog index request", "posts", len(posts))
	return a.renderPage(c, a.IndexPage(c.Request(), posts))
}

func (a *App) handlePost(c echo.Context) error {
	slug := slugParam(c)
	post, err := a.Posts.GetPost(c.Request().Context(), slug)
	if errors.Is(err, ErrNotFound) {
		a.log.Warn("blog post not found", "slug", slug)
		return a.renderPage(c, a.NotFoundPage(slug))
	}
	if err != nil {
		return err
	}
	a.log.Info("blog post request", "slug", slug)

	page := a.PostPage(c.Request(), post)
	if posts, err := a.Posts.ListPosts(c.Request().Context()); err == nil {
		page.Related = RelatedPosts(post, posts, 3)
	} else {
		a.log.Warn("related posts unavailable", "slug", slug, "error", err)
	}
	return a.renderPage(c, page)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Posts.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Posts.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.staticDir, "robots.txt")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	body := "User-agent: *\nAllow: /\nSitemap: " + a.URLs.BaseURL(c.Request()) + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func handleRootRedirect(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/blog")
}

// slugParam returns the decoded :slug path parameter. Echo matches on the
// raw path when the URL contains escapes such as %2F, leaving them encoded.
func slugParam(c echo.Context) string {
	slug := c.Param("slug")
	if c.Request().URL.RawPath == "" {
		return slug
	}
	if s, err := url.PathUnescape(slug); err == nil {
		return s
	}
	return slug
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
	}

	var rerr error
	switch {
	case code == http.StatusNotFound:
		rerr = a.renderPage(c, a.NotFoundPage(""))
	case code >= 500:
		a.log.Error("server error", "path", c.Request().URL.Path, "error", err)
		rerr = a.renderPage(c, a.ServerErrorPage(code))
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
		return
	}
	if rerr != nil && !c.Response().Committed {
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
