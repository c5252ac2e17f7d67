package blog

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) renderSitemap(c echo.Context, posts []BlogPost) error {
	base := a.URLs.BaseURL(c.Request())
	urls := make([]sitemapURL, 0, len(posts)+1)
	index := sitemapURL{Loc: base + "/blog"}
	if latest := latestUpdate(posts); !latest.IsZero() {
		index.LastMod = latest.UTC().Format("2006-01-02")
	}
	urls = append(urls, index)
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     base + p.Link(),
			LastMod: p.EffectiveDate().UTC().Format("2006-01-02"),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}

// latestUpdate returns the newest effective date among posts, or the zero time.
func latestUpdate(posts []BlogPost) time.Time {
	var latest time.Time
	for _, p := range posts {
		if d := p.EffectiveDate(); d.After(latest) {
			latest = d
		}
	}
	return latest
}
