package blog

import (
	"log/slog"
	"strings"
	"time"
)

// OpenGraph carries the og:* properties of a page.
type OpenGraph struct {
	Title       string
	Description string
	Type        string // "website" or "article"
	Image       string // absolute URL, empty when the page has none
}

// Metadata carries per-page SEO metadata into the <head> template.
type Metadata struct {
	PageTitle       string
	MetaDescription string
	CanonicalURL    string
	OG              OpenGraph

	// Post pages only.
	PublishedTime string
	ModifiedTime  string
	Author        string

	StructuredData JSONLD
	JSONLD         string // serialized StructuredData, "{}" on failure
}

// BuildIndexMetadata returns the metadata of the blog index page.
func BuildIndexMetadata(posts []BlogPost, site SiteConfig, blogURL string) Metadata {
	slog.Debug("building index metadata", "posts", len(posts))

	doc := JSONLD{
		"@context":    schemaContext,
		"@type":       "Blog",
		"name":        site.Title,
		"description": site.Description,
		"url":         blogURL,
		"publisher":   publisherJSONLD(site),
	}
	return Metadata{
		PageTitle:       site.Title,
		MetaDescription: site.Description,
		CanonicalURL:    blogURL,
		OG: OpenGraph{
			Title:       site.Title,
			Description: site.Description,
			Type:        "website",
		},
		StructuredData: doc,
		JSONLD:         marshalJSONLD(doc),
	}
}

// BuildPostMetadata returns the metadata of a single post page. baseURL
// resolves site-relative hero images; canonicalURL identifies the page.
func BuildPostMetadata(post BlogPost, site SiteConfig, baseURL, canonicalURL string) Metadata {
	image := ResolveImageURL(baseURL, post.HeroImage)
	published := formatTimestamp(post.PubDate)
	modified := formatTimestamp(post.EffectiveDate())

	doc := JSONLD{
		"@context":    schemaContext,
		"@type":       "BlogPosting",
		"headline":    post.Title,
		"description": post.Description,
		"author": JSONLD{
			"@type": "Person",
			"name":  post.Author,
		},
		"datePublished": published,
		"dateModified":  modified,
		"publisher":     publisherJSONLD(site),
		"mainEntityOfPage": JSONLD{
			"@type": "WebPage",
			"@id":   canonicalURL,
		},
	}
	if image != "" {
		doc["image"] = image
	}

	return Metadata{
		PageTitle:       post.Title + " — " + site.Title,
		MetaDescription: post.Description,
		CanonicalURL:    canonicalURL,
		OG: OpenGraph{
			Title:       post.Title,
			Description: post.Description,
			Type:        "article",
			Image:       image,
		},
		PublishedTime:  published,
		ModifiedTime:   modified,
		Author:         post.Author,
		StructuredData: doc,
		JSONLD:         marshalJSONLD(doc),
	}
}

// ResolveImageURL turns a hero image reference into an absolute URL.
// Absolute http(s) URLs are kept; anything else is joined to baseURL with
// exactly one slash. An empty image yields an empty string.
func ResolveImageURL(baseURL, image string) string {
	if image == "" {
		return ""
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	if strings.HasPrefix(image, "/") {
		return baseURL + image
	}
	return baseURL + "/" + image
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
