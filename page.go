package blog

import (
	"net/http"
)

// View names understood by ViewFuncs.
const (
	ViewIndex    = "index"
	ViewPost     = "post"
	ViewNotFound = "not-found"
	ViewError    = "error"
)

// CommonAttributes are the site-wide values every page receives,
// including the not-found page.
type CommonAttributes struct {
	BlogTitle            string
	BlogDescription      string
	PublisherURL         string
	PublisherName        string
	DisqusEnabled        bool
	DisqusShortname      string
	SocialSharingEnabled bool
	MediumURL            string
}

func commonAttributes(site SiteConfig) CommonAttributes {
	return CommonAttributes{
		BlogTitle:            site.Title,
		BlogDescription:      site.Description,
		PublisherURL:         site.PublisherURL,
		PublisherName:        site.PublisherName,
		DisqusEnabled:        site.Disqus.Enabled,
		DisqusShortname:      site.Disqus.Shortname,
		SocialSharingEnabled: site.SocialSharing.Enabled,
		MediumURL:            site.MediumURL,
	}
}

// Page is everything a view needs to render one response.
type Page struct {
	View    string
	Status  int
	Common  CommonAttributes
	Meta    *Metadata // nil on the not-found and error pages
	Posts   []BlogPost
	Post    *BlogPost
	Related []BlogPost // post page only
	Slug    string     // requested slug, not-found page only
}

// Attributes flattens the page into the named values templates consume.
// ogImage is present only when a hero image resolved.
func (p Page) Attributes() map[string]any {
	attrs := map[string]any{
		"view":                 p.View,
		"blogTitle":            p.Common.BlogTitle,
		"blogDescription":      p.Common.BlogDescription,
		"publisherUrl":         p.Common.PublisherURL,
		"publisherName":        p.Common.PublisherName,
		"disqusEnabled":        p.Common.DisqusEnabled,
		"disqusShortname":      p.Common.DisqusShortname,
		"socialSharingEnabled": p.Common.SocialSharingEnabled,
		"mediumUrl":            p.Common.MediumURL,
	}

	switch p.View {
	case ViewNotFound:
		attrs["slug"] = p.Slug
		return attrs
	case ViewIndex:
		attrs["posts"] = p.Posts
	case ViewPost:
		attrs["post"] = p.Post
		attrs["relatedPosts"] = p.Related
	}

	if m := p.Meta; m != nil {
		attrs["pageTitle"] = m.PageTitle
		attrs["metaDescription"] = m.MetaDescription
		attrs["canonicalUrl"] = m.CanonicalURL
		attrs["ogTitle"] = m.OG.Title
		attrs["ogDescription"] = m.OG.Description
		attrs["ogType"] = m.OG.Type
		attrs["jsonLd"] = m.JSONLD
		if p.View == ViewPost {
			if m.OG.Image != "" {
				attrs["ogImage"] = m.OG.Image
			}
			attrs["articlePublishedTime"] = m.PublishedTime
			attrs["articleModifiedTime"] = m.ModifiedTime
			attrs["articleAuthor"] = m.Author
		}
	}
	return attrs
}

// IndexPage assembles the blog index for a request.
func (a *App) IndexPage(r *http.Request, posts []BlogPost) Page {
	blogURL := a.URLs.BaseURL(r) + "/blog"
	meta := BuildIndexMetadata(posts, a.Config.Site, blogURL)
	return Page{
		View:   ViewIndex,
		Status: http.StatusOK,
		Common: commonAttributes(a.Config.Site),
		Meta:   &meta,
		Posts:  posts,
	}
}

// PostPage assembles a single post page for a request.
func (a *App) PostPage(r *http.Request, post BlogPost) Page {
	baseURL := a.URLs.BaseURL(r)
	canonicalURL := baseURL + "/blog/" + EncodePathSegment(post.Slug)
	meta := BuildPostMetadata(post, a.Config.Site, baseURL, canonicalURL)
	return Page{
		View:   ViewPost,
		Status: http.StatusOK,
		Common: commonAttributes(a.Config.Site),
		Meta:   &meta,
		Post:   &post,
	}
}

// NotFoundPage carries only the site-wide attributes and the requested slug.
func (a *App) NotFoundPage(slug string) Page {
	return Page{
		View:   ViewNotFound,
		Status: http.StatusNotFound,
		Common: commonAttributes(a.Config.Site),
		Slug:   slug,
	}
}

// ServerErrorPage carries only the site-wide attributes.
func (a *App) ServerErrorPage(code int) Page {
	return Page{
		View:   ViewError,
		Status: code,
		Common: commonAttributes(a.Config.Site),
	}
}
