package site

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"blogcore/internal/domain/content"
)

type RouteKind string

const (
	RouteBlog    RouteKind = "blog"
	RoutePost    RouteKind = "post"
	RouteTag     RouteKind = "tag"
	RouteArchive RouteKind = "archive"
	RouteAuthor  RouteKind = "author"
	RouteRSS     RouteKind = "rss"
)

// Route identifies one public page of the localized site.
type Route struct {
	Kind   RouteKind
	Locale content.Locale
	Slug   string
	Key    string
	Page   int
}

// Path renders the site-relative URL path, e.g. /sk/blog/moj-clanok.
func (r Route) Path() string {
	loc := string(r.Locale)
	if loc == "" {
		loc = string(content.DefaultLocale)
	}
	var p string
	switch r.Kind {
	case RoutePost:
		p = path.Join("/", loc, "blog", r.Slug)
	case RouteTag:
		p = path.Join("/", loc, "blog", "tag", r.Key)
	case RouteArchive:
		p = path.Join("/", loc, "blog", "archive", r.Key)
	case RouteAuthor:
		p = path.Join("/", loc, "blog", "author", r.Key)
	case RouteRSS:
		p = path.Join("/", loc, "rss.xml")
	default:
		p = path.Join("/", loc, "blog")
	}
	if r.Page > 1 && r.Kind != RoutePost && r.Kind != RouteRSS {
		p += fmt.Sprintf("?page=%d", r.Page)
	}
	return p
}

// URL joins the route onto an absolute site URL, keeping any path prefix
// the site is mounted under.
func (r Route) URL(siteURL string) string {
	base, err := url.Parse(strings.TrimSpace(siteURL))
	if err != nil {
		return r.Path()
	}
	ref, err := url.Parse(r.Path())
	if err != nil {
		return r.Path()
	}
	base.Path = strings.TrimRight(base.Path, "/") + ref.Path
	base.RawPath = ""
	base.RawQuery = ref.RawQuery
	base.Fragment = ""
	return base.String()
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Locale != "" {
		parts = append(parts, "locale="+string(r.Locale))
	}
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.Page > 0 {
		parts = append(parts, fmt.Sprintf("page=%d", r.Page))
	}
	return strings.Join(parts, " ")
}

func PostRoute(p content.Post) Route {
	return Route{Kind: RoutePost, Locale: p.Locale, Slug: p.Slug}
}
