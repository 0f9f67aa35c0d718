package app

import (
	"sort"

	"blogcore/internal/blog"
	"blogcore/internal/domain/content"
	"blogcore/internal/domain/site"
	"blogcore/internal/query"
)

// RouteBuilder lists every public page of one locale.
type RouteBuilder struct {
	Service  *blog.Service
	PageSize int
}

func (rb *RouteBuilder) BuildRoutes(locale content.Locale) ([]site.Route, error) {
	posts, err := rb.Service.Posts(locale)
	if err != nil {
		return nil, err
	}

	routes := rb.BuildListRoutes(locale, len(posts))
	routes = append(routes, rb.BuildPostRoutes(posts)...)
	routes = append(routes, BuildTagRoutes(locale, posts)...)
	for _, b := range query.ArchiveBuckets(posts, locale) {
		routes = append(routes, site.Route{Kind: site.RouteArchive, Locale: locale, Key: b.Key})
	}
	for _, a := range query.AuthorCounts(posts) {
		routes = append(routes, site.Route{Kind: site.RouteAuthor, Locale: locale, Key: a.Slug})
	}
	routes = append(routes, site.Route{Kind: site.RouteRSS, Locale: locale})
	return routes, nil
}

// BuildListRoutes returns one route per page of the unfiltered listing.
func (rb *RouteBuilder) BuildListRoutes(locale content.Locale, total int) []site.Route {
	size := rb.PageSize
	if size <= 0 {
		size = query.DefaultPageSize
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	routes := make([]site.Route, 0, pages)
	for p := 1; p <= pages; p++ {
		routes = append(routes, site.Route{Kind: site.RouteBlog, Locale: locale, Page: p})
	}
	return routes
}

func (rb *RouteBuilder) BuildPostRoutes(posts []content.Post) []site.Route {
	routes := make([]site.Route, 0, len(posts))
	for _, p := range posts {
		routes = append(routes, site.PostRoute(p))
	}
	return routes
}

// BuildTagRoutes returns one route per distinct tag path slug of the locale,
// sorted by that slug.
func BuildTagRoutes(locale content.Locale, posts []content.Post) []site.Route {
	seen := map[string]struct{}{}
	for _, p := range posts {
		for _, t := range p.TagRefs {
			if k := t.PathSlug(); k != "" {
				seen[k] = struct{}{}
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	routes := make([]site.Route, 0, len(keys))
	for _, k := range keys {
		routes = append(routes, site.Route{Kind: site.RouteTag, Locale: locale, Key: k})
	}
	return routes
}
