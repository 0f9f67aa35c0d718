package serve

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"blogcore/internal/app"
	"blogcore/internal/domain/content"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (s *Server) handleSitemap(c echo.Context) error {
	rb := &app.RouteBuilder{Service: s.svc, PageSize: s.cfg.Serve.PageSize}
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	for _, l := range content.Locales {
		posts, err := s.svc.Posts(l)
		if err != nil {
			return internalError("sitemap", err)
		}
		dates := make(map[string]string, len(posts))
		for _, p := range posts {
			dates[p.Slug] = p.Date
		}

		routes, err := rb.BuildRoutes(l)
		if err != nil {
			return internalError("sitemap", err)
		}
		for _, r := range routes {
			u := sitemapURL{Loc: r.URL(s.cfg.Site.SiteURL)}
			if r.Slug != "" {
				u.LastMod = dates[r.Slug]
			}
			set.URLs = append(set.URLs, u)
		}
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return internalError("sitemap", err)
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}
