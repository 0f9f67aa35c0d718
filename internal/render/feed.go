package render

import (
	"time"

	"github.com/gorilla/feeds"

	"blogcore/internal/domain/config"
	"blogcore/internal/domain/content"
	"blogcore/internal/domain/site"
)

const FeedLimit = 20

// Feed builds the RSS channel of one locale from a newest-first collection.
func Feed(cfg config.SiteConfig, locale content.Locale, posts []content.Post) *feeds.Feed {
	f := &feeds.Feed{
		Title:       cfg.Title,
		Link:        &feeds.Link{Href: site.Route{Kind: site.RouteBlog, Locale: locale}.URL(cfg.SiteURL)},
		Description: cfg.Description,
	}
	if cfg.Author != "" {
		f.Author = &feeds.Author{Name: cfg.Author}
	}

	if len(posts) > FeedLimit {
		posts = posts[:FeedLimit]
	}
	for _, p := range posts {
		link := site.PostRoute(p).URL(cfg.SiteURL)
		item := &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Id:          link,
			Description: p.Excerpt,
			Created:     p.Time(),
		}
		if p.Author != nil {
			item.Author = &feeds.Author{Name: p.Author.Name}
		}
		f.Items = append(f.Items, item)
	}
	if len(f.Items) > 0 {
		f.Created = f.Items[0].Created
	} else {
		f.Created = time.Now()
	}
	return f
}

// RSS renders the feed of one locale with its channel language set.
func RSS(cfg config.SiteConfig, locale content.Locale, posts []content.Post) (string, error) {
	rss := (&feeds.Rss{Feed: Feed(cfg, locale, posts)}).RssFeed()
	rss.Language = config.SiteLanguage(locale)
	return feeds.ToXML(rss)
}
