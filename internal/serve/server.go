package serve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"blogcore/internal/blog"
	"blogcore/internal/domain/config"
	"blogcore/internal/domain/content"
	"blogcore/internal/query"
	"blogcore/internal/render"
)

const relatedLimit = 3

type Server struct {
	cfg config.Config
	svc *blog.Service
	md  *render.MarkdownRenderer
	e   *echo.Echo
}

func New(cfg config.Config, svc *blog.Service) *Server {
	s := &Server{
		cfg: cfg,
		svc: svc,
		md:  render.NewMarkdownRenderer(),
		e:   echo.New(),
	}
	s.e.HideBanner = true
	s.e.HidePort = true

	s.e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[serve] %s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	s.e.Use(middleware.Recover())
	s.e.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))

	api := s.e.Group("/api/:locale")
	api.GET("/posts", s.handlePosts)
	api.GET("/posts/:slug", s.handlePost)
	api.GET("/tags", s.handleTags)
	api.GET("/archive", s.handleArchive)
	api.GET("/authors", s.handleAuthors)
	api.GET("/translate/:dir", s.handleTranslate)

	s.e.GET("/:locale/rss.xml", s.handleFeed)
	s.e.GET("/sitemap.xml", s.handleSitemap)
	s.e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return s
}

// Handler exposes the routes without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.e
}

// ListenAndServe warms the collections, optionally watches the content
// directories and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string, dirs ...string) error {
	if err := s.svc.Warm(); err != nil {
		return err
	}

	if s.cfg.Serve.Watch && len(dirs) > 0 {
		w, err := blog.NewWatcher(s.svc, dirs...)
		if err != nil {
			return fmt.Errorf("serve: watch: %w", err)
		}
		defer w.Close()
		go w.Run(ctx)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.e.Shutdown(shutdownCtx)
	}()

	log.Printf("[serve] listening on %s", addr)
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func localeParam(c echo.Context) (content.Locale, error) {
	l, err := content.ParseLocale(c.Param("locale"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusNotFound, "unknown locale")
	}
	return l, nil
}

func intQuery(c echo.Context, name string) (int, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return n, nil
}

func internalError(op string, err error) error {
	log.Printf("[serve] %s: %v", op, err)
	return echo.NewHTTPError(http.StatusInternalServerError, op+" failed")
}

func (s *Server) handlePosts(c echo.Context) error {
	locale, err := localeParam(c)
	if err != nil {
		return err
	}
	page, err := intQuery(c, "page")
	if err != nil {
		return err
	}
	size, err := intQuery(c, "pageSize")
	if err != nil {
		return err
	}
	if size <= 0 {
		size = s.cfg.Serve.PageSize
	}

	f := query.Filters{
		Search:  c.QueryParam("search"),
		Tag:     c.QueryParam("tag"),
		TagSlug: c.QueryParam("tagSlug"),
		Date:    c.QueryParam("date"),
		Author:  c.QueryParam("author"),
	}
	res, err := s.svc.Query(locale, f, page, size)
	if err != nil {
		return internalError("query", err)
	}
	return c.JSON(http.StatusOK, res)
}

type postResponse struct {
	Post       content.Post              `json:"post"`
	HTML       string                    `json:"html"`
	TOC        []render.Heading          `json:"toc"`
	Related    []content.Post            `json:"related"`
	Adjacent   query.Adjacent            `json:"adjacent"`
	Alternates map[content.Locale]string `json:"alternates"`
}

func (s *Server) handlePost(c echo.Context) error {
	locale, err := localeParam(c)
	if err != nil {
		return err
	}
	slug := c.Param("slug")

	p, ok, err := s.svc.Post(locale, slug)
	if err != nil {
		return internalError("load post", err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	}

	md, err := s.md.Render([]byte(p.Body))
	if err != nil {
		return internalError("render "+slug, err)
	}
	related, err := s.svc.Related(locale, slug, relatedLimit)
	if err != nil {
		return internalError("related", err)
	}
	adj, err := s.svc.Adjacent(locale, slug)
	if err != nil {
		return internalError("adjacent", err)
	}
	alt, err := s.svc.Alternates(p)
	if err != nil {
		return internalError("alternates", err)
	}

	return c.JSON(http.StatusOK, postResponse{
		Post:       p,
		HTML:       string(md.HTML),
		TOC:        md.Headings,
		Related:    related,
		Adjacent:   adj,
		Alternates: alt,
	})
}

func (s *Server) handleTags(c echo.Context) error {
	locale, err := localeParam(c)
	if err != nil {
		return err
	}
	tags, err := s.svc.Tags(locale)
	if err != nil {
		return internalError("tags", err)
	}
	return c.JSON(http.StatusOK, tags)
}

func (s *Server) handleArchive(c echo.Context) error {
	locale, err := localeParam(c)
	if err != nil {
		return err
	}
	buckets, err := s.svc.Archive(locale)
	if err != nil {
		return internalError("archive", err)
	}
	return c.JSON(http.StatusOK, buckets)
}

func (s *Server) handleAuthors(c echo.Context) error {
	locale, err := localeParam(c)
	if err != nil {
		return err
	}
	authors, err := s.svc.Authors(locale)
	if err != nil {
		return internalError("authors", err)
	}
	return c.JSON(http.StatusOK, authors)
}

// /api/:locale/translate/:dir?to=sk
func (s *Server) handleTranslate(c echo.Context) error {
	from, err := localeParam(c)
	if err != nil {
		return err
	}
	target := from.Other()
	if to := c.QueryParam("to"); to != "" {
		if target, err = content.ParseLocale(to); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown target locale")
		}
	}

	slug, ok, err := s.svc.TranslatedSlug(c.Param("dir"), target)
	if err != nil {
		return internalError("translate", err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no translation")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"locale": string(target),
		"slug":   slug,
	})
}

func (s *Server) handleFeed(c echo.Context) error {
	locale, err := localeParam(c)
	if err != nil {
		return err
	}
	posts, err := s.svc.Posts(locale)
	if err != nil {
		return internalError("feed", err)
	}

	rss, err := render.RSS(s.cfg.Site, locale, posts)
	if err != nil {
		return internalError("feed", err)
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}
