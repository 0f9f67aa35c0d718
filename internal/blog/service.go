package blog

import (
	"errors"
	"fmt"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"

	"blogcore/internal/domain/content"
	"blogcore/internal/index"
	"blogcore/internal/ingest"
	"blogcore/internal/query"
)

// Service answers collection queries for both locales. Without options it
// rescans the content root on every call.
type Service struct {
	loader *ingest.Loader

	cache     *lru.Cache[string, []content.Post]
	snapshots *index.Store
}

type Option func(*Service) error

// WithCache keeps up to size resolved collections in memory, keyed by
// locale and content fingerprint.
func WithCache(size int) Option {
	return func(s *Service) error {
		if size <= 0 {
			return nil
		}
		c, err := lru.New[string, []content.Post](size)
		if err != nil {
			return fmt.Errorf("blog: cache: %w", err)
		}
		s.cache = c
		return nil
	}
}

// WithSnapshots persists resolved collections in st.
func WithSnapshots(st *index.Store) Option {
	return func(s *Service) error {
		s.snapshots = st
		return nil
	}
}

func New(loader *ingest.Loader, opts ...Option) (*Service, error) {
	s := &Service{loader: loader}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Invalidate forgets every cached collection.
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *Service) cached() bool {
	return s.cache != nil || s.snapshots != nil
}

// Posts returns the newest-first collection for locale. The slice may be
// shared with other callers and must not be modified.
func (s *Service) Posts(locale content.Locale) ([]content.Post, error) {
	if !s.cached() {
		return s.load(locale)
	}

	opt := s.loader.Options()
	fp, err := Fingerprint(s.loader)
	if err != nil {
		log.Printf("[blog] fingerprint failed, loading directly: %v", err)
		return s.load(locale)
	}
	key := index.SnapshotKey{Locale: locale, Development: opt.Development}
	cacheKey := key.String() + "@" + fp.Sum

	if s.cache != nil {
		if posts, ok := s.cache.Get(cacheKey); ok {
			return posts, nil
		}
	}

	if s.snapshots != nil {
		posts, err := s.snapshots.Load(key, fp.Sum)
		switch {
		case err == nil:
			s.remember(cacheKey, posts)
			return posts, nil
		case errors.Is(err, index.ErrNotFound), errors.Is(err, index.ErrStale):
		default:
			log.Printf("[blog] snapshot %s unreadable: %v", key, err)
		}
	}

	posts, err := s.load(locale)
	if err != nil {
		return nil, err
	}
	if s.snapshots != nil {
		if err := s.snapshots.Save(key, fp.Sum, posts); err != nil {
			log.Printf("[blog] snapshot %s not saved: %v", key, err)
		}
	}
	s.remember(cacheKey, posts)
	return posts, nil
}

// Fingerprint identifies the content and loader options a snapshot was
// built from.
func Fingerprint(l *ingest.Loader) (index.Fingerprint, error) {
	opt := l.Options()
	return index.Compute(l.Dirs(), opt.IndexFile, opt.Development, opt.WordsPerMinute)
}

func (s *Service) remember(key string, posts []content.Post) {
	if s.cache != nil {
		s.cache.Add(key, posts)
	}
}

func (s *Service) load(locale content.Locale) ([]content.Post, error) {
	res, err := s.loader.Load(locale)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		log.Printf("[ingest] %s", w)
	}
	return res.Posts, nil
}

// Warm resolves every locale once, e.g. at startup.
func (s *Service) Warm() error {
	for _, l := range content.Locales {
		posts, err := s.Posts(l)
		if err != nil {
			return fmt.Errorf("warm %s: %w", l, err)
		}
		log.Printf("[blog] %s: %d posts", l, len(posts))
	}
	return nil
}

// Post finds a post by its locale slug.
func (s *Service) Post(locale content.Locale, slug string) (content.Post, bool, error) {
	posts, err := s.Posts(locale)
	if err != nil {
		return content.Post{}, false, err
	}
	i := query.IndexOf(posts, slug)
	if i < 0 {
		return content.Post{}, false, nil
	}
	return posts[i], true, nil
}

func (s *Service) Query(locale content.Locale, f query.Filters, page, pageSize int) (query.Page, error) {
	posts, err := s.Posts(locale)
	if err != nil {
		return query.Page{}, err
	}
	return query.FilterAndPaginate(posts, f, page, pageSize), nil
}

func (s *Service) Tags(locale content.Locale) ([]query.TagCount, error) {
	posts, err := s.Posts(locale)
	if err != nil {
		return nil, err
	}
	return query.TagFrequencies(posts), nil
}

func (s *Service) Archive(locale content.Locale) ([]query.ArchiveBucket, error) {
	posts, err := s.Posts(locale)
	if err != nil {
		return nil, err
	}
	return query.ArchiveBuckets(posts, locale), nil
}

func (s *Service) Authors(locale content.Locale) ([]query.AuthorCount, error) {
	posts, err := s.Posts(locale)
	if err != nil {
		return nil, err
	}
	return query.AuthorCounts(posts), nil
}

func (s *Service) Related(locale content.Locale, slug string, limit int) ([]content.Post, error) {
	posts, err := s.Posts(locale)
	if err != nil {
		return nil, err
	}
	return query.RelatedPosts(posts, slug, limit), nil
}

func (s *Service) Adjacent(locale content.Locale, slug string) (query.Adjacent, error) {
	posts, err := s.Posts(locale)
	if err != nil {
		return query.Adjacent{}, err
	}
	return query.AdjacentPosts(posts, slug), nil
}

// TranslatedSlug maps a directory slug to its slug in target, if the post
// is translated there.
func (s *Service) TranslatedSlug(directorySlug string, target content.Locale) (string, bool, error) {
	posts, err := s.Posts(target)
	if err != nil {
		return "", false, err
	}
	for _, p := range posts {
		if p.DirectorySlug == directorySlug {
			return p.Slug, true, nil
		}
	}
	return "", false, nil
}

// Alternates lists the slug of p in every locale it exists in, p's own
// locale included.
func (s *Service) Alternates(p content.Post) (map[content.Locale]string, error) {
	out := map[content.Locale]string{p.Locale: p.Slug}
	for _, l := range content.Locales {
		if l == p.Locale {
			continue
		}
		slug, ok, err := s.TranslatedSlug(p.DirectorySlug, l)
		if err != nil {
			return nil, err
		}
		if ok {
			out[l] = slug
		}
	}
	return out, nil
}
