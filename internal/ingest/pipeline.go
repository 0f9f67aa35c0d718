package ingest

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"blogcore/internal/domain/content"
	domainerr "blogcore/internal/domain/errors"
)

const (
	DefaultIndexFile      = "index.mdx"
	DefaultWordsPerMinute = 200
)

type Warning struct {
	Path string
	Msg  string
}

func (w Warning) String() string {
	return w.Path + ": " + w.Msg
}

type Options struct {
	Root       string
	AuthorsDir string
	TagsDir    string
	IndexFile  string

	// Development makes draft posts visible.
	Development    bool
	WordsPerMinute int
}

type Result struct {
	Posts    []content.Post
	Warnings []Warning
}

type Loader struct {
	opt    Options
	lookup Lookup
}

func NewLoader(opt Options) *Loader {
	if opt.IndexFile == "" {
		opt.IndexFile = DefaultIndexFile
	}
	if opt.WordsPerMinute <= 0 {
		opt.WordsPerMinute = DefaultWordsPerMinute
	}
	return &Loader{
		opt:    opt,
		lookup: Lookup{AuthorsDir: opt.AuthorsDir, TagsDir: opt.TagsDir},
	}
}

func (l *Loader) Options() Options { return l.opt }


// Dirs lists every directory whose contents feed a collection.
func (l *Loader) Dirs() []string {
	var dirs []string
	for _, d := range []string{l.opt.Root, l.opt.AuthorsDir, l.opt.TagsDir} {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

type entryResult struct {
	post content.Post
	ok   bool
	warn *Warning
}

// Load materializes the collection for locale, newest first. Per-post
// problems become warnings; only an unreadable content root is an error.
func (l *Loader) Load(locale content.Locale) (Result, error) {
	if !locale.Valid() {
		return Result{}, fmt.Errorf("load %q: %w", locale, domainerr.ErrUnknownLocale)
	}
	entries, err := DiscoverSource(l.opt.Root, l.opt.IndexFile)
	if err != nil {
		return Result{}, fmt.Errorf("discover %s: %w", l.opt.Root, err)
	}

	results := make([]entryResult, len(entries))
	jobs := make(chan int)

	workers := runtime.GOMAXPROCS(0)
	if workers > len(entries) {
		workers = len(entries)
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = l.loadEntry(entries[idx], locale)
			}
		}()
	}
	for i := range entries {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var res Result
	seen := make(map[string]string, len(results))
	for i, r := range results {
		if r.warn != nil {
			res.Warnings = append(res.Warnings, *r.warn)
		}
		if !r.ok {
			continue
		}
		if first, dup := seen[r.post.Slug]; dup {
			res.Warnings = append(res.Warnings, Warning{
				Path: entries[i].Path,
				Msg:  fmt.Sprintf("duplicate %s slug %q (already used by %s), skipped", locale, r.post.Slug, first),
			})
			continue
		}
		seen[r.post.Slug] = r.post.DirectorySlug
		res.Posts = append(res.Posts, r.post)
	}

	SortByDate(res.Posts)
	return res, nil
}

// SortByDate orders newest first, keeping encounter order among equal dates.
func SortByDate(posts []content.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})
}

func (l *Loader) loadEntry(e SourceEntry, locale content.Locale) entryResult {
	raw, err := os.ReadFile(e.Path)
	if err != nil {
		return skip(e.Path, "read failed: "+err.Error())
	}

	fm, body, err := ParseFrontMatter(raw)
	if err != nil {
		if errors.Is(err, errNoFrontMatter) {
			return skip(e.Path, "no front matter")
		}
		return skip(e.Path, "failed to parse front matter: "+err.Error())
	}

	tr := fm.Translations(string(body))[locale]
	if tr.Title == "" {
		return entryResult{}
	}
	if fm.Date == "" {
		return skip(e.Path, "missing date")
	}
	if fm.Draft && !l.opt.Development {
		return entryResult{}
	}

	p := content.Post{
		DirectorySlug: e.DirectorySlug,
		Slug:          e.DirectorySlug,
		Locale:        locale,
		Title:         tr.Title,
		Excerpt:       tr.Excerpt,
		Body:          tr.Body,
		Date:          fm.Date.String(),
		Draft:         fm.Draft,
		Featured:      fm.Featured,
		ReadingTime:   content.ReadingMinutes(tr.Body, l.opt.WordsPerMinute),
		CoverImage:    fm.CoverImage,
		CoverImageAlt: fm.CoverImageAlt,
		GalleryImages: fm.GalleryImages,
	}
	if !locale.IsDefault() && tr.Slug != "" {
		p.Slug = tr.Slug
	}
	if !tr.SEO.IsZero() {
		seo := tr.SEO
		p.SEO = &seo
	}
	if fm.Author != "" {
		a := l.lookup.ResolveAuthor(fm.Author, locale)
		p.Author = &a
	}
	// an empty tag list loads as nil, the same shape a snapshot decodes to
	if len(fm.Tags) > 0 {
		p.Tags = make([]string, 0, len(fm.Tags))
		p.TagRefs = make([]content.TagRef, 0, len(fm.Tags))
		for _, slug := range fm.Tags {
			t := l.lookup.ResolveTag(slug, locale)
			p.Tags = append(p.Tags, t.Name)
			p.TagRefs = append(p.TagRefs, content.TagRef{Slug: t.Slug, Name: t.Name, URLSlug: t.URLSlug})
		}
	}
	return entryResult{post: p, ok: true}
}

func skip(path, msg string) entryResult {
	return entryResult{warn: &Warning{Path: path, Msg: msg}}
}
