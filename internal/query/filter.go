package query

import (
	"strings"
	"time"

	"blogcore/internal/domain/content"
)

const DefaultPageSize = 6

// Filters are conjunctive; empty fields do not constrain.
type Filters struct {
	Search string
	// Tag matches a resolved display name.
	Tag string
	// TagSlug matches the stored tag slug regardless of locale.
	TagSlug string
	// Date is a YYYY-MM month key.
	Date string
	// Author matches the author slug.
	Author string
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

type Page struct {
	Posts      []content.Post `json:"posts"`
	Total      int            `json:"total"`
	TotalPages int            `json:"totalPages"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
}

// Filter returns the posts matching every set filter, keeping order. With
// no filter set it returns posts itself.
func Filter(posts []content.Post, f Filters) []content.Post {
	if f.IsZero() {
		return posts
	}
	m := newMatcher(f)
	out := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		if m.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// FilterAndPaginate filters then cuts out the 1-indexed page. A page past
// the end is empty, not an error.
func FilterAndPaginate(posts []content.Post, f Filters, page, pageSize int) Page {
	page, pageSize = normalizePaging(page, pageSize)
	filtered := Filter(posts, f)

	total := len(filtered)
	res := Page{
		Posts:      []content.Post{},
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
		Page:       page,
		PageSize:   pageSize,
	}
	start := (page - 1) * pageSize
	if start >= total {
		return res
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	res.Posts = filtered[start:end]
	return res
}

func normalizePaging(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return page, size
}

// MonthRange returns the half-open interval [start, next) of a YYYY-MM key.
func MonthRange(key string) (time.Time, time.Time, bool) {
	start, err := time.Parse(monthLayout, strings.TrimSpace(key))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, start.AddDate(0, 1, 0), true
}

type matcher struct {
	f          Filters
	search     string
	start, end time.Time
	badDate    bool
}

func newMatcher(f Filters) matcher {
	m := matcher{f: f, search: strings.ToLower(strings.TrimSpace(f.Search))}
	if f.Date != "" {
		start, end, ok := MonthRange(f.Date)
		m.start, m.end, m.badDate = start, end, !ok
	}
	return m
}

func (m matcher) match(p content.Post) bool {
	if m.search != "" && !matchesSearch(p, m.search) {
		return false
	}
	if m.f.Tag != "" && !p.HasTag(m.f.Tag) {
		return false
	}
	if m.f.TagSlug != "" && !p.HasTagSlug(m.f.TagSlug) {
		return false
	}
	if m.f.Date != "" {
		if m.badDate {
			return false
		}
		t := p.Time()
		if t.IsZero() || t.Before(m.start) || !t.Before(m.end) {
			return false
		}
	}
	if m.f.Author != "" && p.AuthorSlug() != m.f.Author {
		return false
	}
	return true
}

func matchesSearch(p content.Post, needle string) bool {
	if strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Excerpt), needle) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}
