package content

import (
	"strings"
	"time"
)

// DateLayout is the only date representation a Post carries.
const DateLayout = time.DateOnly

type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
}

func (s SEO) IsZero() bool {
	return s.Title == "" && s.Description == "" && s.Keywords == ""
}

// Translation is the locale-specific payload of a post.
type Translation struct {
	Title   string
	Excerpt string
	Body    string
	Slug    string
	SEO     SEO
}

// TagRef is a resolved tag of one post. Slug is the stored tag slug used
// for filtering; URLSlug is the locale's path segment.
type TagRef struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	URLSlug string `json:"urlSlug,omitempty"`
}

// PathSlug is URLSlug, or Slug when no override was resolved.
func (t TagRef) PathSlug() string {
	if t.URLSlug != "" {
		return t.URLSlug
	}
	return t.Slug
}

type Post struct {
	DirectorySlug string `json:"directorySlug"`
	Slug          string `json:"slug"`
	Locale        Locale `json:"locale"`

	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Body    string `json:"body"`

	Date        string `json:"date"`
	Draft       bool   `json:"draft"`
	Featured    bool   `json:"featured"`
	ReadingTime int    `json:"readingTime"`

	Author  *Author  `json:"author,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	TagRefs []TagRef `json:"tagRefs,omitempty"`

	CoverImage    string   `json:"coverImage,omitempty"`
	CoverImageAlt string   `json:"coverImageAlt,omitempty"`
	GalleryImages []string `json:"galleryImages,omitempty"`

	SEO *SEO `json:"seo,omitempty"`
}

// Time parses Date; the zero time is returned for a malformed date.
func (p Post) Time() time.Time {
	t, err := time.Parse(DateLayout, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (p Post) HasTag(name string) bool {
	for _, t := range p.Tags {
		if t == name {
			return true
		}
	}
	return false
}

func (p Post) HasTagSlug(slug string) bool {
	for _, t := range p.TagRefs {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

// AuthorSlug is empty when the post has no author.
func (p Post) AuthorSlug() string {
	if p.Author == nil {
		return ""
	}
	return p.Author.Slug
}

// WordCount counts whitespace separated tokens of the body.
func WordCount(body string) int {
	return len(strings.Fields(body))
}

// ReadingMinutes rounds up; an empty body reads in zero minutes.
func ReadingMinutes(body string, wpm int) int {
	if wpm <= 0 {
		wpm = 200
	}
	words := WordCount(body)
	if words == 0 {
		return 0
	}
	return (words + wpm - 1) / wpm
}
