package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"blogcore/internal/domain/content"
)

// Lookup resolves author and tag slugs against directories of one JSON
// record per slug.
type Lookup struct {
	AuthorsDir string
	TagsDir    string
}

type authorRecord struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	RoleEN string `json:"role_en"`
	RoleSK string `json:"role_sk"`
	BioEN  string `json:"bio_en"`
	BioSK  string `json:"bio_sk"`
}

type tagRecord struct {
	NameEN string `json:"name_en"`
	NameSK string `json:"name_sk"`
	SlugSK string `json:"slug_sk"`
}

// LookupAuthor reports whether a readable record exists for slug.
func (l Lookup) LookupAuthor(slug string, locale content.Locale) (content.Author, bool) {
	var rec authorRecord
	if !readRecord(l.AuthorsDir, slug, &rec) {
		return content.Author{}, false
	}
	a := content.Author{
		Slug:   slug,
		Name:   strings.TrimSpace(rec.Name),
		Avatar: strings.TrimSpace(rec.Avatar),
		Role:   pick(locale, rec.RoleEN, rec.RoleSK),
		Bio:    pick(locale, rec.BioEN, rec.BioSK),
	}
	if a.Name == "" {
		a.Name = slug
	}
	return a, true
}

// ResolveAuthor never fails: a missing or unreadable record becomes a
// placeholder named after the slug.
func (l Lookup) ResolveAuthor(slug string, locale content.Locale) content.Author {
	if a, ok := l.LookupAuthor(slug, locale); ok {
		return a
	}
	return content.PlaceholderAuthor(slug)
}

func (l Lookup) LookupTag(slug string, locale content.Locale) (content.Tag, bool) {
	var rec tagRecord
	if !readRecord(l.TagsDir, slug, &rec) {
		return content.Tag{}, false
	}
	name := pick(locale, rec.NameEN, rec.NameSK)
	if name == "" {
		return content.Tag{}, false
	}
	t := content.Tag{Slug: slug, Name: name, URLSlug: slug}
	if locale == content.Slovak {
		if s := strings.TrimSpace(rec.SlugSK); s != "" {
			t.URLSlug = s
		}
	}
	return t, true
}

// ResolveTag falls back to the raw slug as display name.
func (l Lookup) ResolveTag(slug string, locale content.Locale) content.Tag {
	if t, ok := l.LookupTag(slug, locale); ok {
		return t
	}
	return content.Tag{Slug: slug, Name: slug, URLSlug: slug}
}

// ResolveTagNames keeps input order.
func (l Lookup) ResolveTagNames(slugs []string, locale content.Locale) []string {
	out := make([]string, 0, len(slugs))
	for _, s := range slugs {
		out = append(out, l.ResolveTag(s, locale).Name)
	}
	return out
}

func pick(locale content.Locale, en, sk string) string {
	if locale == content.Slovak {
		return strings.TrimSpace(sk)
	}
	return strings.TrimSpace(en)
}

func readRecord(dir, slug string, v any) bool {
	slug = strings.TrimSpace(slug)
	if dir == "" || slug == "" || strings.ContainsAny(slug, `/\`) || slug == "." || slug == ".." {
		return false
	}
	data, err := os.ReadFile(filepath.Join(dir, slug+".json"))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}
