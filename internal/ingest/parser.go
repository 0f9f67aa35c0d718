package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"blogcore/internal/domain/content"
)

var errNoFrontMatter = errors.New("no front matter found")
var errInvalidFrontMatter = errors.New("invalid front matter")

// FrontMatter mirrors the canonical dual-locale document. English lives in
// the unsuffixed body, Slovak in content_sk.
type FrontMatter struct {
	TitleEN   string    `yaml:"title_en"`
	TitleSK   string    `yaml:"title_sk"`
	ExcerptEN string    `yaml:"excerpt_en"`
	ExcerptSK string    `yaml:"excerpt_sk"`
	SEOEN     seoFields `yaml:"seo_en"`
	SEOSK     seoFields `yaml:"seo_sk"`
	ContentSK string    `yaml:"content_sk"`
	SlugSK    string    `yaml:"slug_sk"`

	Date     DateField `yaml:"date"`
	Draft    bool      `yaml:"draft"`
	Featured bool      `yaml:"featured"`

	Author string   `yaml:"author"`
	Tags   []string `yaml:"tags"`

	CoverImage    string   `yaml:"coverImage"`
	CoverImageAlt string   `yaml:"coverImageAlt"`
	GalleryImages []string `yaml:"galleryImages"`
}

type seoFields struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Keywords    keywordList `yaml:"keywords"`
}

// keywordList accepts either "a, b" or a YAML sequence.
type keywordList string

func (k *keywordList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*k = keywordList(strings.TrimSpace(value.Value))
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		var kept []string
		for _, it := range items {
			if it = strings.TrimSpace(it); it != "" {
				kept = append(kept, it)
			}
		}
		*k = keywordList(strings.Join(kept, ", "))
		return nil
	default:
		return fmt.Errorf("keywords: unexpected yaml kind %v", value.Kind)
	}
}

// DateField holds a normalized YYYY-MM-DD date whether the source wrote a
// bare date, a timestamp or a quoted string.
type DateField string

func (d *DateField) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("date: expected scalar")
	}
	s := strings.TrimSpace(value.Value)
	if s == "" {
		*d = ""
		return nil
	}
	t := ParseTime(s)
	if t.IsZero() {
		return fmt.Errorf("date: unsupported format %q", s)
	}
	*d = DateField(t.Format(content.DateLayout))
	return nil
}

func (d DateField) String() string {
	return string(d)
}

func (fm FrontMatter) seo(l content.Locale) content.SEO {
	f := fm.SEOEN
	if l == content.Slovak {
		f = fm.SEOSK
	}
	return content.SEO{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Keywords:    string(f.Keywords),
	}
}

// Translations maps every locale to its payload. body is the document
// content below the front matter.
func (fm FrontMatter) Translations(body string) map[content.Locale]content.Translation {
	return map[content.Locale]content.Translation{
		content.English: {
			Title:   strings.TrimSpace(fm.TitleEN),
			Excerpt: strings.TrimSpace(fm.ExcerptEN),
			Body:    body,
			SEO:     fm.seo(content.English),
		},
		content.Slovak: {
			Title:   strings.TrimSpace(fm.TitleSK),
			Excerpt: strings.TrimSpace(fm.ExcerptSK),
			Body:    strings.TrimSpace(fm.ContentSK),
			Slug:    strings.TrimSpace(fm.SlugSK),
			SEO:     fm.seo(content.Slovak),
		},
	}
}

func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return FrontMatter{}, raw, errNoFrontMatter
	}

	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	norm = bytes.ReplaceAll(norm, []byte("\r"), []byte("\n"))

	const (
		sep      = "---"
		sepLine  = sep + "\n"
		closeMid = "\n" + sep + "\n"
	)

	if !bytes.HasPrefix(norm, []byte(sepLine)) {
		return FrontMatter{}, raw, errNoFrontMatter
	}
	rest := norm[len(sepLine):]

	var yamlPart, bodyPart []byte
	if parts := bytes.SplitN(rest, []byte(closeMid), 2); len(parts) == 2 {
		yamlPart = parts[0]
		bodyPart = parts[1]
	} else if bytes.HasSuffix(rest, []byte("\n"+sep)) {
		yamlPart = rest[:len(rest)-len("\n"+sep)]
	} else if bytes.Equal(bytes.TrimSpace(rest), []byte(sep)) {
		yamlPart = nil
	} else {
		return FrontMatter{}, raw, errInvalidFrontMatter
	}

	yamlPart = bytes.TrimSpace(yamlPart)
	bodyPart = bytes.TrimSpace(bodyPart)

	var fm FrontMatter
	if len(yamlPart) > 0 {
		if err := yaml.Unmarshal(yamlPart, &fm); err != nil {
			return FrontMatter{}, raw, err
		}
	}
	return fm, bodyPart, nil
}

func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.DateOnly,
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04",
		time.DateTime,
		"2006-01-02 15:04:05 -0700 MST",
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}
