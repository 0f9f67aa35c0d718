package content

import (
	"strings"

	domainerr "blogcore/internal/domain/errors"
)

type Locale string

const (
	English Locale = "en"
	Slovak  Locale = "sk"

	DefaultLocale = English
)

// Locales lists every supported locale, default first.
var Locales = []Locale{English, Slovak}

func ParseLocale(s string) (Locale, error) {
	switch l := Locale(strings.ToLower(strings.TrimSpace(s))); l {
	case English, Slovak:
		return l, nil
	default:
		return "", domainerr.ErrUnknownLocale
	}
}

func (l Locale) IsDefault() bool {
	return l == DefaultLocale
}

func (l Locale) Valid() bool {
	_, err := ParseLocale(string(l))
	return err == nil
}

// Other returns the counterpart locale of a two-locale site.
func (l Locale) Other() Locale {
	if l == English {
		return Slovak
	}
	return English
}

func (l Locale) String() string {
	return string(l)
}
