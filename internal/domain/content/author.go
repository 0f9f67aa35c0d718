package content

type Author struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role,omitempty"`
	Bio    string `json:"bio,omitempty"`

	// Placeholder marks an author synthesized from a slug with no lookup record.
	Placeholder bool `json:"placeholder,omitempty"`
}

func PlaceholderAuthor(slug string) Author {
	return Author{Slug: slug, Name: slug, Placeholder: true}
}

type Tag struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	URLSlug string `json:"urlSlug"`
}
