package app

import (
	"os"
	"path/filepath"
	"testing"

	"blogcore/internal/blog"
	"blogcore/internal/domain/content"
	"blogcore/internal/domain/site"
	"blogcore/internal/ingest"
	"blogcore/internal/query"
)

func TestBuildListRoutes(t *testing.T) {
	rb := &RouteBuilder{PageSize: 2}
	tests := []struct {
		total int
		want  int
	}{
		{0, 1}, {2, 1}, {3, 2}, {6, 3},
	}
	for _, tt := range tests {
		if got := rb.BuildListRoutes(content.English, tt.total); len(got) != tt.want {
			t.Errorf("BuildListRoutes(%d) = %d routes, want %d", tt.total, len(got), tt.want)
		}
	}
}

func TestBuildTagRoutesDeduplicates(t *testing.T) {
	posts := []content.Post{
		{TagRefs: []content.TagRef{{Slug: "web"}, {Slug: "go"}}},
		{TagRefs: []content.TagRef{{Slug: "golang", URLSlug: "go"}}},
	}
	got := BuildTagRoutes(content.Slovak, posts)
	if len(got) != 2 || got[0].Key != "go" || got[1].Key != "web" || got[0].Locale != content.Slovak {
		t.Errorf("BuildTagRoutes = %+v", got)
	}
}

func TestBuildTagRoutesUseLocaleSlug(t *testing.T) {
	root := t.TempDir()
	posts := filepath.Join(root, "posts")
	tags := filepath.Join(root, "tags")
	writeFile(t, filepath.Join(tags, "golang.json"), `{"name_en":"Go","name_sk":"Go","slug_sk":"go-jazyk"}`)
	writeFile(t, filepath.Join(posts, "hello", ingest.DefaultIndexFile),
		"---\ntitle_en: Hello\ntitle_sk: Ahoj\ndate: 2024-05-01\ntags: [golang]\n---\nbody\n")

	svc, err := blog.New(ingest.NewLoader(ingest.Options{Root: posts, TagsDir: tags}))
	if err != nil {
		t.Fatal(err)
	}
	rb := &RouteBuilder{Service: svc}

	tests := []struct {
		locale content.Locale
		path   string
	}{
		{content.English, "/en/blog/tag/golang"},
		{content.Slovak, "/sk/blog/tag/go-jazyk"},
	}
	for _, tt := range tests {
		routes, err := rb.BuildRoutes(tt.locale)
		if err != nil {
			t.Fatalf("BuildRoutes(%s) failed: %v", tt.locale, err)
		}
		var got []string
		for _, r := range routes {
			if r.Kind == site.RouteTag {
				got = append(got, r.Path())
			}
		}
		if len(got) != 1 || got[0] != tt.path {
			t.Errorf("%s tag routes = %v, want [%s]", tt.locale, got, tt.path)
		}
	}

	// filtering still uses the stored slug in every locale
	page, err := svc.Query(content.Slovak, query.Filters{TagSlug: "golang"}, 1, 6)
	if err != nil || page.Total != 1 {
		t.Errorf("Query(sk, TagSlug=golang) = %+v, %v", page, err)
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildRoutes(t *testing.T) {
	root := t.TempDir()
	posts := filepath.Join(root, "posts")
	path := filepath.Join(posts, "hello", ingest.DefaultIndexFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	doc := "---\ntitle_en: Hello\ndate: 2024-05-01\nauthor: jane\ntags: [go]\n---\nbody\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	svc, err := blog.New(ingest.NewLoader(ingest.Options{Root: posts}))
	if err != nil {
		t.Fatal(err)
	}
	routes, err := (&RouteBuilder{Service: svc}).BuildRoutes(content.English)
	if err != nil {
		t.Fatalf("BuildRoutes failed: %v", err)
	}

	kinds := map[site.RouteKind]int{}
	for _, r := range routes {
		kinds[r.Kind]++
	}
	for _, k := range []site.RouteKind{site.RouteBlog, site.RoutePost, site.RouteTag, site.RouteArchive, site.RouteAuthor, site.RouteRSS} {
		if kinds[k] != 1 {
			t.Errorf("%s routes = %d, want 1 (all: %v)", k, kinds[k], routes)
		}
	}
}
