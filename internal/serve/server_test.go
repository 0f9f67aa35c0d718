package serve

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blogcore/internal/blog"
	"blogcore/internal/domain/config"
	"blogcore/internal/ingest"
	"blogcore/internal/query"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	posts := filepath.Join(root, "posts")
	authors := filepath.Join(root, "authors")
	tags := filepath.Join(root, "tags")

	writeFile(t, filepath.Join(authors, "jane.json"), `{"name":"Jane"}`)
	writeFile(t, filepath.Join(tags, "go.json"), `{"name_en":"Go","name_sk":"Go"}`)
	writeFile(t, filepath.Join(posts, "hello", "index.mdx"),
		"---\ntitle_en: Hello\ntitle_sk: Ahoj\nslug_sk: ahoj\ndate: 2024-02-01\nauthor: jane\ntags: [go]\ncontent_sk: |\n  ## Úvod\n  text\n---\n## Intro\n\nHello <script>alert(1)</script> world\n")
	writeFile(t, filepath.Join(posts, "older", "index.mdx"),
		"---\ntitle_en: Older\ndate: 2024-01-01\ntags: [go]\n---\nolder body\n")

	cfg := config.Default()
	cfg.Site.Title = "Test blog"
	cfg.Site.SiteURL = "https://example.com"
	cfg.Serve.PageSize = 1

	loader := ingest.NewLoader(ingest.Options{Root: posts, AuthorsDir: authors, TagsDir: tags})
	svc, err := blog.New(loader)
	if err != nil {
		t.Fatalf("blog.New failed: %v", err)
	}
	return New(cfg, svc)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPostsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/en/posts?tag=Go&page=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var page query.Page
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 2 || page.TotalPages != 2 || page.PageSize != 1 {
		t.Errorf("page = %+v", page)
	}
	if len(page.Posts) != 1 || page.Posts[0].Slug != "older" {
		t.Errorf("page 2 posts = %+v", page.Posts)
	}

	rec = get(t, s, "/api/sk/posts")
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 1 || page.Posts[0].Slug != "ahoj" {
		t.Errorf("sk posts = %+v", page)
	}
}

func TestPostsEndpointErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		target string
		want   int
	}{
		{"/api/de/posts", http.StatusNotFound},
		{"/api/en/posts?page=abc", http.StatusBadRequest},
		{"/api/en/posts/missing", http.StatusNotFound},
		{"/api/sk/posts/older", http.StatusNotFound},
		{"/api/en/translate/older?to=sk", http.StatusNotFound},
		{"/api/en/translate/hello?to=fr", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := get(t, s, tt.target); rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.target, rec.Code, tt.want)
		}
	}
}

func TestPostEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/en/posts/hello")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got postResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Post.Title != "Hello" || got.Post.Author == nil || got.Post.Author.Name != "Jane" {
		t.Errorf("post = %+v", got.Post)
	}
	if strings.Contains(got.HTML, "<script>") {
		t.Errorf("html not sanitized: %s", got.HTML)
	}
	if len(got.TOC) != 1 || got.TOC[0].Text != "Intro" {
		t.Errorf("toc = %+v", got.TOC)
	}
	if len(got.Related) != 1 || got.Related[0].Slug != "older" {
		t.Errorf("related = %+v", got.Related)
	}
	if got.Adjacent.Next == nil || got.Adjacent.Next.Slug != "older" || got.Adjacent.Previous != nil {
		t.Errorf("adjacent = %+v", got.Adjacent)
	}
	if got.Alternates["sk"] != "ahoj" || got.Alternates["en"] != "hello" {
		t.Errorf("alternates = %v", got.Alternates)
	}
}

func TestTranslateEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/en/translate/hello")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["slug"] != "ahoj" || got["locale"] != "sk" {
		t.Errorf("translate = %v", got)
	}
}

func TestCollectionEndpoints(t *testing.T) {
	s := newTestServer(t)

	var tags []query.TagCount
	rec := get(t, s, "/api/en/tags")
	if err := json.Unmarshal(rec.Body.Bytes(), &tags); err != nil {
		t.Fatalf("decode tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "Go" || tags[0].Count != 2 {
		t.Errorf("tags = %+v", tags)
	}

	var archive []query.ArchiveBucket
	rec = get(t, s, "/api/sk/archive")
	if err := json.Unmarshal(rec.Body.Bytes(), &archive); err != nil {
		t.Fatalf("decode archive: %v", err)
	}
	if len(archive) != 1 || archive[0].Label != "február 2024" {
		t.Errorf("archive = %+v", archive)
	}

	var authors []query.AuthorCount
	rec = get(t, s, "/api/en/authors")
	if err := json.Unmarshal(rec.Body.Bytes(), &authors); err != nil {
		t.Fatalf("decode authors: %v", err)
	}
	if len(authors) != 1 || authors[0].Slug != "jane" {
		t.Errorf("authors = %+v", authors)
	}
}

func TestFeedAndSitemap(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/en/rss.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("rss status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("rss content type = %q", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, "https://example.com/en/blog/hello") {
		t.Errorf("rss missing post link: %s", body)
	}

	rec = get(t, s, "/sitemap.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("sitemap status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"https://example.com/sk/blog/ahoj",
		"https://example.com/en/blog/older",
		"https://example.com/en/blog/archive/2024-01",
		"https://example.com/en/blog/tag/go",
		"<lastmod>2024-02-01</lastmod>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
}
