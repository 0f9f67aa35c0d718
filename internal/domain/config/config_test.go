package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	domainerr "blogcore/internal/domain/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if Default().Development() {
		t.Error("default config should not show drafts")
	}
}

func TestValidateCollectsFields(t *testing.T) {
	cfg := Default()
	cfg.Site.SiteURL = "example.com"
	cfg.Content.IndexFile = "posts/index.mdx"
	cfg.Serve.PageSize = 0

	err := cfg.Validate()
	if !errors.Is(err, domainerr.ErrInvalid) {
		t.Fatalf("Validate() = %v, want ErrInvalid", err)
	}
	var ve domainerr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error is not a ValidationError: %T", err)
	}
	fields := map[string]bool{}
	for _, it := range ve.Items {
		fields[it.Field] = true
	}
	for _, f := range []string{"site.site_url", "content.index_file", "serve.page_size"} {
		if !fields[f] {
			t.Errorf("missing field error for %s in %v", f, ve.Items)
		}
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	data := "site:\n  title: Notes\n  site_url: https://notes.example\ncontent:\n  root: posts\nserve:\n  page_size: 10\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BLOG_ENV", "Development")
	t.Setenv("BLOG_ADDR", ":9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Site.Title != "Notes" || cfg.Content.Root != "posts" || cfg.Serve.PageSize != 10 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Content.AuthorsDir != "content/authors" {
		t.Errorf("defaults lost: authors_dir = %q", cfg.Content.AuthorsDir)
	}
	if cfg.Serve.Addr != ":9090" || !cfg.Development() {
		t.Errorf("env overrides not applied: addr %q dev %v", cfg.Serve.Addr, cfg.Development())
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	t.Setenv("BLOG_CONTENT_ROOT", "elsewhere")
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Content.Root != "elsewhere" {
		t.Errorf("root = %q, want elsewhere", cfg.Content.Root)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	if err := os.WriteFile(env, []byte("BLOG_TEST_DOTENV=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("BLOG_TEST_DOTENV") })

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), env); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv("BLOG_TEST_DOTENV"); got != "loaded" {
		t.Errorf("BLOG_TEST_DOTENV = %q", got)
	}
	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing files should be ignored, got %v", err)
	}
}
