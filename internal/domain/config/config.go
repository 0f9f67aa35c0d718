package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"blogcore/internal/domain/content"
	domainerr "blogcore/internal/domain/errors"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Build   BuildConfig   `yaml:"build"`
	Serve   ServeConfig   `yaml:"serve"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	SiteURL     string `yaml:"site_url"`
}

type ContentConfig struct {
	Root       string `yaml:"root"`
	AuthorsDir string `yaml:"authors_dir"`
	TagsDir    string `yaml:"tags_dir"`
	IndexFile  string `yaml:"index_file"`
}

type BuildConfig struct {
	Env            string `yaml:"env"`
	IndexPath      string `yaml:"index_path"`
	WordsPerMinute int    `yaml:"words_per_minute"`
}

type ServeConfig struct {
	Addr      string `yaml:"addr"`
	PageSize  int    `yaml:"page_size"`
	CacheSize int    `yaml:"cache_size"`
	Watch     bool   `yaml:"watch"`
}

const EnvDevelopment = "development"

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:   "Blog",
			SiteURL: "http://localhost:8080",
		},
		Content: ContentConfig{
			Root:       "content/posts",
			AuthorsDir: "content/authors",
			TagsDir:    "content/tags",
			IndexFile:  "index.mdx",
		},
		Build: BuildConfig{
			Env:            "production",
			IndexPath:      ".blogcore/index.db",
			WordsPerMinute: 200,
		},
		Serve: ServeConfig{
			Addr:      ":8080",
			PageSize:  6,
			CacheSize: 8,
			Watch:     true,
		},
	}
}

// Development reports whether draft posts should be visible.
func (c Config) Development() bool {
	return strings.EqualFold(strings.TrimSpace(c.Build.Env), EnvDevelopment)
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if strings.TrimSpace(c.Site.SiteURL) == "" {
		ve.Add("site.site_url", "must not be empty")
	} else if !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}

	if strings.TrimSpace(c.Content.Root) == "" {
		ve.Add("content.root", "must not be empty")
	}
	if strings.TrimSpace(c.Content.AuthorsDir) == "" {
		ve.Add("content.authors_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Content.TagsDir) == "" {
		ve.Add("content.tags_dir", "must not be empty")
	}
	if f := strings.TrimSpace(c.Content.IndexFile); f == "" {
		ve.Add("content.index_file", "must not be empty")
	} else if strings.ContainsAny(f, `/\`) {
		ve.Add("content.index_file", "must be a bare file name")
	}

	if c.Build.WordsPerMinute <= 0 {
		ve.Add("build.words_per_minute", "must be positive")
	}
	if c.Serve.PageSize <= 0 {
		ve.Add("serve.page_size", "must be positive")
	}
	if c.Serve.CacheSize < 0 {
		ve.Add("serve.cache_size", "must not be negative")
	}
	if strings.TrimSpace(c.Serve.Addr) == "" {
		ve.Add("serve.addr", "must not be empty")
	}

	return ve.Err()
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Load reads path over Default, applies environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault is Load that tolerates a missing file.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && os.IsNotExist(err) {
		cfg = Default()
		cfg.applyEnv()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

// LoadDotEnv populates the process environment from .env files, if any exist.
func LoadDotEnv(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BLOG_ENV"); v != "" {
		c.Build.Env = v
	}
	if v := os.Getenv("BLOG_CONTENT_ROOT"); v != "" {
		c.Content.Root = v
	}
	if v := os.Getenv("BLOG_ADDR"); v != "" {
		c.Serve.Addr = v
	}
	if v := os.Getenv("BLOG_SITE_URL"); v != "" {
		c.Site.SiteURL = v
	}
	if v := os.Getenv("BLOG_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Serve.PageSize = n
		}
	}
}

// SiteLanguage is the BCP 47 tag used in feeds.
func SiteLanguage(l content.Locale) string {
	switch l {
	case content.Slovak:
		return "sk-SK"
	default:
		return "en-US"
	}
}
