package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blogcore/internal/blog"
	"blogcore/internal/build"
	"blogcore/internal/domain/config"
	"blogcore/internal/domain/content"
	"blogcore/internal/index"
	"blogcore/internal/ingest"
	"blogcore/internal/query"
	"blogcore/internal/serve"
)

const usage = `usage: blogcore [-config site.yaml] <command> [flags]

commands:
  serve   serve the JSON API, feeds and sitemap
  index   rebuild the snapshot index
  list    print a filtered page of posts
`

func main() {
	configPath := flag.String("config", "site.yaml", "site configuration file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "dotenv error:", err.Error())
		os.Exit(2)
	}
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "serve":
		err = runServe(ctx, cfg)
	case "index":
		err = runIndex(ctx, cfg, args[1:])
	case "list":
		err = runList(cfg, args[1:])
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s error: %s\n", args[0], err.Error())
		os.Exit(1)
	}
}

func newLoader(cfg config.Config) *ingest.Loader {
	return ingest.NewLoader(ingest.Options{
		Root:           cfg.Content.Root,
		AuthorsDir:     cfg.Content.AuthorsDir,
		TagsDir:        cfg.Content.TagsDir,
		IndexFile:      cfg.Content.IndexFile,
		Development:    cfg.Development(),
		WordsPerMinute: cfg.Build.WordsPerMinute,
	})
}

func runServe(ctx context.Context, cfg config.Config) error {
	st, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath})
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer st.Close()

	loader := newLoader(cfg)
	svc, err := blog.New(loader, blog.WithCache(cfg.Serve.CacheSize), blog.WithSnapshots(st))
	if err != nil {
		return err
	}
	return serve.New(cfg, svc).ListenAndServe(ctx, cfg.Serve.Addr, loader.Dirs()...)
}

func runIndex(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	clean := fs.Bool("clean", false, "drop existing snapshots first")
	if err := fs.Parse(args); err != nil {
		return err
	}
	b := &build.Builder{Loader: newLoader(cfg), IndexPath: cfg.Build.IndexPath, Clean: *clean}
	res, err := b.Run(ctx)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w.String())
	}
	for _, info := range res.Snapshots {
		mark, sum := " ", info.Sum
		if sum == res.Sum {
			mark = "*"
		}
		if len(sum) > 12 {
			sum = sum[:12]
		}
		fmt.Printf("%s %-12s %4d posts  %s\n", mark, info.Key, info.Posts, sum)
	}
	fmt.Printf("index %s written\n", cfg.Build.IndexPath)
	return nil
}

func runList(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	locale := fs.String("locale", string(content.DefaultLocale), "en or sk")
	var f query.Filters
	fs.StringVar(&f.Search, "search", "", "case-insensitive text search")
	fs.StringVar(&f.Tag, "tag", "", "tag display name")
	fs.StringVar(&f.TagSlug, "tag-slug", "", "tag slug")
	fs.StringVar(&f.Date, "date", "", "month key, YYYY-MM")
	fs.StringVar(&f.Author, "author", "", "author slug")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("page-size", cfg.Serve.PageSize, "posts per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	l, err := content.ParseLocale(*locale)
	if err != nil {
		return err
	}
	svc, err := blog.New(newLoader(cfg))
	if err != nil {
		return err
	}
	res, err := svc.Query(l, f, *page, *size)
	if err != nil {
		return err
	}

	for _, p := range res.Posts {
		fmt.Printf("%s  %-40s  %s (%d min)\n", p.Date, p.Slug, p.Title, p.ReadingTime)
	}
	fmt.Printf("page %d/%d, %d posts\n", res.Page, res.TotalPages, res.Total)
	return nil
}
