package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"blogcore/internal/blog"
	"blogcore/internal/domain/content"
	"blogcore/internal/index"
	"blogcore/internal/ingest"
)

func writePost(t *testing.T, root, dir, doc string) {
	t.Helper()
	path := filepath.Join(root, dir, ingest.DefaultIndexFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuilderWritesSnapshots(t *testing.T) {
	root := t.TempDir()
	posts := filepath.Join(root, "posts")
	writePost(t, posts, "a", "---\ntitle_en: A\ntitle_sk: A sk\ndate: 2024-01-02\n---\nbody\n")
	writePost(t, posts, "b", "---\ntitle_en: B\ndate: 2024-01-01\n---\nbody\n")
	writePost(t, posts, "broken", "---\ntitle_en: Broken\n---\nno date\n")

	loader := ingest.NewLoader(ingest.Options{
		Root:       posts,
		AuthorsDir: filepath.Join(root, "authors"),
		TagsDir:    filepath.Join(root, "tags"),
	})
	dbPath := filepath.Join(root, ".blogcore", "index.db")
	b := &Builder{Loader: loader, IndexPath: dbPath, Clean: true}

	res, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Posts[content.English] != 2 || res.Posts[content.Slovak] != 1 {
		t.Errorf("counts = %v", res.Posts)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for the undated post")
	}
	if len(res.Snapshots) != 2 || res.Snapshots[0].Posts != 2 || res.Snapshots[1].Posts != 1 {
		t.Errorf("snapshots = %+v", res.Snapshots)
	}

	st, err := index.Open(index.OpenOptions{Path: dbPath})
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer st.Close()

	fp, err := blog.Fingerprint(loader)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if fp.Sum != res.Sum {
		t.Errorf("builder sum %q differs from service sum %q", res.Sum, fp.Sum)
	}
	got, err := st.Load(index.SnapshotKey{Locale: content.English}, fp.Sum)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "a" {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestBuilderStopsOnCancel(t *testing.T) {
	root := t.TempDir()
	loader := ingest.NewLoader(ingest.Options{Root: filepath.Join(root, "posts")})
	b := &Builder{Loader: loader, IndexPath: filepath.Join(root, "index.db")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Run(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}
