package build

import (
	"context"
	"fmt"

	"blogcore/internal/blog"
	"blogcore/internal/domain/content"
	"blogcore/internal/index"
	"blogcore/internal/ingest"
)

// Builder writes a fresh snapshot of every locale into the index store.
type Builder struct {
	Loader    *ingest.Loader
	IndexPath string

	// Clean drops existing snapshots before writing.
	Clean bool
}

type Result struct {
	Posts     map[content.Locale]int
	Warnings  []ingest.Warning
	Sum       string
	Snapshots []index.SnapshotInfo
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	st, err := index.Open(index.OpenOptions{Path: b.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	if b.Clean {
		if err := st.Drop(); err != nil {
			return nil, fmt.Errorf("failed to drop index: %w", err)
		}
	}

	fp, err := blog.Fingerprint(b.Loader)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}

	res := &Result{Posts: make(map[content.Locale]int, len(content.Locales)), Sum: fp.Sum}
	dev := b.Loader.Options().Development
	for _, l := range content.Locales {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		loaded, err := b.Loader.Load(l)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", l, err)
		}
		key := index.SnapshotKey{Locale: l, Development: dev}
		if err := st.Save(key, fp.Sum, loaded.Posts); err != nil {
			return nil, fmt.Errorf("save %s: %w", key, err)
		}
		res.Posts[l] = len(loaded.Posts)
		res.Warnings = append(res.Warnings, loaded.Warnings...)
	}

	if res.Snapshots, err = st.Snapshots(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return res, nil
}
