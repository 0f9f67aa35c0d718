package ingest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SourceEntry is one post directory and its canonical document.
type SourceEntry struct {
	DirectorySlug string
	Path          string
}

// DiscoverSource lists post directories under root in lexical order.
// Directories without the canonical document are left out; a missing root
// yields no entries.
func DiscoverSource(root, indexFile string) ([]SourceEntry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []SourceEntry
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		doc := filepath.Join(root, e.Name(), indexFile)
		st, err := os.Stat(doc)
		if err != nil || st.IsDir() {
			continue
		}
		out = append(out, SourceEntry{DirectorySlug: e.Name(), Path: doc})
	}
	return out, nil
}
