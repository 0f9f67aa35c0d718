package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"blogcore/internal/domain/content"
)

// schemaVersion changes whenever the encoding of a snapshot does. Opening a
// file written under another version drops every snapshot in it.
const schemaVersion = "2"

// Store persists resolved collections so a restart can skip parsing when
// the content has not changed.
type Store struct {
	db *bolt.DB
}

type OpenOptions struct {
	Path string // e.g. ".blogcore/index.db"
}

// SnapshotInfo describes one saved collection.
type SnapshotInfo struct {
	Key   SnapshotKey
	Sum   string
	Posts int
}

func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("index: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("index: %s: %w", opt.Path, err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if meta := tx.Bucket(bMeta); meta != nil && string(meta.Get(keySchema)) == schemaVersion {
			return nil
		}
		return reset(tx)
	})
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Snapshots lists every saved collection, locales in their canonical order
// and production before development.
func (s *Store) Snapshots() ([]SnapshotInfo, error) {
	var out []SnapshotInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bMeta)
		if meta == nil {
			return nil
		}
		for _, l := range content.Locales {
			for _, dev := range []bool{false, true} {
				key := SnapshotKey{Locale: l, Development: dev}
				sum := meta.Get(key.bucket())
				b := tx.Bucket(key.bucket())
				if sum == nil || b == nil {
					continue
				}
				out = append(out, SnapshotInfo{Key: key, Sum: string(sum), Posts: b.Stats().KeyN})
			}
		}
		return nil
	})
	return out, err
}
