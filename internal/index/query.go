package index

import (
	"encoding/json"
	"errors"

	bolt "go.etcd.io/bbolt"

	"blogcore/internal/domain/content"
	domainerr "blogcore/internal/domain/errors"
)

var (
	ErrNotFound = domainerr.ErrNotFound
	ErrStale    = errors.New("snapshot is stale")
)

// Sum returns the fingerprint a snapshot was saved with.
func (s *Store) Sum(key SnapshotKey) (string, error) {
	var sum string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get(key.bucket())
		if v == nil {
			return ErrNotFound
		}
		sum = string(v)
		return nil
	})
	return sum, err
}

// Load returns the snapshot for key, newest first, if it was saved with sum.
func (s *Store) Load(key SnapshotKey, sum string) ([]content.Post, error) {
	var out []content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		metaB := tx.Bucket(bMeta)
		postsB := tx.Bucket(key.bucket())
		if metaB == nil || postsB == nil {
			return ErrNotFound
		}
		stored := metaB.Get(key.bucket())
		if stored == nil {
			return ErrNotFound
		}
		if string(stored) != sum {
			return ErrStale
		}

		out = make([]content.Post, 0, postsB.Stats().KeyN)
		cur := postsB.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			if slugFromDateSlugKey(k) == "" {
				continue
			}
			var p content.Post
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
