package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	bolt "go.etcd.io/bbolt"

	"blogcore/internal/domain/content"
)

// Save replaces the snapshot for key with posts, stamped with sum.
func (s *Store) Save(key SnapshotKey, sum string, posts []content.Post) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		name := key.bucket()
		if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		postsB, err := tx.CreateBucket(name)
		if err != nil {
			return err
		}
		metaB, err := tx.CreateBucketIfNotExists(bMeta)
		if err != nil {
			return err
		}

		for _, p := range posts {
			if strings.TrimSpace(p.DirectorySlug) == "" {
				continue
			}
			pb, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("encode %s: %w", p.DirectorySlug, err)
			}
			if err := postsB.Put(makeDateSlugKey(p), pb); err != nil {
				return err
			}
		}
		return metaB.Put(name, []byte(sum))
	})
}

// Drop removes every snapshot.
func (s *Store) Drop() error {
	return s.db.Update(reset)
}

// reset deletes every bucket and leaves an empty meta bucket stamped with
// the current schema version.
func reset(tx *bolt.Tx) error {
	var names [][]byte
	err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
		names = append(names, append([]byte(nil), name...))
		return nil
	})
	if err != nil {
		return err
	}
	for _, n := range names {
		if err := tx.DeleteBucket(n); err != nil {
			return err
		}
	}
	meta, err := tx.CreateBucket(bMeta)
	if err != nil {
		return err
	}
	return meta.Put(keySchema, []byte(schemaVersion))
}
