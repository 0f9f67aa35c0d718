package index

import (
	"blogcore/internal/domain/content"
)

var (
	bMeta     = []byte("meta")   // snapshot name -> fingerprint sum
	keySchema = []byte("schema") // meta key holding schemaVersion
)

// SnapshotKey names one resolved collection. Development snapshots include
// drafts and are kept apart from production ones.
type SnapshotKey struct {
	Locale      content.Locale
	Development bool
}

func (k SnapshotKey) bucket() []byte {
	name := "posts:" + string(k.Locale)
	if k.Development {
		name += ":dev"
	}
	return []byte(name)
}

func (k SnapshotKey) String() string {
	return string(k.bucket())
}
