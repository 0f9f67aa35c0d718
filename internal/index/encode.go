package index

import (
	"bytes"
	"encoding/binary"

	"blogcore/internal/domain/content"
)

// key = invDate(8) + 0x00 + directorySlug; a forward cursor walks newest
// first and equal dates fall back to directory order. The sign bit is
// flipped before inverting so dates before 1970 still sort last.
func makeDateSlugKey(p content.Post) []byte {
	var unix int64
	if t := p.Time(); !t.IsZero() {
		unix = t.Unix()
	}
	invTime := ^(uint64(unix) ^ (1 << 63))

	buf := make([]byte, 8, 8+1+len(p.DirectorySlug))
	binary.BigEndian.PutUint64(buf, invTime)
	buf = append(buf, 0x00)
	buf = append(buf, []byte(p.DirectorySlug)...)
	return buf
}

func slugFromDateSlugKey(k []byte) string {
	if len(k) < 8+2 {
		return ""
	}
	if k[8] != 0x00 {
		return ""
	}
	return string(bytes.Clone(k[9:]))
}
