package index

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// Fingerprint identifies the inputs a collection was resolved from.
type Fingerprint struct {
	ContentHash string
	OptionsHash string
	Sum         string
}

func (f *Fingerprint) ComputeSum() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.OptionsHash))
	f.Sum = hex.EncodeToString(h.Sum(nil))
}

// HashTree hashes the path, size and modification time of every file under
// dirs. A missing directory hashes as a marker, so creating it later
// changes the result.
func HashTree(dirs ...string) (string, error) {
	h := sha256.New()
	for _, dir := range dirs {
		fmt.Fprintf(h, "dir:%s\n", dir)
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir && errors.Is(err, fs.ErrNotExist) {
					fmt.Fprintf(h, "missing\n")
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			rel, _ := filepath.Rel(dir, path)
			fmt.Fprintf(h, "%s\x00%d\x00%d\n", filepath.ToSlash(rel), info.Size(), info.ModTime().UnixNano())
			return nil
		})
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashOptions hashes any loader settings that change the resolved output.
func HashOptions(parts ...any) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%v\x00", p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Compute builds a fingerprint for content under dirs and the given options.
func Compute(dirs []string, options ...any) (Fingerprint, error) {
	content, err := HashTree(dirs...)
	if err != nil {
		return Fingerprint{}, err
	}
	fp := Fingerprint{ContentHash: content, OptionsHash: HashOptions(options...)}
	fp.ComputeSum()
	return fp, nil
}
