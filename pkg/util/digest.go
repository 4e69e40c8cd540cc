package util

import (
	"os"

	"github.com/cespare/xxhash/v2"
)

// Digest returns the xxhash of data.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// FileDigest returns the digest of the file at path. ok is false when the
// file cannot be read.
func FileDigest(path string) (sum uint64, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	return xxhash.Sum64(data), true
}

// SameContent reports whether the file at path already holds exactly data.
func SameContent(path string, data []byte) bool {
	sum, ok := FileDigest(path)
	return ok && sum == xxhash.Sum64(data)
}
