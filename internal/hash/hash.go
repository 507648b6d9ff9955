// Package hash provides shared hashing utilities for archive identity.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// ArchiveID returns the hex SHA256 digest of archive bytes. It is the
// identity token compared against SyncState to decide whether a fetched
// archive is new.
func ArchiveID(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// FileID returns the hex SHA256 digest of a file's contents.
func FileID(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
