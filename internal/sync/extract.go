package sync

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractedName is the filename the export database is extracted under.
const extractedName = "export.db"

// ExtractDatabase unpacks the export database out of the archive into
// destDir and returns its path. Extraction goes through a temp file and
// a rename so a failure never leaves a half-written database behind.
func ExtractDatabase(archive *Archive, destDir string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive.Data), int64(len(archive.Data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	member := findDatabaseMember(zr)
	if member == nil {
		return "", fmt.Errorf("%w: no database inside %q", ErrCorruptArchive, archive.Name)
	}

	rc, err := member.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %q: %v", ErrCorruptArchive, member.Name, err)
	}
	defer rc.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create extract dir: %w", err)
	}

	tmp, err := os.CreateTemp(destDir, extractedName+".tmp-")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: extract %q: %v", ErrCorruptArchive, member.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	dest := filepath.Join(destDir, extractedName)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("place extracted database: %w", err)
	}
	return dest, nil
}

// findDatabaseMember picks the database file out of the archive. Health
// Connect exports carry a single .db; prefer one named after the export
// in case the archive grows extra files.
func findDatabaseMember(zr *zip.Reader) *zip.File {
	var fallback *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".db") {
			continue
		}
		if strings.Contains(strings.ToLower(f.Name), "health_connect") {
			return f
		}
		if fallback == nil {
			fallback = f
		}
	}
	return fallback
}
