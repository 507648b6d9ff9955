package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/asteroid-belt/vitalsync/internal/config"
)

// gogBinary is the external CLI used to talk to Google Drive.
const gogBinary = "gog"

// DriveFetcher fetches the archive from a Google Drive folder by
// shelling out to the gog CLI. The remote side stays an external
// collaborator: this type only turns its results and failures into the
// package taxonomy.
type DriveFetcher struct {
	FolderID string
	Account  string
	FileName string

	// binary overrides the gog executable name, for tests.
	binary string
}

// NewDriveFetcher builds a fetcher from drive configuration.
func NewDriveFetcher(cfg config.DriveConfig) *DriveFetcher {
	return &DriveFetcher{
		FolderID: cfg.FolderID,
		Account:  cfg.Account,
		FileName: cfg.FileName,
	}
}

type driveEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Fetch lists the remote folder, locates the configured archive, and
// downloads it to a temp file.
func (f *DriveFetcher) Fetch(ctx context.Context) (*Archive, error) {
	bin := f.binary
	if bin == "" {
		bin = gogBinary
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("%w: %s CLI not found in PATH", ErrRemoteUnavailable, bin)
	}

	out, err := exec.CommandContext(ctx, bin, "drive", "ls",
		"--folder-id", f.FolderID,
		"--account", f.Account,
		"--json").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: list folder: %v", ErrRemoteUnavailable, err)
	}

	var entries []driveEntry
	if err := json.Unmarshal(out, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse folder listing: %v", ErrRemoteUnavailable, err)
	}

	var fileID string
	for _, e := range entries {
		if e.Name == f.FileName {
			fileID = e.ID
			break
		}
	}
	if fileID == "" {
		return nil, fmt.Errorf("%w: %q", ErrArchiveNotFound, f.FileName)
	}

	tmpDir, err := os.MkdirTemp("", "vitalsync-fetch-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	tmpZip := filepath.Join(tmpDir, "download.zip")
	if err := exec.CommandContext(ctx, bin, "drive", "download", fileID,
		"--output", tmpZip,
		"--account", f.Account).Run(); err != nil {
		return nil, fmt.Errorf("%w: download: %v", ErrRemoteUnavailable, err)
	}

	data, err := os.ReadFile(tmpZip)
	if err != nil {
		return nil, fmt.Errorf("%w: download produced no file: %v", ErrRemoteUnavailable, err)
	}

	return &Archive{Name: f.FileName, Data: data}, nil
}
