package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database   string // Normalized record store
	ConfigFile string // YAML config file
	CacheDir   string // Last archive + extracted raw export
	LockFile   string // Mutual exclusion for sync
	LogDir     string // Sync log files
}

// GetPaths returns all commonly used paths, rooted in the XDG base
// directories.
func GetPaths() Paths {
	dataDir := filepath.Join(xdg.DataHome, "vitalsync")
	return Paths{
		Database:   filepath.Join(dataDir, "health.db"),
		ConfigFile: filepath.Join(xdg.ConfigHome, "vitalsync", "config.yaml"),
		CacheDir:   filepath.Join(xdg.CacheHome, "vitalsync"),
		LockFile:   filepath.Join(dataDir, "sync.lock"),
		LogDir:     filepath.Join(xdg.StateHome, "vitalsync"),
	}
}

// EnsureDirs creates the directories the paths point into.
func (p Paths) EnsureDirs() error {
	dirs := []string{
		filepath.Dir(p.Database),
		filepath.Dir(p.ConfigFile),
		p.CacheDir,
		p.LogDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
