// Package sync fetches the remote Health Connect archive, decides
// whether it supersedes the local copy, and merges its records into the
// store in a single transaction.
package sync

import "errors"

var (
	// ErrNotConfigured is returned when the remote folder or account is
	// missing from configuration. The user must act; retrying won't help.
	ErrNotConfigured = errors.New("drive sync not configured - set drive.folder_id and drive.account")

	// ErrRemoteUnavailable is returned when the fetch collaborator fails.
	// Transient: the caller may simply re-invoke sync.
	ErrRemoteUnavailable = errors.New("remote storage unavailable")

	// ErrArchiveNotFound is returned when the configured archive name is
	// not present in the remote folder.
	ErrArchiveNotFound = errors.New("archive not found in remote folder")

	// ErrCorruptArchive is returned when the archive cannot be unpacked
	// or contains no database. The store is left untouched.
	ErrCorruptArchive = errors.New("corrupt archive")

	// ErrSchemaMismatch is returned when the embedded database is missing
	// expected tables or columns, which usually means the export format
	// changed. The store is left untouched.
	ErrSchemaMismatch = errors.New("export schema mismatch")

	// ErrSyncInProgress is returned when another process holds the sync
	// lock.
	ErrSyncInProgress = errors.New("another sync is already running")
)
