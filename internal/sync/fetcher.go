package sync

import "context"

// Archive is the raw fetched export archive.
type Archive struct {
	Name string
	Data []byte
}

// Fetcher obtains the archive from remote storage. Implementations map
// their failures onto the package error taxonomy: ErrRemoteUnavailable
// for transport problems, ErrArchiveNotFound when the file is absent.
type Fetcher interface {
	Fetch(ctx context.Context) (*Archive, error)
}
