package storage

import "context"

// FileStorage is the file-storage collaborator: it receives the original
// document bytes and returns an externally reachable URL or path.
type FileStorage interface {
	Upload(ctx context.Context, data []byte, fileName, folderID string) (string, error)
}
