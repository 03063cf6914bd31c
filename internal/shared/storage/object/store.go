package object

import (
	"context"
	"io"
)

// UploadStore is the spool for uploaded bills. Objects are request-scoped:
// the analysis pipeline removes them on every exit path, so nothing here is
// expected to outlive a single request.
type UploadStore interface {
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Remove(ctx context.Context, storageKey string) error
}
