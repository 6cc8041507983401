package domain

import (
	"context"
	"io"
)

// FileUpload is an uploaded document streamed from a multipart request.
type FileUpload struct {
	Filename string
	Content  io.Reader
	Size     int64
}

// FileStore persists uploaded documents and hands back retrievable URLs
// (infrastructure port, backed by object storage).
type FileStore interface {
	// Upload stores the document under the given prefix and returns its key.
	Upload(ctx context.Context, prefix string, file FileUpload) (key string, err error)
	// PresignURL returns a time-limited download URL for a stored key.
	PresignURL(ctx context.Context, key string) (string, error)
}
