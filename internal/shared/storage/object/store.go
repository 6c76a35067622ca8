package object

import (
	"context"
	"io"
)

// Upload describes a stored binary object.
type Upload struct {
	StorageKey string
	SizeBytes  int64
	MimeType   string
}

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, folder string, fileName string, r io.Reader) (Upload, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
