package ports

import (
	"context"
	"io"

	"github.com/kryos/employee-accounts/internal/core/domain"
)

// ObjectStorage stores and fetches binary objects by key.
type ObjectStorage interface {
	// Put uploads the object and returns its URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// Get returns domain.ErrObjectNotFound when the key does not exist.
	Get(ctx context.Context, key string) (*domain.StoredObject, error)
}

// MediaService defines the media upload and download use cases.
type MediaService interface {
	Upload(ctx context.Context, files []domain.UploadFile, ownerID string) ([]string, error)
	Download(ctx context.Context, key string) (*domain.StoredObject, error)
}
