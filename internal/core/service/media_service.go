package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kryos/employee-accounts/internal/core/domain"
	"github.com/kryos/employee-accounts/internal/core/ports"
)

const defaultContentType = "application/octet-stream"

// MediaService uploads and downloads employee media.
type MediaService struct {
	storage  ports.ObjectStorage
	notifier ports.HashNotifier
	log      zerolog.Logger
}

func NewMediaService(storage ports.ObjectStorage, notifier ports.HashNotifier, log zerolog.Logger) *MediaService {
	return &MediaService{storage: storage, notifier: notifier, log: log}
}

// Upload stores every file under a fresh "<uuid>_<name>" key and returns the
// object URLs in input order. Each stored file's content fingerprint is sent
// to the hash registry with ownerID as the reference.
//
// The fingerprint covers the file bytes rather than the returned URL, so two
// uploads of the same content report the same hash regardless of their keys.
func (s *MediaService) Upload(ctx context.Context, files []domain.UploadFile, ownerID string) ([]string, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		content, err := io.ReadAll(f.Content)
		if err != nil {
			return nil, fmt.Errorf("upload %q: read: %w", f.Name, err)
		}

		contentType := f.ContentType
		if contentType == "" {
			contentType = defaultContentType
		}

		key := objectKey(f.Name)
		url, err := s.storage.Put(ctx, key, bytes.NewReader(content), int64(len(content)), contentType)
		if err != nil {
			return nil, fmt.Errorf("upload %q: %w", f.Name, err)
		}

		s.notifier.Notify(ctx, domain.ContentFingerprint(content), ownerID)

		s.log.Info().
			Str("key", key).
			Str("owner_id", ownerID).
			Int("size", len(content)).
			Msg("media uploaded")
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *MediaService) Download(ctx context.Context, key string) (*domain.StoredObject, error) {
	if strings.TrimSpace(key) == "" {
		return nil, domain.ErrObjectNotFound
	}
	return s.storage.Get(ctx, key)
}

// objectKey prefixes the base file name with a random UUID.
func objectKey(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "file"
	}
	return uuid.NewString() + "_" + name
}
