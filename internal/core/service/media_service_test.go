package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kryos/employee-accounts/internal/core/domain"
)

type stubStorage struct {
	objects map[string][]byte
	putErr  error
	keys    []string
}

func newStubStorage() *stubStorage {
	return &stubStorage{objects: make(map[string][]byte)}
}

func (s *stubStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.objects[key] = b
	s.keys = append(s.keys, key)
	return "https://bucket.example.com/" + key, nil
}

func (s *stubStorage) Get(_ context.Context, key string) (*domain.StoredObject, error) {
	b, ok := s.objects[key]
	if !ok {
		return nil, domain.ErrObjectNotFound
	}
	return &domain.StoredObject{
		Key:           key,
		ContentLength: int64(len(b)),
		Body:          io.NopCloser(strings.NewReader(string(b))),
	}, nil
}

func uploadFile(name, content string) domain.UploadFile {
	return domain.UploadFile{Name: name, Size: int64(len(content)), Content: strings.NewReader(content)}
}

func TestMediaService_Upload_DistinctKeys(t *testing.T) {
	storage := newStubStorage()
	n := &stubNotifier{}
	svc := NewMediaService(storage, n, zerolog.Nop())

	files := []domain.UploadFile{
		uploadFile("photo.png", "one"),
		uploadFile("photo.png", "two"),
		uploadFile("photo.png", "three"),
	}
	urls, err := svc.Upload(context.Background(), files, "owner-1")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if len(urls) != 3 {
		t.Fatalf("expected 3 urls, got %d", len(urls))
	}

	seen := make(map[string]struct{})
	for i, key := range storage.keys {
		if !strings.HasSuffix(key, "_photo.png") {
			t.Errorf("key %q missing file name suffix", key)
		}
		if !strings.HasSuffix(urls[i], key) {
			t.Errorf("url %q does not contain key %q", urls[i], key)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key %q", key)
		}
		seen[key] = struct{}{}
	}

	if len(n.sent) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(n.sent))
	}
	for i, s := range n.sent {
		if s.referenceID != "owner-1" {
			t.Errorf("notification %d: unexpected reference %q", i, s.referenceID)
		}
	}
	if n.sent[0].hash != domain.ContentFingerprint([]byte("one")) {
		t.Errorf("fingerprint should cover file content")
	}
}

func TestMediaService_Upload_NoFiles(t *testing.T) {
	svc := NewMediaService(newStubStorage(), &stubNotifier{}, zerolog.Nop())

	if _, err := svc.Upload(context.Background(), nil, "owner"); !errors.Is(err, domain.ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}

func TestMediaService_Upload_StorageError(t *testing.T) {
	storage := newStubStorage()
	storage.putErr = domain.ErrStorage
	n := &stubNotifier{}
	svc := NewMediaService(storage, n, zerolog.Nop())

	_, err := svc.Upload(context.Background(), []domain.UploadFile{uploadFile("a.txt", "x")}, "owner")
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if len(n.sent) != 0 {
		t.Fatalf("failed upload must not notify")
	}
}

func TestMediaService_Upload_StripsDirectories(t *testing.T) {
	storage := newStubStorage()
	svc := NewMediaService(storage, &stubNotifier{}, zerolog.Nop())

	if _, err := svc.Upload(context.Background(), []domain.UploadFile{uploadFile("../../etc/passwd", "x")}, "o"); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if strings.Contains(storage.keys[0], "/") {
		t.Fatalf("key should not contain path separators: %q", storage.keys[0])
	}
}

func TestMediaService_Download(t *testing.T) {
	storage := newStubStorage()
	storage.objects["abc_file.txt"] = []byte("hello")
	svc := NewMediaService(storage, &stubNotifier{}, zerolog.Nop())

	obj, err := svc.Download(context.Background(), "abc_file.txt")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	defer obj.Body.Close()
	b, _ := io.ReadAll(obj.Body)
	if string(b) != "hello" {
		t.Fatalf("unexpected body %q", b)
	}

	if _, err := svc.Download(context.Background(), "missing"); !errors.Is(err, domain.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}
