package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/olegbarkov/amora/internal/domain/model"
	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

type storeStub struct {
	photos    []model.Photo
	createErr error
}

func (s *storeStub) Create(_ context.Context, p *model.Photo) (*model.Photo, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	p.ID = int64(len(s.photos) + 1)
	p.CreatedAt = time.Now().UTC()
	s.photos = append(s.photos, *p)
	return p, nil
}

func (s *storeStub) ListByUser(_ context.Context, _ int64) ([]model.Photo, error) {
	return s.photos, nil
}

func (s *storeStub) GetByID(_ context.Context, _, photoID int64) (*model.Photo, error) {
	for _, p := range s.photos {
		if p.ID == photoID {
			photo := p
			return &photo, nil
		}
	}
	return nil, pgrepo.ErrPhotoNotFound
}

func (s *storeStub) Delete(_ context.Context, _, photoID int64) error {
	for i, p := range s.photos {
		if p.ID == photoID {
			s.photos = append(s.photos[:i], s.photos[i+1:]...)
			return nil
		}
	}
	return pgrepo.ErrPhotoNotFound
}

type storageStub struct {
	objects    map[string][]byte
	presignErr error
	deleted    []string
}

func newStorageStub() *storageStub {
	return &storageStub{objects: map[string][]byte{}}
}

func (s *storageStub) EnsureBucket(_ context.Context) error { return nil }

func (s *storageStub) PutPhoto(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *storageStub) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://cdn.example.com/" + key, nil
}

func (s *storageStub) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

func TestUploadStoresObjectAndRow(t *testing.T) {
	store := &storeStub{}
	storage := newStorageStub()
	svc := NewService(store, storage, nil)

	photo, err := svc.Upload(context.Background(), 1, "image/jpeg", bytes.NewReader([]byte("jpg-bytes")), 9)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(photo.ObjectKey, "photos/") {
		t.Fatalf("unexpected object key %q", photo.ObjectKey)
	}
	if _, ok := storage.objects[photo.ObjectKey]; !ok {
		t.Fatalf("object was not written to storage")
	}
	if len(store.photos) != 1 {
		t.Fatalf("row was not persisted")
	}
}

func TestUploadRejectsUnsupportedContentType(t *testing.T) {
	svc := NewService(&storeStub{}, newStorageStub(), nil)

	_, err := svc.Upload(context.Background(), 1, "application/pdf", bytes.NewReader([]byte("x")), 1)
	if !errors.Is(err, ErrUnsupportedContent) {
		t.Fatalf("expected unsupported content type, got %v", err)
	}
}

func TestUploadCleansUpOnRowFailure(t *testing.T) {
	store := &storeStub{createErr: errors.New("db down")}
	storage := newStorageStub()
	svc := NewService(store, storage, nil)

	if _, err := svc.Upload(context.Background(), 1, "image/png", bytes.NewReader([]byte("png")), 3); err == nil {
		t.Fatalf("expected error when row insert fails")
	}
	if len(storage.objects) != 0 {
		t.Fatalf("orphaned object was not cleaned up")
	}
}

func TestListDegradesWithoutPresign(t *testing.T) {
	store := &storeStub{photos: []model.Photo{{ID: 1, UserID: 1, ObjectKey: "photos/a"}}}
	storage := newStorageStub()
	storage.presignErr = errors.New("s3 down")
	svc := NewService(store, storage, nil)

	views, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected one photo, got %d", len(views))
	}
	if views[0].URL != "" {
		t.Fatalf("expected empty URL when presign fails, got %q", views[0].URL)
	}
}

func TestDeleteRemovesRowAndObject(t *testing.T) {
	store := &storeStub{photos: []model.Photo{{ID: 1, UserID: 1, ObjectKey: "photos/a"}}}
	storage := newStorageStub()
	svc := NewService(store, storage, nil)

	if err := svc.Delete(context.Background(), 1, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.photos) != 0 {
		t.Fatalf("row was not deleted")
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "photos/a" {
		t.Fatalf("object was not deleted: %v", storage.deleted)
	}

	if err := svc.Delete(context.Background(), 1, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}
