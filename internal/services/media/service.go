package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olegbarkov/amora/internal/domain/model"
	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
)

const (
	signedURLTTL = 5 * time.Minute
	maxPhotoSize = 10 << 20
)

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("photo not found")
	ErrUnsupportedContent = errors.New("unsupported content type")
	ErrStorageUnavailable = errors.New("media storage unavailable")
)

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

type Store interface {
	Create(ctx context.Context, p *model.Photo) (*model.Photo, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Photo, error)
	GetByID(ctx context.Context, userID, photoID int64) (*model.Photo, error)
	Delete(ctx context.Context, userID, photoID int64) error
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutPhoto(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// PhotoView is a stored photo together with its short-lived download URL.
type PhotoView struct {
	model.Photo
	URL string
}

type Service struct {
	store   Store
	storage ObjectStorage
	log     *zap.Logger
	now     func() time.Time
}

func NewService(store Store, storage ObjectStorage, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		store:   store,
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

func (s *Service) Upload(ctx context.Context, userID int64, contentType string, body io.Reader, size int64) (*model.Photo, error) {
	if userID <= 0 || body == nil || size <= 0 {
		return nil, ErrValidation
	}
	if size > maxPhotoSize {
		return nil, ErrValidation
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, ErrUnsupportedContent
	}
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if s.store == nil {
		return nil, fmt.Errorf("media store is not configured")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	key := "photos/" + uuid.NewString()
	if err := s.storage.PutPhoto(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("store photo object: %w", err)
	}

	photo, err := s.store.Create(ctx, &model.Photo{
		UserID:      userID,
		ObjectKey:   key,
		ContentType: contentType,
	})
	if err != nil {
		// Orphaned objects are cheaper than missing rows; try to clean up.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.log.Warn("orphaned photo object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("persist photo: %w", err)
	}

	return photo, nil
}

// List returns the user's photos with presigned URLs. When storage is down
// the rows still come back, just without URLs.
func (s *Service) List(ctx context.Context, userID int64) ([]PhotoView, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return []PhotoView{}, nil
	}

	photos, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]PhotoView, 0, len(photos))
	for _, photo := range photos {
		view := PhotoView{Photo: photo}
		if s.storage != nil {
			url, err := s.storage.PresignGet(ctx, photo.ObjectKey, signedURLTTL)
			if err != nil {
				s.log.Warn("presign photo url failed", zap.String("key", photo.ObjectKey), zap.Error(err))
			} else {
				view.URL = url
			}
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *Service) Delete(ctx context.Context, userID, photoID int64) error {
	if userID <= 0 || photoID <= 0 {
		return ErrValidation
	}

	photo, err := s.store.GetByID(ctx, userID, photoID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPhotoNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.store.Delete(ctx, userID, photoID); err != nil {
		if errors.Is(err, pgrepo.ErrPhotoNotFound) {
			return ErrNotFound
		}
		return err
	}

	if s.storage != nil {
		if err := s.storage.Delete(ctx, photo.ObjectKey); err != nil {
			s.log.Warn("delete photo object failed", zap.String("key", photo.ObjectKey), zap.Error(err))
		}
	}

	return nil
}
