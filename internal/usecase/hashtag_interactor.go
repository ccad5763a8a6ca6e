package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/PhotoShare/internal/core/ports"
	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// hashtagUseCase implements HashtagUseCase
type hashtagUseCase struct {
	hashtags ports.HashtagStorage
	cache    ports.HashtagCache
	logger   *slog.Logger
}

func NewHashtagUseCase(hashtags ports.HashtagStorage, cache ports.HashtagCache, logger *slog.Logger) HashtagUseCase {
	return &hashtagUseCase{hashtags: hashtags, cache: cache, logger: logger}
}

func (uc *hashtagUseCase) SearchHashtag(ctx context.Context, label string) (*HashtagPhotos, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("usecase: empty hashtag: %w", domain.ErrNotFound)
	}

	tag, err := uc.hashtags.GetHashtagByLabel(ctx, label)
	if err != nil {
		return nil, fmt.Errorf("usecase: search hashtag: %w", err)
	}

	photos, err := uc.hashtags.ListPhotosByHashtag(ctx, tag.HashtagID)
	if err != nil {
		return nil, fmt.Errorf("usecase: search hashtag photos: %w", err)
	}
	if err := attachHashtags(ctx, uc.hashtags, photoRefs(photos)...); err != nil {
		return nil, err
	}
	return &HashtagPhotos{Hashtag: tag, Photos: photos}, nil
}

// HashtagPhotos для неизвестного ID возвращает пустой список, а не ошибку
func (uc *hashtagUseCase) HashtagPhotos(ctx context.Context, hashtagID uint64) (*HashtagPhotos, error) {
	tag, err := uc.hashtags.GetHashtagByID(ctx, hashtagID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("usecase: hashtag by id: %w", err)
	}

	photos, err := uc.hashtags.ListPhotosByHashtag(ctx, hashtagID)
	if err != nil {
		return nil, fmt.Errorf("usecase: hashtag photos: %w", err)
	}
	if err := attachHashtags(ctx, uc.hashtags, photoRefs(photos)...); err != nil {
		return nil, err
	}
	return &HashtagPhotos{Hashtag: tag, Photos: photos}, nil
}

// ListHashtags читает список через кэш. Ошибки кэша не мешают ответу из базы.
func (uc *hashtagUseCase) ListHashtags(ctx context.Context) ([]domain.Hashtag, error) {
	tags, ok, err := uc.cache.GetHashtags(ctx)
	if err != nil {
		uc.logger.Warn("hashtag cache read failed", "error", err)
	}
	if ok {
		return tags, nil
	}

	tags, err = uc.hashtags.ListHashtags(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: list hashtags: %w", err)
	}

	if err := uc.cache.SetHashtags(ctx, tags); err != nil {
		uc.logger.Warn("hashtag cache write failed", "error", err)
	}
	return tags, nil
}

// RefreshHashtagCache перечитывает список из базы и кладет его в кэш
func (uc *hashtagUseCase) RefreshHashtagCache(ctx context.Context) error {
	tags, err := uc.hashtags.ListHashtags(ctx)
	if err != nil {
		return fmt.Errorf("usecase: refresh hashtag cache: %w", err)
	}
	if err := uc.cache.SetHashtags(ctx, tags); err != nil {
		return fmt.Errorf("usecase: refresh hashtag cache: %w", err)
	}
	uc.logger.Info("hashtag cache refreshed", "count", len(tags))
	return nil
}

// attachHashtags заполняет Photo.Hashtags, чтобы страницы могли ссылаться на хэштеги фото
func attachHashtags(ctx context.Context, store ports.HashtagStorage, photos ...*domain.Photo) error {
	ids := make([]uint64, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, p.PhotoID)
	}

	byPhoto, err := store.HashtagsByPhotos(ctx, ids)
	if err != nil {
		return fmt.Errorf("usecase: photo hashtags: %w", err)
	}
	for _, p := range photos {
		p.Hashtags = byPhoto[p.PhotoID]
	}
	return nil
}

func photoRefs(photos []domain.Photo) []*domain.Photo {
	refs := make([]*domain.Photo, len(photos))
	for i := range photos {
		refs[i] = &photos[i]
	}
	return refs
}
