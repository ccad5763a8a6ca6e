package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// HashtagStorage реализует ports.HashtagStorage
type HashtagStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewHashtagStorage(db *gorm.DB, logger *slog.Logger) *HashtagStorage {
	return &HashtagStorage{db: db, logger: logger}
}

// GetHashtagByLabel ищет хэштег по точному совпадению метки
func (s *HashtagStorage) GetHashtagByLabel(ctx context.Context, label string) (*domain.Hashtag, error) {
	var tag domain.Hashtag
	if err := s.db.WithContext(ctx).Where("hashtag = ?", label).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("hashtag not found", "hashtag", label)
		}
		return nil, translate(err, "select hashtag by label")
	}
	return &tag, nil
}

func (s *HashtagStorage) GetHashtagByID(ctx context.Context, id uint64) (*domain.Hashtag, error) {
	var tag domain.Hashtag
	if err := s.db.WithContext(ctx).First(&tag, "hashtag_id = ?", id).Error; err != nil {
		return nil, translate(err, "select hashtag by id")
	}
	return &tag, nil
}

func (s *HashtagStorage) ListHashtags(ctx context.Context) ([]domain.Hashtag, error) {
	start := time.Now()

	tags := make([]domain.Hashtag, 0)
	if err := s.db.WithContext(ctx).Order("hashtag_id ASC").Find(&tags).Error; err != nil {
		s.logger.Error("failed to list hashtags", "error", err)
		return nil, translate(err, "list hashtags")
	}

	s.logger.Info("listed hashtags successfully",
		"count", len(tags),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tags, nil
}

// ListPhotosByHashtag получает фото по связям photohashtags
func (s *HashtagStorage) ListPhotosByHashtag(ctx context.Context, hashtagID uint64) ([]domain.Photo, error) {
	start := time.Now()

	query, args, err := squirrel.
		Select("p.photo_id", "p.photo_user_id", "p.photo_url", "p.caption", "p.date_uploaded", "p.num_like", "p.num_dislike").
		From("photos p").
		Join("photohashtags ph ON ph.photo_id = p.photo_id").
		Where(squirrel.Eq{"ph.hashtag_id": hashtagID}).
		OrderBy("p.date_uploaded DESC", "p.photo_id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql: %w", err)
	}

	photos := make([]domain.Photo, 0)
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&photos).Error; err != nil {
		s.logger.Error("failed to list photos by hashtag", "hashtag_id", hashtagID, "error", err)
		return nil, translate(err, "list photos by hashtag")
	}

	s.logger.Info("listed photos by hashtag",
		"hashtag_id", hashtagID,
		"count", len(photos),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return photos, nil
}

// photoHashtagRow - строка выборки хэштегов вместе с ID фото
type photoHashtagRow struct {
	PhotoID   uint64
	HashtagID uint64
	Hashtag   string
}

// HashtagsByPhotos одним запросом получает хэштеги для набора фото
func (s *HashtagStorage) HashtagsByPhotos(ctx context.Context, photoIDs []uint64) (map[uint64][]domain.Hashtag, error) {
	byPhoto := make(map[uint64][]domain.Hashtag, len(photoIDs))
	if len(photoIDs) == 0 {
		return byPhoto, nil
	}

	query, args, err := squirrel.
		Select("ph.photo_id", "h.hashtag_id", "h.hashtag").
		From("photohashtags ph").
		Join("hashtags h ON h.hashtag_id = ph.hashtag_id").
		Where(squirrel.Eq{"ph.photo_id": photoIDs}).
		OrderBy("ph.photo_id ASC", "h.hashtag ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql: %w", err)
	}

	var rows []photoHashtagRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		s.logger.Error("failed to list hashtags of photos", "photos", len(photoIDs), "error", err)
		return nil, translate(err, "list hashtags of photos")
	}

	for _, row := range rows {
		byPhoto[row.PhotoID] = append(byPhoto[row.PhotoID], domain.Hashtag{HashtagID: row.HashtagID, Hashtag: row.Hashtag})
	}
	return byPhoto, nil
}
