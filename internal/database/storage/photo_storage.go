package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoArmGo/PhotoShare/internal/domain"
)

const feedOrder = "date_uploaded DESC, photo_id DESC"

// PhotoStorage реализует ports.PhotoStorage с использованием GORM
type PhotoStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewPhotoStorage(db *gorm.DB, logger *slog.Logger) *PhotoStorage {
	return &PhotoStorage{db: db, logger: logger}
}

// ListPhotos получает всю ленту, новые фото первыми
func (s *PhotoStorage) ListPhotos(ctx context.Context) ([]domain.Photo, error) {
	start := time.Now()

	photos := make([]domain.Photo, 0)
	if err := s.db.WithContext(ctx).Order(feedOrder).Find(&photos).Error; err != nil {
		s.logger.Error("failed to list photos", "error", err)
		return nil, translate(err, "list photos")
	}

	s.logger.Info("listed photos successfully",
		"count", len(photos),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return photos, nil
}

// ListPhotosByUser получает фото, загруженные пользователем
func (s *PhotoStorage) ListPhotosByUser(ctx context.Context, userID uint64) ([]domain.Photo, error) {
	start := time.Now()

	photos := make([]domain.Photo, 0)
	err := s.db.WithContext(ctx).
		Where("photo_user_id = ?", userID).
		Order(feedOrder).
		Find(&photos).Error
	if err != nil {
		s.logger.Error("failed to list user photos", "user_id", userID, "error", err)
		return nil, translate(err, "list user photos")
	}

	s.logger.Info("listed user photos successfully",
		"user_id", userID,
		"count", len(photos),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return photos, nil
}

// GetPhotoByID получает фото по ID
func (s *PhotoStorage) GetPhotoByID(ctx context.Context, id uint64) (*domain.Photo, error) {
	var photo domain.Photo
	if err := s.db.WithContext(ctx).First(&photo, "photo_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("photo not found by id", "photo_id", id)
		} else {
			s.logger.Error("failed to get photo by id", "photo_id", id, "error", err)
		}
		return nil, translate(err, "select photo")
	}
	return &photo, nil
}

func (s *PhotoStorage) IncrementLikes(ctx context.Context, id uint64) (*domain.Photo, error) {
	return s.increment(ctx, id, "num_like")
}

func (s *PhotoStorage) IncrementDislikes(ctx context.Context, id uint64) (*domain.Photo, error) {
	return s.increment(ctx, id, "num_dislike")
}

// increment выполняет атомарный UPDATE, NULL считается нулем
func (s *PhotoStorage) increment(ctx context.Context, id uint64, column string) (*domain.Photo, error) {
	start := time.Now()

	res := s.db.WithContext(ctx).
		Model(&domain.Photo{}).
		Where("photo_id = ?", id).
		UpdateColumn(column, gorm.Expr("COALESCE("+column+", 0) + ?", 1))
	if res.Error != nil {
		s.logger.Error("failed to increment counter", "photo_id", id, "column", column, "error", res.Error)
		return nil, translate(res.Error, "increment "+column)
	}
	if res.RowsAffected == 0 {
		s.logger.Warn("photo not found for counter update", "photo_id", id, "column", column)
		return nil, translate(gorm.ErrRecordNotFound, "increment "+column)
	}

	photo, err := s.GetPhotoByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("photo counter incremented",
		"photo_id", id,
		"column", column,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return photo, nil
}

// CreatePhotoWithHashtag сохраняет фото и связь с хэштегом в одной транзакции.
// Хэштег с такой меткой переиспользуется, иначе создается.
func (s *PhotoStorage) CreatePhotoWithHashtag(ctx context.Context, photo *domain.Photo, label string) (*domain.Hashtag, bool, error) {
	start := time.Now()

	var (
		hashtag *domain.Hashtag
		created bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(photo).Error; err != nil {
			return translate(err, "insert photo")
		}
		if label == "" {
			return nil
		}

		tag := domain.Hashtag{Hashtag: label}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hashtag"}},
			DoNothing: true,
		}).Create(&tag)
		if res.Error != nil {
			return translate(res.Error, "insert hashtag")
		}

		if res.RowsAffected == 0 {
			if err := tx.Where("hashtag = ?", label).First(&tag).Error; err != nil {
				return translate(err, "select hashtag")
			}
		} else {
			created = true
		}

		link := domain.Photohashtag{PhotoID: photo.PhotoID, HashtagID: tag.HashtagID}
		if err := tx.Create(&link).Error; err != nil {
			return translate(err, "insert photohashtag")
		}

		hashtag = &tag
		return nil
	})
	if err != nil {
		s.logger.Error("failed to save uploaded photo", "photo_url", photo.PhotoURL, "hashtag", label, "error", err)
		return nil, false, err
	}

	s.logger.Info("photo saved successfully",
		"photo_id", photo.PhotoID,
		"user_id", photo.PhotoUserID,
		"hashtag", label,
		"new_hashtag", created,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return hashtag, created, nil
}
