package storage

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// UserphotoStorage реализует ports.UserphotoStorage
type UserphotoStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewUserphotoStorage(db *gorm.DB, logger *slog.Logger) *UserphotoStorage {
	return &UserphotoStorage{db: db, logger: logger}
}

func (s *UserphotoStorage) CreateUserphoto(ctx context.Context, saved *domain.Userphoto) error {
	start := time.Now()

	if err := s.db.WithContext(ctx).Create(saved).Error; err != nil {
		s.logger.Error("failed to save photo to collection", "user_id", saved.UserID, "photo_id", saved.PhotoID, "error", err)
		return translate(err, "insert userphoto")
	}

	s.logger.Info("photo saved to collection",
		"userphoto_id", saved.UserphotoID,
		"user_id", saved.UserID,
		"photo_id", saved.PhotoID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *UserphotoStorage) ListUserphotos(ctx context.Context, userID uint64) ([]domain.Userphoto, error) {
	saved := make([]domain.Userphoto, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("userphoto_id ASC").
		Find(&saved).Error
	if err != nil {
		return nil, translate(err, "list userphotos")
	}
	return saved, nil
}

func (s *UserphotoStorage) ListSavedPhotos(ctx context.Context, userID uint64) ([]domain.Userphoto, error) {
	saved := make([]domain.Userphoto, 0)
	err := s.db.WithContext(ctx).
		Preload("Photo").
		Where("user_id = ?", userID).
		Order("userphoto_id DESC").
		Find(&saved).Error
	if err != nil {
		s.logger.Error("failed to list saved photos", "user_id", userID, "error", err)
		return nil, translate(err, "list saved photos")
	}
	return saved, nil
}
