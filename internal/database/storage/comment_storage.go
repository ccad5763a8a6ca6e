package storage

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// CommentStorage реализует ports.CommentStorage
type CommentStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewCommentStorage(db *gorm.DB, logger *slog.Logger) *CommentStorage {
	return &CommentStorage{db: db, logger: logger}
}

func (s *CommentStorage) CreateComment(ctx context.Context, comment *domain.Comment) error {
	start := time.Now()

	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		s.logger.Error("failed to insert comment", "photo_id", comment.PhotoID, "error", err)
		return translate(err, "insert comment")
	}

	s.logger.Info("comment saved successfully",
		"comment_id", comment.CommentID,
		"photo_id", comment.PhotoID,
		"anonymous", comment.UserID == nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ListCommentsByPhoto возвращает комментарии к фото вместе с авторами, новые первыми
func (s *CommentStorage) ListCommentsByPhoto(ctx context.Context, photoID uint64) ([]domain.Comment, error) {
	comments := make([]domain.Comment, 0)
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("photo_id = ?", photoID).
		Order("comment_id DESC").
		Find(&comments).Error
	if err != nil {
		s.logger.Error("failed to list photo comments", "photo_id", photoID, "error", err)
		return nil, translate(err, "list photo comments")
	}
	return comments, nil
}

// ListComments выгружает все комментарии системы
func (s *CommentStorage) ListComments(ctx context.Context) ([]domain.Comment, error) {
	comments := make([]domain.Comment, 0)
	if err := s.db.WithContext(ctx).Order("comment_id ASC").Find(&comments).Error; err != nil {
		s.logger.Error("failed to list comments", "error", err)
		return nil, translate(err, "list comments")
	}
	return comments, nil
}
