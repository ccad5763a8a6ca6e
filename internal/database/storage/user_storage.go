package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// UserStorage реализует ports.UserStorage с использованием GORM
type UserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *gorm.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUser сохраняет нового пользователя. Занятое имя дает domain.ErrConstraintViolation.
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		s.logger.Warn("username already taken", "username", user.Username)
		return translate(err, "insert user")
	}
	if err != nil {
		s.logger.Error("failed to insert user", "username", user.Username, "error", err)
		return translate(err, "insert user")
	}

	s.logger.Info("user created successfully",
		"user_id", user.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, id uint64) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("user not found by id", "user_id", id)
		}
		return nil, translate(err, "select user by id")
	}
	return &user, nil
}

func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("user not found by username", "username", username)
		} else {
			s.logger.Error("failed to select user", "username", username, "error", err)
		}
		return nil, translate(err, "select user by username")
	}

	s.logger.Debug("user found",
		"user_id", user.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}
