package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/GoArmGo/PhotoShare/internal/core/ports"
	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// Storages собирает репозитории, нужные сценариям работы с фото
type Storages struct {
	Users      ports.UserStorage
	Photos     ports.PhotoStorage
	Hashtags   ports.HashtagStorage
	Comments   ports.CommentStorage
	Userphotos ports.UserphotoStorage
}

// photoUseCase implements PhotoUseCase
type photoUseCase struct {
	storages  Storages
	files     ports.FileStorage
	cache     ports.HashtagCache
	publisher ports.PhotoEventPublisher
	validate  *validator.Validate
	now       func() time.Time
	logger    *slog.Logger
}

// NewPhotoUseCase создает новый экземпляр PhotoUseCase
func NewPhotoUseCase(
	storages Storages,
	files ports.FileStorage,
	cache ports.HashtagCache,
	publisher ports.PhotoEventPublisher,
	logger *slog.Logger,
) PhotoUseCase {
	return &photoUseCase{
		storages:  storages,
		files:     files,
		cache:     cache,
		publisher: publisher,
		validate:  validator.New(),
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

func (uc *photoUseCase) Feed(ctx context.Context) ([]domain.Photo, error) {
	photos, err := uc.storages.Photos.ListPhotos(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: feed: %w", err)
	}
	if err := attachHashtags(ctx, uc.storages.Hashtags, photoRefs(photos)...); err != nil {
		return nil, err
	}
	return photos, nil
}

// Profile не проверяет существование пользователя: для неизвестного ID профиль просто пуст
func (uc *photoUseCase) Profile(ctx context.Context, userID uint64) (*Profile, error) {
	user, err := uc.storages.Users.GetUserByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("usecase: profile user: %w", err)
	}

	photos, err := uc.storages.Photos.ListPhotosByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: profile photos: %w", err)
	}

	saved, err := uc.storages.Userphotos.ListSavedPhotos(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: profile saved photos: %w", err)
	}

	refs := photoRefs(photos)
	for i := range saved {
		if saved[i].Photo != nil {
			refs = append(refs, saved[i].Photo)
		}
	}
	if err := attachHashtags(ctx, uc.storages.Hashtags, refs...); err != nil {
		return nil, err
	}

	return &Profile{User: user, Photos: photos, Saved: saved}, nil
}

func (uc *photoUseCase) PhotoDetail(ctx context.Context, photoID uint64) (*PhotoDetail, error) {
	photo, err := uc.storages.Photos.GetPhotoByID(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("usecase: photo detail: %w", err)
	}

	uploader, err := uc.storages.Users.GetUserByID(ctx, photo.PhotoUserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("usecase: photo uploader: %w", err)
	}

	comments, err := uc.storages.Comments.ListCommentsByPhoto(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("usecase: photo comments: %w", err)
	}

	if err := attachHashtags(ctx, uc.storages.Hashtags, photo); err != nil {
		return nil, err
	}

	return &PhotoDetail{Photo: photo, Uploader: uploader, Comments: comments}, nil
}

func (uc *photoUseCase) Like(ctx context.Context, photoID uint64) (*domain.Photo, error) {
	photo, err := uc.storages.Photos.IncrementLikes(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("usecase: like: %w", err)
	}
	return photo, nil
}

func (uc *photoUseCase) Dislike(ctx context.Context, photoID uint64) (*domain.Photo, error) {
	photo, err := uc.storages.Photos.IncrementDislikes(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("usecase: dislike: %w", err)
	}
	return photo, nil
}

func (uc *photoUseCase) SavePhoto(ctx context.Context, userID, photoID uint64) ([]domain.Userphoto, error) {
	if userID == 0 {
		return nil, domain.ErrUnauthenticated
	}

	if _, err := uc.storages.Photos.GetPhotoByID(ctx, photoID); err != nil {
		return nil, fmt.Errorf("usecase: save photo: %w", err)
	}

	if err := uc.storages.Userphotos.CreateUserphoto(ctx, &domain.Userphoto{UserID: userID, PhotoID: photoID}); err != nil {
		return nil, fmt.Errorf("usecase: save photo: %w", err)
	}

	saved, err := uc.storages.Userphotos.ListUserphotos(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: list saved photos: %w", err)
	}
	return saved, nil
}

func (uc *photoUseCase) AddComment(ctx context.Context, in AddCommentInput) ([]domain.Comment, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validate(uc.validate, in); err != nil {
		return nil, err
	}

	if _, err := uc.storages.Photos.GetPhotoByID(ctx, in.PhotoID); err != nil {
		return nil, fmt.Errorf("usecase: add comment: %w", err)
	}

	comment := &domain.Comment{PhotoID: in.PhotoID, UserID: in.UserID, Comment: in.Comment}
	if err := uc.storages.Comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("usecase: add comment: %w", err)
	}

	comments, err := uc.storages.Comments.ListCommentsByPhoto(ctx, in.PhotoID)
	if err != nil {
		return nil, fmt.Errorf("usecase: list photo comments: %w", err)
	}
	return comments, nil
}

func (uc *photoUseCase) ListComments(ctx context.Context) ([]domain.Comment, error) {
	comments, err := uc.storages.Comments.ListComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: list comments: %w", err)
	}
	return comments, nil
}
