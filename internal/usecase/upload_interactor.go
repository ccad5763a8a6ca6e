package usecase

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/GoArmGo/PhotoShare/internal/domain"
	"github.com/GoArmGo/PhotoShare/internal/messaging/payloads"
)

// Upload сохраняет файл, затем создает фото и связь с хэштегом.
// Если запись в базу не удалась, новый файл удаляется. Файл, который уже лежал под этим
// именем и был перезаписан, остается: на него ссылаются прежние фото.
func (uc *photoUseCase) Upload(ctx context.Context, in UploadInput) (*domain.Photo, error) {
	if !AllowedFile(in.Filename) {
		return nil, fmt.Errorf("usecase: %q: %w", in.Filename, domain.ErrUnsupportedFileType)
	}
	name := SanitizeFilename(in.Filename)
	if !AllowedFile(name) {
		return nil, fmt.Errorf("usecase: %q sanitizes to %q: %w", in.Filename, name, domain.ErrUnsupportedFileType)
	}

	in.Hashtag = strings.TrimSpace(in.Hashtag)
	if err := validate(uc.validate, in); err != nil {
		return nil, err
	}
	if in.Content == nil {
		return nil, fmt.Errorf("%w: empty file content", domain.ErrValidation)
	}

	contentType := in.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
			contentType = byExt
		}
	}

	existed, err := uc.files.Exists(ctx, name)
	if err != nil {
		uc.logger.Warn("failed to check existing upload, keeping it on failure", "key", name, "error", err)
		existed = true
	}

	location, err := uc.files.UploadFile(ctx, name, in.Content, contentType)
	if err != nil {
		return nil, fmt.Errorf("usecase: store file: %w", err)
	}

	photo := &domain.Photo{
		PhotoUserID:  in.UserID,
		PhotoURL:     UploadURLPrefix + name,
		Caption:      in.Caption,
		DateUploaded: uc.now(),
	}

	hashtag, created, err := uc.storages.Photos.CreatePhotoWithHashtag(ctx, photo, in.Hashtag)
	if err != nil {
		if existed {
			uc.logger.Warn("photo not saved, keeping file referenced by earlier photos", "key", name)
		} else if delErr := uc.files.DeleteFile(ctx, name); delErr != nil {
			uc.logger.Error("failed to remove orphaned upload", "key", name, "error", delErr)
		}
		return nil, fmt.Errorf("usecase: save photo: %w", err)
	}

	if created {
		if err := uc.cache.InvalidateHashtags(ctx); err != nil {
			uc.logger.Warn("failed to invalidate hashtag cache", "error", err)
		}
	}

	event := payloads.PhotoUploadedPayload{
		EventID:    uuid.NewString(),
		PhotoID:    photo.PhotoID,
		UserID:     photo.PhotoUserID,
		NewHashtag: created,
		UploadedAt: photo.DateUploaded,
	}
	if hashtag != nil {
		event.HashtagID = hashtag.HashtagID
		event.Hashtag = hashtag.Hashtag
	}
	if err := uc.publisher.PublishPhotoUploaded(ctx, event); err != nil {
		uc.logger.Warn("failed to publish photo uploaded event", "photo_id", photo.PhotoID, "error", err)
	}

	uc.logger.Info("photo uploaded",
		"photo_id", photo.PhotoID,
		"user_id", photo.PhotoUserID,
		"location", location,
		"hashtag", in.Hashtag,
	)
	return photo, nil
}

// OpenUpload открывает сохраненный файл по имени, domain.ErrNotFound если файла нет
func (uc *photoUseCase) OpenUpload(ctx context.Context, filename string) (io.ReadCloser, error) {
	rc, err := uc.files.GetFile(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("usecase: open upload: %w", err)
	}
	return rc, nil
}
