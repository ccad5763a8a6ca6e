package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// UploadURLPrefix - публичный путь, по которому отдаются загруженные файлы
const UploadURLPrefix = "/uploads/"

// MaxPasswordBytes - предел bcrypt: длина пароля считается в байтах, а не в символах
const MaxPasswordBytes = 72

// ErrPasswordTooLong - пароль длиннее MaxPasswordBytes байт
var ErrPasswordTooLong = fmt.Errorf("%w: password is longer than %d bytes", domain.ErrValidation, MaxPasswordBytes)

// RegisterInput - данные формы регистрации
type RegisterInput struct {
	Username string `validate:"required,max=64"`
	Email    string `validate:"omitempty,max=128"`
	Password string `validate:"required"`
}

// UploadInput - загружаемый файл и его подпись
type UploadInput struct {
	UserID      uint64    `validate:"required"`
	Filename    string    `validate:"required"`
	ContentType string    `validate:"-"`
	Content     io.Reader `validate:"-"`
	Caption     string    `validate:"max=2000"`
	Hashtag     string    `validate:"max=64"`
}

// AddCommentInput - новый комментарий, UserID пуст для анонимного автора
type AddCommentInput struct {
	PhotoID uint64  `validate:"required"`
	UserID  *uint64 `validate:"-"`
	Comment string  `validate:"required,max=2000"`
}

// Profile - страница пользователя: его фото и сохраненная коллекция.
// User равен nil, если такого пользователя нет.
type Profile struct {
	User   *domain.User
	Photos []domain.Photo
	Saved  []domain.Userphoto
}

// PhotoDetail - фото, его автор и комментарии (новые первыми)
type PhotoDetail struct {
	Photo    *domain.Photo
	Uploader *domain.User
	Comments []domain.Comment
}

// HashtagPhotos - фото, отмеченные хэштегом. Hashtag равен nil для неизвестного ID.
type HashtagPhotos struct {
	Hashtag *domain.Hashtag
	Photos  []domain.Photo
}

// AuthUseCase - регистрация и проверка учетных данных
type AuthUseCase interface {
	// Register создает пользователя, пароль сохраняется только в виде bcrypt-хэша.
	// Занятое имя дает domain.ErrConstraintViolation, пустые поля domain.ErrValidation,
	// слишком длинный пароль ErrPasswordTooLong.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Login возвращает domain.ErrInvalidCredentials и для неизвестного имени, и для неверного пароля
	Login(ctx context.Context, username, password string) (*domain.User, error)
}

// PhotoUseCase определяет бизнес-логику ленты, профиля, оценок, коллекций, комментариев и загрузок
type PhotoUseCase interface {
	Feed(ctx context.Context) ([]domain.Photo, error)
	Profile(ctx context.Context, userID uint64) (*Profile, error)
	PhotoDetail(ctx context.Context, photoID uint64) (*PhotoDetail, error)

	Like(ctx context.Context, photoID uint64) (*domain.Photo, error)
	Dislike(ctx context.Context, photoID uint64) (*domain.Photo, error)

	// SavePhoto добавляет фото в коллекцию и возвращает всю коллекцию пользователя
	SavePhoto(ctx context.Context, userID, photoID uint64) ([]domain.Userphoto, error)

	// AddComment возвращает все комментарии к фото после добавления
	AddComment(ctx context.Context, in AddCommentInput) ([]domain.Comment, error)
	ListComments(ctx context.Context) ([]domain.Comment, error)

	Upload(ctx context.Context, in UploadInput) (*domain.Photo, error)
	OpenUpload(ctx context.Context, filename string) (io.ReadCloser, error)
}

// HashtagUseCase - поиск и списки хэштегов
type HashtagUseCase interface {
	// SearchHashtag ищет точное совпадение метки, domain.ErrNotFound если метки нет
	SearchHashtag(ctx context.Context, label string) (*HashtagPhotos, error)
	HashtagPhotos(ctx context.Context, hashtagID uint64) (*HashtagPhotos, error)
	ListHashtags(ctx context.Context) ([]domain.Hashtag, error)
	RefreshHashtagCache(ctx context.Context) error
}
