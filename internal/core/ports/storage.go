package ports

import (
	"context"

	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	// CreateUser возвращает domain.ErrConstraintViolation, если имя уже занято
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id uint64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// PhotoStorage определяет методы для взаимодействия с хранилищем фотографий
type PhotoStorage interface {
	// ListPhotos возвращает всю ленту, новые сверху
	ListPhotos(ctx context.Context) ([]domain.Photo, error)
	ListPhotosByUser(ctx context.Context, userID uint64) ([]domain.Photo, error)
	GetPhotoByID(ctx context.Context, id uint64) (*domain.Photo, error)

	// IncrementLikes и IncrementDislikes увеличивают счетчик одним UPDATE
	IncrementLikes(ctx context.Context, id uint64) (*domain.Photo, error)
	IncrementDislikes(ctx context.Context, id uint64) (*domain.Photo, error)

	// CreatePhotoWithHashtag в одной транзакции создает фото, находит или создает хэштег
	// и связывает их. Пустая метка пропускает хэштег. created = true, если хэштег новый.
	CreatePhotoWithHashtag(ctx context.Context, photo *domain.Photo, label string) (hashtag *domain.Hashtag, created bool, err error)
}

// HashtagStorage определяет методы для работы с хэштегами
type HashtagStorage interface {
	GetHashtagByLabel(ctx context.Context, label string) (*domain.Hashtag, error)
	GetHashtagByID(ctx context.Context, id uint64) (*domain.Hashtag, error)
	ListHashtags(ctx context.Context) ([]domain.Hashtag, error)
	// ListPhotosByHashtag возвращает фото, связанные с хэштегом, новые сверху
	ListPhotosByHashtag(ctx context.Context, hashtagID uint64) ([]domain.Photo, error)
	// HashtagsByPhotos возвращает хэштеги каждого из фото, ключ - ID фото
	HashtagsByPhotos(ctx context.Context, photoIDs []uint64) (map[uint64][]domain.Hashtag, error)
}

// CommentStorage определяет методы для работы с комментариями
type CommentStorage interface {
	CreateComment(ctx context.Context, comment *domain.Comment) error
	// ListCommentsByPhoto возвращает комментарии к фото, новые сверху
	ListCommentsByPhoto(ctx context.Context, photoID uint64) ([]domain.Comment, error)
	ListComments(ctx context.Context) ([]domain.Comment, error)
}

// UserphotoStorage определяет методы для работы с сохраненными фото
type UserphotoStorage interface {
	CreateUserphoto(ctx context.Context, saved *domain.Userphoto) error
	// ListUserphotos возвращает записи пользователя в порядке создания
	ListUserphotos(ctx context.Context, userID uint64) ([]domain.Userphoto, error)
	// ListSavedPhotos возвращает записи пользователя с загруженным фото, новые сверху
	ListSavedPhotos(ctx context.Context, userID uint64) ([]domain.Userphoto, error)
}

// HealthChecker проверяет доступность базы данных
type HealthChecker interface {
	Ping(ctx context.Context) error
}
