package ports

import (
	"context"
	"io"
)

// FileStorage определяет интерфейс для работы с файловым хранилищем (локальный диск, MinIO)
// порт для хранения бинарных данных (самих изображений)
type FileStorage interface {
	// UploadFile сохраняет файл под ключом key и возвращает его расположение в хранилище.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// GetFile открывает файл по ключу, domain.ErrNotFound если файла нет.
	GetFile(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists сообщает, хранится ли уже файл под ключом
	Exists(ctx context.Context, key string) (bool, error)

	DeleteFile(ctx context.Context, key string) error
}
