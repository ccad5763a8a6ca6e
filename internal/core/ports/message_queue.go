package ports

import (
	"context"

	"github.com/GoArmGo/PhotoShare/internal/messaging/payloads"
)

// PhotoEventPublisher определяет методы для публикации событий о загруженных фото
// Этот интерфейс используется сценарием загрузки
type PhotoEventPublisher interface {
	PublishPhotoUploaded(ctx context.Context, payload payloads.PhotoUploadedPayload) error
}

// PhotoEventConsumer определяет методы для потребления событий о загруженных фото
// используется воркером
type PhotoEventConsumer interface {
	// StartConsumingPhotoUploaded начинает прослушивание очереди,
	// handler вызывается для каждого полученного сообщения
	StartConsumingPhotoUploaded(ctx context.Context, handler func(context.Context, payloads.PhotoUploadedPayload) error) error
}
