// Package messaging содержит реализации публикации событий, не требующие брокера.
package messaging

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/PhotoShare/internal/messaging/payloads"
)

// LogPublisher используется, когда RabbitMQ не настроен: событие только пишется в лог
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) PublishPhotoUploaded(_ context.Context, payload payloads.PhotoUploadedPayload) error {
	p.Logger.Debug("event publishing disabled, dropping photo uploaded event", "photo_id", payload.PhotoID)
	return nil
}
