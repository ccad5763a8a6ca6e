package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/PhotoShare/internal/core/ports"
	"github.com/GoArmGo/PhotoShare/internal/messaging/payloads"
	"github.com/GoArmGo/PhotoShare/internal/usecase"
)

var errNoConsumer = errors.New("worker mode requires RABBITMQ_URL")

// photoUploadedHandler обновляет кэш хэштегов после каждой загрузки.
// Ошибка возвращает сообщение в очередь.
func photoUploadedHandler(hashtags usecase.HashtagUseCase, logger *slog.Logger) func(context.Context, payloads.PhotoUploadedPayload) error {
	return func(ctx context.Context, payload payloads.PhotoUploadedPayload) error {
		logger.Info("processing photo uploaded event",
			"event_id", payload.EventID,
			"photo_id", payload.PhotoID,
			"hashtag", payload.Hashtag,
			"new_hashtag", payload.NewHashtag,
		)

		if err := hashtags.RefreshHashtagCache(ctx); err != nil {
			return fmt.Errorf("event %s: %w", payload.EventID, err)
		}
		return nil
	}
}

// runWorker запускает потребителя RabbitMQ и ждет отмены ctx
func runWorker(ctx context.Context, consumer ports.PhotoEventConsumer, hashtags usecase.HashtagUseCase, logger *slog.Logger) error {
	if consumer == nil {
		return errNoConsumer
	}

	// прогрев кэша до первого события
	if err := hashtags.RefreshHashtagCache(ctx); err != nil {
		logger.Warn("initial hashtag cache refresh failed", "error", err)
	}

	if err := consumer.StartConsumingPhotoUploaded(ctx, photoUploadedHandler(hashtags, logger)); err != nil {
		return fmt.Errorf("failed to start RabbitMQ consumer: %w", err)
	}
	logger.Info("worker started, waiting for photo uploaded events")

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping worker")
	return nil
}
