package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/PhotoShare/internal/adapter/storage/local"
	"github.com/GoArmGo/PhotoShare/internal/adapter/storage/minio"
	"github.com/GoArmGo/PhotoShare/internal/app"
	"github.com/GoArmGo/PhotoShare/internal/cache"
	"github.com/GoArmGo/PhotoShare/internal/config"
	"github.com/GoArmGo/PhotoShare/internal/core/ports"
	"github.com/GoArmGo/PhotoShare/internal/database/client"
	"github.com/GoArmGo/PhotoShare/internal/database/storage"
	"github.com/GoArmGo/PhotoShare/internal/handler"
	"github.com/GoArmGo/PhotoShare/internal/logger"
	"github.com/GoArmGo/PhotoShare/internal/messaging"
	"github.com/GoArmGo/PhotoShare/internal/rabbitmq"
	"github.com/GoArmGo/PhotoShare/internal/session"
	"github.com/GoArmGo/PhotoShare/internal/usecase"
	"github.com/GoArmGo/PhotoShare/internal/web"
)

const startupTimeout = 30 * time.Second

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
// Если инициализация оборвалась, уже открытые соединения закрываются.
func BuildApp(ctx context.Context) (_ *app.App, err error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	var closers []app.Closer
	defer func() {
		if err == nil {
			return
		}
		for i := len(closers) - 1; i >= 0; i-- {
			if closeErr := closers[i].Close(); closeErr != nil {
				slogger.Error("failed to release resource after init error", "resource", closers[i].Name, "error", closeErr)
			}
		}
	}()

	// 2. База данных
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, app.Closer{Name: "database", Close: dbClient.Close})

	// 3. Хранилища
	storages := usecase.Storages{
		Users:      storage.NewUserStorage(dbClient.Gorm, slogger),
		Photos:     storage.NewPhotoStorage(dbClient.Gorm, slogger),
		Hashtags:   storage.NewHashtagStorage(dbClient.Gorm, slogger),
		Comments:   storage.NewCommentStorage(dbClient.Gorm, slogger),
		Userphotos: storage.NewUserphotoStorage(dbClient.Gorm, slogger),
	}

	// 4. Файлы: локальный диск или S3 / MinIO
	files, err := newFileStorage(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 5. Кэш хэштегов
	var hashtagCache ports.HashtagCache = cache.Noop{}
	if cfg.RedisEnabled() {
		redisCache := cache.NewRedisCache(cfg)
		closers = append(closers, app.Closer{Name: "redis", Close: redisCache.Close})
		if err = redisCache.Ping(ctx); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		hashtagCache = redisCache
		slogger.Info("hashtag cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.HashtagTTL)
	}

	// 6. RabbitMQ: publisher для сервера, consumer для воркера
	var (
		publisher ports.PhotoEventPublisher = messaging.LogPublisher{Logger: slogger}
		consumer  ports.PhotoEventConsumer
	)
	if cfg.RabbitMQEnabled() {
		var rabbitMQClient *rabbitmq.Client
		rabbitMQClient, err = rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, app.Closer{Name: "rabbitmq", Close: rabbitMQClient.Close})
		publisher = rabbitMQClient
		consumer = rabbitMQClient
	}

	// 7. Бизнес-логика (usecases)
	authUseCase := usecase.NewAuthUseCase(storages.Users, slogger)
	photoUseCase := usecase.NewPhotoUseCase(storages, files, hashtagCache, publisher, slogger)
	hashtagUseCase := usecase.NewHashtagUseCase(storages.Hashtags, hashtagCache, slogger)

	// 8. HTTP-слой
	views, err := web.NewRenderer(slogger)
	if err != nil {
		return nil, err
	}
	h := handler.NewHandler(
		handler.UseCases{Auth: authUseCase, Photos: photoUseCase, Hashtags: hashtagUseCase},
		session.NewManager(cfg.SecretKey, slogger),
		views,
		dbClient,
		handler.Limits{MaxUploadBytes: cfg.Upload.MaxBytes, UploadConcurrency: cfg.Upload.Concurrency},
		slogger,
	)

	// 9. Сборка итогового приложения
	application := app.NewApp(cfg, slogger, h, hashtagUseCase, consumer, closers...)

	slogger.Info("all dependencies initialized",
		"db_driver", cfg.Database.Driver,
		"storage_backend", cfg.Upload.Backend,
		"cache", cfg.RedisEnabled(),
		"events", cfg.RabbitMQEnabled(),
	)
	return application, nil
}

func newFileStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.FileStorage, error) {
	switch cfg.Upload.Backend {
	case config.BackendMinio:
		return minio.NewMinioClient(ctx, cfg, logger)
	default:
		return local.NewDisk(cfg.Upload.Dir, logger)
	}
}
