package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	BackendLocal = "local"
	BackendMinio = "minio"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort      string        `env:"SERVER_PORT" envDefault:"8080"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// SecretKey подписывает cookie сессии
	SecretKey string `env:"SECRET_KEY,required"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Database struct {
		Driver          string        `env:"DB_DRIVER" envDefault:"postgres"`
		URL             string        `env:"DATABASE_URL"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	}

	Upload struct {
		Backend  string `env:"STORAGE_BACKEND" envDefault:"local"`
		Dir      string `env:"UPLOAD_DIR" envDefault:"static/images"`
		MaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"16777216"`

		// Сколько загрузок обрабатывается одновременно
		Concurrency int `env:"UPLOAD_CONCURRENCY" envDefault:"5"`
	}

	// Настройки для MinIO, нужны только при STORAGE_BACKEND=minio
	Minio struct {
		Endpoint        string `env:"MINIO_ENDPOINT"`
		AccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
		SecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
		UseSSL          bool   `env:"MINIO_USE_SSL"`
		BucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"photos"`
		Region          string `env:"MINIO_REGION" envDefault:"us-east-1"`
	}

	// Пустой адрес отключает кэш хэштегов
	Redis struct {
		Addr       string        `env:"REDIS_ADDR"`
		Password   string        `env:"REDIS_PASSWORD"`
		DB         int           `env:"REDIS_DB" envDefault:"0"`
		HashtagTTL time.Duration `env:"HASHTAG_CACHE_TTL" envDefault:"10m"`
	}

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"photo_uploaded_queue"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет параметры, обязательность которых зависит от других параметров
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY must not be empty")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL must be set for the postgres driver")
		}
	case DriverSQLite:
		if c.Database.URL == "" {
			c.Database.URL = "photoshare.db"
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q (use 'postgres' or 'sqlite')", c.Database.Driver)
	}

	switch c.Upload.Backend {
	case BackendLocal:
		if c.Upload.Dir == "" {
			return errors.New("UPLOAD_DIR must not be empty")
		}
	case BackendMinio:
		if c.Minio.Endpoint == "" || c.Minio.AccessKeyID == "" || c.Minio.SecretAccessKey == "" || c.Minio.BucketName == "" {
			return errors.New("MinIO credentials (MINIO_ENDPOINT, MINIO_ACCESS_KEY_ID, MINIO_SECRET_ACCESS_KEY, MINIO_BUCKET_NAME) must be set for the minio backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (use 'local' or 'minio')", c.Upload.Backend)
	}

	if c.Upload.MaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	if c.Upload.Concurrency <= 0 {
		return errors.New("UPLOAD_CONCURRENCY must be positive")
	}

	return nil
}

// RedisEnabled сообщает, настроен ли кэш
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// RabbitMQEnabled сообщает, настроена ли публикация событий
func (c *Config) RabbitMQEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}
