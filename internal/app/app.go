package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/PhotoShare/internal/config"
	"github.com/GoArmGo/PhotoShare/internal/core/ports"
	"github.com/GoArmGo/PhotoShare/internal/handler"
	"github.com/GoArmGo/PhotoShare/internal/usecase"
)

const (
	ModeServer = "server"
	ModeWorker = "worker"
)

// Closer - ресурс, который нужно закрыть при завершении (база, брокер, кэш)
type Closer struct {
	Name  string
	Close func() error
}

type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	handler  *handler.Handler
	hashtags usecase.HashtagUseCase
	consumer ports.PhotoEventConsumer
	closers  []Closer
}

// NewApp собирает приложение. consumer может быть nil, если RabbitMQ не настроен,
// тогда режим worker недоступен.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	h *handler.Handler,
	hashtags usecase.HashtagUseCase,
	consumer ports.PhotoEventConsumer,
	closers ...Closer,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		handler:  h,
		hashtags: hashtags,
		consumer: consumer,
		closers:  closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до SIGINT/SIGTERM
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.cfg, a.handler, a.logger)
	case ModeWorker:
		err = runWorker(ctx, a.consumer, a.hashtags, a.logger)
	default:
		err = fmt.Errorf("unknown mode %q (use '%s' or '%s')", mode, ModeServer, ModeWorker)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown finished with errors", "error", closeErr)
	}
	if err != nil {
		return err
	}

	a.logger.Info("stopped gracefully", "mode", mode)
	return nil
}

// Shutdown закрывает все ресурсы приложения в обратном порядке
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.Name, err))
			continue
		}
		a.logger.Debug("resource closed", "resource", c.Name)
	}
	a.closers = nil
	return errors.Join(errs...)
}
