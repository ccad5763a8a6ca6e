package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/PhotoShare/internal/config"
	"github.com/GoArmGo/PhotoShare/internal/domain"
	"github.com/GoArmGo/PhotoShare/internal/handler"
	"github.com/GoArmGo/PhotoShare/internal/logger"
	"github.com/GoArmGo/PhotoShare/internal/messaging/payloads"
	"github.com/GoArmGo/PhotoShare/internal/session"
	"github.com/GoArmGo/PhotoShare/internal/usecase"
	"github.com/GoArmGo/PhotoShare/internal/web"
)

type fakeHashtags struct {
	usecase.HashtagUseCase
	refreshes int
	err       error
}

func (f *fakeHashtags) RefreshHashtagCache(context.Context) error {
	f.refreshes++
	return f.err
}

type fakeConsumer struct {
	handler func(context.Context, payloads.PhotoUploadedPayload) error
	started chan struct{}
	err     error
}

func (f *fakeConsumer) StartConsumingPhotoUploaded(_ context.Context, h func(context.Context, payloads.PhotoUploadedPayload) error) error {
	f.handler = h
	if f.started != nil {
		close(f.started)
	}
	return f.err
}

func TestPhotoUploadedHandler(t *testing.T) {
	tags := &fakeHashtags{}
	h := photoUploadedHandler(tags, logger.Discard())

	require.NoError(t, h(context.Background(), payloads.PhotoUploadedPayload{EventID: "e1", PhotoID: 1}))
	assert.Equal(t, 1, tags.refreshes)

	tags.err = errors.New("redis down")
	err := h(context.Background(), payloads.PhotoUploadedPayload{EventID: "e2", PhotoID: 2})
	assert.ErrorContains(t, err, "e2")
	assert.ErrorIs(t, err, tags.err)
}

func TestRunWorker(t *testing.T) {
	t.Run("requires consumer", func(t *testing.T) {
		err := runWorker(context.Background(), nil, &fakeHashtags{}, logger.Discard())
		assert.ErrorIs(t, err, errNoConsumer)
	})

	t.Run("consumes until cancelled", func(t *testing.T) {
		tags := &fakeHashtags{}
		consumer := &fakeConsumer{started: make(chan struct{})}
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- runWorker(ctx, consumer, tags, logger.Discard()) }()

		select {
		case <-consumer.started:
		case <-time.After(time.Second):
			t.Fatal("consumer was not started")
		}
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}

		require.NoError(t, consumer.handler(context.Background(), payloads.PhotoUploadedPayload{EventID: "e"}))
		assert.Equal(t, 2, tags.refreshes)
	})

	t.Run("consumer start failure", func(t *testing.T) {
		consumer := &fakeConsumer{err: errors.New("channel closed")}
		err := runWorker(context.Background(), consumer, &fakeHashtags{}, logger.Discard())
		assert.ErrorIs(t, err, consumer.err)
	})
}

func TestRunClosesResources(t *testing.T) {
	var closed []string
	closer := func(name string, err error) Closer {
		return Closer{Name: name, Close: func() error {
			closed = append(closed, name)
			return err
		}}
	}

	a := NewApp(&config.Config{}, logger.Discard(), nil, &fakeHashtags{}, nil,
		closer("db", nil),
		closer("rabbitmq", errors.New("already closed")),
	)

	err := a.Run(context.Background(), "bogus")
	assert.ErrorContains(t, err, "unknown mode")
	assert.Equal(t, []string{"rabbitmq", "db"}, closed)

	assert.NoError(t, a.Shutdown())
	assert.Len(t, closed, 2)
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestRouterServesHealth(t *testing.T) {
	log := logger.Discard()
	views, err := web.NewRenderer(log)
	require.NoError(t, err)

	healthy := true
	h := handler.NewHandler(
		handler.UseCases{},
		session.NewManager("secret", log),
		views,
		pingFunc(func(context.Context) error {
			if healthy {
				return nil
			}
			return domain.ErrNotFound
		}),
		handler.Limits{MaxUploadBytes: 1 << 20, UploadConcurrency: 1},
		log,
	)

	cfg := &config.Config{RequestTimeout: time.Second}
	router := newRouter(cfg, h, log)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	healthy = false
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/upload", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, session.LoginPath, rec.Header().Get("Location"))
}
