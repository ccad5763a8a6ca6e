package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GoArmGo/PhotoShare/internal/core/ports"
	"github.com/GoArmGo/PhotoShare/internal/domain"
	"github.com/GoArmGo/PhotoShare/internal/session"
	"github.com/GoArmGo/PhotoShare/internal/usecase"
	"github.com/GoArmGo/PhotoShare/internal/web"
)

// UseCases - бизнес-логика, которую вызывают обработчики
type UseCases struct {
	Auth     usecase.AuthUseCase
	Photos   usecase.PhotoUseCase
	Hashtags usecase.HashtagUseCase
}

// Limits - ограничения на загрузку файлов
type Limits struct {
	MaxUploadBytes    int64
	UploadConcurrency int
}

// Handler обрабатывает HTTP-запросы: HTML-страницы, JSON и загруженные файлы.
type Handler struct {
	auth           usecase.AuthUseCase
	photos         usecase.PhotoUseCase
	hashtags       usecase.HashtagUseCase
	sessions       *session.Manager
	views          *web.Renderer
	health         ports.HealthChecker
	maxUploadBytes int64
	uploadLimiter  chan struct{}
	logger         *slog.Logger
}

// NewHandler создаёт новый экземпляр Handler.
func NewHandler(
	uc UseCases,
	sessions *session.Manager,
	views *web.Renderer,
	health ports.HealthChecker,
	limits Limits,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:           uc.Auth,
		photos:         uc.Photos,
		hashtags:       uc.Hashtags,
		sessions:       sessions,
		views:          views,
		health:         health,
		maxUploadBytes: limits.MaxUploadBytes,
		uploadLimiter:  make(chan struct{}, limits.UploadConcurrency),
		logger:         logger,
	}
}

// Routes собирает маршруты приложения. Личность запроса читается из сессии для всех маршрутов,
// а лента, сохранение фото и загрузка доступны только после входа.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestSize(h.maxUploadBytes))
	r.Use(h.sessions.LoadIdentity)

	r.Get("/healthz", h.Healthz)

	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.Register)
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)

	r.Get("/users/{id}", h.Profile)
	r.Get("/photos/comments.json", h.ListCommentsJSON)
	r.Get("/photos/{id}", h.PhotoDetail)
	r.Get("/photos/{id}/hashtag", h.HashtagPhotos)
	r.Post("/photos/{id}/like.json", h.Like)
	r.Post("/photos/{id}/dislike.json", h.Dislike)
	r.Post("/photos/{id}/comments", h.AddComment)

	r.Post("/hashtag", h.SearchHashtag)
	r.Get("/hashtag.json", h.ListHashtagsJSON)

	r.Get("/uploads/{filename}", h.ServeUpload)
	r.Handle(web.StaticPrefix+"*", web.StaticHandler())

	r.Group(func(r chi.Router) {
		r.Use(session.RequireLogin)
		r.Get("/", h.Feed)
		r.Get("/photos", h.Feed)
		r.Post("/photos/{id}/save.json", h.SavePhoto)
		r.Get("/upload", h.UploadForm)
		r.Post("/upload", h.Upload)
	})

	return r
}

// respondWithJSON отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload any, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// statusFromError сопоставляет ошибки домена с HTTP-статусами
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage не раскрывает клиенту внутренние ошибки
func publicMessage(err error, status int) string {
	switch {
	case status == http.StatusInternalServerError:
		return "internal server error"
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	}
	for _, known := range []error{
		domain.ErrInvalidCredentials,
		domain.ErrUnauthenticated,
		domain.ErrNotFound,
		domain.ErrUnsupportedFileType,
		domain.ErrPayloadTooLarge,
		domain.ErrConstraintViolation,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return http.StatusText(status)
}

// respondWithDomainError отвечает JSON-конвертом с ошибкой
func (h *Handler) respondWithDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	h.logError(r, status, err)
	respondWithError(w, status, publicMessage(err, status), h.logger)
}

func (h *Handler) logError(r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
		return
	}
	h.logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
}

// render дополняет страницу личностью и флэш-сообщениями из сессии
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, page web.Page) {
	page.Identity = session.FromContext(r.Context())
	page.Flashes = append(h.sessions.Flashes(w, r), page.Flashes...)
	h.views.Render(w, status, name, page)
}

// renderError отрисовывает страницу ошибки со статусом, соответствующим err
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	h.logError(r, status, err)
	h.render(w, r, status, web.PageError, web.Page{Title: http.StatusText(status)})
}

// flashRedirect сохраняет одноразовое сообщение и перенаправляет клиента
func (h *Handler) flashRedirect(w http.ResponseWriter, r *http.Request, message, target string) {
	if err := h.sessions.AddFlash(w, r, message); err != nil {
		h.logger.Error("failed to save flash message", "error", err)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// pathID разбирает числовой параметр маршрута. Нечисловой ID считается несуществующим.
func pathID(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func profilePath(userID uint64) string {
	return "/users/" + strconv.FormatUint(userID, 10)
}
