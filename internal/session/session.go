// Package session хранит состояние входа пользователя в подписанной cookie
// и передает личность запроса обработчикам через context.
package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// CookieName - имя cookie сессии
	CookieName = "photoshare_session"

	// LoginPath - куда отправляется клиент без входа
	LoginPath = "/login"

	userIDKey = "user_id"
	maxAge    = 30 * 24 * 60 * 60
)

// Identity - личность текущего запроса. Нулевое значение означает анонимного клиента.
type Identity struct {
	UserID uint64
}

// Authenticated сообщает, выполнен ли вход
func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

type ctxKey struct{}

// WithIdentity кладет личность в контекст запроса
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext возвращает личность запроса (анонимную, если middleware не отработал)
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}

// UserIDFromContext возвращает ID вошедшего пользователя
func UserIDFromContext(ctx context.Context) (uint64, bool) {
	id := FromContext(ctx)
	return id.UserID, id.Authenticated()
}

// Manager читает и пишет cookie сессии
type Manager struct {
	store  *sessions.CookieStore
	logger *slog.Logger
}

// NewManager создает хранилище сессий, подписанное secret
func NewManager(secret string, logger *slog.Logger) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, logger: logger}
}

// get всегда возвращает сессию: поврежденная или чужая cookie дает пустую сессию
func (m *Manager) get(r *http.Request) *sessions.Session {
	s, err := m.store.Get(r, CookieName)
	if err != nil {
		m.logger.Debug("discarding undecodable session cookie", "error", err)
	}
	return s
}

// Login запоминает пользователя в сессии
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID uint64) error {
	s := m.get(r)
	s.Values[userIDKey] = userID
	return s.Save(r, w)
}

// Logout убирает пользователя из сессии, флэш-сообщения сохраняются
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	delete(s.Values, userIDKey)
	return s.Save(r, w)
}

// AddFlash добавляет одноразовое сообщение для следующей отрисованной страницы
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, message string) error {
	s := m.get(r)
	s.AddFlash(message)
	return s.Save(r, w)
}

// Flashes забирает накопленные сообщения, после чего они удаляются из сессии
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	s := m.get(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		m.logger.Error("failed to save session after reading flashes", "error", err)
	}

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (m *Manager) identity(r *http.Request) Identity {
	s := m.get(r)
	userID, _ := s.Values[userIDKey].(uint64)
	return Identity{UserID: userID}
}

// LoadIdentity декодирует сессию и кладет Identity в контекст каждого запроса
func (m *Manager) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.identity(r)
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireLogin перенаправляет анонимного клиента на страницу входа.
// Должен стоять после LoadIdentity.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !FromContext(r.Context()).Authenticated() {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
