package handler

import (
	"errors"
	"net/http"

	"github.com/GoArmGo/PhotoShare/internal/domain"
	"github.com/GoArmGo/PhotoShare/internal/session"
	"github.com/GoArmGo/PhotoShare/internal/usecase"
	"github.com/GoArmGo/PhotoShare/internal/web"
)

const (
	msgRegistered         = "Registered! Login now!"
	msgUsernameTaken      = "Username is already taken!"
	msgRegisterRequired   = "Username and password are required!"
	msgInvalidCredentials = "Invalid username or password!"
	msgPasswordTooLong    = "Password is too long!"
)

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, web.PageRegister, web.Page{Title: "Register"})
}

// Register создаёт пользователя и отправляет его на страницу входа.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	in := usecase.RegisterInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	user, err := h.auth.Register(r.Context(), in)
	switch {
	case errors.Is(err, domain.ErrConstraintViolation):
		h.logger.Info("registration rejected", "reason", "username taken", "username", in.Username)
		h.flashRedirect(w, r, msgUsernameTaken, "/register")
		return
	case errors.Is(err, usecase.ErrPasswordTooLong):
		h.logger.Info("registration rejected", "reason", "password too long", "username", in.Username)
		h.flashRedirect(w, r, msgPasswordTooLong, "/register")
		return
	case errors.Is(err, domain.ErrValidation):
		h.logger.Info("registration rejected", "reason", "invalid form", "error", err)
		h.flashRedirect(w, r, msgRegisterRequired, "/register")
		return
	case err != nil:
		h.renderError(w, r, err)
		return
	}

	h.logger.Info("registration completed", "user_id", user.UserID)
	h.flashRedirect(w, r, msgRegistered, session.LoginPath)
}

// LoginForm показывает форму входа, уже вошедший пользователь попадает в свой профиль.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if userID, ok := session.UserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, profilePath(userID), http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, web.PageLogin, web.Page{Title: "Log in"})
}

// Login проверяет учетные данные. Неизвестное имя и неверный пароль дают одно и то же сообщение.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if errors.Is(err, domain.ErrInvalidCredentials) {
		h.flashRedirect(w, r, msgInvalidCredentials, session.LoginPath)
		return
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if err := h.sessions.Login(w, r, user.UserID); err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, profilePath(user.UserID), http.StatusFound)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.logger.Error("failed to clear session", "error", err)
	}
	http.Redirect(w, r, "/photos", http.StatusFound)
}
