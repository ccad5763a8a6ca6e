package handler

import (
	"context"
	"net/http"

	"github.com/GoArmGo/PhotoShare/internal/domain"
	"github.com/GoArmGo/PhotoShare/internal/session"
	"github.com/GoArmGo/PhotoShare/internal/usecase"
	"github.com/GoArmGo/PhotoShare/internal/web"
)

// Feed показывает ленту всех фото, новые первыми.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	photos, err := h.photos.Feed(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, web.PageFeed, web.Page{Title: "Feed", Photos: photos})
}

// Profile показывает фото пользователя и его коллекцию. Для неизвестного пользователя страница пуста.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	profile, err := h.photos.Profile(r.Context(), userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	title := "Profile"
	if profile.User != nil {
		title = profile.User.Username
	}
	h.render(w, r, http.StatusOK, web.PageProfile, web.Page{Title: title, Profile: profile})
}

// PhotoDetail показывает фото и комментарии к нему.
func (h *Handler) PhotoDetail(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	detail, err := h.photos.PhotoDetail(r.Context(), photoID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, web.PagePhoto, web.Page{Title: detail.Photo.Caption, Detail: detail})
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, h.photos.Like)
}

func (h *Handler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, h.photos.Dislike)
}

// vote увеличивает счетчик и возвращает обновленное фото
func (h *Handler) vote(w http.ResponseWriter, r *http.Request, apply func(context.Context, uint64) (*domain.Photo, error)) {
	photoID, err := pathID(r, "id")
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	photo, err := apply(r.Context(), photoID)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, photo, h.logger)
}

// SavePhoto добавляет фото в коллекцию текущего пользователя и возвращает всю коллекцию.
func (h *Handler) SavePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "id")
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		h.respondWithDomainError(w, r, domain.ErrUnauthenticated)
		return
	}

	saved, err := h.photos.SavePhoto(r.Context(), userID, photoID)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	h.logger.Info("photo saved", "user_id", userID, "photo_id", photoID, "collection_size", len(saved))
	respondWithJSON(w, http.StatusOK, saved, h.logger)
}

// AddComment принимает комментарий и без входа, тогда автор не указывается.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "id")
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	in := usecase.AddCommentInput{PhotoID: photoID, Comment: r.FormValue("comment")}
	if userID, ok := session.UserIDFromContext(r.Context()); ok {
		in.UserID = &userID
	}

	comments, err := h.photos.AddComment(r.Context(), in)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, comments, h.logger)
}

func (h *Handler) ListCommentsJSON(w http.ResponseWriter, r *http.Request) {
	comments, err := h.photos.ListComments(r.Context())
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, comments, h.logger)
}
