package handler

import (
	"errors"
	"net/http"

	"github.com/GoArmGo/PhotoShare/internal/domain"
	"github.com/GoArmGo/PhotoShare/internal/web"
)

const msgNoMatchingPhotos = "There is no matching photos!"

// SearchHashtag ищет фото по точной метке хэштега. Промах возвращает клиента в ленту с уведомлением.
func (h *Handler) SearchHashtag(w http.ResponseWriter, r *http.Request) {
	label := r.FormValue("hashtag")

	found, err := h.hashtags.SearchHashtag(r.Context(), label)
	if errors.Is(err, domain.ErrNotFound) {
		h.logger.Info("hashtag search missed", "hashtag", label)
		h.flashRedirect(w, r, msgNoMatchingPhotos, "/")
		return
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, web.PageFeed, web.Page{
		Title:   "#" + found.Hashtag.Hashtag,
		Hashtag: found.Hashtag,
		Photos:  found.Photos,
	})
}

// HashtagPhotos показывает фото по ID хэштега. Для неизвестного ID список пуст.
func (h *Handler) HashtagPhotos(w http.ResponseWriter, r *http.Request) {
	hashtagID, err := pathID(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	found, err := h.hashtags.HashtagPhotos(r.Context(), hashtagID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	page := web.Page{Title: "Hashtag", Hashtag: found.Hashtag, Photos: found.Photos}
	if found.Hashtag != nil {
		page.Title = "#" + found.Hashtag.Hashtag
	}
	h.render(w, r, http.StatusOK, web.PageFeed, page)
}

func (h *Handler) ListHashtagsJSON(w http.ResponseWriter, r *http.Request) {
	tags, err := h.hashtags.ListHashtags(r.Context())
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tags, h.logger)
}
