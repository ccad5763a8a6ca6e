package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/PhotoShare/internal/domain"
	"github.com/GoArmGo/PhotoShare/internal/session"
	"github.com/GoArmGo/PhotoShare/internal/usecase"
	"github.com/GoArmGo/PhotoShare/internal/web"
)

const (
	msgNoSelectedPhotos = "No selected photos"
	msgUploaded         = "Photo successfully uploaded"
	msgUnsupportedType  = "Only png, jpg, jpeg, gif file types are allowed!"
	msgTooLarge         = "The file is too large!"

	// части формы больше этого размера сбрасываются во временные файлы
	multipartMemory = 8 << 20
)

func (h *Handler) UploadForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, web.PageUpload, web.Page{Title: "Upload"})
}

// Upload принимает multipart-форму с файлом, подписью и хэштегом.
// Одновременно обрабатывается не больше UploadConcurrency загрузок.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, session.LoginPath, http.StatusFound)
		return
	}

	if r.ContentLength > h.maxUploadBytes {
		h.uploadFormError(w, r, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}

	select {
	case h.uploadLimiter <- struct{}{}:
		defer func() { <-h.uploadLimiter }()
	case <-r.Context().Done():
		h.logger.Warn("upload cancelled while waiting for a slot", "user_id", userID)
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.uploadFormError(w, r, http.StatusRequestEntityTooLarge, msgTooLarge)
		case errors.Is(err, http.ErrNotMultipart):
			h.flashRedirect(w, r, msgNoSelectedPhotos, "/upload")
		default:
			h.logger.Warn("malformed upload form", "user_id", userID, "error", err)
			h.uploadFormError(w, r, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		}
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || (err == nil && header.Filename == "") {
		if file != nil {
			_ = file.Close()
		}
		h.flashRedirect(w, r, msgNoSelectedPhotos, "/upload")
		return
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	defer file.Close()

	photo, err := h.photos.Upload(r.Context(), usecase.UploadInput{
		UserID:      userID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
		Caption:     r.FormValue("caption"),
		Hashtag:     r.FormValue("hashtag"),
	})
	switch {
	case errors.Is(err, domain.ErrUnsupportedFileType):
		h.logger.Info("upload rejected", "user_id", userID, "filename", header.Filename)
		h.uploadFormError(w, r, http.StatusUnsupportedMediaType, msgUnsupportedType)
		return
	case errors.Is(err, domain.ErrValidation):
		h.uploadFormError(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.renderError(w, r, err)
		return
	}

	h.logger.Info("upload completed", "user_id", userID, "photo_id", photo.PhotoID, "size", header.Size)
	h.flashRedirect(w, r, msgUploaded, profilePath(userID))
}

// uploadFormError показывает форму загрузки снова, вместе с причиной отказа
func (h *Handler) uploadFormError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, web.PageUpload, web.Page{Title: "Upload", Error: message})
}

// ServeUpload отдает сохраненный файл. Локальные файлы отдаются через http.ServeContent
// (Range, If-Modified-Since), объекты из MinIO копируются потоком.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	rc, err := h.photos.OpenUpload(r.Context(), name)
	if err != nil {
		status := statusFromError(err)
		h.logError(r, status, err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		w.Header().Set("Content-Type", ct)
	}

	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, name, time.Time{}, rs)
		return
	}

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("failed to stream upload", "filename", name, "error", err)
	}
}
