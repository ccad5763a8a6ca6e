package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoArmGo/PhotoShare/internal/adapter/storage/local"
	"github.com/GoArmGo/PhotoShare/internal/cache"
	"github.com/GoArmGo/PhotoShare/internal/database/dbtest"
	"github.com/GoArmGo/PhotoShare/internal/database/storage"
	"github.com/GoArmGo/PhotoShare/internal/domain"
	"github.com/GoArmGo/PhotoShare/internal/logger"
	"github.com/GoArmGo/PhotoShare/internal/messaging"
	"github.com/GoArmGo/PhotoShare/internal/session"
	"github.com/GoArmGo/PhotoShare/internal/usecase"
	"github.com/GoArmGo/PhotoShare/internal/web"
)

type testServer struct {
	db  *gorm.DB
	url string
}

func newTestServer(t *testing.T, limits Limits) *testServer {
	t.Helper()

	log := logger.Discard()
	dbClient := dbtest.NewClient(t)
	db := dbClient.Gorm

	storages := usecase.Storages{
		Users:      storage.NewUserStorage(db, log),
		Photos:     storage.NewPhotoStorage(db, log),
		Hashtags:   storage.NewHashtagStorage(db, log),
		Comments:   storage.NewCommentStorage(db, log),
		Userphotos: storage.NewUserphotoStorage(db, log),
	}
	disk, err := local.NewDisk(t.TempDir(), log)
	require.NoError(t, err)

	views, err := web.NewRenderer(log)
	require.NoError(t, err)

	h := NewHandler(
		UseCases{
			Auth:     usecase.NewAuthUseCase(storages.Users, log),
			Photos:   usecase.NewPhotoUseCase(storages, disk, cache.Noop{}, messaging.LogPublisher{Logger: log}, log),
			Hashtags: usecase.NewHashtagUseCase(storages.Hashtags, cache.Noop{}, log),
		},
		session.NewManager("test-secret", log),
		views,
		dbClient,
		limits,
		log,
	)

	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return &testServer{db: db, url: srv.URL}
}

func defaultLimits() Limits {
	return Limits{MaxUploadBytes: 16 << 20, UploadConcurrency: 2}
}

// client не следует редиректам, чтобы тест видел Location, и хранит cookie сессии
func (s *testServer) client() *resty.Client {
	return resty.New().
		SetBaseURL(s.url).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
}

func (s *testServer) signedIn(t *testing.T, username string) (*resty.Client, uint64) {
	t.Helper()
	c := s.client()

	resp, err := c.R().SetFormData(map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret-" + username,
	}).Post("/register")
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode())

	resp, err = c.R().SetFormData(map[string]string{
		"username": username,
		"password": "secret-" + username,
	}).Post("/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode())

	var user domain.User
	require.NoError(t, s.db.Where("username = ?", username).First(&user).Error)
	require.Equal(t, fmt.Sprintf("/users/%d", user.UserID), resp.Header().Get("Location"))
	return c, user.UserID
}

func (s *testServer) uploadPhoto(t *testing.T, c *resty.Client, filename, hashtag string) *resty.Response {
	t.Helper()
	resp, err := c.R().
		SetFileReader("file", filename, bytes.NewReader([]byte("fake-image:"+filename))).
		SetFormData(map[string]string{"caption": "caption " + filename, "hashtag": hashtag}).
		Post("/upload")
	require.NoError(t, err)
	return resp
}

func (s *testServer) latestPhotoID(t *testing.T) uint64 {
	t.Helper()
	var p domain.Photo
	require.NoError(t, s.db.Order("photo_id DESC").First(&p).Error)
	return p.PhotoID
}

func TestRegisterLoginLogout(t *testing.T) {
	s := newTestServer(t, defaultLimits())
	c := s.client()

	resp, err := c.R().SetFormData(map[string]string{"username": "alice", "email": "a@example.com", "password": "pw"}).Post("/register")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode())
	assert.Equal(t, "/login", resp.Header().Get("Location"))

	resp, err = c.R().Get("/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, resp.String(), "Registered! Login now!")

	var stored domain.User
	require.NoError(t, s.db.Where("username = ?", "alice").First(&stored).Error)
	assert.NotEqual(t, "pw", stored.Password)

	resp, err = c.R().SetFormData(map[string]string{"username": "alice", "password": "pw"}).Post("/login")
	require.NoError(t, err)
	profile := fmt.Sprintf("/users/%d", stored.UserID)
	assert.Equal(t, http.StatusFound, resp.StatusCode())
	assert.Equal(t, profile, resp.Header().Get("Location"))

	resp, err = c.R().Get(profile)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, resp.String(), "alice")

	resp, err = c.R().Get("/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode())
	assert.Equal(t, profile, resp.Header().Get("Location"))

	resp, err = c.R().Get("/logout")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode())
	assert.Equal(t, "/photos", resp.Header().Get("Location"))

	resp, err = c.R().Get("/photos")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode())
	assert.Equal(t, "/login", resp.Header().Get("Location"))
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	s := newTestServer(t, defaultLimits())
	s.signedIn(t, "alice")

	for _, form := range []map[string]string{
		{"username": "alice", "password": "wrong"},
		{"username": "nobody", "password": "wrong"},
		{"username": "", "password": ""},
	} {
		c := s.client()
		resp, err := c.R().SetFormData(form).Post("/login")
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode())
		assert.Equal(t, "/login", resp.Header().Get("Location"))

		page, err := c.R().Get("/login")
		require.NoError(t, err)
		assert.Contains(t, page.String(), "Invalid username or password!")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s := newTestServer(t, defaultLimits())
	s.signedIn(t, "alice")

	c := s.client()
	resp, err := c.R().SetFormData(map[string]string{"username": "alice", "password": "other"}).Post("/register")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode())
	assert.Equal(t, "/register", resp.Header().Get("Location"))

	page, err := c.R().Get("/register")
	require.NoError(t, err)
	assert.Contains(t, page.String(), "Username is already taken!")

	var count int64
	require.NoError(t, s.db.Model(&domain.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterMultibytePasswordOverLimit(t *testing.T) {
	s := newTestServer(t, defaultLimits())
	c := s.client()

	resp, err := c.R().SetFormData(map[string]string{
		"username": "pierre",
		"password": strings.Repeat("é", 72),
	}).Post("/register")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode())
	assert.Equal(t, "/register", resp.Header().Get("Location"))

	page, err := c.R().Get("/register")
	require.NoError(t, err)
	assert.Contains(t, page.String(), "Password is too long!")

	var count int64
	require.NoError(t, s.db.Model(&domain.User{}).Where("username = ?", "pierre").Count(&count).Error)
	assert.Zero(t, count)
}

func TestLoginGatedRoutesRedirect(t *testing.T) {
	s := newTestServer(t, defaultLimits())
	owner, _ := s.signedIn(t, "alice")
	require.Equal(t, http.StatusFound, s.uploadPhoto(t, owner, "a.png", "").StatusCode())
	photoID := s.latestPhotoID(t)

	anon := s.client()
	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/photos"},
		{http.MethodGet, "/upload"},
		{http.MethodPost, "/upload"},
		{http.MethodPost, fmt.Sprintf("/photos/%d/save.json", photoID)},
	} {
		resp, err := anon.R().Execute(tc.method, tc.path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode(), tc.path)
		assert.Equal(t, "/login", resp.Header().Get("Location"), tc.path)
	}

	var saved int64
	require.NoError(t, s.db.Model(&domain.Userphoto{}).Count(&saved).Error)
	assert.Zero(t, saved)
}

func TestUploadAndServe(t *testing.T) {
	s := newTestServer(t, defaultLimits())
	c, userID := s.signedIn(t, "alice")

	resp := s.uploadPhoto(t, c, "photo.JPG", "sunset")
	assert.Equal(t, http.StatusFound, resp.StatusCode())
	assert.Equal(t, fmt.Sprintf("/users/%d", userID), resp.Header().Get("Location"))

	page, err := c.R().Get(resp.Header().Get("Location"))
	require.NoError(t, err)
	assert.Contains(t, page.String(), "Photo successfully uploaded")
	assert.Contains(t, page.String(), "/uploads/photo.JPG")

	file, err := c.R().Get("/uploads/photo.JPG")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, file.StatusCode())
	assert.Equal(t, "fake-image:photo.JPG", file.String())
	assert.Equal(t, "image/jpeg", file.Header().Get("Content-Type"))

	missing, err := c.R().Get("/uploads/nope.png")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode())

	resp = s.uploadPhoto(t, c, "second.png", "sunset")
	assert.Equal(t, http.StatusFound, resp.StatusCode())

	var tags []domain.Hashtag
	require.NoError(t, s.db.Where("hashtag = ?", "sunset").Find(&tags).Error)
	require.Len(t, tags, 1)
	var links int64
	require.NoError(t, s.db.Model(&domain.Photohashtag{}).Where("hashtag_id = ?", tags[0].HashtagID).Count(&links).Error)
	assert.Equal(t, int64(2), links)
}

func TestPhotoPagesLinkHashtags(t *testing.T) {
	s := newTestServer(t, defaultLimits())
	c, _ := s.signedIn(t, "alice")

	require.Equal(t, http.StatusFound, s.uploadPhoto(t, c, "beach.png", "sunset").StatusCode())
	photoID := s.latestPhotoID(t)

	var tag domain.Hashtag
	require.NoError(t, s.db.Where("hashtag = ?", "sunset").First(&tag).Error)
	link := fmt.Sprintf(`<a href="/photos/%d/hashtag">#sunset</a>`, tag.HashtagID)

	for _, path := range []string{
		fmt.Sprintf("/photos/%d", photoID),
		"/photos",
		fmt.Sprintf("/photos/%d/hashtag", tag.HashtagID),
	} {
		page, err := c.R().Get(path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, page.StatusCode(), path)
		assert.Contains(t, page.String(), link, path)
	}

	script, err := s.client().R().Get("/static/photo.js")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, script.StatusCode())
	assert.Contains(t, script.String(), "data-comment-form")
}

func TestUploadRejections(t *testing.T) {
	s := newTestServer(t, defaultLimits())
	c, _ := s.signedIn(t, "alice")

	resp := s.uploadPhoto(t, c, "photo.txt", "")
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode())
	assert.Contains(t, resp.String(), "Only png, jpg, jpeg, gif file types are allowed!")

	resp, err := c.R().SetMultipartFormData(map[string]string{"caption": "no file"}).Post("/upload")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode())
	assert.Equal(t, "/upload", resp.Header().Get("Location"))

	form, err := c.R().Get("/upload")
	require.NoError(t, err)
	assert.Contains(t, form.String(), "No selected photos")

	var photos int64
	require.NoError(t, s.db.Model(&domain.Photo{}).Count(&photos).Error)
	assert.Zero(t, photos)
}

func TestUploadTooLarge(t *testing.T) {
	s := newTestServer(t, Limits{MaxUploadBytes: 2048, UploadConcurrency: 1})
	c, _ := s.signedIn(t, "alice")

	resp, err := c.R().
		SetFileReader("file", "big.png", bytes.NewReader(bytes.Repeat([]byte("x"), 4096))).
		Post("/upload")
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode())

	var photos int64
	require.NoError(t, s.db.Model(&domain.Photo{}).Count(&photos).Error)
	assert.Zero(t, photos)
}

func decodePhoto(t *testing.T, resp *resty.Response) domain.Photo {
	t.Helper()
	var p domain.Photo
	require.NoError(t, json.Unmarshal(resp.Body(), &p))
	return p
}

func TestLikeDislike(t *testing.T) {
	s := newTestServer(t, defaultLimits())
	c, _ := s.signedIn(t, "alice")
	require.Equal(t, http.StatusFound, s.uploadPhoto(t, c, "a.png", "").StatusCode())
	id := s.latestPhotoID(t)

	anon := s.client()
	for want := int64(1); want <= 2; want++ {
		resp, err := anon.R().Post(fmt.Sprintf("/photos/%d/like.json", id))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
		p := decodePhoto(t, resp)
		require.NotNil(t, p.NumLike)
		assert.Equal(t, want, *p.NumLike)
		assert.Nil(t, p.NumDislike)
	}

	resp, err := anon.R().Post(fmt.Sprintf("/photos/%d/dislike.json", id))
	require.NoError(t, err)
	p := decodePhoto(t, resp)
	require.NotNil(t, p.NumDislike)
	assert.Equal(t, int64(1), *p.NumDislike)

	for _, path := range []string{"/photos/999/like.json", "/photos/abc/like.json", "/photos/999/dislike.json"} {
		resp, err := anon.R().Post(path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode(), path)
		assert.Contains(t, resp.String(), `"error"`)
	}
}

func TestSavePhotoTwice(t *testing.T) {
	s := newTestServer(t, defaultLimits())
	owner, _ := s.signedIn(t, "alice")
	require.Equal(t, http.StatusFound, s.uploadPhoto(t, owner, "a.png", "").StatusCode())
	id := s.latestPhotoID(t)

	fan, fanID := s.signedIn(t, "bob")
	var saved []domain.Userphoto
	for i := 0; i < 2; i++ {
		resp, err := fan.R().SetResult(&saved).Post(fmt.Sprintf("/photos/%d/save.json", id))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
	}
	require.Len(t, saved, 2)
	assert.Equal(t, fanID, saved[0].UserID)
	assert.Equal(t, id, saved[1].PhotoID)
	assert.Less(t, saved[0].UserphotoID, saved[1].UserphotoID)

	resp, err := fan.R().Post("/photos/999/save.json")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
}

func TestComments(t *testing.T) {
	s := newTestServer(t, defaultLimits())
	c, userID := s.signedIn(t, "alice")
	require.Equal(t, http.StatusFound, s.uploadPhoto(t, c, "a.png", "").StatusCode())
	id := s.latestPhotoID(t)
	path := fmt.Sprintf("/photos/%d/comments", id)

	var comments []domain.Comment
	resp, err := c.R().SetFormData(map[string]string{"comment": "first"}).SetResult(&comments).Post(path)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, comments, 1)
	require.NotNil(t, comments[0].UserID)
	assert.Equal(t, userID, *comments[0].UserID)

	comments = nil
	resp, err = s.client().R().SetFormData(map[string]string{"comment": "second"}).SetResult(&comments).Post(path)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Comment)
	assert.Nil(t, comments[0].UserID)
	assert.Equal(t, "first", comments[1].Comment)

	resp, err = c.R().SetFormData(map[string]string{"comment": ""}).Post(path)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	resp, err = c.R().SetFormData(map[string]string{"comment": "lost"}).Post("/photos/999/comments")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())

	var all []domain.Comment
	resp, err = s.client().R().SetResult(&all).Get("/photos/comments.json")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Comment)

	detail, err := s.client().R().Get(fmt.Sprintf("/photos/%d", id))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, detail.StatusCode())
	body := detail.String()
	assert.Less(t, strings.Index(body, "second"), strings.Index(body, "first"))

	missing, err := s.client().R().Get("/photos/999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode())
}

func TestHashtags(t *testing.T) {
	s := newTestServer(t, defaultLimits())
	c, _ := s.signedIn(t, "alice")
	require.Equal(t, http.StatusFound, s.uploadPhoto(t, c, "beach.png", "sunset").StatusCode())

	resp, err := c.R().SetFormData(map[string]string{"hashtag": "sunset"}).Post("/hashtag")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, resp.String(), "/uploads/beach.png")

	resp, err = c.R().SetFormData(map[string]string{"hashtag": "sunrise"}).Post("/hashtag")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode())
	assert.Equal(t, "/", resp.Header().Get("Location"))

	feed, err := c.R().Get("/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, feed.StatusCode())
	assert.Contains(t, feed.String(), "There is no matching photos!")

	var tags []domain.Hashtag
	resp, err = s.client().R().SetResult(&tags).Get("/hashtag.json")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, tags, 1)
	assert.Equal(t, "sunset", tags[0].Hashtag)

	byID, err := s.client().R().Get(fmt.Sprintf("/photos/%d/hashtag", tags[0].HashtagID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, byID.StatusCode())
	assert.Contains(t, byID.String(), "/uploads/beach.png")

	unknown, err := s.client().R().Get("/photos/4242/hashtag")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, unknown.StatusCode())
}

func TestProfileOfUnknownUser(t *testing.T) {
	s := newTestServer(t, defaultLimits())

	resp, err := s.client().R().Get("/users/4242")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	resp, err = s.client().R().Get("/users/not-a-number")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, defaultLimits())

	var body map[string]string
	resp, err := s.client().R().SetResult(&body).Get("/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "ok", body["status"])
}

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{fmt.Errorf("usecase: like: %w", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrUnsupportedFileType, http.StatusUnsupportedMediaType},
		{domain.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{domain.ErrConstraintViolation, http.StatusConflict},
		{fmt.Errorf("%w: comment required", domain.ErrValidation), http.StatusBadRequest},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFromError(tc.err), tc.err.Error())
	}

	assert.Equal(t, "internal server error", publicMessage(errors.New("pq: secret detail"), http.StatusInternalServerError))
	assert.Equal(t, "not found", publicMessage(fmt.Errorf("storage: photo 7: %w", domain.ErrNotFound), http.StatusNotFound))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.SlogConfig{Level: "info", Format: "json"}, &buf)

	h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pot", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "/pot", entry["path"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.EqualValues(t, len("short and stout"), entry["bytes"])
}
