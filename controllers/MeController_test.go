package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkblast/blazon-api/models"
)

type fakeImageStore struct {
	saved map[string][]byte
	next  int
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{saved: make(map[string][]byte)}
}

func (s *fakeImageStore) Save(_ context.Context, _ string, src io.Reader) (string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	s.next++
	id := fmt.Sprintf("img-%d", s.next)
	s.saved[id] = data
	return "http://localhost:3000/api/main/images/" + id, nil
}

func (s *fakeImageStore) Open(id string) (io.ReadCloser, error) {
	data, ok := s.saved[id]
	if !ok {
		return nil, errors.New("image not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newMeRouter(user models.User, users *fakeUserRepo, images *fakeImageStore) *gin.Engine {
	router := gin.New()
	mc := NewMeController(users, images)

	group := router.Group("/api/main")
	group.Use(setUser(user))

	group.GET("/me", mc.Me)
	group.POST("/me", mc.UpdateAbout)
	group.POST("/me/profile_image", mc.UploadProfileImage)
	group.GET("/images/:imageId", mc.GetImage)

	return router
}

func TestMeOmitsPassword(t *testing.T) {
	caller := testUser("caller")
	users := newFakeUserRepo(caller)
	router := newMeRouter(caller, users, newFakeImageStore())

	recorder := performJSON(t, router, http.MethodGet, "/api/main/me", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	me := body["me"].(map[string]any)
	assert.Equal(t, caller.Email, me["email"])
	assert.NotContains(t, me, "password")
}

func TestUpdateAbout(t *testing.T) {
	caller := testUser("caller")
	users := newFakeUserRepo(caller)
	router := newMeRouter(caller, users, newFakeImageStore())

	recorder := performJSON(t, router, http.MethodPost, "/api/main/me", gin.H{"about": "  hello  "})
	require.Equal(t, http.StatusOK, recorder.Code)

	assert.Equal(t, "hello", users.users[caller.ID].About)
	assert.NotContains(t, recorder.Body.String(), caller.Email)
}

func TestUpdateAboutTooLong(t *testing.T) {
	caller := testUser("caller")
	users := newFakeUserRepo(caller)
	router := newMeRouter(caller, users, newFakeImageStore())

	recorder := performJSON(t, router, http.MethodPost, "/api/main/me", gin.H{"about": strings.Repeat("a", 501)})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, users.users[caller.ID].About)
}

func uploadImage(t *testing.T, router *gin.Engine, field string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, "avatar.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/main/me/profile_image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestUploadProfileImage(t *testing.T) {
	caller := testUser("caller")
	users := newFakeUserRepo(caller)
	images := newFakeImageStore()
	router := newMeRouter(caller, users, images)

	recorder := uploadImage(t, router, "profile_image", []byte("png-bytes"))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	updated := users.users[caller.ID]
	assert.Contains(t, updated.ProfileImage, "/api/main/images/")
	assert.Len(t, images.saved, 1)
}

func TestUploadProfileImageMissingFile(t *testing.T) {
	caller := testUser("caller")
	users := newFakeUserRepo(caller)
	router := newMeRouter(caller, users, newFakeImageStore())

	recorder := uploadImage(t, router, "wrong_field", []byte("png-bytes"))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "File not Found")
}

func TestUploadProfileImageTooLarge(t *testing.T) {
	caller := testUser("caller")
	users := newFakeUserRepo(caller)
	images := newFakeImageStore()
	router := newMeRouter(caller, users, images)

	recorder := uploadImage(t, router, "profile_image", bytes.Repeat([]byte("x"), 4000001))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, images.saved)
}

func TestGetImageRoundTrip(t *testing.T) {
	caller := testUser("caller")
	users := newFakeUserRepo(caller)
	images := newFakeImageStore()
	router := newMeRouter(caller, users, images)

	recorder := uploadImage(t, router, "profile_image", []byte("png-bytes"))
	require.Equal(t, http.StatusOK, recorder.Code)

	url := users.users[caller.ID].ProfileImage
	path := strings.TrimPrefix(url, "http://localhost:3000")

	recorder = performJSON(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "png-bytes", recorder.Body.String())
}

func TestGetImageDetectsContentType(t *testing.T) {
	pngHeader := []byte("\x89PNG\r\n\x1a\n")
	jpegHeader := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	tests := []struct {
		name     string
		data     []byte
		wantType string
	}{
		{"png", append(pngHeader, []byte("rest-of-image")...), "image/png"},
		{"jpeg", append(jpegHeader, []byte("rest-of-image")...), "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := testUser("caller")
			users := newFakeUserRepo(caller)
			images := newFakeImageStore()
			router := newMeRouter(caller, users, images)

			recorder := uploadImage(t, router, "profile_image", tt.data)
			require.Equal(t, http.StatusOK, recorder.Code)

			path := strings.TrimPrefix(users.users[caller.ID].ProfileImage, "http://localhost:3000")
			recorder = performJSON(t, router, http.MethodGet, path, nil)

			require.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, tt.wantType, recorder.Header().Get("Content-Type"))
			assert.Equal(t, tt.data, recorder.Body.Bytes())
		})
	}
}

func TestGetImageMissing(t *testing.T) {
	caller := testUser("caller")
	users := newFakeUserRepo(caller)
	router := newMeRouter(caller, users, newFakeImageStore())

	recorder := performJSON(t, router, http.MethodGet, "/api/main/images/unknown", nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
