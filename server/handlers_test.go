package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spoty/model"
	"spoty/repository"
	"spoty/storage"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type fakeGenreRepo struct {
	genres    []*model.Genre
	byID      map[string]*model.Genre
	createdID string
	err       error
	created   []*model.Genre
}

func (r *fakeGenreRepo) GetAll(ctx context.Context) ([]*model.Genre, error) {
	return r.genres, r.err
}

func (r *fakeGenreRepo) GetByID(ctx context.Context, id string) (*model.Genre, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byID[id], nil
}

func (r *fakeGenreRepo) Create(ctx context.Context, genre *model.Genre) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.created = append(r.created, genre)
	return r.createdID, nil
}

func (r *fakeGenreRepo) Update(ctx context.Context, id string, upd repository.GenreUpdate) error {
	return r.err
}

func (r *fakeGenreRepo) Delete(ctx context.Context, id string) error {
	return r.err
}

type fakeUploader struct {
	result    *storage.UploadResult
	uploadErr error
	deleteErr error
	gotKind   storage.Kind
	gotFolder string
	gotName   string
}

func (u *fakeUploader) Upload(ctx context.Context, file io.Reader, filename string, kind storage.Kind, folder string) (*storage.UploadResult, error) {
	u.gotKind = kind
	u.gotFolder = folder
	u.gotName = filename
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	return u.result, nil
}

func (u *fakeUploader) Delete(ctx context.Context, publicID string, kind storage.Kind) error {
	return u.deleteErr
}

func TestGetGenresHandler_EmptyStoreRendersEmptyArray(t *testing.T) {
	h := &APIHandler{genreRepo: &fakeGenreRepo{}}

	rr := httptest.NewRecorder()
	h.GetGenresHandler(rr, httptest.NewRequest(http.MethodGet, "/api/genres", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "[]\n", rr.Body.String())
}

func TestGetGenreHandler_MissingIsNotFound(t *testing.T) {
	h := &APIHandler{genreRepo: &fakeGenreRepo{byID: map[string]*model.Genre{}}}

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/genres/nope", nil), map[string]string{"id": "nope"})
	rr := httptest.NewRecorder()
	h.GetGenreHandler(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateGenreHandler_RequiresNameAndImage(t *testing.T) {
	repo := &fakeGenreRepo{createdID: "g1"}
	h := &APIHandler{genreRepo: repo}

	req := httptest.NewRequest(http.MethodPost, "/api/genres", strings.NewReader(`{"name":"Jazz"}`))
	rr := httptest.NewRecorder()
	h.CreateGenreHandler(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Empty(t, repo.created)
}

func TestCreateGenreHandler_ReturnsStoreAssignedID(t *testing.T) {
	repo := &fakeGenreRepo{createdID: "g1"}
	h := &APIHandler{genreRepo: repo}

	req := httptest.NewRequest(http.MethodPost, "/api/genres", strings.NewReader(`{"name":"Jazz","imageUrl":"http://img"}`))
	rr := httptest.NewRecorder()
	h.CreateGenreHandler(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Contains(t, rr.Body.String(), `"id":"g1"`)
	require.Len(t, repo.created, 1)
	require.Nil(t, repo.created[0].Description)
}

func multipartUpload(t *testing.T, kind, folder, filename string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if kind != "" {
		require.NoError(t, w.WriteField("kind", kind))
	}
	if folder != "" {
		require.NoError(t, w.WriteField("folder", folder))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("payload"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUploadHandler_ForwardsToGateway(t *testing.T) {
	up := &fakeUploader{result: &storage.UploadResult{PublicID: "spoty/images/abc", SecureURL: "https://res/abc.png"}}
	h := &APIHandler{uploader: up}

	body, contentType := multipartUpload(t, "image", "spoty/images", "cover.png")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.UploadHandler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, storage.KindImage, up.gotKind)
	require.Equal(t, "spoty/images", up.gotFolder)
	require.Equal(t, "cover.png", up.gotName)
	require.Contains(t, rr.Body.String(), `"public_id":"spoty/images/abc"`)
}

func TestUploadHandler_RejectsUnknownKind(t *testing.T) {
	h := &APIHandler{uploader: &fakeUploader{}}

	body, contentType := multipartUpload(t, "video", "spoty/images", "a.bin")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.UploadHandler(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadErrorResponse(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing configuration", storage.ErrMissingConfiguration, http.StatusInternalServerError},
		{"bad upload preset", storage.ErrInvalidUploadPreset, http.StatusBadGateway},
		{"bad cloud identifier", storage.ErrInvalidCloudIdentifier, http.StatusBadGateway},
		{"host rejected", &storage.HostRejectedError{Message: "Invalid image file"}, http.StatusBadGateway},
		{"host unreachable", &storage.HostUnreachableError{Status: 502, StatusText: "502 Bad Gateway"}, http.StatusBadGateway},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, message := uploadErrorResponse(tc.err)
			require.Equal(t, tc.wantStatus, status)
			require.NotEmpty(t, message)
		})
	}
}

func TestDeleteAssetHandler_UnsupportedBackendIsNotImplemented(t *testing.T) {
	h := &APIHandler{uploader: &fakeUploader{deleteErr: storage.ErrDeleteUnsupported}}

	req := httptest.NewRequest(http.MethodDelete, "/api/upload?publicId=spoty/images/abc", nil)
	rr := httptest.NewRecorder()
	h.DeleteAssetHandler(rr, req)

	require.Equal(t, http.StatusNotImplemented, rr.Code)
}
