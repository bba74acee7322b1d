package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *CloudinaryClient {
	return &CloudinaryClient{
		cloudName:    "demo",
		uploadPreset: "spoty_uploads",
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCloudinaryUpload_MissingCloudNameFailsBeforeAnyRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.cloudName = ""

	_, err := c.Upload(context.Background(), strings.NewReader("data"), "a.png", KindImage, "spoty/images")
	require.ErrorIs(t, err, ErrMissingConfiguration)
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestCloudinaryUpload_ImageHitsImageEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/demo/image/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "spoty_uploads", r.FormValue("upload_preset"))
		require.Equal(t, "spoty/images", r.FormValue("folder"))
		require.Empty(t, r.FormValue("resource_type"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "cover.png", header.Filename)

		w.Write([]byte(`{"public_id":"spoty/images/abc","secure_url":"https://res.example.com/abc.png","resource_type":"image","format":"png"}`))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Upload(context.Background(), strings.NewReader("png-bytes"), "cover.png", KindImage, "spoty/images")
	require.NoError(t, err)
	require.Equal(t, "spoty/images/abc", res.PublicID)
	require.Equal(t, "https://res.example.com/abc.png", res.SecureURL)
}

func TestCloudinaryUpload_AudioRidesVideoEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/demo/video/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "video", r.FormValue("resource_type"))

		w.Write([]byte(`{"public_id":"spoty/songs/xyz","secure_url":"https://res.example.com/xyz.mp3","resource_type":"video","format":"mp3"}`))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Upload(context.Background(), strings.NewReader("mp3-bytes"), "track.mp3", KindAudio, "spoty/songs")
	require.NoError(t, err)
	require.Equal(t, "spoty/songs/xyz", res.PublicID)
}

func TestCloudinaryUpload_ErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unknown upload preset",
			status: http.StatusBadRequest,
			body:   `{"error":{"message":"Upload preset not found"}}`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrInvalidUploadPreset)
			},
		},
		{
			name:   "bad cloud name",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"Invalid cloud_name demo"}}`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrInvalidCloudIdentifier)
			},
		},
		{
			name:   "other structured rejection",
			status: http.StatusBadRequest,
			body:   `{"error":{"message":"Invalid image file"}}`,
			check: func(t *testing.T, err error) {
				var rejected *HostRejectedError
				require.ErrorAs(t, err, &rejected)
				require.Equal(t, "Invalid image file", rejected.Message)
			},
		},
		{
			name:   "unparseable body",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			check: func(t *testing.T, err error) {
				var unreachable *HostUnreachableError
				require.ErrorAs(t, err, &unreachable)
				require.Equal(t, http.StatusBadGateway, unreachable.Status)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).Upload(context.Background(), strings.NewReader("data"), "a.png", KindImage, "spoty/images")
			tc.check(t, err)
		})
	}
}

func TestCloudinaryDelete_Unsupported(t *testing.T) {
	c := testClient("http://unused.invalid")
	err := c.Delete(context.Background(), "spoty/images/abc", KindImage)
	require.ErrorIs(t, err, ErrDeleteUnsupported)
}
