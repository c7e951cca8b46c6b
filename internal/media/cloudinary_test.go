// AngelaMos | 2026
// cloudinary_test.go

package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pakair-dev/pakair-api/internal/config"
	"github.com/pakair-dev/pakair-api/internal/core"
)

func testConfig() config.MediaConfig {
	return config.MediaConfig{
		CloudName:     "test-cloud",
		APIKey:        "test-key",
		APISecret:     "test-secret",
		UploadFolder:  "pakair/reports",
		UploadTimeout: 5 * time.Second,
	}
}

func imageFile() File {
	return File{
		Filename:    "smog.jpg",
		ContentType: "image/jpeg",
		Size:        18,
		Content:     []byte("fake image content"),
	}
}

func TestUploadPostsSignedMultipart(t *testing.T) {
	var gotPath string
	var gotParams map[string]string

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path

			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotParams = map[string]string{}
			for key, values := range r.MultipartForm.Value {
				gotParams[key] = values[0]
			}

			_, _, err := r.FormFile("file")
			require.NoError(t, err)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"secure_url": "https://res.example.com/smog.jpg",
				"public_id": "pakair/reports/abc123",
				"original_filename": "smog",
				"resource_type": "image"
			}`))
		},
	))
	defer srv.Close()

	client := NewCloudinaryClient(testConfig()).WithBaseURL(srv.URL)

	asset, err := client.Upload(context.Background(), imageFile())
	require.NoError(t, err)

	assert.Equal(t, "/test-cloud/image/upload", gotPath)
	assert.Equal(t, "https://res.example.com/smog.jpg", asset.URL)
	assert.Equal(t, "pakair/reports/abc123", asset.PublicID)
	assert.Equal(t, KindImage, asset.Kind)

	assert.Equal(t, "test-key", gotParams["api_key"])
	assert.Equal(t, "pakair/reports", gotParams["folder"])
	assert.NotEmpty(t, gotParams["signature"])
	assert.NotEmpty(t, gotParams["timestamp"])
	assert.Equal(t, "c_limit,h_1200,w_1200", gotParams["transformation"])
}

func TestUploadVideoSkipsTransformation(t *testing.T) {
	var gotPath string
	var gotTransformation []string

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotTransformation = r.MultipartForm.Value["transformation"]

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"secure_url": "https://res.example.com/clip.mp4",
				"public_id": "pakair/reports/vid1",
				"resource_type": "video"
			}`))
		},
	))
	defer srv.Close()

	client := NewCloudinaryClient(testConfig()).WithBaseURL(srv.URL)

	asset, err := client.Upload(context.Background(), File{
		Filename:    "clip.mp4",
		ContentType: "video/mp4",
		Size:        100,
		Content:     []byte("fake video content"),
	})
	require.NoError(t, err)

	assert.Equal(t, "/test-cloud/video/upload", gotPath)
	assert.Equal(t, KindVideo, asset.Kind)
	assert.Empty(t, gotTransformation)
}

func TestUploadRejectsOversizedBeforeNetwork(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		},
	))
	defer srv.Close()

	client := NewCloudinaryClient(testConfig()).WithBaseURL(srv.URL)

	file := imageFile()
	file.Size = 25 * 1024 * 1024

	_, err := client.Upload(context.Background(), file)

	assert.ErrorIs(t, err, core.ErrPayloadTooLarge)
	assert.Zero(t, calls.Load())
}

func TestUploadSurfacesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"invalid signature"}}`, 401)
		},
	))
	defer srv.Close()

	client := NewCloudinaryClient(testConfig()).WithBaseURL(srv.URL)

	_, err := client.Upload(context.Background(), imageFile())
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestDelete(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "pakair/reports/abc123", r.FormValue("public_id"))
			assert.NotEmpty(t, r.FormValue("signature"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"result":"ok"}`))
		},
	))
	defer srv.Close()

	client := NewCloudinaryClient(testConfig()).WithBaseURL(srv.URL)

	err := client.Delete(
		context.Background(),
		"pakair/reports/abc123",
		KindImage,
	)
	require.NoError(t, err)

	assert.Equal(t, "/test-cloud/image/destroy", gotPath)
}

func TestSignatureIsDeterministic(t *testing.T) {
	client := NewCloudinaryClient(testConfig())

	params := map[string]string{
		"timestamp": "1700000000",
		"folder":    "pakair/reports",
	}

	first := client.sign(params)
	second := client.sign(params)

	assert.Equal(t, first, second)
	assert.Len(t, first, 40)
}
