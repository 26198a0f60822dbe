package remote_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photolib/internal/photos"
	"photolib/internal/photos/remote"
)

const testAPIKey = "test-key"

// newTestServer serves a minimal photo server API under /api, rejecting
// requests without the expected API key.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "user-1"})
	})
	mux.HandleFunc("GET /api/albums", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "al-1", "albumName": "Holiday", "kind": "user", "assetCount": 2},
			{"id": "al-2", "albumName": "Recents", "kind": "camera-roll", "assetCount": 5},
			{"id": "al-3", "albumName": "Favorites", "kind": "smart", "assetCount": 1},
		})
	})
	mux.HandleFunc("POST /api/albums", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]any{
			"id":        "al-new",
			"albumName": body["albumName"],
			"kind":      "user",
		})
	})
	mux.HandleFunc("GET /api/albums/al-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"assets": []map[string]any{
				{
					"id": "as-1", "type": "IMAGE", "originalFileName": "a.png",
					"pixelWidth": 10, "pixelHeight": 10,
					"createdAt": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				},
				{
					"id": "as-2", "type": "VIDEO", "originalFileName": "b.mov",
					"createdAt": time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
				},
				{
					"id": "as-3", "type": "IMAGE", "originalFileName": "c.png",
					"pixelWidth": 20, "pixelHeight": 20,
					"createdAt": time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
				},
			},
		})
	})
	mux.HandleFunc("POST /api/albums/al-1/assets", func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NotEmpty(t, data)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	mux.HandleFunc("POST /api/albums/al-broken/assets", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "quota exceeded"})
	})
	mux.HandleFunc("GET /api/assets/as-1/original", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 100, 50))))
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestLibrary(t *testing.T) *remote.Library {
	t.Helper()
	server := newTestServer(t)
	return remote.NewLibrary(remote.Config{
		APIEndpoint: server.URL,
		APIKey:      testAPIKey,
	})
}

func TestIsConnected(t *testing.T) {
	lib := newTestLibrary(t)
	assert.NoError(t, lib.IsConnected())
}

func TestIsConnected_InvalidKey(t *testing.T) {
	server := newTestServer(t)
	lib := remote.NewLibrary(remote.Config{
		APIEndpoint: server.URL,
		APIKey:      "wrong-key",
	})
	assert.ErrorContains(t, lib.IsConnected(), "invalid API token")
}

func TestAlbums_Predicates(t *testing.T) {
	lib := newTestLibrary(t)

	albums, err := lib.Albums(context.Background(), photos.AlbumQuery{})
	require.NoError(t, err)
	assert.Len(t, albums, 3)

	albums, err = lib.Albums(context.Background(), photos.AlbumQuery{
		Kinds: []photos.AlbumKind{photos.AlbumCameraRoll},
	})
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, "Recents", albums[0].Title)
	assert.Equal(t, 5, albums[0].AssetCount)

	albums, err = lib.Albums(context.Background(), photos.AlbumQuery{Title: "Holiday"})
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, photos.AlbumID("al-1"), albums[0].ID)
}

func TestCreateAlbum(t *testing.T) {
	lib := newTestLibrary(t)

	album, err := lib.CreateAlbum(context.Background(), "Trip")
	require.NoError(t, err)
	assert.Equal(t, photos.AlbumID("al-new"), album.ID)
	assert.Equal(t, "Trip", album.Title)
	assert.Equal(t, photos.AlbumUser, album.Kind)
}

func TestAssets_FilterAndOrder(t *testing.T) {
	lib := newTestLibrary(t)

	assets, err := lib.Assets(context.Background(), "al-1", photos.AssetQuery{
		MediaType:   photos.MediaImage,
		NewestFirst: true,
	})
	require.NoError(t, err)
	require.Len(t, assets, 2, "the video asset is filtered out")
	assert.Equal(t, photos.AssetID("as-3"), assets[0].ID)
	assert.Equal(t, photos.AssetID("as-1"), assets[1].ID)

	assets, err = lib.Assets(context.Background(), "al-1", photos.AssetQuery{})
	require.NoError(t, err)
	require.Len(t, assets, 3)
	assert.Equal(t, photos.AssetID("as-1"), assets[0].ID, "oldest first by default")
}

func TestSaveImage(t *testing.T) {
	lib := newTestLibrary(t)

	ok, err := lib.SaveImage(context.Background(), "al-1", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSaveImage_ServerReportsFailure(t *testing.T) {
	lib := newTestLibrary(t)

	ok, err := lib.SaveImage(context.Background(), "al-broken", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	assert.False(t, ok)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestRequestImage(t *testing.T) {
	lib := newTestLibrary(t)
	asset := photos.Asset{ID: "as-1", MediaType: photos.MediaImage}

	img, err := lib.RequestImage(context.Background(), asset, photos.ImageRequest{
		Size:         photos.Size{Width: 50, Height: 50},
		ContentMode:  photos.ContentModeFit,
		AllowNetwork: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestRequestImage_NetworkDisallowed(t *testing.T) {
	lib := newTestLibrary(t)
	asset := photos.Asset{ID: "as-1", MediaType: photos.MediaImage}

	_, err := lib.RequestImage(context.Background(), asset, photos.ImageRequest{
		Size: photos.Size{Width: 50, Height: 50},
	})
	assert.ErrorIs(t, err, photos.ErrNetworkDisallowed)
}
