package photos_test

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photolib/internal/photos"
)

func testImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestSaveImage_CreatesMissingAlbum(t *testing.T) {
	lib := newFakeLibrary()
	client := photos.NewClient(photos.WithLibrary(lib))

	ok, err := client.SaveImage(context.Background(), testImage(4, 4), "Holiday")
	require.NoError(t, err)
	require.True(t, ok)

	// The album now exists and contains the saved image.
	album, err := client.Album(context.Background(), "Holiday")
	require.NoError(t, err)
	require.NotNil(t, album)

	results := client.Assets(context.Background(), *album, photos.FetchOptions{})
	result := <-results
	assets, isCollection := result.Items()
	require.True(t, isCollection)
	require.Len(t, assets, 1)
	assert.Equal(t, photos.MediaImage, assets[0].MediaType)
	assert.Equal(t, 4, assets[0].PixelWidth)
}

func TestSaveImage_UnresolvableAlbumFailsWithoutError(t *testing.T) {
	lib := newFakeLibrary()
	lib.createErr = errors.New("permission denied")
	client := photos.NewClient(photos.WithLibrary(lib))

	ok, err := client.SaveImage(context.Background(), testImage(4, 4), "Holiday")
	assert.False(t, ok)
	assert.NoError(t, err, "album resolution failure reports no underlying error")
}

func TestSaveImageTo_SuccessFlagIsAuthoritative(t *testing.T) {
	lib := newFakeLibrary()
	album := lib.addAlbum("a-1", "Holiday", photos.AlbumUser, 0)
	lib.saveOK = false
	client := photos.NewClient(photos.WithLibrary(lib))

	ok, err := client.SaveImageTo(context.Background(), testImage(4, 4), album)
	assert.False(t, ok, "failure must be reported even with a nil error")
	assert.NoError(t, err)
}

func TestSaveImageTo_ReportsBackendError(t *testing.T) {
	lib := newFakeLibrary()
	album := lib.addAlbum("a-1", "Holiday", photos.AlbumUser, 0)
	lib.saveOK = false
	lib.saveErr = errors.New("disk full")
	client := photos.NewClient(photos.WithLibrary(lib))

	ok, err := client.SaveImageTo(context.Background(), testImage(4, 4), album)
	assert.False(t, ok)
	assert.ErrorContains(t, err, "disk full")
}
