package photos_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"
	"time"

	"photolib/internal/photos"
)

// fakeLibrary is an in-memory photos.Library for exercising the client
// without a real media store.
type fakeLibrary struct {
	mu     sync.Mutex
	nextID int
	albums []photos.Album
	assets map[photos.AlbumID][]photos.Asset

	albumsErr error
	createErr error
	assetsErr error

	saveOK  bool
	saveErr error

	failDecodes map[photos.AssetID]bool
	decodeCalls int
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		saveOK: true,
		assets: make(map[photos.AlbumID][]photos.Asset),
	}
}

func (f *fakeLibrary) Albums(_ context.Context, q photos.AlbumQuery) ([]photos.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.albumsErr != nil {
		return nil, f.albumsErr
	}
	matches := []photos.Album{}
	for _, album := range f.albums {
		if len(q.Kinds) > 0 && !containsKind(q.Kinds, album.Kind) {
			continue
		}
		if q.Title != "" && album.Title != q.Title {
			continue
		}
		matches = append(matches, album)
	}
	return matches, nil
}

func containsKind(kinds []photos.AlbumKind, kind photos.AlbumKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (f *fakeLibrary) CreateAlbum(_ context.Context, title string) (*photos.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	album := photos.Album{
		ID:        photos.AlbumID(fmt.Sprintf("album-%d", f.nextID)),
		Title:     title,
		Kind:      photos.AlbumUser,
		CreatedAt: time.Now(),
	}
	f.albums = append(f.albums, album)
	return &album, nil
}

func (f *fakeLibrary) Assets(_ context.Context, id photos.AlbumID, q photos.AssetQuery) ([]photos.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assetsErr != nil {
		return nil, f.assetsErr
	}
	assets := []photos.Asset{}
	for _, asset := range f.assets[id] {
		if q.MediaType != "" && asset.MediaType != q.MediaType {
			continue
		}
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool {
		if q.NewestFirst {
			return assets[i].CreatedAt.After(assets[j].CreatedAt)
		}
		return assets[i].CreatedAt.Before(assets[j].CreatedAt)
	})
	return assets, nil
}

func (f *fakeLibrary) SaveImage(_ context.Context, id photos.AlbumID, img image.Image) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.saveOK || f.saveErr != nil {
		return f.saveOK && f.saveErr == nil, f.saveErr
	}
	found := false
	for _, album := range f.albums {
		if album.ID == id {
			found = true
		}
	}
	if !found {
		// Missing target reports failure with no error.
		return false, nil
	}
	f.nextID++
	bounds := img.Bounds()
	f.assets[id] = append(f.assets[id], photos.Asset{
		ID:          photos.AssetID(fmt.Sprintf("asset-%d", f.nextID)),
		MediaType:   photos.MediaImage,
		PixelWidth:  bounds.Dx(),
		PixelHeight: bounds.Dy(),
		CreatedAt:   time.Now(),
	})
	return true, nil
}

func (f *fakeLibrary) RequestImage(_ context.Context, asset photos.Asset, req photos.ImageRequest) (image.Image, error) {
	f.mu.Lock()
	f.decodeCalls++
	fail := f.failDecodes[asset.ID]
	f.mu.Unlock()
	if fail {
		return nil, errors.New("decode failed")
	}
	return image.NewRGBA(image.Rect(0, 0, req.Size.Width, req.Size.Height)), nil
}

func (f *fakeLibrary) decodeCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.decodeCalls
}

// addAlbum seeds an album with m image assets, created one minute apart, the
// first being the oldest.
func (f *fakeLibrary) addAlbum(id photos.AlbumID, title string, kind photos.AlbumKind, m int) photos.Album {
	f.mu.Lock()
	defer f.mu.Unlock()
	album := photos.Album{ID: id, Title: title, Kind: kind, AssetCount: m}
	f.albums = append(f.albums, album)
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < m; i++ {
		f.assets[id] = append(f.assets[id], photos.Asset{
			ID:          photos.AssetID(fmt.Sprintf("%s-asset-%d", id, i+1)),
			MediaType:   photos.MediaImage,
			PixelWidth:  640,
			PixelHeight: 480,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}
	return album
}
