package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"path"
	"slices"
	"time"

	"photolib/internal/imaging"
	"photolib/internal/photos"
)

var _ photos.Library = (*Library)(nil)

// Wire shapes of the photo server API.
type albumDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"albumName"`
	Kind       string    `json:"kind"`
	AssetCount int       `json:"assetCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

type assetDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"originalFileName"`
	Width     int       `json:"pixelWidth"`
	Height    int       `json:"pixelHeight"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a albumDTO) toAlbum() photos.Album {
	kind := photos.AlbumKind(a.Kind)
	if kind == "" {
		kind = photos.AlbumUser
	}
	return photos.Album{
		ID:         photos.AlbumID(a.ID),
		Title:      a.Name,
		Kind:       kind,
		AssetCount: a.AssetCount,
		CreatedAt:  a.CreatedAt,
	}
}

func (a assetDTO) toAsset() photos.Asset {
	mediaType := photos.MediaOther
	switch a.Type {
	case "IMAGE":
		mediaType = photos.MediaImage
	case "VIDEO":
		mediaType = photos.MediaVideo
	}
	return photos.Asset{
		ID:          photos.AssetID(a.ID),
		MediaType:   mediaType,
		Filename:    a.Name,
		PixelWidth:  a.Width,
		PixelHeight: a.Height,
		CreatedAt:   a.CreatedAt,
	}
}

// Albums implements photos.Library. The server returns every album; the kind
// and title predicates are applied client-side.
func (l *Library) Albums(ctx context.Context, q photos.AlbumQuery) ([]photos.Album, error) {
	resp, err := l.get(ctx, "/albums")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var dtos []albumDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("decode albums: %w", err)
	}

	albums := []photos.Album{}
	for _, dto := range dtos {
		album := dto.toAlbum()
		if len(q.Kinds) > 0 && !slices.Contains(q.Kinds, album.Kind) {
			continue
		}
		if q.Title != "" && album.Title != q.Title {
			continue
		}
		albums = append(albums, album)
	}
	return albums, nil
}

// CreateAlbum implements photos.Library. The server allocates the album
// inside its own write transaction and responds with the committed handle.
func (l *Library) CreateAlbum(ctx context.Context, title string) (*photos.Album, error) {
	body, err := json.Marshal(map[string]string{"albumName": title})
	if err != nil {
		return nil, err
	}
	resp, err := l.post(ctx, "/albums", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var dto albumDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decode album: %w", err)
	}
	album := dto.toAlbum()
	return &album, nil
}

// Assets implements photos.Library. Media-type filtering and ordering are
// applied client-side since the server has no expectation on either.
func (l *Library) Assets(ctx context.Context, id photos.AlbumID, q photos.AssetQuery) ([]photos.Asset, error) {
	resp, err := l.get(ctx, path.Join("/albums", string(id)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var ar struct {
		Assets []assetDTO `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("decode album assets: %w", err)
	}

	assets := []photos.Asset{}
	for _, dto := range ar.Assets {
		asset := dto.toAsset()
		if q.MediaType != "" && asset.MediaType != q.MediaType {
			continue
		}
		assets = append(assets, asset)
	}
	slices.SortStableFunc(assets, func(a, b photos.Asset) int {
		if q.NewestFirst {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return assets, nil
}

// SaveImage implements photos.Library. The image is uploaded PNG-encoded and
// the server links it into the album in its own transaction. The response
// success flag is authoritative and is reported as-is.
func (l *Library) SaveImage(ctx context.Context, id photos.AlbumID, img image.Image) (bool, error) {
	data, err := imaging.Encode(img, imaging.MIMETypePNG)
	if err != nil {
		return false, fmt.Errorf("encode image: %w", err)
	}
	resp, err := l.post(ctx, path.Join("/albums", string(id), "assets"), imaging.MIMETypePNG, bytes.NewReader(data))
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	var sr struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return false, fmt.Errorf("decode save response: %w", err)
	}
	if sr.Error != "" {
		return sr.Success, errors.New(sr.Error)
	}
	return sr.Success, nil
}

// RequestImage implements photos.Library. The original bytes are fetched
// from the server, decoded, and scaled client-side. The request must allow
// network access; there is no local fallback.
func (l *Library) RequestImage(ctx context.Context, asset photos.Asset, req photos.ImageRequest) (image.Image, error) {
	if !req.AllowNetwork {
		return nil, photos.ErrNetworkDisallowed
	}
	resp, err := l.get(ctx, path.Join("/assets", string(asset.ID), "original"))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", asset.ID, err)
	}

	interp := imaging.HighInterpolator
	if req.Quality == photos.QualityFast {
		interp = imaging.FastInterpolator
	}
	if req.ContentMode == photos.ContentModeFill {
		return imaging.ScaleFill(img, req.Size.Width, req.Size.Height, interp), nil
	}
	return imaging.ScaleFit(img, req.Size.Width, req.Size.Height, interp), nil
}

func (l *Library) get(ctx context.Context, p string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p, nil)
	if err != nil {
		return nil, err
	}
	return l.http.Do(req)
}

func (l *Library) post(ctx context.Context, p, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return l.http.Do(req)
}
