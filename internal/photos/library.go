package photos

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrNotConfigured is returned by client operations when no library
	// backend has been configured.
	ErrNotConfigured = errors.New("no library backend configured")

	// ErrNetworkDisallowed is returned by backends that need network
	// access to materialize an image when the request forbids it.
	ErrNetworkDisallowed = errors.New("network access disallowed for image request")
)

// AlbumQuery is the predicate for album lookups.
type AlbumQuery struct {
	// Kinds restricts results to the given album kinds. Empty means all.
	Kinds []AlbumKind
	// Title restricts results to albums with this exact title. Empty
	// means any title.
	Title string
}

// AssetQuery is the predicate for asset lookups within one album.
type AssetQuery struct {
	// NewestFirst orders results by creation date, newest first.
	NewestFirst bool
	// MediaType restricts results to one media type. Empty means all.
	MediaType MediaType
}

// ImageRequest describes one asset-to-image materialization.
type ImageRequest struct {
	// Size is the target pixel size. Callers resolve the zero value to
	// the asset's native dimensions before issuing the request.
	Size         Size
	ContentMode  ContentMode
	Quality      Quality
	AllowNetwork bool
}

// Library is the media-library backend capability consumed by the Client. It
// is constructor-injected so tests can substitute a fake instead of a real
// media store.
//
// Implementations serialize their own write transactions; the Client holds no
// shared mutable state and adds no locking of its own.
type Library interface {
	// Albums returns the albums matching the query. No matches is an
	// empty slice, not an error.
	Albums(ctx context.Context, q AlbumQuery) ([]Album, error)

	// CreateAlbum creates a new user album titled title. It never checks
	// for an existing album with the same title; duplicates are allowed.
	// The returned album's ID is allocated as a placeholder inside the
	// write transaction and is only valid once CreateAlbum returns
	// without error.
	CreateAlbum(ctx context.Context, title string) (*Album, error)

	// Assets returns the assets of the given album matching the query,
	// sorted by creation date per the query order. An unknown album
	// yields an empty slice, indistinguishable from an empty album.
	Assets(ctx context.Context, id AlbumID, q AssetQuery) ([]Asset, error)

	// SaveImage writes img as a new asset and links it into the album in
	// one transactional change. The boolean success flag is
	// authoritative: a nil error does not imply success.
	SaveImage(ctx context.Context, id AlbumID, img image.Image) (bool, error)

	// RequestImage materializes the decoded image for one asset at the
	// requested size.
	RequestImage(ctx context.Context, asset Asset, req ImageRequest) (image.Image, error)
}

// ConnectionChecker is optionally implemented by backends that can verify
// their connection to the underlying media store.
type ConnectionChecker interface {
	IsConnected() error
}

// notConfiguredLibrary is the fallback Library when none is provided.
type notConfiguredLibrary struct{}

func (notConfiguredLibrary) Albums(context.Context, AlbumQuery) ([]Album, error) {
	return nil, ErrNotConfigured
}
func (notConfiguredLibrary) CreateAlbum(context.Context, string) (*Album, error) {
	return nil, ErrNotConfigured
}
func (notConfiguredLibrary) Assets(context.Context, AlbumID, AssetQuery) ([]Asset, error) {
	return nil, ErrNotConfigured
}
func (notConfiguredLibrary) SaveImage(context.Context, AlbumID, image.Image) (bool, error) {
	return false, ErrNotConfigured
}
func (notConfiguredLibrary) RequestImage(context.Context, Asset, ImageRequest) (image.Image, error) {
	return nil, ErrNotConfigured
}
