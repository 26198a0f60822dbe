package photos

import (
	"image"
	"time"
)

type AlbumID string

type AssetID string

// AlbumKind distinguishes user-created collections from system-managed smart
// collections. The camera roll is a smart collection with its own kind so it
// can be resolved directly.
type AlbumKind string

const (
	AlbumUser       AlbumKind = "user"
	AlbumSmart      AlbumKind = "smart"
	AlbumCameraRoll AlbumKind = "camera-roll"
)

// Album is an opaque handle to a named collection of assets owned by the
// library backend. Identity is defined by the backend ID, not the title;
// duplicate titles are possible.
type Album struct {
	ID         AlbumID
	Title      string
	Kind       AlbumKind
	AssetCount int
	CreatedAt  time.Time
}

// MediaType classifies what a stored asset holds.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaOther MediaType = "other"
)

// Asset is an opaque handle to one stored media item. It carries metadata
// only, never the pixel data itself.
type Asset struct {
	ID          AssetID
	MediaType   MediaType
	Filename    string
	PixelWidth  int
	PixelHeight int
	CreatedAt   time.Time
}

// Size is a target pixel size for image requests. The zero value means the
// asset's native pixel dimensions.
type Size struct {
	Width  int
	Height int
}

func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// DecodedImage pairs a materialized image with the asset it was decoded from.
type DecodedImage struct {
	Asset Asset
	Image image.Image
}
