package photos

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// CreateAlbum requests creation of a new user album titled name. It does not
// check for an existing album with that name, so duplicate titles are
// possible. The returned album is nil when the backend denies or fails the
// write transaction.
func (c *Client) CreateAlbum(ctx context.Context, name string) (*Album, error) {
	album, err := c.library.CreateAlbum(ctx, name)
	if err != nil {
		slog.Debug("failed to create album", "name", name, "error", err)
		return nil, fmt.Errorf("create album: %w", err)
	}
	slog.Info("created album", "name", name, "id", album.ID)
	return album, nil
}

// Album returns an existing album with the exact title name, creating one if
// no match is found. The result is not guaranteed non-nil even then, since
// the create step itself can fail.
func (c *Client) Album(ctx context.Context, name string) (*Album, error) {
	albums, err := c.library.Albums(ctx, AlbumQuery{
		Kinds: []AlbumKind{AlbumUser},
		Title: name,
	})
	if err != nil {
		return nil, fmt.Errorf("query albums: %w", err)
	}
	if len(albums) > 0 {
		return &albums[0], nil
	}
	slog.Debug("album not found, creating", "name", name)
	return c.CreateAlbum(ctx, name)
}

// Albums returns the union of user and smart albums, deduplicated by ID and
// sorted by title.
func (c *Client) Albums(ctx context.Context) ([]Album, error) {
	user, err := c.library.Albums(ctx, AlbumQuery{Kinds: []AlbumKind{AlbumUser}})
	if err != nil {
		return nil, fmt.Errorf("query user albums: %w", err)
	}
	smart, err := c.library.Albums(ctx, AlbumQuery{Kinds: []AlbumKind{AlbumSmart, AlbumCameraRoll}})
	if err != nil {
		return nil, fmt.Errorf("query smart albums: %w", err)
	}

	seen := make(map[AlbumID]struct{}, len(user)+len(smart))
	albums := make([]Album, 0, len(user)+len(smart))
	for _, album := range append(user, smart...) {
		if _, ok := seen[album.ID]; ok {
			continue
		}
		seen[album.ID] = struct{}{}
		albums = append(albums, album)
	}
	sortAlbumsByTitle(albums)
	return albums, nil
}

// UserAlbums returns only top-level user-created albums, sorted by title.
func (c *Client) UserAlbums(ctx context.Context) ([]Album, error) {
	albums, err := c.library.Albums(ctx, AlbumQuery{Kinds: []AlbumKind{AlbumUser}})
	if err != nil {
		return nil, fmt.Errorf("query user albums: %w", err)
	}
	sortAlbumsByTitle(albums)
	return albums, nil
}

// CameraRoll returns the system camera-roll smart album, or nil if the
// backend has none.
func (c *Client) CameraRoll(ctx context.Context) (*Album, error) {
	albums, err := c.library.Albums(ctx, AlbumQuery{Kinds: []AlbumKind{AlbumCameraRoll}})
	if err != nil {
		return nil, fmt.Errorf("query camera roll: %w", err)
	}
	if len(albums) == 0 {
		return nil, nil
	}
	return &albums[0], nil
}

func sortAlbumsByTitle(albums []Album) {
	sort.Slice(albums, func(i, j int) bool { return albums[i].Title < albums[j].Title })
}
