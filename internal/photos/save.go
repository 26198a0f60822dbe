package photos

import (
	"context"
	"image"
	"log/slog"
)

// SaveImage persists img into the album named name, creating the album if it
// does not exist. If the album cannot be resolved, the save reports failure
// with no underlying error; callers cannot distinguish a missing album from
// other causes.
func (c *Client) SaveImage(ctx context.Context, img image.Image, name string) (bool, error) {
	album, err := c.Album(ctx, name)
	if album == nil {
		slog.Debug("could not resolve album for save", "name", name, "error", err)
		return false, nil
	}
	return c.SaveImageTo(ctx, img, *album)
}

// SaveImageTo writes img as a new asset and links it into album in one
// transactional change. The boolean flag is authoritative: a nil error does
// NOT imply success, since partial failures report failure with no error.
func (c *Client) SaveImageTo(ctx context.Context, img image.Image, album Album) (bool, error) {
	ok, err := c.library.SaveImage(ctx, album.ID, img)
	log := slog.With("album", album.Title, "id", album.ID)
	switch {
	case err != nil:
		log.Debug("failed to save image", "error", err)
	case !ok:
		log.Debug("failed to save image, no error reported")
	default:
		log.Info("saved image")
	}
	return ok, err
}
