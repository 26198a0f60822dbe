package localstore

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"photolib/internal/imaging"
	"photolib/internal/photos"

	"golang.org/x/image/draw"
)

// SaveImage implements photos.Library. The encoded bytes are written to blob
// storage first; the asset row and the album link are then committed in one
// transaction, so a failed commit leaves no visible asset. The success flag
// is authoritative: an unknown album reports failure with no error.
func (s *Store) SaveImage(ctx context.Context, id photos.AlbumID, img image.Image) (bool, error) {
	var kind string
	err := s.db.QueryRowContext(ctx, "SELECT kind FROM albums WHERE id = ?", string(id)).Scan(&kind)
	if err != nil {
		// Missing target album is a partial failure with no error.
		slog.Debug("save target album not found", "id", id, "error", err)
		return false, nil
	}

	data, err := imaging.Encode(img, imaging.MIMETypePNG)
	if err != nil {
		return false, fmt.Errorf("encode image: %w", err)
	}

	assetID := uuid.NewString()
	filename := assetID + ".png"
	blobPath := filepath.Join(s.blobDir, filename)
	if err := os.WriteFile(blobPath, data, 0644); err != nil {
		return false, fmt.Errorf("write blob: %w", err)
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		_ = os.Remove(blobPath)
		return false, fmt.Errorf("begin tx: %w", err)
	}
	bounds := img.Bounds()
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO assets (id, media_type, filename, pixel_width, pixel_height, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		assetID, string(photos.MediaImage), filename, bounds.Dx(), bounds.Dy(), time.Now().UnixNano(),
	); err != nil {
		_ = tx.Rollback()
		_ = os.Remove(blobPath)
		return false, fmt.Errorf("insert asset: %w", err)
	}
	// The camera roll holds every asset implicitly, so only explicit
	// album membership is recorded.
	if photos.AlbumKind(kind) != photos.AlbumCameraRoll {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO album_assets (album_id, asset_id) VALUES (?, ?)",
			string(id), assetID,
		); err != nil {
			_ = tx.Rollback()
			_ = os.Remove(blobPath)
			return false, fmt.Errorf("link asset: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		_ = os.Remove(blobPath)
		return false, fmt.Errorf("commit asset: %w", err)
	}

	slog.Debug("stored image asset",
		"id", assetID,
		"album", id,
		"size", humanize.Bytes(uint64(len(data))),
	)
	return true, nil
}

// RequestImage implements photos.Library. The original bytes are read from
// blob storage, decoded, and scaled to the requested size per the content
// mode. Local materialization never needs network access, so the request's
// AllowNetwork flag is ignored.
func (s *Store) RequestImage(ctx context.Context, asset photos.Asset, req photos.ImageRequest) (image.Image, error) {
	data, err := os.ReadFile(filepath.Join(s.blobDir, asset.Filename))
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", asset.ID, err)
	}

	interp := interpolator(req.Quality)
	if req.ContentMode == photos.ContentModeFill {
		return imaging.ScaleFill(img, req.Size.Width, req.Size.Height, interp), nil
	}
	return imaging.ScaleFit(img, req.Size.Width, req.Size.Height, interp), nil
}

func interpolator(q photos.Quality) draw.Interpolator {
	if q == photos.QualityFast {
		return imaging.FastInterpolator
	}
	return imaging.HighInterpolator
}
