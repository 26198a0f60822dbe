// Package localstore implements a photos.Library backed by a SQLite index
// and filesystem blob storage for the original image bytes.
package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"photolib/internal/photos"
)

// Config holds configuration values for the local library store.
//
// It is organized to take advantage of TOML parsing, however this package
// does not handle parsing and has no expectation on how it will be
// initialized.
type Config struct {
	// StoragePath is the root directory for the library. The SQLite index
	// lives at StoragePath/library.db and original image bytes under
	// StoragePath/blobs.
	StoragePath string
}

// cameraRollTitle is the display title of the system camera-roll album.
const cameraRollTitle = "Recents"

// Store implements [photos.Library] on local storage. Writes are serialized
// with a mutex since the sqlite driver does not support concurrent writers.
type Store struct {
	db        *sql.DB
	blobDir   string
	writeLock *sync.Mutex
}

var _ photos.Library = (*Store)(nil)

// Open initializes the local store under conf.StoragePath, creating the
// directory layout, the schema, and the camera-roll album if needed.
func Open(conf Config) (*Store, error) {
	blobDir := filepath.Join(conf.StoragePath, "blobs")
	if err := os.MkdirAll(blobDir, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(conf.StoragePath, "library.db"))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	store := &Store{
		db:        db,
		blobDir:   blobDir,
		writeLock: new(sync.Mutex),
	}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize db: %w", err)
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// IsConnected implements photos.ConnectionChecker.
func (s *Store) IsConnected() error {
	return s.db.Ping()
}

func (s *Store) initialize() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS albums (
			id         TEXT    PRIMARY KEY,
			title      TEXT    NOT NULL,
			kind       TEXT    NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS assets (
			id           TEXT    PRIMARY KEY,
			media_type   TEXT    NOT NULL,
			filename     TEXT    NOT NULL,
			pixel_width  INTEGER NOT NULL,
			pixel_height INTEGER NOT NULL,
			created_at   INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS album_assets (
			album_id TEXT NOT NULL REFERENCES albums(id),
			asset_id TEXT NOT NULL REFERENCES assets(id),
			PRIMARY KEY (album_id, asset_id)
		);
	`); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return s.ensureCameraRoll()
}

// ensureCameraRoll creates the camera-roll smart album on first open. Every
// asset in the library is implicitly a member of it.
func (s *Store) ensureCameraRoll() error {
	var n int
	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM albums WHERE kind = ?", string(photos.AlbumCameraRoll),
	).Scan(&n); err != nil {
		return fmt.Errorf("count camera roll: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err := s.db.Exec(
		"INSERT INTO albums (id, title, kind, created_at) VALUES (?, ?, ?, ?)",
		uuid.NewString(), cameraRollTitle, string(photos.AlbumCameraRoll), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert camera roll: %w", err)
	}
	return nil
}

// Albums implements photos.Library.
func (s *Store) Albums(ctx context.Context, q photos.AlbumQuery) ([]photos.Album, error) {
	query := `SELECT id, title, kind, created_at FROM albums`
	var (
		conditions []string
		args       []any
	)
	if len(q.Kinds) > 0 {
		placeholders := make([]string, len(q.Kinds))
		for i, kind := range q.Kinds {
			placeholders[i] = "?"
			args = append(args, string(kind))
		}
		conditions = append(conditions, fmt.Sprintf("kind IN (%s)", strings.Join(placeholders, ", ")))
	}
	if q.Title != "" {
		conditions = append(conditions, "title = ?")
		args = append(args, q.Title)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query albums: %w", err)
	}
	defer rows.Close()

	albums := []photos.Album{}
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan albums: %w", err)
	}
	for i := range albums {
		count, err := s.assetCount(ctx, albums[i])
		if err != nil {
			return nil, err
		}
		albums[i].AssetCount = count
	}
	return albums, nil
}

func scanAlbum(rows *sql.Rows) (photos.Album, error) {
	var (
		album     photos.Album
		createdAt int64
	)
	if err := rows.Scan(&album.ID, &album.Title, &album.Kind, &createdAt); err != nil {
		return photos.Album{}, fmt.Errorf("scan album: %w", err)
	}
	album.CreatedAt = time.Unix(0, createdAt)
	return album, nil
}

func (s *Store) assetCount(ctx context.Context, album photos.Album) (int, error) {
	query := "SELECT COUNT(*) FROM album_assets WHERE album_id = ?"
	args := []any{string(album.ID)}
	if album.Kind == photos.AlbumCameraRoll {
		query, args = "SELECT COUNT(*) FROM assets", nil
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return n, nil
}

// CreateAlbum implements photos.Library. The album ID is allocated as a
// placeholder before the write transaction and becomes the real handle only
// once the transaction commits.
func (s *Store) CreateAlbum(ctx context.Context, title string) (*photos.Album, error) {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	placeholder := uuid.NewString()
	createdAt := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO albums (id, title, kind, created_at) VALUES (?, ?, ?, ?)",
		placeholder, title, string(photos.AlbumUser), createdAt.UnixNano(),
	); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("insert album: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit album: %w", err)
	}

	slog.Debug("created album", "id", placeholder, "title", title)
	return &photos.Album{
		ID:        photos.AlbumID(placeholder),
		Title:     title,
		Kind:      photos.AlbumUser,
		CreatedAt: createdAt,
	}, nil
}

// Assets implements photos.Library. An unknown album yields an empty slice,
// indistinguishable from an empty album.
func (s *Store) Assets(ctx context.Context, id photos.AlbumID, q photos.AssetQuery) ([]photos.Asset, error) {
	var kind string
	err := s.db.QueryRowContext(ctx, "SELECT kind FROM albums WHERE id = ?", string(id)).Scan(&kind)
	if err == sql.ErrNoRows {
		return []photos.Asset{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("query album: %w", err)
	}

	query := `SELECT a.id, a.media_type, a.filename, a.pixel_width, a.pixel_height, a.created_at FROM assets a`
	var args []any
	if photos.AlbumKind(kind) != photos.AlbumCameraRoll {
		query += ` JOIN album_assets aa ON aa.asset_id = a.id AND aa.album_id = ?`
		args = append(args, string(id))
	}
	if q.MediaType != "" {
		query += ` WHERE a.media_type = ?`
		args = append(args, string(q.MediaType))
	}
	if q.NewestFirst {
		query += ` ORDER BY a.created_at DESC`
	} else {
		query += ` ORDER BY a.created_at ASC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	assets := []photos.Asset{}
	for rows.Next() {
		var (
			asset     photos.Asset
			createdAt int64
		)
		if err := rows.Scan(&asset.ID, &asset.MediaType, &asset.Filename,
			&asset.PixelWidth, &asset.PixelHeight, &createdAt); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		asset.CreatedAt = time.Unix(0, createdAt)
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan assets: %w", err)
	}
	return assets, nil
}
