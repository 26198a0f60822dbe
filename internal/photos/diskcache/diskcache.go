// Package diskcache implements a persistent photos.ImageStore on BoltDB so
// materialized images survive restarts.
package diskcache

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"photolib/internal/imaging"
	"photolib/internal/photos"
)

var bucketImages = []byte("images")

// ErrNotFound is returned by Get operations for keys that are not cached.
var ErrNotFound = errors.New("not found")

// Cache is a [photos.ImageStore] backed by a single BoltDB file. Images are
// stored PNG-encoded.
type Cache struct {
	db *bolt.DB
}

var _ photos.ImageStore = (*Cache)(nil)

// Open opens (or creates) the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketImages)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// GetImage implements photos.ImageStore. Returns ErrNotFound on a miss.
func (c *Cache) GetImage(_ context.Context, key string) (image.Image, error) {
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketImages).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// The value is only valid inside the transaction.
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode cached image: %w", err)
	}
	return img, nil
}

// StoreImage implements photos.ImageStore.
func (c *Cache) StoreImage(_ context.Context, key string, img image.Image) error {
	data, err := imaging.Encode(img, imaging.MIMETypePNG)
	if err != nil {
		return fmt.Errorf("encode image: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketImages).Put([]byte(key), data)
	})
}
