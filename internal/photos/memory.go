package photos

import (
	"context"
	"errors"
	"image"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
)

// memoryStore is an in-memory LRU [ImageStore] for materialized images.
type memoryStore struct {
	*lru.Cache[string, image.Image]
}

// GetImage attempts to retrieve the image from the cache. An error is
// returned if the key is not present.
func (m memoryStore) GetImage(_ context.Context, key string) (image.Image, error) {
	img, ok := m.Get(key)
	if !ok {
		return nil, errors.New("not found")
	}
	return img, nil
}

// StoreImage writes the image to the cache, evicting the least recently used
// entry when full.
func (m memoryStore) StoreImage(_ context.Context, key string, img image.Image) error {
	m.Add(key, img)
	return nil
}

// newMemoryStore initializes a [memoryStore] sized by the configured byte
// budget divided by an average decoded image size.
func newMemoryStore(conf MemoryCacheConfig) memoryStore {
	avgImageSize, _ := humanize.ParseBytes("8 MB")
	cacheSize := 1
	if configuredSize := uint64(conf.MemoryCacheSize) / avgImageSize; configuredSize > 0 {
		cacheSize = int(configuredSize)
	}
	l, _ := lru.New[string, image.Image](cacheSize)
	return memoryStore{l}
}
