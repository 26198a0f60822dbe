package photos

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// Client provides stateless album, asset, and image operations over a
// media-library backend, with optional in-memory and persistent caching of
// materialized images.
type Client struct {
	library Library
	memory  ImageStore
	disk    ImageStore
}

// ImageStore is one cache tier for materialized images, keyed by asset and
// request parameters.
type ImageStore interface {
	// GetImage returns the cached image for key. A miss is an error.
	GetImage(ctx context.Context, key string) (image.Image, error)
	// StoreImage caches the image under key.
	StoreImage(ctx context.Context, key string, img image.Image) error
}

// ClientOpt is used for configuring the [Client].
type ClientOpt func(*Client)

// WithLibrary sets the media-library backend. Only one backend can be
// configured. If multiple are provided, the last is used.
func WithLibrary(lib Library) ClientOpt {
	return func(c *Client) {
		if lib == nil {
			return
		}
		c.library = lib
	}
}

// WithMemoryCache adds an in-memory cache tier for materialized images, if
// configured. Only one in-memory cache can be configured. If multiple are
// provided, the last is used.
func WithMemoryCache(conf MemoryCacheConfig) ClientOpt {
	return func(c *Client) {
		if !conf.UseMemoryCache {
			return
		}
		c.memory = newMemoryStore(conf)
	}
}

// WithImageStore adds a persistent cache tier for materialized images,
// checked after the in-memory tier and before the backend. Only one can be
// configured. If multiple are provided, the last is used.
func WithImageStore(store ImageStore) ClientOpt {
	return func(c *Client) {
		if store == nil {
			return
		}
		c.disk = store
	}
}

// NewClient initializes a new client with the provided options. See
// [WithLibrary], [WithMemoryCache], and [WithImageStore].
func NewClient(opts ...ClientOpt) *Client {
	client := &Client{
		library: notConfiguredLibrary{},
		memory:  noopStore{},
		disk:    noopStore{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// ClientDiagnostics holds the information from the call to [Diagnostics].
type ClientDiagnostics struct {
	LibraryConfigured     bool
	MemoryCacheConfigured bool
	ImageStoreConfigured  bool
	LibraryConnectedError error
}

// Diagnostics reports how the client is configured and, if the backend
// supports it, whether it is connected to its media store.
func (c *Client) Diagnostics() ClientDiagnostics {
	diagnostics := ClientDiagnostics{}
	_, notConfigured := c.library.(notConfiguredLibrary)
	diagnostics.LibraryConfigured = !notConfigured
	_, noopMemory := c.memory.(noopStore)
	diagnostics.MemoryCacheConfigured = !noopMemory
	_, noopDisk := c.disk.(noopStore)
	diagnostics.ImageStoreConfigured = !noopDisk
	if checker, ok := c.library.(ConnectionChecker); ok {
		diagnostics.LibraryConnectedError = checker.IsConnected()
	}
	return diagnostics
}

// imageKey generates the cache key for one materialization request. Requests
// that differ in size or scaling parameters cache independently.
func imageKey(id AssetID, req ImageRequest) string {
	return fmt.Sprintf("image-%s-%dx%d-%s-%s", id, req.Size.Width, req.Size.Height, req.ContentMode, req.Quality)
}

// noopStore provides a noop implementation for the cache tiers.
type noopStore struct{}

func (noopStore) GetImage(context.Context, string) (image.Image, error) {
	return nil, errors.New("noop")
}
func (noopStore) StoreImage(context.Context, string, image.Image) error { return errors.New("noop") }
