package photos

import (
	"context"
	"image"
	"log/slog"
	"sync"
)

// Assets lists the assets of album per opts. The returned channel delivers
// exactly one collection result holding the ordered, possibly truncated asset
// list, or one failure result if retrieval cannot proceed, and is then
// closed. A Count larger than the album yields all assets; 0 means unbounded.
//
// The work runs on a background goroutine; the call never blocks. Once
// issued, a fetch runs to completion or failure and cannot be aborted.
func (c *Client) Assets(ctx context.Context, album Album, opts FetchOptions) <-chan FetchResult[Asset] {
	results := make(chan FetchResult[Asset], 1)
	go func() {
		defer close(results)
		assets, err := c.fetchAssets(ctx, album, opts, "")
		if err != nil {
			slog.Debug("failed to fetch assets", "album", album.Title, "id", album.ID, "error", err)
			results <- FailureResult[Asset]()
			return
		}
		results <- CollectionResult(assets)
	}()
	return results
}

// Images materializes the image assets of album into decoded images. The
// asset list is obtained as in [Client.Assets]; on fetch failure exactly one
// failure result is delivered and no decode requests are issued.
//
// With synchronous delivery (imgOpts.Synchronous) the channel delivers
// exactly one collection result once every decode has completed; its length
// is the number of decodes that succeeded. Otherwise each decoded image is
// delivered as an individual single result as soon as it is ready: order is
// not guaranteed to match the asset list, failed decodes are silently
// dropped, and a single result signals nothing about completion. The channel
// is closed once the operation has finished producing.
//
// Every asset's decode is requested immediately on its own goroutine, with no
// throttling or backpressure.
func (c *Client) Images(ctx context.Context, album Album, imgOpts ImageOptions, opts FetchOptions) <-chan FetchResult[DecodedImage] {
	results := make(chan FetchResult[DecodedImage], 1)
	go func() {
		defer close(results)
		assets, err := c.fetchAssets(ctx, album, opts, MediaImage)
		if err != nil {
			slog.Debug("failed to fetch assets for images", "album", album.Title, "id", album.ID, "error", err)
			results <- FailureResult[DecodedImage]()
			return
		}
		if imgOpts.Synchronous {
			results <- CollectionResult(c.collectImages(ctx, assets, imgOpts, opts))
			return
		}
		c.streamImages(ctx, assets, imgOpts, opts, results)
	}()
	return results
}

// fetchAssets queries the backend for album's assets per opts and truncates
// the sorted list to opts.Count.
func (c *Client) fetchAssets(ctx context.Context, album Album, opts FetchOptions, mediaType MediaType) ([]Asset, error) {
	assets, err := c.library.Assets(ctx, album.ID, AssetQuery{
		NewestFirst: opts.NewestFirst,
		MediaType:   mediaType,
	})
	if err != nil {
		return nil, err
	}
	if opts.Count > 0 && opts.Count < len(assets) {
		assets = assets[:opts.Count]
	}
	return assets, nil
}

// collectImages decodes every asset concurrently and returns the successful
// results in asset-list order.
func (c *Client) collectImages(ctx context.Context, assets []Asset, imgOpts ImageOptions, opts FetchOptions) []DecodedImage {
	decoded := make([]*DecodedImage, len(assets))
	var wg sync.WaitGroup
	for i, asset := range assets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := c.requestImage(ctx, asset, imageRequest(asset, imgOpts, opts))
			if err != nil {
				// Failed decodes are dropped, not reported.
				slog.Debug("dropping failed decode", "id", asset.ID, "error", err)
				return
			}
			decoded[i] = &DecodedImage{Asset: asset, Image: img}
		}()
	}
	wg.Wait()

	images := make([]DecodedImage, 0, len(assets))
	for _, d := range decoded {
		if d != nil {
			images = append(images, *d)
		}
	}
	return images
}

// streamImages decodes every asset concurrently, delivering each success as
// its own single result in completion order.
func (c *Client) streamImages(ctx context.Context, assets []Asset, imgOpts ImageOptions, opts FetchOptions, results chan<- FetchResult[DecodedImage]) {
	var wg sync.WaitGroup
	for _, asset := range assets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := c.requestImage(ctx, asset, imageRequest(asset, imgOpts, opts))
			if err != nil {
				slog.Debug("dropping failed decode", "id", asset.ID, "error", err)
				return
			}
			results <- SingleResult(DecodedImage{Asset: asset, Image: img})
		}()
	}
	wg.Wait()
}

// imageRequest builds the backend request for one asset, falling back to the
// asset's native pixel dimensions when no target size is set.
func imageRequest(asset Asset, imgOpts ImageOptions, opts FetchOptions) ImageRequest {
	size := opts.Size
	if size.IsZero() {
		size = Size{Width: asset.PixelWidth, Height: asset.PixelHeight}
	}
	return ImageRequest{
		Size:         size,
		ContentMode:  imgOpts.contentMode(),
		Quality:      imgOpts.quality(),
		AllowNetwork: imgOpts.AllowNetwork,
	}
}

// requestImage materializes one asset. It first checks the in-memory cache,
// then the persistent store, then the backend. On success, the earlier tiers
// are updated.
func (c *Client) requestImage(ctx context.Context, asset Asset, req ImageRequest) (image.Image, error) {
	key := imageKey(asset.ID, req)
	log := slog.With("id", asset.ID, "name", asset.Filename)
	{
		img, err := c.memory.GetImage(ctx, key)
		if err == nil {
			log.Debug("found image in memory cache")
			return img, nil
		}
		log.Debug("failed to get image from memory cache", "error", err)
	}
	{
		img, err := c.disk.GetImage(ctx, key)
		if err == nil {
			log.Debug("found image in persistent store")
			if err := c.memory.StoreImage(ctx, key, img); err != nil {
				log.Debug("failed to store image in memory cache", "error", err)
			}
			return img, nil
		}
		log.Debug("failed to get image from persistent store", "error", err)
	}
	log.Debug("requesting image from library")
	img, err := c.library.RequestImage(ctx, asset, req)
	if err != nil {
		log.Debug("failed to get image from library", "error", err)
		return nil, err
	}
	log.Info("materialized image from library",
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
	)
	if err := c.memory.StoreImage(ctx, key, img); err != nil {
		log.Debug("failed to store image in memory cache", "error", err)
	}
	if err := c.disk.StoreImage(ctx, key, img); err != nil {
		log.Debug("failed to store image in persistent store", "error", err)
	}
	return img, nil
}
