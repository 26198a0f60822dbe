package photos

// ContentMode controls how a decoded image is scaled into the target size.
type ContentMode string

const (
	// ContentModeFit scales the image to fit entirely within the target
	// size, preserving aspect ratio.
	ContentModeFit ContentMode = "fit"
	// ContentModeFill scales the image to cover the target size, cropping
	// the overflow.
	ContentModeFill ContentMode = "fill"
)

// Quality trades decode fidelity for speed.
type Quality string

const (
	QualityFast Quality = "fast"
	QualityHigh Quality = "high"
)

// FetchOptions describes the desired ordering, count, and target size of an
// asset fetch. The zero value fetches every asset, oldest first, at native
// pixel dimensions.
type FetchOptions struct {
	// NewestFirst orders assets by creation date, newest first.
	NewestFirst bool
	// Count limits the number of returned assets. 0 means unbounded.
	Count int
	// Size is the target decode size. The zero value means each asset's
	// native pixel dimensions.
	Size Size
}

// ImageOptions controls how fetched assets are materialized into images.
type ImageOptions struct {
	ContentMode ContentMode
	Quality     Quality
	// AllowNetwork permits the backend to go to the network for image
	// data. Backends that cannot materialize without it fail the request.
	AllowNetwork bool
	// Synchronous collects every decoded image before delivering a single
	// collection result. When false, each decoded image is delivered
	// individually as soon as it is ready, in no particular order.
	Synchronous bool
}

func (o ImageOptions) contentMode() ContentMode {
	if o.ContentMode == "" {
		return ContentModeFit
	}
	return o.ContentMode
}

func (o ImageOptions) quality() Quality {
	if o.Quality == "" {
		return QualityHigh
	}
	return o.Quality
}
