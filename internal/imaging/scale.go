package imaging

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolators by decode quality. Fast favors throughput, High favors
// output fidelity.
var (
	FastInterpolator draw.Interpolator = draw.ApproxBiLinear
	HighInterpolator draw.Interpolator = draw.CatmullRom
)

// ScaleFit scales img to the largest size that fits entirely within a
// width x height box while preserving aspect ratio. A non-positive dimension
// returns the image unscaled.
func ScaleFit(img image.Image, width, height int, interp draw.Interpolator) image.Image {
	if width <= 0 || height <= 0 {
		return img
	}
	srcW, srcH := img.Bounds().Dx(), img.Bounds().Dy()
	if srcW == width && srcH == height {
		return img
	}
	ratio := min(float64(width)/float64(srcW), float64(height)/float64(srcH))
	dstW, dstH := max(int(float64(srcW)*ratio), 1), max(int(float64(srcH)*ratio), 1)

	bitmap := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	interp.Scale(bitmap, bitmap.Bounds(), img, img.Bounds(), draw.Over, nil)
	return bitmap
}

// ScaleFill scales img so the width x height box is completely covered,
// cropping the overflow, preserving aspect ratio. A non-positive dimension
// returns the image unscaled.
func ScaleFill(img image.Image, width, height int, interp draw.Interpolator) image.Image {
	if width <= 0 || height <= 0 {
		return img
	}
	srcW, srcH := img.Bounds().Dx(), img.Bounds().Dy()
	if srcW == width && srcH == height {
		return img
	}
	ratio := max(float64(width)/float64(srcW), float64(height)/float64(srcH))
	scaledW, scaledH := max(int(float64(srcW)*ratio), 1), max(int(float64(srcH)*ratio), 1)

	// Scale up to cover the box, then center-crop.
	offsetX, offsetY := (scaledW-width)/2, (scaledH-height)/2
	bitmap := image.NewRGBA(image.Rect(0, 0, width, height))
	dstRect := image.Rect(-offsetX, -offsetY, scaledW-offsetX, scaledH-offsetY)
	interp.Scale(bitmap, dstRect, img, img.Bounds(), draw.Over, nil)
	return bitmap
}
