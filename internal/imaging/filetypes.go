package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/tiff"
)

const (
	MIMETypeJPEG = "image/jpeg"
	MIMETypePNG  = "image/png"
	MIMETypeTIFF = "image/tiff"
)

// ErrUnsupportedMIMEType is returned when trying to process an unsupported
// image format.
var ErrUnsupportedMIMEType = errors.New("unsupported MIME type")

var (
	imageHeaders = map[string][]string{
		MIMETypeJPEG: {"\xFF\xD8"},
		MIMETypePNG:  {"\x89\x50\x4E\x47\x0D\x0A\x1A\x0A"},
		MIMETypeTIFF: {"\x49\x49\x2A\x00", "\x4D\x4D\x00\x2A"},
	}

	imageDecoders = map[string]func(io.Reader) (image.Image, error){
		MIMETypeJPEG: jpeg.Decode,
		MIMETypeTIFF: tiff.Decode,
		MIMETypePNG:  png.Decode,
	}

	imageEncoders = map[string]func(io.Writer, image.Image) error{
		MIMETypeJPEG: func(w io.Writer, i image.Image) error { return jpeg.Encode(w, i, nil) },
		MIMETypeTIFF: func(w io.Writer, i image.Image) error { return tiff.Encode(w, i, nil) },
		MIMETypePNG:  png.Encode,
	}
)

// SniffMIMEType inspects the leading bytes of data and reports the image MIME
// type. Returns ErrUnsupportedMIMEType if the header matches no known format.
func SniffMIMEType(data []byte) (string, error) {
	for mimeType, headers := range imageHeaders {
		for _, header := range headers {
			if bytes.HasPrefix(data, []byte(header)) {
				return mimeType, nil
			}
		}
	}
	return "", ErrUnsupportedMIMEType
}

// Decode sniffs the format of data and decodes it into an image. The detected
// MIME type is returned alongside the image.
func Decode(data []byte) (image.Image, string, error) {
	mimeType, err := SniffMIMEType(data)
	if err != nil {
		return nil, "", err
	}
	img, err := imageDecoders[mimeType](bytes.NewReader(data))
	if err != nil {
		return nil, mimeType, fmt.Errorf("decode image: %w", err)
	}
	return img, mimeType, nil
}

// Encode encodes img into the binary representation for the given MIME type.
// Returns ErrUnsupportedMIMEType if there is no encoder for mimeType.
func Encode(img image.Image, mimeType string) ([]byte, error) {
	encoder, ok := imageEncoders[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMIMEType, mimeType)
	}
	var buf bytes.Buffer
	if err := encoder(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
