package doc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// NewImageRef builds an ImageRef carrying the image inline as a PNG data
// URI. The image is always re-encoded as PNG regardless of its source
// format.
func NewImageRef(img image.Image, dpi int) (*ImageRef, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	bounds := img.Bounds()
	return &ImageRef{
		MimeType: "image/png",
		DPI:      dpi,
		Size: Size{
			Width:  float64(bounds.Dx()),
			Height: float64(bounds.Dy()),
		},
		URI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// ImageRefFromBytes decodes raw image bytes (PNG, JPEG, GIF, BMP, TIFF or
// WebP) and builds an inline ImageRef from the result.
func ImageRefFromBytes(data []byte, dpi int) (*ImageRef, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return NewImageRef(img, dpi)
}

// Image decodes the referenced image. Only inline data URIs can be decoded;
// external URIs return an error.
func (r *ImageRef) Image() (image.Image, error) {
	const marker = ";base64,"
	if !strings.HasPrefix(r.URI, "data:") {
		return nil, fmt.Errorf("image URI %q is not an inline data URI", r.URI)
	}
	at := strings.Index(r.URI, marker)
	if at < 0 {
		return nil, fmt.Errorf("image URI is not base64 encoded")
	}
	raw, err := base64.StdEncoding.DecodeString(r.URI[at+len(marker):])
	if err != nil {
		return nil, fmt.Errorf("decoding image data URI: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}
