// internal/pkg/imaging/compress.go
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"

	_ "image/png" // register PNG decoding
)

// Compress decodes an uploaded image, downscales it to maxWidth if it
// is wider, and re-encodes it as JPEG at the given quality. It is a
// pure function: callers that need a fallback keep the original bytes
// when an error comes back.
func Compress(data []byte, maxWidth, quality int) ([]byte, error) {
	if maxWidth <= 0 {
		return nil, fmt.Errorf("max width must be positive, got %d", maxWidth)
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("quality must be between 1 and 100, got %d", quality)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = downscale(img, maxWidth)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// downscale resizes to targetWidth preserving aspect ratio, using
// nearest-neighbor sampling. Good enough for preview-sized storefront
// images; the authoritative copy stays with the backend.
func downscale(src image.Image, targetWidth int) image.Image {
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	targetHeight := srcH * targetWidth / srcW
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	for y := 0; y < targetHeight; y++ {
		srcY := bounds.Min.Y + y*srcH/targetHeight
		for x := 0; x < targetWidth; x++ {
			srcX := bounds.Min.X + x*srcW/targetWidth
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}
	return dst
}

// DataURI encodes image bytes as a data URI for key-value storage,
// sniffing the media type from the content.
func DataURI(data []byte) string {
	mime := http.DetectContentType(data)
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}
