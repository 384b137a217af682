// internal/pkg/imaging/compress_test.go
package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompressDownscalesWideImages(t *testing.T) {
	data := pngBytes(t, 1600, 900)

	out, err := Compress(data, 800, 80)
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 800, decoded.Bounds().Dx())
	// Aspect ratio preserved.
	assert.Equal(t, 450, decoded.Bounds().Dy())
}

func TestCompressKeepsNarrowImagesAtSize(t *testing.T) {
	data := pngBytes(t, 400, 300)

	out, err := Compress(data, 800, 80)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
	assert.Equal(t, 300, decoded.Bounds().Dy())
}

func TestCompressAcceptsJPEGInput(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	out, err := Compress(buf.Bytes(), 500, 70)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 500, decoded.Bounds().Dx())
}

func TestCompressRejectsGarbage(t *testing.T) {
	_, err := Compress([]byte("not an image"), 800, 80)
	assert.Error(t, err)
}

func TestCompressValidatesBounds(t *testing.T) {
	data := pngBytes(t, 10, 10)

	_, err := Compress(data, 0, 80)
	assert.Error(t, err)

	_, err = Compress(data, 800, 0)
	assert.Error(t, err)

	_, err = Compress(data, 800, 101)
	assert.Error(t, err)
}

func TestDataURI(t *testing.T) {
	data := pngBytes(t, 10, 10)

	uri := DataURI(data)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"), uri)

	compressed, err := Compress(data, 10, 80)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(DataURI(compressed), "data:image/jpeg;base64,"))
}
