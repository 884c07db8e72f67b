package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{200, 30, 30, 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(w, h), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func TestProcessKeepsSmallImages(t *testing.T) {
	res, err := Process(bytes.NewReader(encodePNG(t, 64, 32)), 0)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", res.MIME)
	assert.Equal(t, 64, res.Width)
	assert.Equal(t, 32, res.Height)
}

func TestProcessDownscalesPreservingAspect(t *testing.T) {
	res, err := Process(bytes.NewReader(encodeJPEG(t, 3200, 1600)), 0)
	require.NoError(t, err)
	assert.Equal(t, MaxDimension, res.Width)
	assert.Equal(t, MaxDimension/2, res.Height)

	img, _, err := image.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, MaxDimension, img.Bounds().Dx())
}

func TestProcessRejectsOtherFormats(t *testing.T) {
	_, err := Process(bytes.NewReader([]byte("GIF89a not really an image")), 0)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Process(bytes.NewReader([]byte("<html></html>")), 0)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestProcessEnforcesSizeLimit(t *testing.T) {
	data := encodePNG(t, 100, 100)
	_, err := Process(bytes.NewReader(data), int64(len(data)-1))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Process(bytes.NewReader(data), int64(len(data)))
	assert.NoError(t, err)
}
