package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "image/jpeg"
)

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeResult(t *testing.T, dataURL string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(dataURL, "data:image/jpeg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	img, format, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	return img
}

func TestNormalizeBoundsDimensions(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{name: "wide image scaled to max width", w: 800, h: 600, wantW: 400, wantH: 300},
		{name: "tall image scaled to max height", w: 600, h: 800, wantW: 300, wantH: 400},
		{name: "small image untouched", w: 100, h: 50, wantW: 100, wantH: 50},
		{name: "exactly at bound untouched", w: 400, h: 400, wantW: 400, wantH: 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Normalize(pngDataURL(t, tt.w, tt.h))
			require.NoError(t, err)
			img := decodeResult(t, out)
			assert.Equal(t, tt.wantW, img.Bounds().Dx())
			assert.Equal(t, tt.wantH, img.Bounds().Dy())
		})
	}
}

func TestNormalizeAcceptsBareBase64(t *testing.T) {
	dataURL := pngDataURL(t, 10, 10)
	bare := strings.TrimPrefix(dataURL, "data:image/png;base64,")

	out, err := Normalize(bare)
	require.NoError(t, err)
	img := decodeResult(t, out)
	assert.Equal(t, 10, img.Bounds().Dx())
}

func TestNormalizeRejectsJunk(t *testing.T) {
	for _, input := range []string{
		"",
		"not base64 at all!!!",
		"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image")),
		"data:image/png",
	} {
		_, err := Normalize(input)
		assert.ErrorIs(t, err, ErrInvalidImage, "input %q", input)
	}
}
