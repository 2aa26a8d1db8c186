// Package imaging bounds the storage footprint of employee photos.
// Every photo passes through Normalize before it reaches a repository.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"
)

const (
	// MaxDimension is the upper bound for either side of a stored photo.
	MaxDimension = 400
	// Quality is the JPEG quality factor used on re-encode.
	Quality = 70
)

var ErrInvalidImage = errors.New("imaging: invalid image data")

// Normalize decodes a photo given as a data URL (or bare base64), scales
// it so neither dimension exceeds MaxDimension while preserving aspect
// ratio, and re-encodes it as JPEG. The result is a data URL ready for
// storage. Images already within bounds are not upscaled but are still
// re-encoded, so stored photos are always JPEG.
func Normalize(dataURL string) (string, error) {
	raw, err := decodePayload(dataURL)
	if err != nil {
		return "", err
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	w, h := targetSize(src.Bounds().Dx(), src.Bounds().Dy())
	out := src
	if w != src.Bounds().Dx() || h != src.Bounds().Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: Quality}); err != nil {
		return "", fmt.Errorf("encode photo: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// targetSize scales (w, h) down so the larger side is at most
// MaxDimension. Small images keep their size.
func targetSize(w, h int) (int, int) {
	if w >= h {
		if w > MaxDimension {
			h = h * MaxDimension / w
			w = MaxDimension
		}
	} else {
		if h > MaxDimension {
			w = w * MaxDimension / h
			h = MaxDimension
		}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func decodePayload(dataURL string) ([]byte, error) {
	payload := dataURL
	if strings.HasPrefix(dataURL, "data:") {
		i := strings.IndexByte(dataURL, ',')
		if i < 0 {
			return nil, fmt.Errorf("%w: malformed data URL", ErrInvalidImage)
		}
		payload = dataURL[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return raw, nil
}
