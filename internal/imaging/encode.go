package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// ImageResult is a PNG image returned to MCP clients as base64.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG, optionally rescaled.
//
// A scale of 0 or 1 keeps the original size. Masks and label maps are
// resampled with nearest neighbor so region edges stay crisp and label
// values are never blended.
func EncodePNG(img image.Image, scale float64) (*ImageResult, error) {
	if scale < 0 {
		return nil, fmt.Errorf("invalid scale %v: must be > 0", scale)
	}
	if scale != 0 && scale != 1.0 {
		b := img.Bounds()
		w := int(float64(b.Dx()) * scale)
		h := int(float64(b.Dy()) * scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %v shrinks %dx%d image to nothing", scale, b.Dx(), b.Dy())
		}
		img = imaging.Resize(img, w, h, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := img.Bounds()
	return &ImageResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
