// Package imageproc produces downscaled webp derivatives of raster images.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ErrProcessing wraps any decode, resample, or encode failure.
var ErrProcessing = errors.New("image processing failed")

const defaultQuality = 80

// Processor resizes raster images into webp derivatives. Re-encoding strips
// metadata; EXIF orientation is applied before resampling.
type Processor struct {
	quality float32
}

// New returns a Processor encoding webp at the default quality.
func New() *Processor {
	return &Processor{quality: defaultQuality}
}

// Resize decodes data, normalizes orientation, scales the image down to fit
// within maxWidth x maxHeight, and re-encodes it as webp. A non-positive
// bound leaves that axis limited only by the source. The source dimensions
// are never exceeded, and the original bytes come back unchanged unless the
// derivative is strictly smaller.
func (p *Processor) Resize(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if maxWidth <= 0 && maxHeight <= 0 {
		return nil, fmt.Errorf("%w: no target dimensions", ErrProcessing)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrProcessing, err)
	}

	bounds := src.Bounds()
	targetW, targetH := maxWidth, maxHeight
	if targetW <= 0 || targetW > bounds.Dx() {
		targetW = bounds.Dx()
	}
	if targetH <= 0 || targetH > bounds.Dy() {
		targetH = bounds.Dy()
	}

	resized := imaging.Fit(src, targetW, targetH, imaging.Lanczos)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("%w: encode webp: %w", ErrProcessing, err)
	}

	if buf.Len() >= len(data) {
		return data, nil
	}
	return buf.Bytes(), nil
}
