package service

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const (
	// Base product images are stored as JPEG no larger than this on either side
	maxBaseImageDim  = 2000
	baseImageQuality = 85
)

// OptimizeImage re-encodes an image as JPEG, shrinking it to fit maxDim x maxDim
// while keeping the aspect ratio. Smaller images are never enlarged.
func OptimizeImage(imageData []byte, maxDim, quality int) ([]byte, image.Point, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > maxDim || b.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, image.Point{}, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), img.Bounds().Size(), nil
}
