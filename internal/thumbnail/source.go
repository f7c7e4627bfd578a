package thumbnail

import (
	"fmt"
	"image"
	"os"

	"now-playing/internal/logging"

	// Source thumbnail decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// MaxSourceDimension bounds the longer side of a decoded thumbnail.
	// Larger sources are downscaled before compositing.
	MaxSourceDimension = 4096

	// MaxSourcePixels rejects sources whose header declares more pixels
	// than this (about 160 MB as NRGBA) without decoding them.
	MaxSourcePixels = 40_000_000
)

// openSource decodes the downloaded thumbnail, honoring EXIF orientation.
// Sources larger than MaxSourceDimension are fit within it.
func openSource(path string) (image.Image, error) {
	width, height, err := sourceDimensions(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read thumbnail header: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("thumbnail has no pixels (%dx%d)", width, height)
	}
	if width*height > MaxSourcePixels {
		return nil, fmt.Errorf("thumbnail too large: %dx%d", width, height)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode thumbnail: %w", err)
	}

	if width > MaxSourceDimension || height > MaxSourceDimension {
		logging.Debug("Constraining thumbnail %s from %dx%d", path, width, height)
		return imaging.Fit(img, MaxSourceDimension, MaxSourceDimension, imaging.Lanczos), nil
	}
	return img, nil
}

// sourceDimensions reads the image header without decoding pixels.
func sourceDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("failed to close %s: %v", path, err)
		}
	}()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
