package store

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/philipparndt/roomsnap/pkg/document"
	"golang.org/x/image/draw"
)

// SaveImage stores a frame image for an entity of a capture and returns
// the filename to record on the entity. Images larger than the configured
// maximum dimension are downscaled, keeping the aspect ratio.
func (s *Store) SaveImage(img image.Image, captureID, entityID string) (string, error) {
	if err := validID(captureID); err != nil {
		return "", err
	}
	if err := validID(entityID); err != nil {
		return "", err
	}

	dir := filepath.Join(s.imageDir, captureID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: failed to create image directory: %w", document.ErrStorage, err)
	}

	filename := entityID + ".png"
	tmp, err := os.CreateTemp(dir, filename+".*")
	if err != nil {
		return "", fmt.Errorf("%w: failed to create image file: %w", document.ErrStorage, err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, Downscale(img, s.maxDim)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: failed to encode image: %w", document.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to write image: %w", document.ErrStorage, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("%w: failed to store image: %w", document.ErrStorage, err)
	}
	return filename, nil
}

// LoadImage reads a stored frame image
func (s *Store) LoadImage(captureID, filename string) (image.Image, error) {
	if err := validID(captureID); err != nil {
		return nil, err
	}
	if err := validID(filename); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.imageDir, captureID, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: image %s/%s", document.ErrNotFound, captureID, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image: %w", document.ErrStorage, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image %s: %w", document.ErrStorage, filename, err)
	}
	return img, nil
}

// Downscale returns img scaled so its longer side is at most maxDim.
// Smaller images and a non-positive maxDim return img unchanged.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	nw, nh := maxDim, maxDim
	if w >= h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
